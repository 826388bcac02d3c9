package masker

import (
	"strings"

	"datamask/internal/generators"
	"datamask/internal/model"
	"datamask/internal/pattern"
)

// Distinct-value count below which a free-text column is treated as a
// closed vocabulary and masked by a per-value mapping.
const vocabularyLimit = 20

// inferSampleSize bounds how many values feed the corrective re-check of
// a single column's type.
const inferSampleSize = 25

// reinferTypes re-checks loosely typed columns against their actual
// values. Upstream type assignment leans on column names, which misfires
// on columns like "created" holding timestamps or "zip" holding dates;
// here the values get the final say. Returns a corrected copy, the
// input slice is not modified.
func reinferTypes(rows []model.Row, columns []model.Column) []model.Column {
	out := make([]model.Column, len(columns))
	copy(out, columns)

	for i := range out {
		col := &out[i]
		if col.Skip {
			continue
		}
		switch col.DataType {
		case model.TypePostalCode, model.TypeUnknown, model.TypeString, model.TypeInt:
		default:
			continue
		}

		samples := sampleColumn(rows, col.Name, inferSampleSize)
		if len(samples) == 0 {
			continue
		}
		if t, ok := inferTemporalType(col.Name, samples); ok {
			col.DataType = t
		}
	}
	return out
}

// inferTemporalType reports the date-family type matching the samples,
// requiring every sample to parse. Birth-related column names promote a
// plain date to date-of-birth.
func inferTemporalType(name string, samples []string) (model.DataType, bool) {
	dates, dateTimes := 0, 0
	for _, s := range samples {
		switch {
		case generators.LooksLikeDateTime(s):
			dateTimes++
		case generators.LooksLikeDate(s):
			dates++
		default:
			return "", false
		}
	}
	if dateTimes > 0 && dates == 0 {
		return model.TypeDateTime, true
	}
	if dates > 0 && dateTimes == 0 {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "birth") || strings.Contains(lower, "dob") {
			return model.TypeDateOfBirth, true
		}
		return model.TypeDate, true
	}
	return "", false
}

// sampleColumn collects up to limit non-blank values of one column.
func sampleColumn(rows []model.Row, name string, limit int) []string {
	samples := make([]string, 0, limit)
	for _, row := range rows {
		v := strings.TrimSpace(row[name])
		if v == "" {
			continue
		}
		samples = append(samples, v)
		if len(samples) == limit {
			break
		}
	}
	return samples
}

// columnState is the per-column analysis computed once before the row
// loop.
type columnState struct {
	analysis *pattern.Analysis

	// constantReplacement is the single substitute applied to every row
	// of a constant column, generated once so the masked column stays as
	// uniform as the original.
	constantReplacement string

	// vocabulary holds the original-to-masked mapping for closed
	// vocabulary columns; nil when the column is free text. Populated
	// lazily during the row loop so all rows sharing a value share its
	// replacement.
	vocabulary map[string]string
}

// analyzesPatterns reports whether full pattern analysis applies to a
// type. Structured types (cards, dates, emails) have their own
// generators; constant and sequence detection only helps free-form
// columns.
func analyzesPatterns(t model.DataType) bool {
	switch t {
	case model.TypeString, model.TypeText, model.TypeUnknown, model.TypeSequential:
		return true
	}
	return false
}

// analyzesConstantOnly reports whether a type gets constant detection
// but no sequence detection: a numeric column that never varies stays
// uniform after masking, while prefix sequences make no sense for it.
func analyzesConstantOnly(t model.DataType) bool {
	return t == model.TypeInt || t == model.TypeFloat
}

// usesVocabulary reports whether a column type is eligible for
// closed-vocabulary masking.
func usesVocabulary(t model.DataType) bool {
	return t == model.TypeString || t == model.TypeUnknown
}

// analyzeColumns runs pattern analysis over the eligible columns and
// flags closed vocabularies.
func analyzeColumns(rows []model.Row, columns []model.Column, gen *generators.Masker) map[string]*columnState {
	states := make(map[string]*columnState, len(columns))
	for _, col := range columns {
		if col.Skip || (!analyzesPatterns(col.DataType) && !analyzesConstantOnly(col.DataType)) {
			continue
		}

		distinct := make(map[string]struct{})
		values := make([]string, 0, len(rows))
		for _, row := range rows {
			v := row[col.Name]
			if strings.TrimSpace(v) == "" {
				continue
			}
			values = append(values, v)
			if len(distinct) <= vocabularyLimit {
				distinct[strings.TrimSpace(v)] = struct{}{}
			}
		}
		if len(values) == 0 {
			continue
		}

		state := &columnState{}
		a := pattern.AnalyzeColumn(values)
		if analyzesConstantOnly(col.DataType) && !a.IsConstantValue {
			a = pattern.Analysis{}
		}
		if a.IsConstantValue || a.HasPrefix {
			state.analysis = &a
		}
		if a.IsConstantValue {
			state.constantReplacement = pattern.GenerateConstantReplacement(a.ConstantValue, gen.Rand())
		}
		if state.analysis == nil && usesVocabulary(col.DataType) &&
			len(distinct) >= 2 && len(distinct) < vocabularyLimit {
			state.vocabulary = make(map[string]string, len(distinct))
		}
		states[col.Name] = state
	}
	return states
}
