// Package masker runs the full anonymization pass over a tabular
// dataset: corrective type inference, per-column pattern analysis,
// address subsystem setup, and the per-cell masking loop.
package masker

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"datamask/internal/addressgen"
	"datamask/internal/generators"
	"datamask/internal/geo"
	"datamask/internal/model"
)

// Engine masks one dataset. Construct a fresh Engine per run; all
// run-scoped state (uniqueness sets, address pool, vocabulary mappings)
// dies with it.
type Engine struct {
	opts   model.MaskingOptions
	log    *logrus.Entry
	client addressgen.Client
	seed   int64
}

// New builds an Engine for the given options.
func New(opts model.MaskingOptions) *Engine {
	return NewSeeded(opts, time.Now().UnixNano())
}

// NewSeeded builds an Engine with a fixed random seed.
func NewSeeded(opts model.MaskingOptions, seed int64) *Engine {
	return &Engine{
		opts: opts.Normalized(),
		log:  logrus.WithField("run_id", uuid.NewString()),
		seed: seed,
	}
}

// SetClient overrides the address generation client. When unset, the
// Engine builds an Azure client from the options or falls back to local
// synthesis.
func (e *Engine) SetClient(c addressgen.Client) { e.client = c }

// SetLogger replaces the run logger.
func (e *Engine) SetLogger(log *logrus.Entry) {
	if log != nil {
		e.log = log
	}
}

// MaskDataSet is the package-level convenience entry point.
func MaskDataSet(ctx context.Context, rows []model.Row, columns []model.Column, opts model.MaskingOptions) ([]model.Row, error) {
	return New(opts).MaskDataSet(ctx, rows, columns)
}

// MaskDataSet masks every row and returns a new dataset; the input rows
// are never modified. Cell-level failures keep the original value and
// the run continues: the only error paths are context cancellation and
// setup failures.
func (e *Engine) MaskDataSet(ctx context.Context, rows []model.Row, columns []model.Column) ([]model.Row, error) {
	if len(rows) == 0 {
		return []model.Row{}, nil
	}
	start := time.Now()

	columns = reinferTypes(rows, columns)
	gen := generators.NewSeededMasker(e.opts.PreserveFormat, e.seed)
	states := analyzeColumns(rows, columns, gen)

	aligner, err := e.initGeo(ctx, rows, columns)
	if err != nil {
		return nil, err
	}

	out := make([]model.Row, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		masked := make(model.Row, len(row))
		for _, col := range columns {
			raw, present := row[col.Name]
			if !present {
				continue
			}
			masked[col.Name] = e.maskCell(gen, states, aligner, col, raw, i)
		}
		// Columns without a descriptor pass through untouched.
		for k, v := range row {
			if _, ok := masked[k]; !ok {
				masked[k] = v
			}
		}
		out[i] = masked
	}

	e.log.WithFields(logrus.Fields{
		"rows":    len(rows),
		"columns": len(columns),
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("masking run complete")
	return out, nil
}

// hasGeoColumns reports whether any column routes through the address
// subsystem.
func hasGeoColumns(columns []model.Column) bool {
	for _, col := range columns {
		if col.Skip {
			continue
		}
		if col.DataType.IsGeo() || col.DataType == model.TypeCountry || col.DataType == model.TypeNationality {
			return true
		}
	}
	return false
}

// initGeo sets up the address subsystem: proportion plan, per-row
// country sequence, pool generation and the row aligner. Returns a nil
// aligner when the dataset has no geo columns.
func (e *Engine) initGeo(ctx context.Context, rows []model.Row, columns []model.Column) (*addressgen.Aligner, error) {
	if !hasGeoColumns(columns) {
		return nil, nil
	}

	countryCol := ""
	for _, col := range columns {
		if col.DataType == model.TypeCountry && !col.Skip {
			countryCol = col.Name
			break
		}
	}

	var selected []string
	if e.opts.UseCountryDropdown {
		selected = e.opts.SelectedCountries
	}
	plan := geo.CalculatePlan(rows, countryCol, selected)
	sequence := plan.GenerateMaskingSequence(rand.New(rand.NewSource(e.seed)))

	client := e.client
	if client == nil && e.opts.UseAzureOpenAI && e.opts.AzureOpenAIConfig.Configured() {
		azure, err := addressgen.NewAzureClient(e.opts.AzureOpenAIConfig, e.log)
		if err != nil {
			e.log.WithError(err).Warn("azure client unavailable, addresses will be synthesized locally")
		} else {
			client = azure
		}
	}

	orch := addressgen.NewOrchestrator(client, e.opts, e.log, e.seed)
	if err := orch.Initialize(ctx, sequence); err != nil {
		return nil, err
	}

	stats := orch.ValidationStats()
	e.log.WithFields(logrus.Fields{
		"countries":       len(orch.Pool().Countries()),
		"validated":       stats.Total,
		"rejected":        stats.Invalid,
		"fallbackCountry": plan.FallbackCountry,
	}).Info("address pool ready")
	return addressgen.NewAligner(len(rows), sequence, plan.FallbackCountry, orch.Pool()), nil
}

// maskCell produces the replacement for one cell. Precedence: skip and
// blank passthrough, constant column replacement, geo alignment,
// closed-vocabulary mapping, then the type generator.
func (e *Engine) maskCell(gen *generators.Masker, states map[string]*columnState, aligner *addressgen.Aligner, col model.Column, raw string, rowIndex int) string {
	if col.Skip || strings.TrimSpace(raw) == "" {
		return raw
	}

	state := states[col.Name]
	if state != nil && state.analysis != nil && state.analysis.IsConstantValue {
		return state.constantReplacement
	}

	if aligner != nil {
		switch {
		case col.DataType == model.TypeCountry:
			return aligner.CountryFor(rowIndex)
		case col.DataType == model.TypeNationality:
			return aligner.NationalityFor(rowIndex)
		case col.DataType.IsGeo():
			if v, ok := aligner.FieldFor(rowIndex, col.DataType); ok {
				return v
			}
			// Pool exhausted for this row's country: generic generator.
		}
	}

	gctx := generators.Context{RowIndex: rowIndex}
	if state != nil {
		gctx.Analysis = state.analysis
		if state.vocabulary != nil {
			key := strings.TrimSpace(raw)
			if repl, ok := state.vocabulary[key]; ok {
				return repl
			}
			repl := gen.Mask(raw, col.DataType, gctx)
			state.vocabulary[key] = repl
			return repl
		}
	}
	return gen.Mask(raw, col.DataType, gctx)
}
