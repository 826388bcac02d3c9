// Package pattern detects structure in column samples: constant-value
// columns and incrementing prefixed sequences such as "Campaign_1",
// "Campaign_2". Detected patterns take precedence over generic masking so
// that sequence columns keep counting instead of turning into noise.
package pattern

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Analysis is the per-column verdict. At most one of IsConstantValue and
// HasPrefix is true; constant detection wins when at least 95% of samples
// normalize to the same value.
type Analysis struct {
	IsConstantValue bool
	ConstantValue   string

	HasPrefix          bool
	Prefix             string
	BasePattern        string
	IncrementalNumbers []int
}

// maxSamples bounds how many values feed one column analysis.
const maxSamples = 50

// constantShare is the modal share at which a column counts as constant.
const constantShare = 0.95

// prefixShare is the share of samples that must match a candidate prefix.
const prefixShare = 0.70

var (
	digitsRe      = regexp.MustCompile(`\d+`)
	trailingSeqRe = regexp.MustCompile(`([_\- ]+)\d+$`)
	allDigitsRe   = regexp.MustCompile(`^\d+$`)
)

// AnalyzeColumn inspects up to 50 non-empty samples of one column.
// Whitespace-only samples are discarded before any counting.
func AnalyzeColumn(samples []string) Analysis {
	clean := make([]string, 0, len(samples))
	for _, s := range samples {
		if strings.TrimSpace(s) == "" {
			continue
		}
		clean = append(clean, s)
		if len(clean) == maxSamples {
			break
		}
	}
	if len(clean) == 0 {
		return Analysis{}
	}

	if a, ok := detectConstant(clean); ok {
		return a
	}
	if len(clean) < 2 {
		// A single sample is never evidence of a sequence.
		return Analysis{}
	}
	if a, ok := detectCommonPrefixSequence(clean); ok {
		return a
	}
	if a, ok := detectPairwisePrefixSequence(clean); ok {
		return a
	}
	return Analysis{}
}

func detectConstant(samples []string) (Analysis, bool) {
	counts := make(map[string]int, len(samples))
	casings := make(map[string]map[string]int, len(samples))
	casingOrder := make(map[string][]string, len(samples))
	for _, s := range samples {
		trimmed := strings.TrimSpace(s)
		key := strings.ToLower(trimmed)
		counts[key]++
		if casings[key] == nil {
			casings[key] = make(map[string]int)
		}
		if _, seen := casings[key][trimmed]; !seen {
			casingOrder[key] = append(casingOrder[key], trimmed)
		}
		casings[key][trimmed]++
	}

	modalKey, modalCount := "", 0
	for key, n := range counts {
		if n > modalCount {
			modalKey, modalCount = key, n
		}
	}
	if float64(modalCount) < constantShare*float64(len(samples)) {
		return Analysis{}, false
	}

	// The representative is the most frequent original casing of the
	// modal value; first-seen wins ties.
	best, bestCount := "", 0
	for _, casing := range casingOrder[modalKey] {
		if n := casings[modalKey][casing]; n > bestCount {
			best, bestCount = casing, n
		}
	}
	return Analysis{
		IsConstantValue: true,
		ConstantValue:   best,
	}, true
}

// detectCommonPrefixSequence uses the longest common prefix of all samples
// and accepts when at least 70% of them are that prefix followed by pure
// digits.
func detectCommonPrefixSequence(samples []string) (Analysis, bool) {
	prefix := samples[0]
	for _, s := range samples[1:] {
		prefix = commonPrefix(prefix, s)
		if len(prefix) < 2 {
			return Analysis{}, false
		}
	}
	// Zero-padded sequences ("TICKET-001") leak shared digits into the
	// common prefix; those digits belong to the number, not the prefix.
	prefix = strings.TrimRightFunc(prefix, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if len(prefix) < 2 {
		return Analysis{}, false
	}

	var numbers []int
	matched := 0
	for _, s := range samples {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		suffix := s[len(prefix):]
		if !allDigitsRe.MatchString(suffix) {
			continue
		}
		matched++
		if n, ok := extractNumber(suffix); ok {
			numbers = append(numbers, n)
		}
	}
	if float64(matched) < prefixShare*float64(len(samples)) {
		return Analysis{}, false
	}

	sort.Ints(numbers)
	return Analysis{
		HasPrefix:          true,
		Prefix:             prefix,
		BasePattern:        prefix,
		IncrementalNumbers: numbers,
	}, true
}

// detectPairwisePrefixSequence derives a candidate prefix from the first
// two samples only, then checks the 70% threshold against everything. A
// separator run observed before the trailing digits of the first sample is
// folded into the base pattern so generated values keep it.
func detectPairwisePrefixSequence(samples []string) (Analysis, bool) {
	prefix := commonPrefix(samples[0], samples[1])
	prefix = strings.TrimRightFunc(prefix, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if len(prefix) < 2 {
		return Analysis{}, false
	}

	matched := 0
	var numbers []int
	for _, s := range samples {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		matched++
		if n, ok := extractNumber(s[len(prefix):]); ok {
			numbers = append(numbers, n)
		}
	}
	if float64(matched) < prefixShare*float64(len(samples)) {
		return Analysis{}, false
	}

	base := prefix
	if m := trailingSeqRe.FindStringSubmatch(samples[0]); m != nil && !strings.HasSuffix(base, m[1]) {
		base += m[1]
	}

	sort.Ints(numbers)
	return Analysis{
		HasPrefix:          true,
		Prefix:             prefix,
		BasePattern:        base,
		IncrementalNumbers: numbers,
	}, true
}

// GenerateValue continues a detected sequence: index 0 yields the base
// pattern followed by max(observed)+1, so new values never collide with or
// interleave the originals.
func GenerateValue(a Analysis, index int) string {
	next := 1
	if len(a.IncrementalNumbers) > 0 {
		next = a.IncrementalNumbers[len(a.IncrementalNumbers)-1] + 1
	}
	return fmt.Sprintf("%s%d", a.BasePattern, next+index)
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func extractNumber(suffix string) (int, bool) {
	m := digitsRe.FindString(suffix)
	if m == "" {
		return 0, false
	}
	n := 0
	for _, r := range m {
		n = n*10 + int(r-'0')
		if n > 1<<31 {
			return 0, false
		}
	}
	return n, true
}
