package geo

import "strings"

// Confidence grades how a nationality was derived.
type Confidence string

// Derivation confidence levels, strongest first.
const (
	ConfidenceExact     Confidence = "exact"
	ConfidencePartial   Confidence = "partial"
	ConfidenceFuzzy     Confidence = "fuzzy"
	ConfidenceGenerated Confidence = "generated"
)

// Nationality is a derived nationality adjective with its confidence.
type Nationality struct {
	Adjective  string
	Confidence Confidence
}

// NationalityEngine derives nationality adjectives from country strings.
// Results are cached per engine; construct one per masking run.
type NationalityEngine struct {
	cache map[string]Nationality
}

// NewNationalityEngine returns an engine with an empty cache.
func NewNationalityEngine() *NationalityEngine {
	return &NationalityEngine{cache: make(map[string]Nationality)}
}

// Derive maps a country string to a nationality adjective. Matching
// escalates: exact/alias lookup, substring containment, edit-distance
// fuzzy match, and finally a rule-based suffix generator.
func (e *NationalityEngine) Derive(country string) Nationality {
	key := strings.ToLower(strings.TrimSpace(country))
	if key == "" {
		return Nationality{Adjective: "Unknown", Confidence: ConfidenceGenerated}
	}
	if cached, ok := e.cache[key]; ok {
		return cached
	}

	result := derive(key, country)
	e.cache[key] = result
	return result
}

func derive(key, original string) Nationality {
	if info, ok := Lookup(key); ok {
		return Nationality{Adjective: info.Nationality, Confidence: ConfidenceExact}
	}

	// Partial: the input contains a known country name or vice versa
	// ("Republic of France", "States").
	for _, c := range countryTable {
		lower := strings.ToLower(c.Name)
		if strings.Contains(key, lower) || (len(key) >= 4 && strings.Contains(lower, key)) {
			return Nationality{Adjective: c.Nationality, Confidence: ConfidencePartial}
		}
	}

	// Fuzzy: small edit distance absorbs typos ("Gemany", "Brasill").
	best := ""
	bestDist := 3
	for _, c := range countryTable {
		if d := editDistance(key, strings.ToLower(c.Name)); d < bestDist {
			best, bestDist = c.Nationality, d
		}
	}
	if best != "" {
		return Nationality{Adjective: best, Confidence: ConfidenceFuzzy}
	}

	return Nationality{Adjective: generateAdjective(original), Confidence: ConfidenceGenerated}
}

// generateAdjective applies English suffix rules to an unknown country
// name. The output is plausible, not authoritative.
func generateAdjective(country string) string {
	name := strings.TrimSpace(country)
	if name == "" {
		return "Unknown"
	}
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, "stan"):
		return name + "i"
	case strings.HasSuffix(lower, "land"):
		return name[:len(name)-4] + "lander"
	case strings.HasSuffix(lower, "ia"), strings.HasSuffix(lower, "ea"):
		return name + "n"
	case strings.HasSuffix(lower, "a"):
		return name + "n"
	case strings.HasSuffix(lower, "e"):
		return name[:len(name)-1] + "ian"
	case strings.HasSuffix(lower, "y"):
		return name[:len(name)-1] + "ian"
	case strings.HasSuffix(lower, "o"), strings.HasSuffix(lower, "i"), strings.HasSuffix(lower, "u"):
		return name + "an"
	default:
		return name + "ian"
	}
}

// editDistance is plain Levenshtein over bytes; inputs here are short
// lowercase country names.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
