package geo

import (
	"math/rand"
	"sort"

	"datamask/internal/model"
)

// Distribution is the observed (or remapped) share of one country.
type Distribution struct {
	Country string
	Count   int
}

// Plan is the per-run country assignment strategy: how many rows each
// country covers and which country absorbs rows beyond the sequence.
type Plan struct {
	TotalRows       int
	Distributions   []Distribution
	FallbackCountry string
}

// CalculatePlan tallies country occurrences in the dataset and, when a
// country subset is selected, remaps the observed proportions onto the
// subset. Distributions come back sorted by descending count; rounding
// drift lands on the largest bucket so counts always sum to TotalRows.
func CalculatePlan(rows []model.Row, countryColumn string, selected []string) Plan {
	plan := Plan{TotalRows: len(rows)}
	if len(rows) == 0 {
		return plan
	}

	counts := make(map[string]int)
	for _, row := range rows {
		country := CanonicalName(row[countryColumn])
		if country == "" {
			continue
		}
		counts[country]++
	}

	if len(selected) > 0 {
		plan.Distributions = remapToSubset(len(rows), selected)
	} else {
		for country, n := range counts {
			plan.Distributions = append(plan.Distributions, Distribution{Country: country, Count: n})
		}
		// Rows with an empty country cell still need an assignment.
		assigned := 0
		for _, d := range plan.Distributions {
			assigned += d.Count
		}
		if rest := len(rows) - assigned; rest > 0 && len(plan.Distributions) > 0 {
			sortDistributions(plan.Distributions)
			plan.Distributions[0].Count += rest
		}
	}

	sortDistributions(plan.Distributions)
	if len(plan.Distributions) > 0 {
		plan.FallbackCountry = plan.Distributions[0].Country
	} else {
		plan.FallbackCountry = "United States"
		plan.Distributions = []Distribution{{Country: plan.FallbackCountry, Count: len(rows)}}
	}
	return plan
}

// remapToSubset spreads the dataset's rows evenly across the selected
// countries. A single selection takes everything; with several, the
// division remainder goes to the first bucket.
func remapToSubset(totalRows int, selected []string) []Distribution {
	canonical := make([]string, 0, len(selected))
	seen := make(map[string]bool, len(selected))
	for _, s := range selected {
		name := CanonicalName(s)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		canonical = append(canonical, name)
	}
	if len(canonical) == 0 {
		return nil
	}
	if len(canonical) == 1 {
		return []Distribution{{Country: canonical[0], Count: totalRows}}
	}

	per := totalRows / len(canonical)
	dists := make([]Distribution, len(canonical))
	for i, name := range canonical {
		dists[i] = Distribution{Country: name, Count: per}
	}
	dists[0].Count += totalRows - per*len(canonical)
	return dists
}

// GenerateMaskingSequence expands the plan into a flat per-row country
// list and Fisher-Yates shuffles it so countries do not cluster by
// position. Callers index it by row; rows beyond its length use the
// fallback country.
func (p Plan) GenerateMaskingSequence(rng *rand.Rand) []string {
	seq := make([]string, 0, p.TotalRows)
	for _, d := range p.Distributions {
		for i := 0; i < d.Count; i++ {
			seq = append(seq, d.Country)
		}
	}
	for i := len(seq) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		seq[i], seq[j] = seq[j], seq[i]
	}
	return seq
}

func sortDistributions(dists []Distribution) {
	sort.Slice(dists, func(i, j int) bool {
		if dists[i].Count != dists[j].Count {
			return dists[i].Count > dists[j].Count
		}
		return dists[i].Country < dists[j].Country
	})
}
