package addressgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"datamask/internal/model"
)

// Pool holds the validated addresses of one masking run, per country,
// with usage counters for round-robin reuse. Rows past the large-dataset
// threshold are served by deterministic incremental mutation instead of
// further external calls.
type Pool struct {
	byCountry map[string][]model.GeneratedAddress
	usage     map[string]int
	threshold int
}

// NewPool builds an empty pool. threshold is the row index at which reuse
// switches to incremental generation.
func NewPool(threshold int) *Pool {
	if threshold <= 0 {
		threshold = model.DefaultLargeDatasetThreshold
	}
	return &Pool{
		byCountry: make(map[string][]model.GeneratedAddress),
		usage:     make(map[string]int),
		threshold: threshold,
	}
}

// Set installs the validated addresses for a country, replacing any
// previous entries and resetting the usage counter.
func (p *Pool) Set(country string, addrs []model.GeneratedAddress) {
	p.byCountry[country] = addrs
	p.usage[country] = 0
}

// Size reports the pool size for a country.
func (p *Pool) Size(country string) int {
	return len(p.byCountry[country])
}

// Countries lists every country with a non-empty pool.
func (p *Pool) Countries() []string {
	out := make([]string, 0, len(p.byCountry))
	for c, addrs := range p.byCountry {
		if len(addrs) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// AddressFor hands out an address for a row. Below the threshold it
// round-robins through the pool; at or past it, the pool entry at
// rowIndex mod size is mutated deterministically so re-running on the
// same input yields the same address. ok is false when the country has
// an empty pool.
func (p *Pool) AddressFor(country string, rowIndex int) (model.GeneratedAddress, bool) {
	addrs := p.byCountry[country]
	if len(addrs) == 0 {
		return model.GeneratedAddress{}, false
	}

	if rowIndex < p.threshold {
		addr := addrs[p.usage[country]%len(addrs)]
		p.usage[country]++
		return addr, true
	}
	return mutateForRow(addrs[rowIndex%len(addrs)], rowIndex), true
}

var leadingNumberRe = regexp.MustCompile(`^(\d+)\s+(.*)$`)

// mutateForRow manufactures a distinct-looking address from a base pool
// entry: the house number moves by rowIndex mod 9000 plus one; streets
// without a leading number get the city suffixed instead.
func mutateForRow(base model.GeneratedAddress, rowIndex int) model.GeneratedAddress {
	offset := rowIndex%9000 + 1

	if m := leadingNumberRe.FindStringSubmatch(base.Street); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			base.Street = fmt.Sprintf("%d %s", n+offset, m[2])
			return base
		}
	}

	base.City = fmt.Sprintf("%s %d", strings.TrimSpace(base.City), offset%100+1)
	return base
}
