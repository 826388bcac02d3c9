package addressgen

import (
	"datamask/internal/geo"
	"datamask/internal/model"
)

// rowContext caches the per-row geo state: the assigned country and,
// once any geo field was read, the chosen address.
type rowContext struct {
	country   string
	addr      *model.GeneratedAddress
	exhausted bool
}

// Aligner pre-computes which country applies to every row and lazily
// binds each row to one pool address on first geo-field access. All
// later geo-field reads for that row reuse the bound address, which is
// what keeps Address/City/State/PostalCode of one row mutually
// consistent.
type Aligner struct {
	contexts    []rowContext
	pool        *Pool
	nationality *geo.NationalityEngine
	fallback    string
}

// NewAligner builds the per-row contexts. sequence[i] is the country for
// row i (from the proportion plan); rows beyond the sequence get the
// fallback country.
func NewAligner(totalRows int, sequence []string, fallback string, pool *Pool) *Aligner {
	contexts := make([]rowContext, totalRows)
	for i := range contexts {
		country := fallback
		if i < len(sequence) && sequence[i] != "" {
			country = sequence[i]
		}
		contexts[i].country = geo.CanonicalName(country)
	}
	return &Aligner{
		contexts:    contexts,
		pool:        pool,
		nationality: geo.NewNationalityEngine(),
		fallback:    geo.CanonicalName(fallback),
	}
}

// CountryFor returns the country assigned to a row.
func (al *Aligner) CountryFor(rowIndex int) string {
	if rowIndex < 0 || rowIndex >= len(al.contexts) {
		return al.fallback
	}
	return al.contexts[rowIndex].country
}

// NationalityFor derives the nationality adjective for a row's country.
func (al *Aligner) NationalityFor(rowIndex int) string {
	return al.nationality.Derive(al.CountryFor(rowIndex)).Adjective
}

// FieldFor returns one geo field for a row. The first call for a row
// selects and caches an address from the pool; every later call reuses
// it. ok is false when the row's country has an empty pool, in which
// case the caller keeps the original value.
func (al *Aligner) FieldFor(rowIndex int, dataType model.DataType) (string, bool) {
	if rowIndex < 0 || rowIndex >= len(al.contexts) {
		return "", false
	}
	rc := &al.contexts[rowIndex]
	if rc.exhausted {
		return "", false
	}
	if rc.addr == nil {
		addr, ok := al.pool.AddressFor(rc.country, rowIndex)
		if !ok {
			rc.exhausted = true
			return "", false
		}
		rc.addr = &addr
	}

	switch dataType {
	case model.TypeAddress:
		return rc.addr.Street, true
	case model.TypeCity:
		return rc.addr.City, true
	case model.TypeState:
		return rc.addr.State, true
	case model.TypePostalCode:
		return rc.addr.PostalCode, true
	case model.TypeCountry:
		return rc.addr.Country, true
	default:
		return "", false
	}
}
