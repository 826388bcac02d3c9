package addressgen

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"

	"datamask/internal/geo"
	"datamask/internal/model"
)

// Orchestrator coordinates the whole pre-masking generation phase:
// per-country requirement computation, the smart-retry generation loop,
// local fallback synthesis, and pool initialization. Construct one per
// masking run.
type Orchestrator struct {
	client    Client
	validator *Validator
	pool      *Pool
	opts      model.MaskingOptions
	log       *logrus.Entry
	rng       *rand.Rand
	faker     *gofakeit.Faker
}

// NewOrchestrator wires an orchestrator. client may be nil: every country
// is then served by local synthesis.
func NewOrchestrator(client Client, opts model.MaskingOptions, log *logrus.Entry, seed int64) *Orchestrator {
	opts = opts.Normalized()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Orchestrator{
		client:    client,
		validator: NewValidator(opts.MaxRetries, log),
		pool:      NewPool(opts.LargeDatasetThreshold),
		opts:      opts,
		log:       log,
		rng:       rand.New(rand.NewSource(seed)),
		faker:     gofakeit.NewUnlocked(seed),
	}
}

// Pool exposes the initialized address pool for row-level reuse.
func (o *Orchestrator) Pool() *Pool { return o.pool }

// ValidationStats exposes the validator's counters.
func (o *Orchestrator) ValidationStats() Stats { return o.validator.Stats() }

// ComputeRequirements groups row indices by assigned country and caps the
// requested address count for large datasets. assignments[i] is the
// country of row i. Output is sorted by descending row coverage.
func (o *Orchestrator) ComputeRequirements(assignments []string) []model.CountryRequirement {
	byCountry := make(map[string][]int)
	for i, country := range assignments {
		if country == "" {
			continue
		}
		canonical := geo.CanonicalName(country)
		byCountry[canonical] = append(byCountry[canonical], i)
	}

	large := len(assignments) >= o.opts.LargeDatasetThreshold
	reqs := make([]model.CountryRequirement, 0, len(byCountry))
	for country, indices := range byCountry {
		count := len(indices)
		if large && count > o.opts.AddressPoolCap {
			count = o.opts.AddressPoolCap
		}
		reqs = append(reqs, model.CountryRequirement{
			Country:    country,
			Count:      count,
			RowIndices: indices,
		})
	}
	sort.Slice(reqs, func(i, j int) bool {
		if len(reqs[i].RowIndices) != len(reqs[j].RowIndices) {
			return len(reqs[i].RowIndices) > len(reqs[j].RowIndices)
		}
		return reqs[i].Country < reqs[j].Country
	})
	return reqs
}

// Initialize runs the generation phase for the given per-row country
// assignments and fills the pool. It never fails the run for generation
// problems: countries the external service could not cover fall back to
// locally synthesized addresses. Only context cancellation propagates.
func (o *Orchestrator) Initialize(ctx context.Context, assignments []string) error {
	reqs := o.ComputeRequirements(assignments)
	if len(reqs) == 0 {
		return nil
	}

	generated := make(map[string][]model.GeneratedAddress)
	if o.client != nil {
		var err error
		generated, err = o.generateWithSmartRetry(ctx, reqs)
		if err != nil {
			return err
		}
	}

	for _, req := range reqs {
		addrs := generated[req.Country]
		if len(addrs) < req.Count {
			missing := req.Count - len(addrs)
			o.log.WithFields(logrus.Fields{
				"country": req.Country,
				"have":    len(addrs),
				"want":    req.Count,
			}).Info("filling shortfall with local synthesis")
			addrs = append(addrs, o.SynthesizeLocal(req.Country, missing)...)
		}
		o.pool.Set(req.Country, addrs)
	}
	return nil
}

// generateWithSmartRetry runs bounded retry rounds over an immutable
// snapshot of the remaining requirements. Each round issues the batch
// calls, validates per country, accepts the valid addresses, and carries
// forward index-scoped retries only for countries with remaining budget.
// A failed call consumes a round and leaves its requirements in place.
func (o *Orchestrator) generateWithSmartRetry(ctx context.Context, reqs []model.CountryRequirement) (map[string][]model.GeneratedAddress, error) {
	accepted := make(map[string][]model.GeneratedAddress)
	remaining := reqs

	for round := 0; round < o.opts.MaxRetries && len(remaining) > 0; round++ {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		// One round covers every remaining requirement, split into calls
		// of at most BatchSize addresses each.
		results := make(map[string][]model.GeneratedAddress)
		attempted := make(map[string]bool)
		for _, chunk := range chunkRequirements(remaining, o.opts.BatchSize) {
			if err := ctx.Err(); err != nil {
				return accepted, err
			}
			res, err := o.client.GenerateBatch(ctx, chunk)
			if err != nil {
				if ctx.Err() != nil {
					return accepted, ctx.Err()
				}
				o.log.WithError(err).WithField("round", round+1).Warn("batch generation call failed, keeping requirements for next round")
				continue
			}
			for country, addrs := range res {
				results[country] = append(results[country], addrs...)
			}
			for _, req := range chunk {
				attempted[req.Country] = true
			}
		}

		next := make([]model.CountryRequirement, 0, len(remaining))
		for _, req := range remaining {
			if !attempted[req.Country] {
				// Every call covering this country failed at the
				// transport; the round is consumed but no validation
				// attempt is.
				next = append(next, req)
				continue
			}
			outcome := o.validator.ValidateBatch(results[req.Country], req.Country)
			accepted[req.Country] = append(accepted[req.Country], outcome.Valid...)

			missing := req.Count - len(accepted[req.Country])
			if missing <= 0 {
				continue
			}
			if !o.validator.CanRetry(req.Country) {
				o.log.WithFields(logrus.Fields{
					"country": req.Country,
					"have":    len(accepted[req.Country]),
					"want":    req.Count,
				}).Warn("accepting partial pool for country")
				continue
			}
			next = append(next, model.CountryRequirement{
				Country:    req.Country,
				Count:      missing,
				RowIndices: req.RowIndices,
			})
		}
		remaining = next
	}
	return accepted, nil
}

// chunkRequirements splits a round's requirements into call-sized
// groups: no single call requests more than size addresses in total, and
// a country needing more than size is split across consecutive calls.
func chunkRequirements(reqs []model.CountryRequirement, size int) [][]model.CountryRequirement {
	if size <= 0 {
		return [][]model.CountryRequirement{reqs}
	}

	var chunks [][]model.CountryRequirement
	var current []model.CountryRequirement
	room := size
	for _, req := range reqs {
		left := req.Count
		for left > 0 {
			take := left
			if take > room {
				take = room
			}
			current = append(current, model.CountryRequirement{
				Country:    req.Country,
				Count:      take,
				RowIndices: req.RowIndices,
			})
			room -= take
			left -= take
			if room == 0 {
				chunks = append(chunks, current)
				current = nil
				room = size
			}
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// SynthesizeLocal builds addresses from the geo reference tables and
// gofakeit, for the no-client mode and for shortfalls after retries.
func (o *Orchestrator) SynthesizeLocal(country string, count int) []model.GeneratedAddress {
	canonical := geo.CanonicalName(country)
	info, known := geo.Lookup(canonical)

	out := make([]model.GeneratedAddress, 0, count)
	for i := 0; i < count; i++ {
		var city, state, postal string
		if known {
			city = info.Cities[o.rng.Intn(len(info.Cities))]
			state = info.Regions[o.rng.Intn(len(info.Regions))]
			postal = o.postalFromHint(info.PostalHint)
		} else {
			city = o.faker.City()
			state = o.faker.State()
			postal = fmt.Sprintf("%05d", 10000+o.rng.Intn(89999))
		}
		out = append(out, model.GeneratedAddress{
			Street:     o.syntheticStreet(),
			City:       city,
			State:      state,
			PostalCode: postal,
			Country:    canonical,
		})
	}
	return out
}

// syntheticStreet avoids the generic house numbers the validator rejects.
func (o *Orchestrator) syntheticStreet() string {
	n := 130 + o.rng.Intn(9700)
	for n == 1230 || n == 1110 {
		n++
	}
	return fmt.Sprintf("%d %s %s", n, o.faker.StreetName(), o.faker.StreetSuffix())
}

// postalFromHint renders a postal format hint ('#' digit, 'A' letter).
func (o *Orchestrator) postalFromHint(hint string) string {
	if hint == "" {
		return fmt.Sprintf("%05d", 10000+o.rng.Intn(89999))
	}
	out := make([]rune, 0, len(hint))
	for _, r := range hint {
		switch r {
		case '#':
			out = append(out, rune('0'+o.rng.Intn(10)))
		case 'A':
			out = append(out, rune('A'+o.rng.Intn(26)))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
