package addressgen

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"datamask/internal/model"
)

// Quality grades a validated address by its error count.
type Quality string

// Quality levels: high (0 errors), medium (1-2), low (3+).
const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

// Result is the verdict for one address.
type Result struct {
	Valid   bool
	Errors  []string
	Quality Quality
}

// Stats accumulates validation counts over one run.
type Stats struct {
	Total   int
	Valid   int
	Invalid int
	Retries int
}

// RetryTracker bounds validation-driven retries per country. Terminal
// once Attempts reaches MaxAttempts; partial results are accepted then.
type RetryTracker struct {
	Attempts      int
	MaxAttempts   int
	FailedIndices []int
}

// BatchOutcome partitions a validated batch. Retry is nil when the batch
// was fully valid or the country's retry budget is exhausted; otherwise
// it requests exactly the failed count, never the whole batch.
type BatchOutcome struct {
	Valid         []model.GeneratedAddress
	FailedIndices []int
	Retry         *model.CountryRequirement
}

// Validator owns validation state for one masking run.
type Validator struct {
	stats    Stats
	trackers map[string]*RetryTracker
	maxRetry int
	log      *logrus.Entry
}

// NewValidator builds a validator with the given per-country retry cap.
func NewValidator(maxRetry int, log *logrus.Entry) *Validator {
	if maxRetry <= 0 {
		maxRetry = model.DefaultMaxRetries
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Validator{
		trackers: make(map[string]*RetryTracker),
		maxRetry: maxRetry,
		log:      log,
	}
}

// Stats returns a copy of the accumulated counts.
func (v *Validator) Stats() Stats { return v.stats }

var placeholderRe = regexp.MustCompile(`(?i)lorem|ipsum|placeholder|anytown|your\s+(city|street|state)|\[[^\]]*\]|\{[^}]*\}|<[^>]*>|x{3,}|tbd|n/a`)

// genericStreetPrefixes are house-number stand-ins models fall back to.
var genericStreetPrefixes = []string{"123 ", "111 ", "000 "}

// Validate checks one address for structural problems: missing fields,
// placeholder text, and generic stand-in house numbers.
func (v *Validator) Validate(addr model.GeneratedAddress, country string) Result {
	var errs []string

	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, "missing "+field)
		} else if placeholderRe.MatchString(value) {
			errs = append(errs, "placeholder "+field)
		}
	}
	check("street", addr.Street)
	check("city", addr.City)
	check("state", addr.State)
	check("postalCode", addr.PostalCode)
	check("country", addr.Country)

	for _, p := range genericStreetPrefixes {
		if strings.HasPrefix(strings.TrimSpace(addr.Street), p) {
			errs = append(errs, "generic street number")
			break
		}
	}
	if country != "" && !strings.EqualFold(strings.TrimSpace(addr.Country), strings.TrimSpace(country)) {
		errs = append(errs, "country mismatch")
	}

	res := Result{Valid: len(errs) == 0, Errors: errs}
	switch {
	case len(errs) == 0:
		res.Quality = QualityHigh
	case len(errs) <= 2:
		res.Quality = QualityMedium
	default:
		res.Quality = QualityLow
	}

	v.stats.Total++
	if res.Valid {
		v.stats.Valid++
	} else {
		v.stats.Invalid++
	}
	return res
}

// tracker returns (creating on first use) the retry state for a country.
func (v *Validator) tracker(country string) *RetryTracker {
	t, ok := v.trackers[country]
	if !ok {
		t = &RetryTracker{MaxAttempts: v.maxRetry}
		v.trackers[country] = t
	}
	return t
}

// CanRetry reports whether the country still has retry budget.
func (v *Validator) CanRetry(country string) bool {
	t := v.tracker(country)
	return t.Attempts < t.MaxAttempts
}

// ValidateBatch partitions a batch into valid and invalid addresses and,
// when invalid ones exist and budget remains, emits an index-scoped retry
// requirement: a batch of 100 with 5 bad addresses re-requests 5, not
// 100. Already-valid addresses are never re-requested.
func (v *Validator) ValidateBatch(addrs []model.GeneratedAddress, country string) BatchOutcome {
	outcome := BatchOutcome{}
	for i, addr := range addrs {
		res := v.Validate(addr, country)
		if res.Valid {
			outcome.Valid = append(outcome.Valid, addr)
		} else {
			outcome.FailedIndices = append(outcome.FailedIndices, i)
		}
	}
	if len(outcome.FailedIndices) == 0 {
		return outcome
	}

	t := v.tracker(country)
	t.FailedIndices = outcome.FailedIndices
	if t.Attempts >= t.MaxAttempts {
		v.log.WithFields(logrus.Fields{
			"country": country,
			"failed":  len(outcome.FailedIndices),
		}).Warn("retry budget exhausted, accepting partial batch")
		return outcome
	}
	t.Attempts++
	v.stats.Retries++

	outcome.Retry = &model.CountryRequirement{
		Country:    country,
		Count:      len(outcome.FailedIndices),
		RowIndices: outcome.FailedIndices,
	}
	v.log.WithFields(logrus.Fields{
		"country": country,
		"valid":   len(outcome.Valid),
		"failed":  len(outcome.FailedIndices),
		"attempt": t.Attempts,
	}).Info("batch validated, retrying failed indices")
	return outcome
}
