// Package generators holds the type-specific value generators: pure
// string-to-string substitutions that preserve the structural shape of the
// original value (format, length, casing) while replacing its content.
// A Masker owns the per-run uniqueness sets for emails, usernames and
// phone numbers; construct a fresh one per masking run.
package generators

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"datamask/internal/model"
	"datamask/internal/pattern"
)

// longTextThreshold is the length at which generic strings switch from
// character substitution to a truncated lorem excerpt.
const longTextThreshold = 60

const loremExcerpt = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, " +
	"sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. " +
	"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris " +
	"nisi ut aliquip ex ea commodo consequat."

// Context carries the per-column analysis the orchestrator computed; the
// pattern verdict and unique-value set take precedence over generic
// masking.
type Context struct {
	Analysis     *pattern.Analysis
	UniqueValues []string
	RowIndex     int
}

// Masker generates substitute values. It is not safe for concurrent use;
// one masking run owns one Masker.
type Masker struct {
	rng   *rand.Rand
	faker *gofakeit.Faker

	preserveFormat bool

	// Year window for generic date regeneration. Dates of birth always use
	// 1950-2005 regardless.
	yearMin, yearMax int

	usedEmails    map[string]struct{}
	usedUsernames map[string]struct{}
	usedPhones    map[string]struct{}
}

// NewMasker builds a Masker seeded from the clock. Tests that need
// reproducible output use NewSeededMasker.
func NewMasker(preserveFormat bool) *Masker {
	return NewSeededMasker(preserveFormat, time.Now().UnixNano())
}

// NewSeededMasker builds a Masker with a fixed seed.
func NewSeededMasker(preserveFormat bool, seed int64) *Masker {
	src := rand.New(rand.NewSource(seed))
	return &Masker{
		rng:            src,
		faker:          gofakeit.NewUnlocked(seed),
		preserveFormat: preserveFormat,
		yearMin:        2015,
		yearMax:        2024,
		usedEmails:     make(map[string]struct{}),
		usedUsernames:  make(map[string]struct{}),
		usedPhones:     make(map[string]struct{}),
	}
}

// Mask replaces value according to its data type. Empty and
// whitespace-only values pass through unchanged. Pattern verdicts win over
// the type-specific generator.
func (m *Masker) Mask(value string, dataType model.DataType, ctx Context) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	if ctx.Analysis != nil {
		if ctx.Analysis.IsConstantValue {
			return pattern.GenerateConstantReplacement(ctx.Analysis.ConstantValue, m.rng)
		}
		if ctx.Analysis.HasPrefix {
			return pattern.GenerateValue(*ctx.Analysis, ctx.RowIndex)
		}
	}

	switch dataType {
	case model.TypeName:
		return m.maskName(value)
	case model.TypeFirstName:
		return matchCasing(value, m.faker.FirstName())
	case model.TypeLastName:
		return matchCasing(value, m.faker.LastName())
	case model.TypeEmail:
		return m.maskEmail(value, ctx.RowIndex)
	case model.TypeUsername:
		return m.maskUsername(value, ctx.RowIndex)
	case model.TypePassword:
		return m.maskPassword(value)
	case model.TypePhoneNumber:
		return m.maskPhone(value, ctx.RowIndex)
	case model.TypeDate:
		return m.maskDate(value, false)
	case model.TypeDateOfBirth:
		return m.maskDate(value, true)
	case model.TypeTime:
		return m.maskTime(value)
	case model.TypeDateTime:
		return m.maskDateTime(value)
	case model.TypeInt:
		return m.maskInt(value)
	case model.TypeFloat:
		return m.maskFloat(value)
	case model.TypeCurrency:
		return m.maskCurrency(value)
	case model.TypeCreditCard, model.TypeDebitCard:
		return m.maskCard(value)
	case model.TypePostalCode:
		return m.maskPostalCode(value)
	case model.TypeGender:
		return m.maskGender(value)
	case model.TypeCompany:
		return m.faker.Company()
	case model.TypeJobTitle:
		return m.faker.JobTitle()
	case model.TypeSSN:
		return m.maskSSN(value)
	case model.TypeIPAddress:
		return m.faker.IPv4Address()
	case model.TypeURL:
		return m.maskURL(value)
	case model.TypeBoolean:
		return m.maskBoolean(value)
	case model.TypeAddress:
		return m.maskStreet(value)
	case model.TypeCity:
		return m.faker.City()
	case model.TypeState:
		return m.faker.State()
	case model.TypeCountry:
		return m.faker.Country()
	case model.TypeNationality:
		return value // replaced by the geo subsystem, never generically
	default:
		return m.maskString(value)
	}
}

// Rand exposes the run's random source for callers generating
// replacements outside the Masker.
func (m *Masker) Rand() *rand.Rand { return m.rng }

// maskName keeps the word count (1, 2 or 3 part names) and the casing
// style of the original.
func (m *Masker) maskName(value string) string {
	words := strings.Fields(value)
	parts := make([]string, 0, len(words))
	for i := range words {
		switch {
		case len(words) >= 3 && i == 1:
			// Middle part: single name again.
			parts = append(parts, m.faker.FirstName())
		case i == len(words)-1 && len(words) > 1:
			parts = append(parts, m.faker.LastName())
		default:
			parts = append(parts, m.faker.FirstName())
		}
	}
	return matchCasing(value, strings.Join(parts, " "))
}

// matchCasing re-applies ALL-CAPS or all-lower casing observed in the
// original onto the replacement; mixed case passes through as generated.
func matchCasing(original, replacement string) string {
	letters := 0
	upper := 0
	lower := 0
	for _, r := range original {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
			upper++
		case r >= 'a' && r <= 'z':
			letters++
			lower++
		}
	}
	if letters == 0 {
		return replacement
	}
	if upper == letters {
		return strings.ToUpper(replacement)
	}
	if lower == letters {
		return strings.ToLower(replacement)
	}
	return replacement
}

// maskString is the generic fallback: shape-preserving character
// substitution for short values, a truncated lorem excerpt for long text.
func (m *Masker) maskString(value string) string {
	if len(value) > longTextThreshold {
		if len(value) >= len(loremExcerpt) {
			return loremExcerpt
		}
		return loremExcerpt[:len(value)]
	}

	out := make([]rune, 0, len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, rune('a'+m.rng.Intn(26)))
		case r >= 'A' && r <= 'Z':
			out = append(out, rune('A'+m.rng.Intn(26)))
		case r >= '0' && r <= '9':
			out = append(out, rune('0'+m.rng.Intn(10)))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func (m *Masker) maskPassword(value string) string {
	n := len(value)
	if n < 8 {
		n = 8
	}
	return m.faker.Password(true, true, true, true, false, n)
}

func (m *Masker) maskGender(value string) string {
	options := []string{"Male", "Female", "Non-binary"}
	pick := options[m.rng.Intn(len(options))]
	if len(value) == 1 {
		pick = pick[:1]
	}
	return matchCasing(value, pick)
}

func (m *Masker) maskBoolean(value string) string {
	truthy := "true"
	falsy := "false"
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "no":
		truthy, falsy = "yes", "no"
	case "y", "n":
		truthy, falsy = "y", "n"
	case "1", "0":
		truthy, falsy = "1", "0"
	}
	pick := truthy
	if m.rng.Intn(2) == 0 {
		pick = falsy
	}
	return matchCasing(value, pick)
}

func (m *Masker) maskSSN(value string) string {
	first := 100 + m.rng.Intn(800)
	second := 10 + m.rng.Intn(89)
	third := 1000 + m.rng.Intn(8999)
	if strings.Contains(value, "-") {
		return fmt.Sprintf("%03d-%02d-%04d", first, second, third)
	}
	return fmt.Sprintf("%03d%02d%04d", first, second, third)
}

func (m *Masker) maskURL(value string) string {
	scheme := "https"
	if strings.HasPrefix(value, "http://") {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s.example.com/%s", scheme, strings.ToLower(m.faker.Word()), strings.ToLower(m.faker.Word()))
}

func (m *Masker) maskStreet(value string) string {
	number := 100 + m.rng.Intn(9800)
	return fmt.Sprintf("%d %s %s", number, m.faker.StreetName(), m.faker.StreetSuffix())
}
