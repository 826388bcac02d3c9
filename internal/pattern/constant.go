package pattern

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// ConstantKind is the shape class of a constant value.
type ConstantKind string

// ConstantContext is the business context inferred from keywords.
type ConstantContext string

// Shape classes, in detection priority order.
const (
	KindIdentifier ConstantKind = "identifier"
	KindVersion    ConstantKind = "version"
	KindDate       ConstantKind = "date"
	KindEmail      ConstantKind = "email"
	KindURL        ConstantKind = "url"
	KindName       ConstantKind = "name"
	KindText       ConstantKind = "text"
)

// Business contexts.
const (
	ContextCampaign   ConstantContext = "campaign"
	ContextStatus     ConstantContext = "status"
	ContextDepartment ConstantContext = "department"
	ContextPriority   ConstantContext = "priority"
	ContextCategory   ConstantContext = "category"
	ContextProduct    ConstantContext = "product"
	ContextGeneral    ConstantContext = "general"
)

// ConstantInfo classifies one constant column value. Kind wins over
// Context when both rules match: a value shaped like an identifier is
// regenerated as an identifier even if it contains a context keyword.
type ConstantInfo struct {
	Kind            ConstantKind
	Context         ConstantContext
	IsNumeric       bool
	IsBoolean       bool
	HasSpecialChars bool
	Length          int
}

var (
	identifierRe = regexp.MustCompile(`^[A-Z]{2,4}\d{2,6}$`)
	versionRe    = regexp.MustCompile(`^v?\d+\.\d+(\.\d+)?$`)
	constDateRe  = regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}$|^\d{1,2}[-/]\d{1,2}[-/]\d{4}$`)
	constEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	constURLRe   = regexp.MustCompile(`^https?://`)
	numericRe    = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	specialRe    = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	personNameRe = regexp.MustCompile(`^[A-Z][a-z]+( [A-Z][a-z]+){0,2}$`)
	trailDigitRe = regexp.MustCompile(`(\d+)$`)
)

var contextKeywords = map[ConstantContext][]string{
	ContextCampaign:   {"campaign", "promo", "promotion", "advert"},
	ContextStatus:     {"active", "inactive", "pending", "status", "complete", "enabled", "disabled"},
	ContextDepartment: {"department", "dept", "sales", "marketing", "engineering", "finance", "hr"},
	ContextPriority:   {"priority", "high", "medium", "low", "urgent", "critical"},
	ContextCategory:   {"category", "type", "group", "class", "segment"},
	ContextProduct:    {"product", "item", "sku", "model"},
}

// ClassifyConstant inspects a constant value and returns its shape and
// context metadata.
func ClassifyConstant(value string) ConstantInfo {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)

	info := ConstantInfo{
		Kind:            KindText,
		Context:         ContextGeneral,
		IsNumeric:       numericRe.MatchString(v),
		IsBoolean:       lower == "true" || lower == "false" || lower == "yes" || lower == "no",
		HasSpecialChars: specialRe.MatchString(v),
		Length:          len(v),
	}

	switch {
	case identifierRe.MatchString(v):
		info.Kind = KindIdentifier
	case versionRe.MatchString(v):
		info.Kind = KindVersion
	case constDateRe.MatchString(v):
		info.Kind = KindDate
	case constEmailRe.MatchString(v):
		info.Kind = KindEmail
	case constURLRe.MatchString(v):
		info.Kind = KindURL
	case personNameRe.MatchString(v) && !info.IsBoolean:
		info.Kind = KindName
	}

	for ctx, words := range contextKeywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				info.Context = ctx
				break
			}
		}
		if info.Context != ContextGeneral {
			break
		}
	}
	return info
}

var campaignAdjectives = []string{"Spring", "Summer", "Autumn", "Winter", "Fresh", "Bold", "Prime", "Global"}
var campaignNouns = []string{"Launch", "Boost", "Reach", "Wave", "Surge", "Drive", "Push", "Blitz"}

var statusWords = []string{"Active", "Pending", "Review", "Closed", "Open", "Queued"}
var departmentWords = []string{"Operations", "Research", "Support", "Logistics", "Planning", "Development"}
var priorityWords = []string{"High", "Medium", "Low", "Normal"}
var categoryWords = []string{"Standard", "Premium", "Basic", "Extended", "Core"}
var productWords = []string{"Orion", "Vega", "Atlas", "Nimbus", "Quartz", "Lumen"}
var generalWords = []string{"Alpha", "Beta", "Gamma", "Delta", "Sigma", "Omega"}

// GenerateConstantReplacement produces a plausible substitute for a
// constant value: shape-preserving for identifier/version/date kinds, and
// context-matched word combinations otherwise.
func GenerateConstantReplacement(value string, rng *rand.Rand) string {
	info := ClassifyConstant(value)
	v := strings.TrimSpace(value)

	switch info.Kind {
	case KindIdentifier:
		return regenerateIdentifier(v, rng)
	case KindVersion:
		return regenerateVersion(v, rng)
	case KindDate:
		return regenerateConstDate(v, rng)
	case KindEmail:
		return fmt.Sprintf("contact%d@example.com", rng.Intn(900)+100)
	case KindURL:
		return fmt.Sprintf("https://example%d.org", rng.Intn(90)+10)
	}

	if info.IsNumeric {
		return regenerateConstNumber(v, rng)
	}

	switch info.Context {
	case ContextCampaign:
		adj := campaignAdjectives[rng.Intn(len(campaignAdjectives))]
		noun := campaignNouns[rng.Intn(len(campaignNouns))]
		return fmt.Sprintf("%s %s %d", adj, noun, 2023+rng.Intn(3))
	case ContextStatus:
		return statusWords[rng.Intn(len(statusWords))]
	case ContextDepartment:
		return departmentWords[rng.Intn(len(departmentWords))]
	case ContextPriority:
		return priorityWords[rng.Intn(len(priorityWords))]
	case ContextCategory:
		return categoryWords[rng.Intn(len(categoryWords))]
	case ContextProduct:
		return productWords[rng.Intn(len(productWords))]
	default:
		return generalWords[rng.Intn(len(generalWords))]
	}
}

// regenerateIdentifier keeps the letter/digit split of values like
// "ABC1234" and moves the numeric part at most 100 away from the original.
func regenerateIdentifier(v string, rng *rand.Rand) string {
	letters := strings.IndexFunc(v, func(r rune) bool { return r >= '0' && r <= '9' })
	if letters < 0 {
		letters = len(v)
	}
	prefix := make([]byte, letters)
	for i := range prefix {
		prefix[i] = byte('A' + rng.Intn(26))
	}

	digits := v[letters:]
	num := 0
	for _, r := range digits {
		num = num*10 + int(r-'0')
	}
	num += rng.Intn(201) - 100
	if num < 0 {
		num = -num
	}
	return fmt.Sprintf("%s%0*d", prefix, len(digits), num)
}

// regenerateConstNumber keeps the digit count, sign and decimal point of
// a numeric constant; the leading digit stays non-zero.
func regenerateConstNumber(v string, rng *rand.Rand) string {
	out := []byte(v)
	first := true
	for i := range out {
		if out[i] < '0' || out[i] > '9' {
			continue
		}
		if first {
			out[i] = byte('1' + rng.Intn(9))
			first = false
			continue
		}
		out[i] = byte('0' + rng.Intn(10))
	}
	return string(out)
}

func regenerateVersion(v string, rng *rand.Rand) string {
	prefix := ""
	if strings.HasPrefix(v, "v") {
		prefix = "v"
	}
	parts := strings.Count(v, ".")
	if parts >= 2 {
		return fmt.Sprintf("%s%d.%d.%d", prefix, 1+rng.Intn(9), rng.Intn(10), rng.Intn(10))
	}
	return fmt.Sprintf("%s%d.%d", prefix, 1+rng.Intn(9), rng.Intn(10))
}

func regenerateConstDate(v string, rng *rand.Rand) string {
	sep := "-"
	if strings.Contains(v, "/") {
		sep = "/"
	}
	year := 2020 + rng.Intn(5)
	month := 1 + rng.Intn(12)
	day := 1 + rng.Intn(28)
	if trailDigitRe.FindString(v) != "" && len(v) >= 8 && v[4] != '-' && v[4] != '/' {
		// day-first or month-first original; keep year at the end.
		return fmt.Sprintf("%02d%s%02d%s%d", month, sep, day, sep, year)
	}
	return fmt.Sprintf("%d%s%02d%s%02d", year, sep, month, sep, day)
}
