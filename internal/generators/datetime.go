package generators

import (
	"regexp"
	"strings"
	"time"
)

// Date-of-birth regeneration window.
const (
	dobYearMin = 1950
	dobYearMax = 2005
)

var dateLayouts = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`), "2006/01/02"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "01/02/2006"},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), "1/2/2006"},
	{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), "01-02-2006"},
	{regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`), "02.01.2006"},
	{regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`), "2006.01.02"},
	{regexp.MustCompile(`^[A-Z][a-z]{2} \d{1,2}, \d{4}$`), "Jan 2, 2006"},
	{regexp.MustCompile(`^\d{1,2} [A-Z][a-z]{2} \d{4}$`), "2 Jan 2006"},
}

var timeLayouts = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{2}:\d{2}:\d{2} (AM|PM)$`), "03:04:05 PM"},
	{regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2} (AM|PM)$`), "3:04:05 PM"},
	{regexp.MustCompile(`^\d{2}:\d{2} (AM|PM)$`), "03:04 PM"},
	{regexp.MustCompile(`^\d{1,2}:\d{2} (AM|PM)$`), "3:04 PM"},
	{regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`), "15:04:05"},
	{regexp.MustCompile(`^\d{2}:\d{2}$`), "15:04"},
	{regexp.MustCompile(`^\d{1,2}:\d{2}$`), "3:04"},
}

// LooksLikeDate reports whether the value matches a known date format.
func LooksLikeDate(value string) bool {
	return detectDateLayout(strings.TrimSpace(value)) != ""
}

// LooksLikeDateTime reports whether the value matches a known
// date-plus-time format.
func LooksLikeDateTime(value string) bool {
	trimmed := strings.TrimSpace(value)
	for _, sep := range []string{"T", " "} {
		if idx := strings.Index(trimmed, sep); idx > 0 {
			if detectDateLayout(trimmed[:idx]) != "" && detectTimeLayout(trimmed[idx+1:]) != "" {
				return true
			}
		}
	}
	return false
}

// detectDateLayout returns the Go layout matching the sample, or "" when
// no known format matches.
func detectDateLayout(value string) string {
	for _, dl := range dateLayouts {
		if dl.re.MatchString(value) {
			return dl.layout
		}
	}
	return ""
}

func detectTimeLayout(value string) string {
	for _, tl := range timeLayouts {
		if tl.re.MatchString(value) {
			return tl.layout
		}
	}
	return ""
}

// maskDate regenerates a date in the exact format family of the original.
// Dates of birth draw from 1950-2005; everything else from the Masker's
// configured window. Unrecognized input falls back to ISO output.
func (m *Masker) maskDate(value string, dateOfBirth bool) string {
	layout := detectDateLayout(strings.TrimSpace(value))
	if layout == "" {
		layout = "2006-01-02"
	}
	return m.randomDate(dateOfBirth).Format(layout)
}

func (m *Masker) maskTime(value string) string {
	layout := detectTimeLayout(strings.TrimSpace(value))
	if layout == "" {
		layout = "15:04:05"
	}
	return m.randomClock().Format(layout)
}

// maskDateTime splits the value into date and time halves, preserving the
// "T" or space separator and each half's format tokens.
func (m *Masker) maskDateTime(value string) string {
	trimmed := strings.TrimSpace(value)

	sep := " "
	dateRaw, timeRaw := trimmed, ""
	if idx := strings.Index(trimmed, "T"); idx > 0 {
		sep = "T"
		dateRaw, timeRaw = trimmed[:idx], trimmed[idx+1:]
	} else if idx := strings.Index(trimmed, " "); idx > 0 {
		dateRaw, timeRaw = trimmed[:idx], trimmed[idx+1:]
		// "03:04:05 PM" style keeps its AM/PM marker with the time half.
		if rest := timeRaw; strings.HasSuffix(rest, "AM") || strings.HasSuffix(rest, "PM") {
			timeRaw = rest
		}
	}

	dateLayout := detectDateLayout(dateRaw)
	if dateLayout == "" {
		dateLayout = "2006-01-02"
	}
	if timeRaw == "" {
		return m.randomDate(false).Format(dateLayout)
	}
	timeLayout := detectTimeLayout(timeRaw)
	if timeLayout == "" {
		timeLayout = "15:04:05"
	}

	t := m.randomDate(false)
	clock := m.randomClock()
	t = time.Date(t.Year(), t.Month(), t.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return t.Format(dateLayout) + sep + t.Format(timeLayout)
}

func (m *Masker) randomDate(dateOfBirth bool) time.Time {
	lo, hi := m.yearMin, m.yearMax
	if dateOfBirth {
		lo, hi = dobYearMin, dobYearMax
	}
	year := lo + m.rng.Intn(hi-lo+1)
	month := time.Month(1 + m.rng.Intn(12))
	day := 1 + m.rng.Intn(28)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (m *Masker) randomClock() time.Time {
	return time.Date(2000, 1, 1, m.rng.Intn(24), m.rng.Intn(60), m.rng.Intn(60), 0, time.UTC)
}
