package addressgen

import (
	"encoding/json"
	"regexp"
	"strings"

	"datamask/internal/geo"
	"datamask/internal/model"
)

// ParseResponse turns raw model output into structured addresses per
// country. The reply may be a JSON array (single country), a JSON object
// keyed by country name (batch), or either of those wrapped in prose; as
// a last resort non-empty lines are treated as address strings for a
// single-country request.
func ParseResponse(content string, reqs []model.CountryRequirement) map[string][]model.GeneratedAddress {
	out := make(map[string][]model.GeneratedAddress, len(reqs))

	span, kind := extractJSONSpan(content)
	switch kind {
	case '{':
		var keyed map[string][]string
		if err := json.Unmarshal([]byte(span), &keyed); err == nil {
			for country, lines := range keyed {
				canonical := geo.CanonicalName(country)
				for _, line := range lines {
					if addr, ok := ParseAddress(line, canonical); ok {
						out[canonical] = append(out[canonical], addr)
					}
				}
			}
			return out
		}
	case '[':
		var lines []string
		if err := json.Unmarshal([]byte(span), &lines); err == nil && len(reqs) > 0 {
			country := reqs[0].Country
			for _, line := range lines {
				if addr, ok := ParseAddress(line, country); ok {
					out[country] = append(out[country], addr)
				}
			}
			return out
		}
	}

	// No extractable JSON: fall back to line splitting for single-country
	// requests. Batch replies without JSON are unrecoverable.
	if len(reqs) == 1 {
		country := reqs[0].Country
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
			if line == "" {
				continue
			}
			if addr, ok := ParseAddress(line, country); ok {
				out[country] = append(out[country], addr)
			}
		}
	}
	return out
}

// extractJSONSpan locates the first balanced [...] or {...} span in free
// text. Models often wrap their JSON in explanatory prose.
func extractJSONSpan(content string) (string, byte) {
	start := -1
	var open, close byte
	for i := 0; i < len(content); i++ {
		if content[i] == '[' || content[i] == '{' {
			start = i
			open = content[i]
			close = '}'
			if open == '[' {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", 0
	}

	depth := 0
	inString := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return content[start : i+1], open
			}
		}
	}
	return "", 0
}

// parserFunc decomposes one single-line address into fields. ok is false
// when the line does not fit the country's format.
type parserFunc func(raw, country string) (model.GeneratedAddress, bool)

// formatParsers is the country-format registry. Countries without an
// entry use parseGeneric. Keep this a registry, not a chain: new formats
// register here.
var formatParsers = map[string]parserFunc{
	"us": parseUS,
	"uk": parseUK,
	"ca": parseCanada,
	"br": parseBrazil,
	"de": parseGermany,
}

// ParseAddress decomposes a raw single-line address using the parser
// registered for the country's format, falling back to the generic
// splitter. The country field of the result is always the requested
// country, never whatever the model echoed back.
func ParseAddress(raw, country string) (model.GeneratedAddress, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.GeneratedAddress{}, false
	}

	parse := parseGeneric
	if info, ok := geo.Lookup(country); ok && info.FormatID != "" {
		if p, ok := formatParsers[info.FormatID]; ok {
			parse = p
		}
	}

	addr, ok := parse(raw, country)
	if !ok {
		addr, ok = parseGeneric(raw, country)
	}
	if !ok || !addr.IsComplete() {
		return model.GeneratedAddress{}, false
	}
	return addr, true
}

var (
	postalNoiseRe = regexp.MustCompile(`[^A-Za-z0-9\- ]`)
	listMarkerRe  = regexp.MustCompile(`^\s*(?:[-*]|\d{1,3}[.)])\s*`)
)

// sanitizePostal strips non-alphanumeric noise the model sometimes wraps
// postal codes in.
func sanitizePostal(s string) string {
	return strings.TrimSpace(postalNoiseRe.ReplaceAllString(s, ""))
}

func splitSegments(raw string) []string {
	parts := strings.Split(raw, ",")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			segs = append(segs, t)
		}
	}
	return segs
}

// dropCountrySegment removes a trailing segment that only repeats the
// country name.
func dropCountrySegment(segs []string, country string) []string {
	if len(segs) == 0 {
		return segs
	}
	last := segs[len(segs)-1]
	if strings.EqualFold(geo.CanonicalName(last), geo.CanonicalName(country)) {
		return segs[:len(segs)-1]
	}
	return segs
}

var usStateZipRe = regexp.MustCompile(`^([A-Za-z .]+?)[ ,]+(\d{5}(?:-\d{4})?)$`)

// parseUS handles "street, city, ST 12345, country".
func parseUS(raw, country string) (model.GeneratedAddress, bool) {
	segs := dropCountrySegment(splitSegments(raw), country)
	if len(segs) < 3 {
		return model.GeneratedAddress{}, false
	}
	m := usStateZipRe.FindStringSubmatch(segs[len(segs)-1])
	if m == nil {
		return model.GeneratedAddress{}, false
	}
	return model.GeneratedAddress{
		Street:     strings.Join(segs[:len(segs)-2], ", "),
		City:       segs[len(segs)-2],
		State:      strings.TrimSpace(m[1]),
		PostalCode: sanitizePostal(m[2]),
		Country:    country,
	}, true
}

var ukPostcodeRe = regexp.MustCompile(`\b([A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2})\b`)

// parseUK handles "street, city POSTCODE, country"; the postcode is
// embedded in the city segment.
func parseUK(raw, country string) (model.GeneratedAddress, bool) {
	segs := dropCountrySegment(splitSegments(raw), country)
	if len(segs) < 2 {
		return model.GeneratedAddress{}, false
	}
	cityseg := segs[len(segs)-1]
	m := ukPostcodeRe.FindStringSubmatch(strings.ToUpper(cityseg))
	if m == nil {
		// Postcode may sit in its own segment after the city.
		if len(segs) >= 3 {
			if m2 := ukPostcodeRe.FindStringSubmatch(strings.ToUpper(segs[len(segs)-1])); m2 != nil {
				return model.GeneratedAddress{
					Street:     strings.Join(segs[:len(segs)-2], ", "),
					City:       segs[len(segs)-2],
					State:      segs[len(segs)-2],
					PostalCode: sanitizePostal(m2[1]),
					Country:    country,
				}, true
			}
		}
		return model.GeneratedAddress{}, false
	}

	city := strings.TrimSpace(strings.Replace(strings.ToUpper(cityseg), m[1], "", 1))
	// Keep the original casing of the city text that survives.
	city = matchOriginalCase(cityseg, city)
	if city == "" && len(segs) >= 3 {
		city = segs[len(segs)-2]
	}
	return model.GeneratedAddress{
		Street:     strings.Join(segs[:len(segs)-1], ", "),
		City:       city,
		State:      city,
		PostalCode: sanitizePostal(m[1]),
		Country:    country,
	}, true
}

// matchOriginalCase recovers original casing for the part of seg that
// remained after removing the postcode (an uppercase comparison left it
// uppercased).
func matchOriginalCase(original, uppered string) string {
	uppered = strings.TrimSpace(uppered)
	if uppered == "" {
		return ""
	}
	if idx := strings.Index(strings.ToUpper(original), uppered); idx >= 0 {
		return strings.TrimSpace(original[idx : idx+len(uppered)])
	}
	return uppered
}

var caPostalRe = regexp.MustCompile(`\b([A-Z]\d[A-Z]\s*\d[A-Z]\d)\b`)

// parseCanada handles "street, city, province A1A 1A1, country".
func parseCanada(raw, country string) (model.GeneratedAddress, bool) {
	segs := dropCountrySegment(splitSegments(raw), country)
	if len(segs) < 3 {
		return model.GeneratedAddress{}, false
	}
	provinceSeg := segs[len(segs)-1]
	m := caPostalRe.FindStringSubmatch(strings.ToUpper(provinceSeg))
	if m == nil {
		return model.GeneratedAddress{}, false
	}
	province := strings.TrimSpace(strings.Replace(strings.ToUpper(provinceSeg), m[1], "", 1))
	province = matchOriginalCase(provinceSeg, province)
	return model.GeneratedAddress{
		Street:     strings.Join(segs[:len(segs)-2], ", "),
		City:       segs[len(segs)-2],
		State:      province,
		PostalCode: sanitizePostal(m[1]),
		Country:    country,
	}, true
}

var (
	brPostalRe   = regexp.MustCompile(`\b(\d{5}-?\d{3})\b`)
	bareNumberRe = regexp.MustCompile(`^\d+[A-Za-z]?$`)
)

// parseBrazil handles "street, number, city, state 12345-678, country":
// street and house number arrive as separate segments.
func parseBrazil(raw, country string) (model.GeneratedAddress, bool) {
	segs := dropCountrySegment(splitSegments(raw), country)
	if len(segs) < 3 {
		return model.GeneratedAddress{}, false
	}
	stateSeg := segs[len(segs)-1]
	m := brPostalRe.FindStringSubmatch(stateSeg)
	if m == nil {
		return model.GeneratedAddress{}, false
	}
	state := strings.TrimSpace(strings.Replace(stateSeg, m[1], "", 1))

	city := segs[len(segs)-2]
	streetSegs := segs[:len(segs)-2]
	// Re-join a bare house number with its street.
	if len(streetSegs) >= 2 && bareNumberRe.MatchString(streetSegs[len(streetSegs)-1]) {
		streetSegs[len(streetSegs)-2] += ", " + streetSegs[len(streetSegs)-1]
		streetSegs = streetSegs[:len(streetSegs)-1]
	}
	return model.GeneratedAddress{
		Street:     strings.Join(streetSegs, ", "),
		City:       city,
		State:      state,
		PostalCode: sanitizePostal(m[1]),
		Country:    country,
	}, true
}

var dePostalCityRe = regexp.MustCompile(`^(\d{5})\s+(.+)$`)

// parseGermany handles "street number, 12345 city, country". German
// addresses have no state segment; the region comes from reference data.
func parseGermany(raw, country string) (model.GeneratedAddress, bool) {
	segs := dropCountrySegment(splitSegments(raw), country)
	if len(segs) < 2 {
		return model.GeneratedAddress{}, false
	}
	m := dePostalCityRe.FindStringSubmatch(segs[len(segs)-1])
	if m == nil {
		return model.GeneratedAddress{}, false
	}
	state := m[2]
	if info, ok := geo.Lookup(country); ok && len(info.Regions) > 0 {
		state = info.Regions[len(m[1])%len(info.Regions)]
	}
	return model.GeneratedAddress{
		Street:     strings.Join(segs[:len(segs)-1], ", "),
		City:       m[2],
		State:      state,
		PostalCode: sanitizePostal(m[1]),
		Country:    country,
	}, true
}

// parseGeneric is the fallback splitter for unregistered formats: comma
// segments mapped positionally, with trailing postal-looking tokens
// peeled off the last segment.
func parseGeneric(raw, country string) (model.GeneratedAddress, bool) {
	segs := dropCountrySegment(splitSegments(raw), country)
	if len(segs) < 3 {
		return model.GeneratedAddress{}, false
	}

	last := segs[len(segs)-1]
	fields := strings.Fields(last)
	// Consume up to two trailing digit-bearing tokens as the postal code
	// ("21000", "L6T 3R5"); what remains is the state/region.
	cut := len(fields)
	for cut > 0 && len(fields)-cut < 2 {
		tok := fields[cut-1]
		if len(tok) > 8 || !strings.ContainsAny(tok, "0123456789") {
			break
		}
		cut--
	}
	postal := sanitizePostal(strings.Join(fields[cut:], " "))
	state := strings.Join(fields[:cut], " ")

	if postal == "" || state == "" {
		if len(segs) >= 4 {
			// "street, city, state, postal" layout.
			return model.GeneratedAddress{
				Street:     strings.Join(segs[:len(segs)-3], ", "),
				City:       segs[len(segs)-3],
				State:      segs[len(segs)-2],
				PostalCode: sanitizePostal(segs[len(segs)-1]),
				Country:    country,
			}, true
		}
		return model.GeneratedAddress{}, false
	}

	return model.GeneratedAddress{
		Street:     strings.Join(segs[:len(segs)-2], ", "),
		City:       segs[len(segs)-2],
		State:      state,
		PostalCode: postal,
		Country:    country,
	}, true
}
