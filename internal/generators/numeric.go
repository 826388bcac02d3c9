package generators

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maskInt regenerates an integer within ±50% of the original. Unparseable
// input falls back to a small default range.
func (m *Masker) maskInt(value string) string {
	trimmed := strings.TrimSpace(value)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return strconv.Itoa(1 + m.rng.Intn(1000))
	}

	span := n / 2
	if span < 0 {
		span = -span
	}
	if span == 0 {
		span = 5
	}
	masked := n - span + int64(m.rng.Int63n(2*span+1))
	return strconv.FormatInt(masked, 10)
}

// maskFloat regenerates within ±50% and keeps the decimal-place count of
// the original.
func (m *Masker) maskFloat(value string) string {
	trimmed := strings.TrimSpace(value)
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Sprintf("%.2f", m.rng.Float64()*1000)
	}

	decimals := 0
	if dot := strings.LastIndex(trimmed, "."); dot >= 0 {
		decimals = len(trimmed) - dot - 1
	}

	span := math.Abs(f) / 2
	if span == 0 {
		span = 5
	}
	masked := f - span + m.rng.Float64()*2*span
	return strconv.FormatFloat(masked, 'f', decimals, 64)
}

// maskCurrency preserves a leading currency symbol or trailing ISO code
// and regenerates the amount within ±50%.
func (m *Masker) maskCurrency(value string) string {
	trimmed := strings.TrimSpace(value)
	prefix, suffix := "", ""
	core := trimmed

	for _, sym := range []string{"$", "€", "£", "¥"} {
		if strings.HasPrefix(core, sym) {
			prefix = sym
			core = strings.TrimSpace(core[len(sym):])
			break
		}
	}
	if len(core) > 4 {
		tail := core[len(core)-3:]
		if tail == strings.ToUpper(tail) && !strings.ContainsAny(tail, "0123456789.") {
			suffix = " " + tail
			core = strings.TrimSpace(core[:len(core)-3])
		}
	}
	core = strings.ReplaceAll(core, ",", "")

	return prefix + m.maskFloat(core) + suffix
}

// maskPostalCode keeps the format family of the original: 5-digit, 5+4,
// 6-digit, or letter/digit template for alphanumeric systems (UK, Canada).
func (m *Masker) maskPostalCode(value string) string {
	trimmed := strings.TrimSpace(value)

	digitsOnly := true
	for _, r := range trimmed {
		if (r < '0' || r > '9') && r != '-' && r != ' ' {
			digitsOnly = false
			break
		}
	}
	if digitsOnly {
		switch {
		case len(trimmed) == 10 && trimmed[5] == '-':
			return fmt.Sprintf("%05d-%04d", 10000+m.rng.Intn(89999), 1000+m.rng.Intn(8999))
		case len(trimmed) == 6:
			return fmt.Sprintf("%06d", 100000+m.rng.Intn(899999))
		default:
			return fmt.Sprintf("%05d", 10000+m.rng.Intn(89999))
		}
	}

	// Alphanumeric template: letters stay letters, digits stay digits.
	out := make([]rune, 0, len(trimmed))
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			out = append(out, rune('0'+m.rng.Intn(10)))
		case r >= 'A' && r <= 'Z':
			out = append(out, rune('A'+m.rng.Intn(26)))
		case r >= 'a' && r <= 'z':
			out = append(out, rune('a'+m.rng.Intn(26)))
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
