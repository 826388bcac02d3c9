package generators

import "strings"

// Card network prefixes used when regenerating payment card numbers. The
// network is detected from the original number so a Visa stays a Visa.
var cardNetworks = []struct {
	name     string
	prefixes []string
	length   int
}{
	{"amex", []string{"34", "37"}, 15},
	{"mastercard", []string{"51", "52", "53", "54", "55"}, 16},
	{"discover", []string{"6011", "65"}, 16},
	{"visa", []string{"4"}, 16},
}

// DetectCardNetwork reports the payment network of a card number, or ""
// when no known prefix matches.
func DetectCardNetwork(number string) string {
	digits := digitsOf(number)
	for _, n := range cardNetworks {
		for _, p := range n.prefixes {
			if strings.HasPrefix(digits, p) {
				return n.name
			}
		}
	}
	return ""
}

// LuhnValid reports whether the digits of number satisfy the Luhn
// checksum.
func LuhnValid(number string) bool {
	digits := digitsOf(number)
	if len(digits) < 2 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// maskCard regenerates a card number on the original's network (default
// visa), fixes the Luhn check digit, and reformats with network-specific
// grouping when the original was grouped.
func (m *Masker) maskCard(value string) string {
	network := DetectCardNetwork(value)
	if network == "" {
		network = "visa"
	}
	var spec struct {
		name     string
		prefixes []string
		length   int
	}
	for _, n := range cardNetworks {
		if n.name == network {
			spec = n
			break
		}
	}

	length := len(digitsOf(value))
	if length < 13 || length > 19 {
		length = spec.length
	}

	prefix := spec.prefixes[m.rng.Intn(len(spec.prefixes))]
	digits := []byte(prefix)
	for len(digits) < length-1 {
		digits = append(digits, byte('0'+m.rng.Intn(10)))
	}
	digits = append(digits, luhnCheckDigit(string(digits)))

	grouped := strings.ContainsAny(value, " -")
	if !grouped {
		return string(digits)
	}
	sep := " "
	if strings.Contains(value, "-") {
		sep = "-"
	}
	return groupCard(string(digits), network, sep)
}

// luhnCheckDigit computes the digit that makes payload+digit Luhn-valid.
func luhnCheckDigit(payload string) byte {
	sum := 0
	double := true
	for i := len(payload) - 1; i >= 0; i-- {
		d := int(payload[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return byte('0' + (10-sum%10)%10)
}

// groupCard applies 4-6-5 grouping for amex and 4-4-4-4(-rest) otherwise.
func groupCard(digits, network, sep string) string {
	var groups []string
	if network == "amex" && len(digits) == 15 {
		groups = []string{digits[:4], digits[4:10], digits[10:]}
	} else {
		for i := 0; i < len(digits); i += 4 {
			end := i + 4
			if end > len(digits) {
				end = len(digits)
			}
			groups = append(groups, digits[i:end])
		}
	}
	return strings.Join(groups, sep)
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}
