package generators

import (
	"fmt"
	"strings"
	"time"
)

// maxUniqueAttempts bounds collision regeneration before falling back to a
// disambiguating suffix.
const maxUniqueAttempts = 100

// maskEmail keeps the original domain and replaces the local part with a
// fresh lowercase alphanumeric one, unique within the run.
func (m *Masker) maskEmail(value string, rowIndex int) string {
	domain := "example.com"
	if at := strings.LastIndex(value, "@"); at >= 0 && at < len(value)-1 {
		domain = value[at+1:]
	}

	for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
		local := strings.ToLower(m.faker.FirstName()) + strings.ToLower(m.faker.LastName())
		if m.rng.Intn(2) == 0 {
			local += fmt.Sprintf("%d", m.rng.Intn(100))
		}
		candidate := local + "@" + domain
		if _, taken := m.usedEmails[candidate]; !taken {
			m.usedEmails[candidate] = struct{}{}
			return candidate
		}
	}

	// Last resort: a suffix no earlier candidate can carry.
	candidate := fmt.Sprintf("user%d%d@%s", rowIndex, time.Now().UnixMilli()%100000, domain)
	m.usedEmails[candidate] = struct{}{}
	return candidate
}

// maskUsername generates a unique username, keeping rough length parity
// with the original.
func (m *Masker) maskUsername(value string, rowIndex int) string {
	for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
		candidate := strings.ToLower(m.faker.Username())
		if len(value) > len(candidate) {
			candidate += fmt.Sprintf("%d", m.rng.Intn(1000))
		}
		if _, taken := m.usedUsernames[candidate]; !taken {
			m.usedUsernames[candidate] = struct{}{}
			return candidate
		}
	}
	candidate := fmt.Sprintf("member%d%d", rowIndex, time.Now().UnixMilli()%100000)
	m.usedUsernames[candidate] = struct{}{}
	return candidate
}

// maskPhone regenerates every digit while keeping the punctuation template
// of the original ("(555) 123-4567" stays parenthesized and dashed). The
// first digit of each run is kept non-zero. Output is unique per run.
func (m *Masker) maskPhone(value string, rowIndex int) string {
	for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
		candidate := m.regeneratePhoneDigits(value)
		if _, taken := m.usedPhones[candidate]; !taken {
			m.usedPhones[candidate] = struct{}{}
			return candidate
		}
	}
	candidate := m.regeneratePhoneDigits(value) + fmt.Sprintf("#%d", rowIndex)
	m.usedPhones[candidate] = struct{}{}
	return candidate
}

func (m *Masker) regeneratePhoneDigits(value string) string {
	out := make([]rune, 0, len(value))
	startOfRun := true
	for _, r := range value {
		if r >= '0' && r <= '9' {
			if startOfRun {
				out = append(out, rune('1'+m.rng.Intn(9)))
				startOfRun = false
			} else {
				out = append(out, rune('0'+m.rng.Intn(10)))
			}
		} else {
			out = append(out, r)
			startOfRun = true
		}
	}
	return string(out)
}
