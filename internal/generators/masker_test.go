package generators

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamask/internal/model"
	"datamask/internal/pattern"
)

func newTestMasker() *Masker {
	return NewSeededMasker(true, 42)
}

func TestMaskPassthrough(t *testing.T) {
	m := newTestMasker()
	assert.Equal(t, "", m.Mask("", model.TypeEmail, Context{}))
	assert.Equal(t, "   ", m.Mask("   ", model.TypeName, Context{}))
}

func TestMaskEmail(t *testing.T) {
	m := newTestMasker()

	t.Run("preserves domain and differs from input", func(t *testing.T) {
		out := m.Mask("john.doe@gmail.com", model.TypeEmail, Context{})
		assert.NotEqual(t, "john.doe@gmail.com", out)
		assert.True(t, strings.HasSuffix(out, "@gmail.com"), "got %q", out)
		assert.Regexp(t, `^[a-z0-9]+@gmail\.com$`, out)
	})

	t.Run("unique within a run", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 500; i++ {
			out := m.Mask("a@corp.io", model.TypeEmail, Context{RowIndex: i})
			require.False(t, seen[out], "duplicate email %q at row %d", out, i)
			seen[out] = true
		}
	})
}

func TestMaskUsernameUnique(t *testing.T) {
	m := newTestMasker()
	seen := make(map[string]bool)
	for i := 0; i < 300; i++ {
		out := m.Mask("jdoe42", model.TypeUsername, Context{RowIndex: i})
		require.False(t, seen[out], "duplicate username %q", out)
		seen[out] = true
	}
}

func TestMaskPhone(t *testing.T) {
	m := newTestMasker()

	t.Run("keeps punctuation template", func(t *testing.T) {
		out := m.Mask("(555) 123-4567", model.TypePhoneNumber, Context{})
		assert.Regexp(t, `^\(\d{3}\) \d{3}-\d{4}$`, out)
		assert.NotEqual(t, "(555) 123-4567", out)
	})

	t.Run("keeps plain digit count", func(t *testing.T) {
		out := m.Mask("07911123456", model.TypePhoneNumber, Context{})
		assert.Regexp(t, `^\d{11}$`, out)
	})

	t.Run("unique within a run", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 200; i++ {
			out := m.Mask("555-0000", model.TypePhoneNumber, Context{RowIndex: i})
			require.False(t, seen[out])
			seen[out] = true
		}
	})
}

func TestMaskDates(t *testing.T) {
	m := newTestMasker()

	t.Run("iso date keeps format", func(t *testing.T) {
		out := m.Mask("1987-06-21", model.TypeDate, Context{})
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, out)
	})

	t.Run("us slash date keeps format", func(t *testing.T) {
		out := m.Mask("06/21/1987", model.TypeDate, Context{})
		assert.Regexp(t, `^\d{2}/\d{2}/\d{4}$`, out)
	})

	t.Run("date of birth stays in 1950-2005", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			out := m.Mask("1987-06-21", model.TypeDateOfBirth, Context{})
			year, err := strconv.Atoi(out[:4])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, year, 1950)
			assert.LessOrEqual(t, year, 2005)
		}
	})

	t.Run("datetime keeps separator and seconds", func(t *testing.T) {
		out := m.Mask("2023-04-01T09:30:00", model.TypeDateTime, Context{})
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`, out)

		out = m.Mask("2023-04-01 09:30", model.TypeDateTime, Context{})
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`, out)
	})

	t.Run("twelve hour clock keeps marker", func(t *testing.T) {
		out := m.Mask("09:30 PM", model.TypeTime, Context{})
		assert.Regexp(t, `^\d{2}:\d{2} (AM|PM)$`, out)
	})

	t.Run("unparseable date falls back to iso", func(t *testing.T) {
		out := m.Mask("sometime last year", model.TypeDate, Context{})
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, out)
	})
}

func TestMaskNumbers(t *testing.T) {
	m := newTestMasker()

	t.Run("int stays within half of original", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			out := m.Mask("1000", model.TypeInt, Context{})
			n, err := strconv.Atoi(out)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 500)
			assert.LessOrEqual(t, n, 1500)
		}
	})

	t.Run("float keeps decimal places", func(t *testing.T) {
		out := m.Mask("123.456", model.TypeFloat, Context{})
		parts := strings.SplitN(out, ".", 2)
		require.Len(t, parts, 2)
		assert.Len(t, parts[1], 3)
	})

	t.Run("unparseable int falls back", func(t *testing.T) {
		out := m.Mask("not a number", model.TypeInt, Context{})
		_, err := strconv.Atoi(out)
		assert.NoError(t, err)
	})

	t.Run("currency keeps symbol", func(t *testing.T) {
		out := m.Mask("$1,234.56", model.TypeCurrency, Context{})
		assert.True(t, strings.HasPrefix(out, "$"), "got %q", out)
		assert.Regexp(t, `^\$\d+\.\d{2}$`, out)
	})
}

func TestMaskPostalCode(t *testing.T) {
	m := newTestMasker()

	assert.Regexp(t, `^\d{5}$`, m.Mask("90210", model.TypePostalCode, Context{}))
	assert.Regexp(t, `^\d{5}-\d{4}$`, m.Mask("90210-1234", model.TypePostalCode, Context{}))
	assert.Regexp(t, `^\d{6}$`, m.Mask("560001", model.TypePostalCode, Context{}))
	// Alphanumeric systems keep the letter/digit template.
	assert.Regexp(t, `^[A-Z]\d[A-Z] \d[A-Z]\d$`, m.Mask("K1A 0B1", model.TypePostalCode, Context{}))
	assert.Regexp(t, `^[A-Z]{2}\d[A-Z] \d[A-Z]{2}$`, m.Mask("SW1A 1AA", model.TypePostalCode, Context{}))
}

func TestMaskCard(t *testing.T) {
	m := newTestMasker()

	t.Run("visa keeps length prefix and luhn", func(t *testing.T) {
		out := m.Mask("4539148803436467", model.TypeCreditCard, Context{})
		assert.Len(t, out, 16)
		assert.True(t, strings.HasPrefix(out, "4"), "got %q", out)
		assert.True(t, LuhnValid(out), "not luhn valid: %q", out)
	})

	t.Run("amex grouped 4-6-5", func(t *testing.T) {
		out := m.Mask("3782 822463 10005", model.TypeCreditCard, Context{})
		assert.Regexp(t, `^3[47]\d{2} \d{6} \d{5}$`, out)
		assert.True(t, LuhnValid(out))
	})

	t.Run("dashed grouping preserved", func(t *testing.T) {
		out := m.Mask("5500-0000-0000-0004", model.TypeDebitCard, Context{})
		assert.Regexp(t, `^5[1-5]\d{2}-\d{4}-\d{4}-\d{4}$`, out)
		assert.True(t, LuhnValid(out))
	})

	t.Run("every generated card is luhn valid", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			out := m.Mask("4111111111111111", model.TypeCreditCard, Context{})
			require.True(t, LuhnValid(out), "iteration %d: %q", i, out)
		}
	})
}

func TestDetectCardNetwork(t *testing.T) {
	assert.Equal(t, "visa", DetectCardNetwork("4539148803436467"))
	assert.Equal(t, "amex", DetectCardNetwork("378282246310005"))
	assert.Equal(t, "mastercard", DetectCardNetwork("5500000000000004"))
	assert.Equal(t, "discover", DetectCardNetwork("6011000000000004"))
	assert.Equal(t, "", DetectCardNetwork("9999"))
}

func TestMaskName(t *testing.T) {
	m := newTestMasker()

	t.Run("keeps word count", func(t *testing.T) {
		out := m.Mask("John Smith", model.TypeName, Context{})
		assert.Len(t, strings.Fields(out), 2)
		out = m.Mask("Anna Maria Lopez", model.TypeName, Context{})
		assert.Len(t, strings.Fields(out), 3)
	})

	t.Run("keeps all caps casing", func(t *testing.T) {
		out := m.Mask("JOHN SMITH", model.TypeName, Context{})
		assert.Equal(t, strings.ToUpper(out), out)
	})
}

func TestMaskString(t *testing.T) {
	m := newTestMasker()

	t.Run("short values keep character classes", func(t *testing.T) {
		out := m.Mask("AB-12/xy", model.TypeString, Context{})
		assert.Regexp(t, `^[A-Z]{2}-\d{2}/[a-z]{2}$`, out)
	})

	t.Run("long text becomes truncated lorem", func(t *testing.T) {
		long := strings.Repeat("all work and no play ", 8)
		out := m.Mask(long, model.TypeText, Context{})
		assert.Len(t, out, len(long))
		assert.True(t, strings.HasPrefix(out, "Lorem ipsum"))
	})
}

func TestMaskPatternPrecedence(t *testing.T) {
	m := newTestMasker()

	t.Run("sequence beats type generator", func(t *testing.T) {
		var samples []string
		for i := 1; i <= 10; i++ {
			samples = append(samples, fmt.Sprintf("Campaign_%d", i))
		}
		a := pattern.AnalyzeColumn(samples)
		out := m.Mask("Campaign_3", model.TypeString, Context{Analysis: &a, RowIndex: 0})
		assert.Equal(t, "Campaign_11", out)
	})

	t.Run("constant beats type generator", func(t *testing.T) {
		a := pattern.Analysis{IsConstantValue: true, ConstantValue: "Summer Campaign"}
		out := m.Mask("Summer Campaign", model.TypeString, Context{Analysis: &a})
		assert.NotEqual(t, "Summer Campaign", out)
		assert.NotEmpty(t, out)
	})
}
