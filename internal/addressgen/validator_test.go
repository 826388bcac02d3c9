package addressgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamask/internal/model"
)

func validUSAddress(street string) model.GeneratedAddress {
	return model.GeneratedAddress{
		Street:     street,
		City:       "Fairview",
		State:      "IL",
		PostalCode: "62704",
		Country:    "United States",
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator(3, nil)

	t.Run("complete address is high quality", func(t *testing.T) {
		res := v.Validate(validUSAddress("482 Birchwood Ave"), "United States")
		assert.True(t, res.Valid)
		assert.Equal(t, QualityHigh, res.Quality)
		assert.Empty(t, res.Errors)
	})

	t.Run("missing fields are flagged", func(t *testing.T) {
		addr := validUSAddress("482 Birchwood Ave")
		addr.City = ""
		res := v.Validate(addr, "United States")
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "missing city")
		assert.Equal(t, QualityMedium, res.Quality)
	})

	t.Run("placeholder text is rejected", func(t *testing.T) {
		addr := validUSAddress("Lorem ipsum street")
		res := v.Validate(addr, "United States")
		assert.False(t, res.Valid)

		addr = validUSAddress("482 Birchwood Ave")
		addr.City = "[city]"
		res = v.Validate(addr, "United States")
		assert.False(t, res.Valid)
	})

	t.Run("generic house numbers are rejected", func(t *testing.T) {
		for _, street := range []string{"123 Main St", "111 First Ave", "000 Null Rd"} {
			res := v.Validate(validUSAddress(street), "United States")
			assert.False(t, res.Valid, "street %q should be rejected", street)
		}
		// A number merely starting with those digits is fine.
		res := v.Validate(validUSAddress("1234 Birch St"), "United States")
		assert.True(t, res.Valid)
	})

	t.Run("three or more errors is low quality", func(t *testing.T) {
		res := v.Validate(model.GeneratedAddress{Country: "United States"}, "United States")
		assert.Equal(t, QualityLow, res.Quality)
	})

	t.Run("stats accumulate", func(t *testing.T) {
		s := v.Stats()
		assert.Equal(t, s.Total, s.Valid+s.Invalid)
		assert.Positive(t, s.Total)
	})
}

func TestValidateBatchRetryScoping(t *testing.T) {
	v := NewValidator(3, nil)

	batch := []model.GeneratedAddress{
		validUSAddress("482 Birchwood Ave"),
		validUSAddress("123 Main St"), // generic, invalid
		validUSAddress("9 Harbor Rd"),
		{Street: "77 Pine Ct"}, // missing fields, invalid
		validUSAddress("31 Quay St"),
	}

	outcome := v.ValidateBatch(batch, "United States")
	require.Len(t, outcome.Valid, 3)
	assert.Equal(t, []int{1, 3}, outcome.FailedIndices)

	// The retry asks for exactly the failed count, never the whole batch.
	require.NotNil(t, outcome.Retry)
	assert.Equal(t, 2, outcome.Retry.Count)
	assert.Equal(t, []int{1, 3}, outcome.Retry.RowIndices)
	assert.Equal(t, "United States", outcome.Retry.Country)
}

func TestValidateBatchRetryBudget(t *testing.T) {
	v := NewValidator(2, nil)
	bad := []model.GeneratedAddress{{Street: "x"}}

	first := v.ValidateBatch(bad, "Canada")
	require.NotNil(t, first.Retry)
	second := v.ValidateBatch(bad, "Canada")
	require.NotNil(t, second.Retry)

	// Budget exhausted: partial results accepted, no further retries.
	third := v.ValidateBatch(bad, "Canada")
	assert.Nil(t, third.Retry)
	assert.False(t, v.CanRetry("Canada"))

	// Other countries keep their own budget.
	assert.True(t, v.CanRetry("Brazil"))
}

func TestValidateBatchAllValid(t *testing.T) {
	v := NewValidator(3, nil)
	outcome := v.ValidateBatch([]model.GeneratedAddress{validUSAddress("482 Birchwood Ave")}, "United States")
	assert.Nil(t, outcome.Retry)
	assert.Empty(t, outcome.FailedIndices)
	// A fully valid batch consumes no retry budget.
	assert.True(t, v.CanRetry("United States"))
	assert.Zero(t, v.Stats().Retries)
}
