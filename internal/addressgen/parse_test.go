package addressgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamask/internal/model"
)

func TestExtractJSONSpan(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		span, kind := extractJSONSpan(`["a","b"]`)
		assert.Equal(t, `["a","b"]`, span)
		assert.Equal(t, byte('['), kind)
	})

	t.Run("array wrapped in prose", func(t *testing.T) {
		span, kind := extractJSONSpan("Here are the addresses:\n[\"a\"]\nHope that helps!")
		assert.Equal(t, `["a"]`, span)
		assert.Equal(t, byte('['), kind)
	})

	t.Run("object with nested brackets in strings", func(t *testing.T) {
		text := `Sure! {"United States": ["12 Elm {St}, Town, CA 90001, United States"]}`
		span, kind := extractJSONSpan(text)
		assert.Equal(t, byte('{'), kind)
		assert.Contains(t, span, "United States")
	})

	t.Run("no json", func(t *testing.T) {
		span, kind := extractJSONSpan("nothing structured here")
		assert.Empty(t, span)
		assert.Zero(t, kind)
	})
}

func TestParseAddressFormats(t *testing.T) {
	t.Run("us", func(t *testing.T) {
		addr, ok := ParseAddress("482 Birchwood Ave, Fairview, IL 62704, United States", "United States")
		require.True(t, ok)
		assert.Equal(t, "482 Birchwood Ave", addr.Street)
		assert.Equal(t, "Fairview", addr.City)
		assert.Equal(t, "IL", addr.State)
		assert.Equal(t, "62704", addr.PostalCode)
		assert.Equal(t, "United States", addr.Country)
	})

	t.Run("us zip plus four", func(t *testing.T) {
		addr, ok := ParseAddress("9 Harbor Rd, Salem, OR 97301-1234, United States", "United States")
		require.True(t, ok)
		assert.Equal(t, "97301-1234", addr.PostalCode)
	})

	t.Run("uk postcode embedded with city", func(t *testing.T) {
		addr, ok := ParseAddress("14 Croft Lane, Ashford TN23 4QP, United Kingdom", "United Kingdom")
		require.True(t, ok)
		assert.Equal(t, "14 Croft Lane", addr.Street)
		assert.Equal(t, "Ashford", addr.City)
		assert.Equal(t, "TN23 4QP", addr.PostalCode)
	})

	t.Run("canada province with postal", func(t *testing.T) {
		addr, ok := ParseAddress("77 Birch Cres, Brampton, Ontario L6T 3R5, Canada", "Canada")
		require.True(t, ok)
		assert.Equal(t, "Brampton", addr.City)
		assert.Equal(t, "Ontario", addr.State)
		assert.Equal(t, "L6T 3R5", addr.PostalCode)
	})

	t.Run("brazil street number separate", func(t *testing.T) {
		addr, ok := ParseAddress("Rua das Palmeiras, 481, Campinas, São Paulo 13010-210, Brazil", "Brazil")
		require.True(t, ok)
		assert.Equal(t, "Rua das Palmeiras, 481", addr.Street)
		assert.Equal(t, "Campinas", addr.City)
		assert.Equal(t, "São Paulo", addr.State)
		assert.Equal(t, "13010-210", addr.PostalCode)
	})

	t.Run("germany postal before city", func(t *testing.T) {
		addr, ok := ParseAddress("Lindenstraße 48, 68159 Mannheim, Germany", "Germany")
		require.True(t, ok)
		assert.Equal(t, "Lindenstraße 48", addr.Street)
		assert.Equal(t, "Mannheim", addr.City)
		assert.Equal(t, "68159", addr.PostalCode)
		assert.NotEmpty(t, addr.State)
	})

	t.Run("generic fallback for unregistered country", func(t *testing.T) {
		addr, ok := ParseAddress("4 Rue des Lilas, Dijon, Bourgogne 21000, France", "France")
		require.True(t, ok)
		assert.Equal(t, "Dijon", addr.City)
		assert.Equal(t, "21000", addr.PostalCode)
	})

	t.Run("postal noise is sanitized", func(t *testing.T) {
		addr, ok := ParseAddress("8 Quay St, Madison, WI 53703., United States", "United States")
		require.True(t, ok)
		assert.Equal(t, "53703", addr.PostalCode)
	})

	t.Run("country field always matches the request", func(t *testing.T) {
		addr, ok := ParseAddress("482 Birchwood Ave, Fairview, IL 62704, USA", "United States")
		require.True(t, ok)
		assert.Equal(t, "United States", addr.Country)
	})

	t.Run("incomplete line is rejected", func(t *testing.T) {
		_, ok := ParseAddress("only a street name", "United States")
		assert.False(t, ok)
	})
}

func TestParseResponse(t *testing.T) {
	usReq := []model.CountryRequirement{{Country: "United States", Count: 2}}

	t.Run("single country array", func(t *testing.T) {
		content := `["482 Birchwood Ave, Fairview, IL 62704, United States", "9 Harbor Rd, Salem, OR 97301, United States"]`
		out := ParseResponse(content, usReq)
		require.Len(t, out["United States"], 2)
	})

	t.Run("batch object keyed by country", func(t *testing.T) {
		content := `Here you go: {
			"United States": ["482 Birchwood Ave, Fairview, IL 62704, United States"],
			"Canada": ["77 Birch Cres, Brampton, Ontario L6T 3R5, Canada"]
		} Let me know if you need more.`
		reqs := []model.CountryRequirement{
			{Country: "United States", Count: 1},
			{Country: "Canada", Count: 1},
		}
		out := ParseResponse(content, reqs)
		assert.Len(t, out["United States"], 1)
		assert.Len(t, out["Canada"], 1)
	})

	t.Run("line split fallback for single country", func(t *testing.T) {
		content := "1. 482 Birchwood Ave, Fairview, IL 62704, United States\n2. 9 Harbor Rd, Salem, OR 97301, United States"
		out := ParseResponse(content, usReq)
		assert.Len(t, out["United States"], 2)
	})

	t.Run("unparseable lines are dropped", func(t *testing.T) {
		content := `["482 Birchwood Ave, Fairview, IL 62704, United States", "garbage"]`
		out := ParseResponse(content, usReq)
		assert.Len(t, out["United States"], 1)
	})
}
