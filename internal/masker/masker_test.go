package masker

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamask/internal/addressgen"
	"datamask/internal/generators"
	"datamask/internal/geo"
	"datamask/internal/model"
)

// stubClient serves canned address batches, recording each call.
type stubClient struct {
	batches map[string][]model.GeneratedAddress
	calls   int
}

func (s *stubClient) GenerateBatch(_ context.Context, reqs []model.CountryRequirement) (map[string][]model.GeneratedAddress, error) {
	s.calls++
	out := make(map[string][]model.GeneratedAddress, len(reqs))
	for _, req := range reqs {
		out[req.Country] = s.batches[req.Country]
	}
	return out, nil
}

func personRows() ([]model.Row, []model.Column) {
	rows := []model.Row{
		{"name": "Alice Johnson", "email": "alice@example.com", "phone": "555-123-4567"},
		{"name": "Bob Smith", "email": "bob@example.com", "phone": "555-987-6543"},
		{"name": "Carol White", "email": "carol@example.com", "phone": "555-222-8899"},
	}
	columns := []model.Column{
		{Name: "name", DataType: model.TypeName},
		{Name: "email", DataType: model.TypeEmail},
		{Name: "phone", DataType: model.TypePhoneNumber},
	}
	return rows, columns
}

func TestMaskDataSetReplacesValues(t *testing.T) {
	rows, columns := personRows()
	engine := NewSeeded(model.MaskingOptions{PreserveFormat: true}, 7)

	masked, err := engine.MaskDataSet(context.Background(), rows, columns)
	require.NoError(t, err)
	require.Len(t, masked, len(rows))

	emailRe := regexp.MustCompile(`^[a-z0-9._]+@example\.com$`)
	for i, row := range masked {
		assert.NotEqual(t, rows[i]["name"], row["name"])
		assert.NotEqual(t, rows[i]["email"], row["email"])
		assert.Regexp(t, emailRe, row["email"], "domain must survive masking")
		assert.Regexp(t, `^\d{3}-\d{3}-\d{4}$`, row["phone"])
	}

	// Input rows stay untouched.
	assert.Equal(t, "Alice Johnson", rows[0]["name"])
}

func TestMaskDataSetSkipAndBlank(t *testing.T) {
	rows := []model.Row{
		{"id": "A-1", "note": ""},
		{"id": "A-2", "note": "   "},
	}
	columns := []model.Column{
		{Name: "id", DataType: model.TypeString, Skip: true},
		{Name: "note", DataType: model.TypeText},
	}

	masked, err := MaskDataSet(context.Background(), rows, columns, model.MaskingOptions{})
	require.NoError(t, err)
	assert.Equal(t, "A-1", masked[0]["id"])
	assert.Equal(t, "A-2", masked[1]["id"])
	assert.Equal(t, "", masked[0]["note"])
	assert.Equal(t, "   ", masked[1]["note"])
}

func TestMaskDataSetConstantColumn(t *testing.T) {
	rows := make([]model.Row, 20)
	for i := range rows {
		rows[i] = model.Row{"status": "ACTIVE"}
	}
	columns := []model.Column{{Name: "status", DataType: model.TypeString}}

	masked, err := MaskDataSet(context.Background(), rows, columns, model.MaskingOptions{})
	require.NoError(t, err)

	replacement := masked[0]["status"]
	assert.NotEqual(t, "ACTIVE", replacement)
	for _, row := range masked {
		assert.Equal(t, replacement, row["status"], "constant columns stay uniform")
	}
}

func TestMaskDataSetConstantNumericColumn(t *testing.T) {
	rows := make([]model.Row, 20)
	for i := range rows {
		rows[i] = model.Row{"plan_id": "1500", "quantity": fmt.Sprintf("%d", 10+i)}
	}
	columns := []model.Column{
		{Name: "plan_id", DataType: model.TypeInt},
		{Name: "quantity", DataType: model.TypeInt},
	}

	masked, err := NewSeeded(model.MaskingOptions{}, 13).MaskDataSet(context.Background(), rows, columns)
	require.NoError(t, err)

	replacement := masked[0]["plan_id"]
	assert.Regexp(t, `^[1-9]\d{3}$`, replacement, "numeric constants get a numeric replacement")
	for _, row := range masked {
		assert.Equal(t, replacement, row["plan_id"], "constant numeric columns stay uniform")
	}

	// A varying numeric column is still masked per row.
	seen := make(map[string]struct{})
	for _, row := range masked {
		seen[row["quantity"]] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestMaskDataSetClosedVocabulary(t *testing.T) {
	depts := []string{"Engineering", "Marketing", "Sales"}
	rows := make([]model.Row, 30)
	for i := range rows {
		rows[i] = model.Row{"department": depts[i%3]}
	}
	columns := []model.Column{{Name: "department", DataType: model.TypeString}}

	masked, err := NewSeeded(model.MaskingOptions{}, 11).MaskDataSet(context.Background(), rows, columns)
	require.NoError(t, err)

	mapping := make(map[string]string)
	for i, row := range masked {
		original := rows[i]["department"]
		got := row["department"]
		assert.NotEqual(t, original, got)
		if prev, ok := mapping[original]; ok {
			assert.Equal(t, prev, got, "same original value must map to the same replacement")
		} else {
			mapping[original] = got
		}
	}
	assert.Len(t, mapping, 3)
}

func TestMaskDataSetSequentialColumn(t *testing.T) {
	rows := []model.Row{
		{"campaign": "Campaign_1"},
		{"campaign": "Campaign_2"},
		{"campaign": "Campaign_10"},
	}
	columns := []model.Column{{Name: "campaign", DataType: model.TypeString}}

	masked, err := MaskDataSet(context.Background(), rows, columns, model.MaskingOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Campaign_11", masked[0]["campaign"])
	assert.Equal(t, "Campaign_12", masked[1]["campaign"])
	assert.Equal(t, "Campaign_13", masked[2]["campaign"])
}

func TestMaskDataSetGeoConsistency(t *testing.T) {
	rows := make([]model.Row, 10)
	for i := range rows {
		country := "United States"
		if i%3 == 0 {
			country = "Canada"
		}
		rows[i] = model.Row{
			"country": country,
			"address": "10 Old Rd",
			"city":    "Oldtown",
			"zip":     "99999",
			"nation":  "placeholder",
		}
	}
	columns := []model.Column{
		{Name: "country", DataType: model.TypeCountry},
		{Name: "address", DataType: model.TypeAddress},
		{Name: "city", DataType: model.TypeCity},
		{Name: "zip", DataType: model.TypePostalCode},
		{Name: "nation", DataType: model.TypeNationality},
	}

	masked, err := NewSeeded(model.MaskingOptions{}, 3).MaskDataSet(context.Background(), rows, columns)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, row := range masked {
		country := row["country"]
		counts[country]++

		info, ok := geo.Lookup(country)
		require.True(t, ok, "masked country %q must be a known country", country)
		assert.Contains(t, info.Cities, row["city"], "city must belong to the row's country")

		switch country {
		case "United States":
			assert.Equal(t, "American", row["nation"])
		case "Canada":
			assert.Equal(t, "Canadian", row["nation"])
		}
		assert.NotEqual(t, "10 Old Rd", row["address"])
	}

	// Proportions survive the shuffle exactly.
	assert.Equal(t, 6, counts["United States"])
	assert.Equal(t, 4, counts["Canada"])
}

func TestMaskDataSetUsesClientPool(t *testing.T) {
	streets := []string{"482 Birchwood Ln", "917 Copper Ridge Rd", "264 Hazel Ct"}
	batch := make([]model.GeneratedAddress, len(streets))
	for i, s := range streets {
		batch[i] = model.GeneratedAddress{
			Street: s, City: "Denver", State: "CO", PostalCode: "80203", Country: "United States",
		}
	}
	client := &stubClient{batches: map[string][]model.GeneratedAddress{"United States": batch}}

	rows := []model.Row{
		{"country": "USA", "address": "1 Main"},
		{"country": "USA", "address": "2 Main"},
		{"country": "USA", "address": "3 Main"},
	}
	columns := []model.Column{
		{Name: "country", DataType: model.TypeCountry},
		{Name: "address", DataType: model.TypeAddress},
	}

	engine := NewSeeded(model.MaskingOptions{UseAzureOpenAI: true}, 5)
	engine.SetClient(client)

	masked, err := engine.MaskDataSet(context.Background(), rows, columns)
	require.NoError(t, err)
	require.Equal(t, 1, client.calls)

	for _, row := range masked {
		assert.Equal(t, "United States", row["country"])
		assert.Contains(t, streets, row["address"], "addresses come from the generated pool")
	}
}

func TestMaskDataSetCountryDropdown(t *testing.T) {
	rows := make([]model.Row, 12)
	for i := range rows {
		rows[i] = model.Row{"country": "France", "city": "Paris"}
	}
	columns := []model.Column{
		{Name: "country", DataType: model.TypeCountry},
		{Name: "city", DataType: model.TypeCity},
	}
	opts := model.MaskingOptions{
		UseCountryDropdown: true,
		SelectedCountries:  []string{"Germany", "Japan"},
	}

	masked, err := NewSeeded(opts, 9).MaskDataSet(context.Background(), rows, columns)
	require.NoError(t, err)
	for _, row := range masked {
		assert.Contains(t, []string{"Germany", "Japan"}, row["country"])
	}
}

func TestMaskDataSetCancelledContext(t *testing.T) {
	rows, columns := personRows()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MaskDataSet(ctx, rows, columns, model.MaskingOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMaskDataSetEmpty(t *testing.T) {
	masked, err := MaskDataSet(context.Background(), nil, nil, model.MaskingOptions{})
	require.NoError(t, err)
	assert.Empty(t, masked)
}

func TestReinferTypes(t *testing.T) {
	rows := []model.Row{
		{"zip": "2021-03-04", "created": "2021-03-04 15:04:05", "birth_date": "1987-06-21", "code": "AB12"},
		{"zip": "2022-11-30", "created": "2022-11-30 08:00:00", "birth_date": "1990-01-02", "code": "CD34"},
	}
	columns := []model.Column{
		{Name: "zip", DataType: model.TypePostalCode},
		{Name: "created", DataType: model.TypeUnknown},
		{Name: "birth_date", DataType: model.TypeString},
		{Name: "code", DataType: model.TypeString},
	}

	out := reinferTypes(rows, columns)
	assert.Equal(t, model.TypeDate, out[0].DataType, "date-valued postal column re-typed")
	assert.Equal(t, model.TypeDateTime, out[1].DataType)
	assert.Equal(t, model.TypeDateOfBirth, out[2].DataType, "birth column name promotes to date of birth")
	assert.Equal(t, model.TypeString, out[3].DataType, "non-temporal values keep their type")

	// Input slice untouched.
	assert.Equal(t, model.TypePostalCode, columns[0].DataType)
}

func TestMaskCellFallsBackWhenPoolEmpty(t *testing.T) {
	engine := NewSeeded(model.MaskingOptions{}, 2)
	pool := addressgen.NewPool(100)
	aligner := addressgen.NewAligner(1, []string{"United States"}, "United States", pool)

	gen := generators.NewSeededMasker(false, 2)
	got := engine.maskCell(gen, nil, aligner, model.Column{Name: "city", DataType: model.TypeCity}, "Springfield", 0)
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "Springfield", got, "empty pool falls back to the generic generator")
}
