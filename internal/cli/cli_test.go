package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datamask/internal/model"
)

func TestGuessType(t *testing.T) {
	cases := map[string]model.DataType{
		"Email":         model.TypeEmail,
		"first_name":    model.TypeFirstName,
		"Last Name":     model.TypeLastName,
		"full name":     model.TypeName,
		"phone_number":  model.TypePhoneNumber,
		"Street":        model.TypeAddress,
		"billing_city":  model.TypeCity,
		"zip":           model.TypePostalCode,
		"Country":       model.TypeCountry,
		"nationality":   model.TypeNationality,
		"birth_date":    model.TypeDateOfBirth,
		"created_date":  model.TypeDate,
		"updated_at":    model.TypeDate, // "updated" embeds "date"
		"timestamp":     model.TypeDateTime,
		"ssn":           model.TypeSSN,
		"card_number":   model.TypeCreditCard,
		"annual_salary": model.TypeCurrency,
		"website":       model.TypeURL,
		"ref":           model.TypeUnknown,
	}
	for header, want := range cases {
		assert.Equal(t, want, GuessType(header), "header %q", header)
	}
}

func TestBuildColumns(t *testing.T) {
	header := []string{"id", "email", "created"}
	overrides := map[string]model.DataType{"created": model.TypeDateTime}
	skip := map[string]bool{"id": true}

	columns := BuildColumns(header, overrides, skip)
	require.Len(t, columns, 3)
	assert.True(t, columns[0].Skip)
	assert.Equal(t, model.TypeEmail, columns[1].DataType)
	assert.Equal(t, model.TypeDateTime, columns[2].DataType)
}

func TestParseTypeOverrides(t *testing.T) {
	overrides, err := ParseTypeOverrides("created=dateTime, code=string")
	require.NoError(t, err)
	assert.Equal(t, model.DataType("dateTime"), overrides["created"])
	assert.Equal(t, model.DataType("string"), overrides["code"])

	_, err = ParseTypeOverrides("no-equals-sign")
	assert.Error(t, err)

	overrides, err = ParseTypeOverrides("")
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestMaskCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "people.csv")
	output := filepath.Join(dir, "people_masked.csv")

	csvIn := strings.Join([]string{
		"id,name,email",
		"1,Alice Johnson,alice@example.com",
		"2,Bob Smith,bob@example.com",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(input, []byte(csvIn), 0o644))

	cmd := NewRootCommand()
	cmd.SetArgs([]string{
		"mask",
		"--input", input,
		"--output", output,
		"--skip", "id",
		"--seed", "42",
		"--no-azure",
	})
	require.NoError(t, cmd.Execute())

	header, rows, err := readCSV(output)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email"}, header)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0]["id"], "skipped column survives")
	assert.NotEqual(t, "Alice Johnson", rows[0]["name"])
	assert.NotEqual(t, "alice@example.com", rows[0]["email"])
	assert.True(t, strings.HasSuffix(rows[0]["email"], "@example.com"))
}

func TestMaskCommandMissingInput(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"mask", "--input", filepath.Join(t.TempDir(), "absent.csv")})
	assert.Error(t, cmd.Execute())
}
