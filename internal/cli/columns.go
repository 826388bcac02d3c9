package cli

import (
	"fmt"
	"strings"

	"datamask/internal/model"
)

// nameRules maps header-name fragments to data types, checked in order
// so the more specific fragment wins ("birth_date" is a date of birth,
// not a date; "first name" is not a plain name).
var nameRules = []struct {
	fragment string
	dataType model.DataType
}{
	{"email", model.TypeEmail},
	{"e-mail", model.TypeEmail},
	{"firstname", model.TypeFirstName},
	{"first name", model.TypeFirstName},
	{"first_name", model.TypeFirstName},
	{"lastname", model.TypeLastName},
	{"last name", model.TypeLastName},
	{"last_name", model.TypeLastName},
	{"surname", model.TypeLastName},
	{"username", model.TypeUsername},
	{"login", model.TypeUsername},
	{"password", model.TypePassword},
	{"nationality", model.TypeNationality},
	{"country", model.TypeCountry},
	{"city", model.TypeCity},
	{"province", model.TypeState},
	{"state", model.TypeState},
	{"zip", model.TypePostalCode},
	{"postal", model.TypePostalCode},
	{"postcode", model.TypePostalCode},
	{"address", model.TypeAddress},
	{"street", model.TypeAddress},
	{"phone", model.TypePhoneNumber},
	{"mobile", model.TypePhoneNumber},
	{"fax", model.TypePhoneNumber},
	{"birth", model.TypeDateOfBirth},
	{"dob", model.TypeDateOfBirth},
	{"datetime", model.TypeDateTime},
	{"timestamp", model.TypeDateTime},
	{"date", model.TypeDate},
	{"time", model.TypeTime},
	{"ssn", model.TypeSSN},
	{"social security", model.TypeSSN},
	{"credit card", model.TypeCreditCard},
	{"card number", model.TypeCreditCard},
	{"card", model.TypeCreditCard},
	{"gender", model.TypeGender},
	{"sex", model.TypeGender},
	{"company", model.TypeCompany},
	{"employer", model.TypeCompany},
	{"job title", model.TypeJobTitle},
	{"job_title", model.TypeJobTitle},
	{"position", model.TypeJobTitle},
	{"occupation", model.TypeJobTitle},
	{"salary", model.TypeCurrency},
	{"price", model.TypeCurrency},
	{"amount", model.TypeCurrency},
	{"balance", model.TypeCurrency},
	{"currency", model.TypeCurrency},
	{"website", model.TypeURL},
	{"url", model.TypeURL},
	{"ip address", model.TypeIPAddress},
	{"ip_address", model.TypeIPAddress},
	{"name", model.TypeName},
}

// GuessType assigns an initial data type from a header name. Corrective
// inference downstream gets the final say for loosely typed columns.
func GuessType(header string) model.DataType {
	lower := strings.ToLower(strings.TrimSpace(header))
	for _, rule := range nameRules {
		if strings.Contains(lower, rule.fragment) {
			return rule.dataType
		}
	}
	return model.TypeUnknown
}

// BuildColumns turns a CSV header into column descriptors. overrides
// maps column names to explicit types ("created=dateTime"); skip lists
// columns to pass through unmasked.
func BuildColumns(header []string, overrides map[string]model.DataType, skip map[string]bool) []model.Column {
	columns := make([]model.Column, 0, len(header))
	for _, name := range header {
		col := model.Column{Name: name, DataType: GuessType(name)}
		if t, ok := overrides[name]; ok {
			col.DataType = t
		}
		if skip[name] {
			col.Skip = true
		}
		columns = append(columns, col)
	}
	return columns
}

// ParseTypeOverrides parses "col=type,col=type" flag values.
func ParseTypeOverrides(spec string) (map[string]model.DataType, error) {
	overrides := make(map[string]model.DataType)
	if strings.TrimSpace(spec) == "" {
		return overrides, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid type mapping %q, expected col=type", pair)
		}
		overrides[strings.TrimSpace(parts[0])] = model.DataType(strings.TrimSpace(parts[1]))
	}
	return overrides, nil
}
