// Package model defines the shared data types of the masking engine:
// column descriptors, the semantic data-type enum, rows, masking options
// and the address records exchanged with the generation subsystem.
package model

import "strings"

// DataType is the semantic type assigned to a column. Values stay strings
// all the way through the pipeline; the type only steers which generator
// masks them.
type DataType string

// Supported column data types.
const (
	TypeName        DataType = "name"
	TypeFirstName   DataType = "firstName"
	TypeLastName    DataType = "lastName"
	TypeEmail       DataType = "email"
	TypeUsername    DataType = "username"
	TypePassword    DataType = "password"
	TypePhoneNumber DataType = "phoneNumber"
	TypeAddress     DataType = "address"
	TypeCity        DataType = "city"
	TypeState       DataType = "state"
	TypeCountry     DataType = "country"
	TypePostalCode  DataType = "postalCode"
	TypeNationality DataType = "nationality"
	TypeDate        DataType = "date"
	TypeTime        DataType = "time"
	TypeDateTime    DataType = "dateTime"
	TypeDateOfBirth DataType = "dateOfBirth"
	TypeInt         DataType = "int"
	TypeFloat       DataType = "float"
	TypeCurrency    DataType = "currency"
	TypeCreditCard  DataType = "creditCard"
	TypeDebitCard   DataType = "debitCard"
	TypeGender      DataType = "gender"
	TypeCompany     DataType = "company"
	TypeJobTitle    DataType = "jobTitle"
	TypeSSN         DataType = "ssn"
	TypeIPAddress   DataType = "ipAddress"
	TypeURL         DataType = "url"
	TypeBoolean     DataType = "boolean"
	TypeString      DataType = "string"
	TypeText        DataType = "text"
	TypeSequential  DataType = "sequential"
	TypeUnknown     DataType = "unknown"
)

// IsGeo reports whether the type is one of the address-related types that
// route through the address generation subsystem.
func (t DataType) IsGeo() bool {
	switch t {
	case TypeAddress, TypeCity, TypeState, TypePostalCode:
		return true
	}
	return false
}

// Column describes one dataset column: its name, semantic type and the
// flags the orchestrator sets during analysis. A Column is created once at
// ingestion, may be re-typed by corrective inference, and is read-only for
// the rest of the run.
type Column struct {
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`

	// Skip passes the column through unmasked.
	Skip bool `json:"skip,omitempty"`

	// Flags set by pattern analysis / inference.
	IsConstant      bool   `json:"isConstant,omitempty"`
	IsSequential    bool   `json:"isSequential,omitempty"`
	PreservePattern bool   `json:"preservePattern,omitempty"`
	CardType        string `json:"cardType,omitempty"`
	GeoRegion       string `json:"geoRegion,omitempty"`
}

// Row maps column names to raw string values. The dataset is exclusively
// owned by one masking run.
type Row map[string]string

// GeneratedAddress is one synthetic address returned by the generation
// subsystem. It is valid only when all five fields are non-empty after
// trimming, and Country always matches the country it was requested for.
type GeneratedAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// IsComplete reports whether every field survives trimming.
func (a GeneratedAddress) IsComplete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.PostalCode) != "" &&
		strings.TrimSpace(a.Country) != ""
}

// CountryRequirement asks the generation subsystem for Count unique
// addresses in Country, covering the dataset rows in RowIndices. Count is
// capped below len(RowIndices) for large datasets; the pool is reused and
// extended for the remainder.
type CountryRequirement struct {
	Country    string
	Count      int
	RowIndices []int
}
