// Package geo carries the static per-country reference data the address
// subsystem builds prompts and validates results with, the nationality
// derivation engine, and the country proportion calculator. The tables
// are compile-time data on purpose: prompt building and local fallback
// synthesis must keep working when the external service is unreachable.
package geo

import "strings"

// CountryInfo is the reference record for one supported country.
type CountryInfo struct {
	Name        string
	ISO2        string
	Nationality string

	// Regions and Cities seed local synthesis and prompt hints.
	Regions []string
	Cities  []string

	// PostalHint describes the postal format ('#' digit, 'A' letter).
	PostalHint string

	// FormatID selects the country-specific address parser; empty means
	// the generic fallback parser.
	FormatID string

	// AddressHint is appended to generation prompts so the model emits a
	// parseable single-line layout.
	AddressHint string
}

var countryTable = []CountryInfo{
	{
		Name: "United States", ISO2: "US", Nationality: "American",
		Regions:    []string{"California", "Texas", "New York", "Florida", "Illinois", "Washington", "Ohio", "Georgia"},
		Cities:     []string{"Springfield", "Riverside", "Fairview", "Madison", "Georgetown", "Arlington", "Salem", "Clinton"},
		PostalHint: "#####", FormatID: "us",
		AddressHint: "street, city, two-letter state ZIP, country",
	},
	{
		Name: "United Kingdom", ISO2: "GB", Nationality: "British",
		Regions:    []string{"Greater London", "West Midlands", "Merseyside", "Kent", "Yorkshire", "Essex"},
		Cities:     []string{"Ashford", "Whitby", "Oakham", "Hertford", "Leyland", "Stroud"},
		PostalHint: "AA## #AA", FormatID: "uk",
		AddressHint: "street, city POSTCODE, country",
	},
	{
		Name: "Canada", ISO2: "CA", Nationality: "Canadian",
		Regions:    []string{"Ontario", "Quebec", "British Columbia", "Alberta", "Manitoba", "Nova Scotia"},
		Cities:     []string{"Brampton", "Laval", "Surrey", "Red Deer", "Moncton", "Kelowna"},
		PostalHint: "A#A #A#", FormatID: "ca",
		AddressHint: "street, city, province A#A #A#, country",
	},
	{
		Name: "Brazil", ISO2: "BR", Nationality: "Brazilian",
		Regions:    []string{"São Paulo", "Rio de Janeiro", "Minas Gerais", "Bahia", "Paraná", "Ceará"},
		Cities:     []string{"Campinas", "Niterói", "Uberlândia", "Sorocaba", "Londrina", "Juiz de Fora"},
		PostalHint: "#####-###", FormatID: "br",
		AddressHint: "street and number, city, state #####-###, country",
	},
	{
		Name: "Germany", ISO2: "DE", Nationality: "German",
		Regions:    []string{"Bavaria", "Hesse", "Saxony", "Berlin", "Hamburg", "North Rhine-Westphalia"},
		Cities:     []string{"Bochum", "Wuppertal", "Bielefeld", "Mannheim", "Augsburg", "Karlsruhe"},
		PostalHint: "#####", FormatID: "de",
		AddressHint: "street and number, ##### city, country",
	},
	{
		Name: "France", ISO2: "FR", Nationality: "French",
		Regions:    []string{"Île-de-France", "Provence", "Normandy", "Brittany", "Occitanie", "Grand Est"},
		Cities:     []string{"Angers", "Dijon", "Nîmes", "Limoges", "Tours", "Amiens"},
		PostalHint: "#####",
		AddressHint: "street, ##### city, country",
	},
	{
		Name: "Australia", ISO2: "AU", Nationality: "Australian",
		Regions:    []string{"New South Wales", "Victoria", "Queensland", "Western Australia", "South Australia", "Tasmania"},
		Cities:     []string{"Geelong", "Cairns", "Ballarat", "Bendigo", "Mackay", "Launceston"},
		PostalHint: "####",
		AddressHint: "street, city state ####, country",
	},
	{
		Name: "India", ISO2: "IN", Nationality: "Indian",
		Regions:    []string{"Maharashtra", "Karnataka", "Tamil Nadu", "Gujarat", "West Bengal", "Kerala"},
		Cities:     []string{"Nagpur", "Indore", "Vadodara", "Coimbatore", "Mysuru", "Kochi"},
		PostalHint: "######",
		AddressHint: "street, city, state ######, country",
	},
	{
		Name: "Japan", ISO2: "JP", Nationality: "Japanese",
		Regions:    []string{"Tokyo", "Osaka", "Hokkaido", "Aichi", "Fukuoka", "Kanagawa"},
		Cities:     []string{"Sendai", "Hamamatsu", "Okayama", "Kumamoto", "Niigata", "Kagoshima"},
		PostalHint: "###-####",
		AddressHint: "street, city, prefecture ###-####, country",
	},
	{
		Name: "Mexico", ISO2: "MX", Nationality: "Mexican",
		Regions:    []string{"Jalisco", "Nuevo León", "Puebla", "Yucatán", "Sonora", "Chihuahua"},
		Cities:     []string{"Querétaro", "Mérida", "Toluca", "Culiacán", "Saltillo", "Morelia"},
		PostalHint: "#####",
		AddressHint: "street, city, state #####, country",
	},
	{
		Name: "Italy", ISO2: "IT", Nationality: "Italian",
		Regions:    []string{"Lombardy", "Lazio", "Tuscany", "Veneto", "Piedmont", "Sicily"},
		Cities:     []string{"Verona", "Padua", "Trieste", "Brescia", "Parma", "Modena"},
		PostalHint: "#####",
		AddressHint: "street, ##### city, country",
	},
	{
		Name: "Spain", ISO2: "ES", Nationality: "Spanish",
		Regions:    []string{"Madrid", "Catalonia", "Andalusia", "Valencia", "Galicia", "Basque Country"},
		Cities:     []string{"Zaragoza", "Murcia", "Valladolid", "Vigo", "Gijón", "Granada"},
		PostalHint: "#####",
		AddressHint: "street, ##### city, country",
	},
	{
		Name: "Netherlands", ISO2: "NL", Nationality: "Dutch",
		Regions:    []string{"North Holland", "South Holland", "Utrecht", "Gelderland", "North Brabant", "Overijssel"},
		Cities:     []string{"Tilburg", "Almere", "Breda", "Nijmegen", "Haarlem", "Arnhem"},
		PostalHint: "#### AA",
		AddressHint: "street and number, #### AA city, country",
	},
	{
		Name: "China", ISO2: "CN", Nationality: "Chinese",
		Regions:    []string{"Guangdong", "Zhejiang", "Jiangsu", "Sichuan", "Shandong", "Hunan"},
		Cities:     []string{"Suzhou", "Dongguan", "Qingdao", "Ningbo", "Xiamen", "Changsha"},
		PostalHint: "######",
		AddressHint: "street, district, city, province ######, country",
	},
}

// aliases maps common alternate spellings onto canonical country names.
var aliases = map[string]string{
	"usa":            "United States",
	"us":             "United States",
	"u.s.":           "United States",
	"u.s.a.":         "United States",
	"united states of america": "United States",
	"america":        "United States",
	"uk":             "United Kingdom",
	"u.k.":           "United Kingdom",
	"great britain":  "United Kingdom",
	"britain":        "United Kingdom",
	"england":        "United Kingdom",
	"holland":        "Netherlands",
	"the netherlands": "Netherlands",
	"brasil":         "Brazil",
	"deutschland":    "Germany",
}

// Lookup resolves a country string (canonical name, ISO code or common
// alias, any casing) to its reference record.
func Lookup(country string) (CountryInfo, bool) {
	needle := strings.ToLower(strings.TrimSpace(country))
	if needle == "" {
		return CountryInfo{}, false
	}
	if canonical, ok := aliases[needle]; ok {
		needle = strings.ToLower(canonical)
	}
	for _, c := range countryTable {
		if strings.ToLower(c.Name) == needle || strings.ToLower(c.ISO2) == needle {
			return c, true
		}
	}
	return CountryInfo{}, false
}

// CanonicalName returns the canonical spelling for a country string, or
// the trimmed input when the country is not in the reference table.
func CanonicalName(country string) string {
	if info, ok := Lookup(country); ok {
		return info.Name
	}
	return strings.TrimSpace(country)
}

// Known reports whether the country resolves against the reference table.
func Known(country string) bool {
	_, ok := Lookup(country)
	return ok
}

// Countries returns the canonical names of every supported country.
func Countries() []string {
	names := make([]string, len(countryTable))
	for i, c := range countryTable {
		names[i] = c.Name
	}
	return names
}
