package addressgen

import (
	"fmt"
	"strings"

	"datamask/internal/geo"
	"datamask/internal/model"
)

// systemPrompt pins the model to fictional data and machine-readable
// output. Single-country requests expect a JSON array of address strings,
// batch requests a JSON object keyed by country name.
const systemPrompt = `You are a synthetic test data generator. You produce entirely fictional postal addresses for software testing. The addresses must look realistic for the requested country but must not correspond to real residents or businesses.

Rules:
1. Respond ONLY with JSON. No markdown fences, no prose, no explanations.
2. For a single country, respond with a JSON array of address strings.
3. For multiple countries, respond with a JSON object whose keys are the exact country names and whose values are arrays of address strings.
4. Every address is one line containing street, city, state or region, postal code and country.
5. Never use placeholder text such as "123 Main St", "Lorem ipsum", "[city]" or "Anytown".`

// BuildPrompt renders the system and user prompts for a set of country
// requirements.
func BuildPrompt(reqs []model.CountryRequirement) (system, user string) {
	var b strings.Builder
	if len(reqs) == 1 {
		req := reqs[0]
		fmt.Fprintf(&b, "Generate exactly %d fictional addresses in %s.\n", req.Count, req.Country)
		writeCountryHint(&b, req.Country)
		b.WriteString("Respond with a JSON array of address strings.")
		return systemPrompt, b.String()
	}

	b.WriteString("Generate fictional addresses for the following countries:\n")
	for _, req := range reqs {
		fmt.Fprintf(&b, "- %q: exactly %d addresses\n", req.Country, req.Count)
		writeCountryHint(&b, req.Country)
	}
	b.WriteString("Respond with a JSON object keyed by the exact country names above, each value a JSON array of address strings.")
	return systemPrompt, b.String()
}

func writeCountryHint(b *strings.Builder, country string) {
	info, ok := geo.Lookup(country)
	if !ok {
		return
	}
	if info.AddressHint != "" {
		fmt.Fprintf(b, "  Format each as: %s.\n", info.AddressHint)
	}
	if info.PostalHint != "" {
		fmt.Fprintf(b, "  Postal codes follow the pattern %q (# digit, A letter).\n", info.PostalHint)
	}
	if len(info.Regions) > 0 {
		fmt.Fprintf(b, "  Use real regions such as %s.\n", strings.Join(info.Regions[:min(3, len(info.Regions))], ", "))
	}
}
