package domain

// CardBrandUnmapped is returned for brand names the processor sends that have no canonical tag
const CardBrandUnmapped = ""

var cardBrands = map[string]string{
	"American Express": "american_express",
	"Diners Club":      "diners_club",
	"Discover":         "discover",
	"JCB":              "jcb",
	"Laser":            "laser",
	"Maestro":          "maestro",
	"MasterCard":       "master",
	"Solo":             "solo",
	"Switch":           "switch",
	"Visa":             "visa",
}

// CardBrand maps a processor brand name to the host's canonical card type.
// Unknown names return CardBrandUnmapped and false.
func CardBrand(processorBrand string) (string, bool) {
	tag, ok := cardBrands[processorBrand]
	if !ok {
		return CardBrandUnmapped, false
	}
	return tag, true
}
