package extraction

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/meetsync/meetsync-api/internal/models"
)

// Values models sometimes emit despite being told not to fabricate data.
// All comparisons are against trimmed, lowercased input.
var (
	genericTokens = map[string]bool{
		"example":     true,
		"test":        true,
		"sample":      true,
		"n/a":         true,
		"na":          true,
		"none":        true,
		"unknown":     true,
		"null":        true,
		"placeholder": true,
		"tbd":         true,
	}

	placeholderEmailDomains = map[string]bool{
		"example.com":    true,
		"example.org":    true,
		"example.net":    true,
		"test.com":       true,
		"sample.com":     true,
		"domain.com":     true,
		"yourdomain.com": true,
	}

	// "doe" alone is flagged too; unlike "smith" it is not a surname real
	// people carry in practice
	placeholderNames = map[string]bool{
		"john doe":   true,
		"jane doe":   true,
		"john smith": true,
		"jane smith": true,
		"test user":  true,
		"doe":        true,
	}

	placeholderCompanies = map[string]bool{
		"acme":             true,
		"acme corp":        true,
		"acme corporation": true,
		"acme inc":         true,
		"example company":  true,
		"test company":     true,
	}
)

// IsPlaceholder reports whether value looks like fabricated example data for
// the given field
func IsPlaceholder(field models.ContactField, value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" || genericTokens[lower] {
		return true
	}

	switch field {
	case models.FieldEmail:
		return isPlaceholderEmail(lower)
	case models.FieldPhoneNumber:
		return isPlaceholderPhone(value)
	case models.FieldFirstName, models.FieldLastName:
		return placeholderNames[lower]
	case models.FieldCompanyName:
		return placeholderCompanies[lower]
	}

	return false
}

func isPlaceholderEmail(lower string) bool {
	at := strings.LastIndex(lower, "@")
	if at < 0 {
		return false
	}
	return placeholderEmailDomains[lower[at+1:]]
}

// isPlaceholderPhone flags numbers in the fictional 555 ranges, either as the
// area code or the exchange of a North American number
func isPlaceholderPhone(value string) bool {
	parsed, err := phonenumbers.Parse(value, "US")
	if err != nil {
		return false
	}
	national := strconv.FormatUint(parsed.GetNationalNumber(), 10)
	if len(national) != 10 {
		return false
	}
	return strings.HasPrefix(national, "555") || national[3:6] == "555"
}
