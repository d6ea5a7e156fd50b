package fuel

import (
	"strconv"
	"strings"
)

// priceWidth is how many characters of a price cell carry the number;
// the remainder is a third decimal and the unit.
const priceWidth = 4

// ParsePrice extracts a price from a scraped cell such as "2,34 €".
// Only the first few characters are considered, anything that is not a digit,
// comma or period is dropped and a decimal comma becomes a period.
// It returns nil when no number can be read.
func ParsePrice(raw string) *float64 {
	if r := []rune(raw); len(r) > priceWidth {
		raw = string(r[:priceWidth])
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		case r == ',':
			return '.'
		default:
			return -1
		}
	}, raw)
	if cleaned == "" {
		return nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
