package dataset

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer("$", "", ",", "")

// ToNumber coerces a cell to a number. "$" and "," are removed and
// surrounding space trimmed; whatever remains must parse as a decimal
// (exponents allowed) or the result is nil.
func ToNumber(cell string) *float64 {
	d, ok := toDecimal(cell)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// Years outside [MinYear, MaxYear] are typos such as "20015" and the row is
// dropped as malformed.
const (
	MinYear = 1900
	MaxYear = 2200
)

// ToYear coerces a cell to a year, truncating any fraction. Unparseable
// values and years outside [MinYear, MaxYear] report ok=false.
func ToYear(cell string) (year int, ok bool) {
	d, ok := toDecimal(cell)
	if !ok {
		return 0, false
	}
	y := d.IntPart()
	if y < MinYear || y > MaxYear {
		return 0, false
	}
	return int(y), true
}

func toDecimal(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(currencyStripper.Replace(cell))
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
