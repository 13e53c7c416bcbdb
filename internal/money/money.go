// Package money converts loosely typed input into exact decimals and renders
// them as dollar amounts.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the power of ten a coerced value may carry. Text such as
// "1e20000000" parses instantly but expands to millions of digits when stored
// or printed, so anything beyond the bound is treated as unparseable.
const maxExponent = 32

// Coerce converts v to an exact decimal by way of its text form.
// nil, unparseable text, NaN, infinities and exponents beyond maxExponent
// all yield exact zero.
func Coerce(v any) decimal.Decimal {
	var s string
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case decimal.NullDecimal:
		if !x.Valid {
			return decimal.Zero
		}
		return x.Decimal
	case int:
		return decimal.NewFromInt(int64(x))
	case int8:
		return decimal.NewFromInt(int64(x))
	case int16:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		s = strconv.FormatUint(uint64(x), 10)
	case uint8:
		return decimal.NewFromInt(int64(x))
	case uint16:
		return decimal.NewFromInt(int64(x))
	case uint32:
		return decimal.NewFromInt(int64(x))
	case uint64:
		s = strconv.FormatUint(x, 10)
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return decimal.Zero
		}
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		s = x
	case []byte:
		s = string(x)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.Exponent() > maxExponent || d.Exponent() < -maxExponent {
		return decimal.Zero
	}
	return d
}

// CoerceDefault is Coerce with a fallback for blank form input.
func CoerceDefault(s string, def decimal.Decimal) decimal.Decimal {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return Coerce(s)
}

// Format renders d as "$1,234.50", with the sign ahead of the symbol for
// negative amounts. Rounding is half-even to two places; the sign follows the
// unrounded value, so -0.001 renders "-$0.00".
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	r := d.Abs().RoundBank(2)
	whole, frac, _ := strings.Cut(r.StringFixed(2), ".")
	return sign + "$" + group(whole) + "." + frac
}

// Money is the template-facing formatter and accepts any value Coerce does.
func Money(v any) string {
	return Format(Coerce(v))
}

// group inserts thousands separators into a string of digits.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
