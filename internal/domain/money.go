package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in minor units (cents). Prices never pass through float64.
type Money int64

const centsPerUnit = 100

// MaxPricePerSeat is the largest catalog price, 99999999.99.
const MaxPricePerSeat Money = 99999999_99

// ParseMoney parses a non-negative decimal such as "750", "750.5" or "750.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, InvalidArgumentf("empty amount")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || !isDigits(whole) || (hasFrac && (frac == "" || !isDigits(frac))) {
		return 0, InvalidArgumentf("malformed amount %q", s)
	}
	if len(frac) > 2 {
		return 0, InvalidArgumentf("amount %q has more than two decimal places", s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (1<<62)/centsPerUnit {
		return 0, InvalidArgumentf("amount %q out of range", s)
	}

	var cents int64
	if frac != "" {
		for len(frac) < 2 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	return Money(units*centsPerUnit + cents), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Mul multiplies a per-unit price by a quantity. A product outside the int64
// range is an InvalidArgument instead of a wrapped amount.
func (m Money) Mul(n int) (Money, error) {
	if m < 0 || n < 0 {
		return 0, InvalidArgumentf("amount %s times %d must not be negative", m, n)
	}
	if m != 0 && int64(n) > math.MaxInt64/int64(m) {
		return 0, InvalidArgumentf("amount %s times %d is out of range", m, n)
	}
	return m * Money(n), nil
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/centsPerUnit, v%centsPerUnit)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
