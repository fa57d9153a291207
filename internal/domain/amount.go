package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents. It marshals to JSON with exactly
// two decimal places so "150.5" round-trips as 150.50.
type Amount int64

// AmountFromFloat converts a decimal value to cents, rounding half away
// from zero.
func AmountFromFloat(v float64) Amount {
	return Amount(math.Round(v * 100))
}

func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = AmountFromFloat(v)
	return nil
}
