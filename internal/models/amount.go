package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a numeric field as the fleet backend sends it: a JSON number,
// a numeric string or null. Anything unparseable decodes to zero.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	v, _ := parseNumber(data)
	*a = Amount(v)
	return nil
}

// Float returns the value as float64
func (a Amount) Float() float64 {
	return float64(a)
}

// OptionalAmount is a numeric field whose absence matters, e.g. wage
// inputs resolved by "first present value" chains.
type OptionalAmount struct {
	Value float64
	Valid bool
}

// Some returns a present OptionalAmount
func Some(v float64) OptionalAmount {
	return OptionalAmount{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalAmount) UnmarshalJSON(data []byte) error {
	o.Value, o.Valid = parseNumber(data)
	return nil
}

// MarshalJSON implements json.Marshaler
func (o OptionalAmount) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func parseNumber(data []byte) (float64, bool) {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
