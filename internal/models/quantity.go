// ABOUTME: Quantity type for the numeric record columns (sets, weight, reps).
// ABOUTME: Keeps the cell text and emits a JSON number whenever it is numeric.
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Quantity is the text of a numeric cell. Empty means the value was not given.
type Quantity string

// QuantityOf formats f without trailing zeros.
func QuantityOf(f float64) Quantity {
	return Quantity(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float returns the numeric value and whether the text is a number.
func (q Quantity) Float() (float64, bool) {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsZero reports whether the quantity is empty or numerically zero.
func (q Quantity) IsZero() bool {
	if strings.TrimSpace(string(q)) == "" {
		return true
	}
	f, ok := q.Float()
	return ok && f == 0
}

// String returns the text form, normalised when numeric.
func (q Quantity) String() string {
	if f, ok := q.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return string(q)
}

// Cell returns a float64 for numeric quantities and the raw text otherwise.
func (q Quantity) Cell() any {
	if f, ok := q.Float(); ok {
		return f
	}
	return string(q)
}

// MarshalJSON emits a number when the text parses as one, else a string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if f, ok := q.Float(); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(string(q))
}

// UnmarshalJSON accepts a number, a string, or null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s, err := scalarText(data)
	if err != nil {
		return err
	}
	*q = Quantity(s)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML exports.
func (q Quantity) MarshalYAML() (any, error) {
	if f, ok := q.Float(); ok {
		return f, nil
	}
	return string(q), nil
}
