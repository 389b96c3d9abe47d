// ABOUTME: Record model for workout log rows.
// ABOUTME: Handles lenient JSON decoding and conversion to and from sheet rows.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Columns is the fixed column order of the records sheet.
var Columns = []string{"user", "date", "exercise", "sets", "weight", "reps", "memo", "created_at"}

// TimestampLayout matches the millisecond ISO-8601 form used for created_at.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidPayload is returned when a write payload cannot be decoded into a Record.
var ErrInvalidPayload = errors.New("invalid payload")

// Record is one workout entry.
type Record struct {
	User      string   `json:"user" yaml:"user"`
	Date      string   `json:"date" yaml:"date"`
	Exercise  string   `json:"exercise" yaml:"exercise"`
	Sets      Quantity `json:"sets" yaml:"sets"`
	Weight    Quantity `json:"weight" yaml:"weight"`
	Reps      Quantity `json:"reps" yaml:"reps"`
	Memo      string   `json:"memo" yaml:"memo"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
}

// NewRecord creates a Record for the given user, date, and exercise.
func NewRecord(user, date, exercise string) *Record {
	return &Record{
		User:     user,
		Date:     date,
		Exercise: exercise,
	}
}

// WithSets sets the number of sets.
func (r *Record) WithSets(sets int) *Record {
	r.Sets = QuantityOf(float64(sets))
	return r
}

// WithWeight sets the load used.
func (r *Record) WithWeight(weight float64) *Record {
	r.Weight = QuantityOf(weight)
	return r
}

// WithReps sets the repetitions per set.
func (r *Record) WithReps(reps int) *Record {
	r.Reps = QuantityOf(float64(reps))
	return r
}

// WithMemo sets a free-text note.
func (r *Record) WithMemo(memo string) *Record {
	r.Memo = memo
	return r
}

// Stamp sets CreatedAt from t, replacing any value the client supplied.
func (r *Record) Stamp(t time.Time) {
	r.CreatedAt = FormatTimestamp(t)
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// UnmarshalJSON decodes a write payload. Fields are not validated: missing
// fields stay empty, scalars of any JSON kind are kept as text and arrays or
// objects are kept as compact JSON. Only a non-object payload is rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	text := func(name string) (string, error) {
		raw, ok := fields[name]
		if !ok {
			return "", nil
		}
		s, err := scalarText(raw)
		if err != nil {
			return "", fmt.Errorf("%w: field %q: %v", ErrInvalidPayload, name, err)
		}
		return s, nil
	}

	var out Record
	var err error
	if out.User, err = text("user"); err != nil {
		return err
	}
	if out.Date, err = text("date"); err != nil {
		return err
	}
	if out.Exercise, err = text("exercise"); err != nil {
		return err
	}
	var sets, weight, reps string
	if sets, err = text("sets"); err != nil {
		return err
	}
	if weight, err = text("weight"); err != nil {
		return err
	}
	if reps, err = text("reps"); err != nil {
		return err
	}
	if out.Memo, err = text("memo"); err != nil {
		return err
	}
	if out.CreatedAt, err = text("created_at"); err != nil {
		return err
	}
	out.Sets = Quantity(sets)
	out.Weight = Quantity(weight)
	out.Reps = Quantity(reps)

	*r = out
	return nil
}

// scalarText returns the cell text of a JSON value.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}

// Row renders the record as cells in column order. Numeric quantities are
// float64 so spreadsheet backends can store them as numbers.
func (r *Record) Row() []any {
	return []any{
		r.User,
		r.Date,
		r.Exercise,
		r.Sets.Cell(),
		r.Weight.Cell(),
		r.Reps.Cell(),
		r.Memo,
		r.CreatedAt,
	}
}

// RecordFromRow rebuilds a record from sheet cells. Short rows are padded
// with empty cells and extra cells are ignored.
func RecordFromRow(row []any) *Record {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return CellText(row[i])
	}
	return &Record{
		User:      cell(0),
		Date:      cell(1),
		Exercise:  cell(2),
		Sets:      Quantity(cell(3)),
		Weight:    Quantity(cell(4)),
		Reps:      Quantity(cell(5)),
		Memo:      cell(6),
		CreatedAt: cell(7),
	}
}

// CellText converts a cell value read from a backend into text.
func CellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []byte:
		return string(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		return FormatTimestamp(c)
	case fmt.Stringer:
		return c.String()
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}
