package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, the way the mobile client sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// GarmentTypes is the list of garment type identifiers of an order.
// It is stored as a JSON text array in the garment_types column.
type GarmentTypes []string

// Value encodes the list as a JSON array
func (g GarmentTypes) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, errors.Wrap(err, "encode garment types")
	}
	return string(b), nil
}

// Scan decodes stored garment types. It never fails on malformed data.
func (g *GarmentTypes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*g = GarmentTypes{}
	case string:
		*g = DecodeGarmentTypes(v)
	case []byte:
		*g = DecodeGarmentTypes(string(v))
	default:
		*g = GarmentTypes{fmt.Sprint(v)}
	}
	return nil
}

// DecodeGarmentTypes normalizes a stored garment_types value.
// A JSON array decodes as-is, a JSON string becomes a one-element list and
// anything unparseable is kept verbatim as a single element.
func DecodeGarmentTypes(raw string) GarmentTypes {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return GarmentTypes{}
	}

	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		if list == nil {
			return GarmentTypes{}
		}
		return GarmentTypes(list)
	}

	var mixed []interface{}
	if err := json.Unmarshal([]byte(trimmed), &mixed); err == nil {
		out := make(GarmentTypes, 0, len(mixed))
		for _, item := range mixed {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	}

	var single string
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return GarmentTypes{single}
	}

	return GarmentTypes{raw}
}

// MarshalJSON always emits an array, never null
func (g GarmentTypes) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(g))
}

// Date is a calendar date kept as text. Older databases declare these
// columns as DATE, for which the driver hands back a time.Time.
type Date struct {
	Day   string
	Valid bool
}

// NewDate returns a valid Date, or a null one for an empty string
func NewDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	return Date{Day: s, Valid: true}
}

// Scan implements sql.Scanner
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{Day: v.Format("2006-01-02"), Valid: true}
	case string:
		*d = NewDate(v)
	case []byte:
		*d = NewDate(string(v))
	default:
		return errors.Errorf("unsupported date value %T", src)
	}
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Day, nil
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Day)
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "decode date")
	}
	*d = NewDate(s)
	return nil
}

// Amount wraps a nullable decimal column; rows written before amounts were
// mandatory hold NULL.
func Amount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// AmountOrZero returns the stored amount, treating NULL as zero
func AmountOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
