package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// FormValues holds request fields as submitted. A missing key is an absent
// field and a nil value is an explicit JSON null.
type FormValues map[string]*string

// Set records a submitted field
func (f FormValues) Set(key, value string) {
	f[key] = &value
}

// FormValuesFromJSON flattens a JSON object body. String values are
// unquoted; numbers, arrays and objects keep their JSON text.
func FormValuesFromJSON(body []byte) (FormValues, error) {
	values := FormValues{}
	if len(bytes.TrimSpace(body)) == 0 {
		return values, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, invalid("", "Invalid JSON body")
	}

	for key, v := range raw {
		v = bytes.TrimSpace(v)
		switch {
		case bytes.Equal(v, []byte("null")):
			values[key] = nil
		case len(v) > 0 && v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, invalid(key, "Invalid JSON body")
			}
			values.Set(key, s)
		default:
			values.Set(key, string(v))
		}
	}
	return values, nil
}

// ImageUpload is a design image received with an order
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

// OrderInput is a validated order creation request
type OrderInput struct {
	CustomerID    uint
	GarmentTypes  models.GarmentTypes
	DeliveryDate  models.Date
	Notes         *string
	TotalAmount   decimal.Decimal
	AdvanceAmount decimal.Decimal
	Measurements  []models.Measurement
}

// CustomerInput carries the editable customer fields
type CustomerInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,max=32"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
}

// LoginInput is a login request
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TailorInput creates an operator account
type TailorInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	ShopName string `json:"shop_name" validate:"max=200"`
}

// ParseOrderCreate validates the fields of a new order
func ParseOrderCreate(form FormValues) (*OrderInput, error) {
	in := &OrderInput{}

	id, err := parseCustomerID(form["customer_id"])
	if err != nil {
		return nil, err
	}
	in.CustomerID = id

	rawGarments, ok := form["garment_types"]
	if !ok {
		return nil, invalid("garment_types", "Invalid garment_types format")
	}
	if in.GarmentTypes, err = parseGarmentTypes(rawGarments); err != nil {
		return nil, err
	}

	if in.DeliveryDate, err = parseDate("delivery_date", form["delivery_date"]); err != nil {
		return nil, err
	}
	in.Notes = form["notes"]

	if in.TotalAmount, err = parseAmount("total_amount", form["total_amount"]); err != nil {
		return nil, err
	}
	if in.AdvanceAmount, err = parseAmount("advance_amount", form["advance_amount"]); err != nil {
		return nil, err
	}

	if raw := form["measurements"]; raw != nil && strings.TrimSpace(*raw) != "" {
		if in.Measurements, err = ParseMeasurements(*raw); err != nil {
			return nil, err
		}
	}

	return in, nil
}

// ParseOrderPatch turns the submitted fields into a partial update. Only
// fields present in the form end up in the patch.
func ParseOrderPatch(form FormValues) (models.OrderPatch, error) {
	var patch models.OrderPatch

	if raw, ok := form["customer_id"]; ok {
		id, err := parseCustomerID(raw)
		if err != nil {
			return patch, err
		}
		patch.CustomerID = mo.Some(id)
	}

	if raw, ok := form["garment_types"]; ok {
		garments, err := parseGarmentTypes(raw)
		if err != nil {
			return patch, err
		}
		patch.GarmentTypes = mo.Some(garments)
	}

	if raw, ok := form["delivery_date"]; ok {
		date, err := parseDate("delivery_date", raw)
		if err != nil {
			return patch, err
		}
		patch.DeliveryDate = mo.Some(date)
	}

	if raw, ok := form["notes"]; ok {
		patch.Notes = mo.Some(raw)
	}

	if raw, ok := form["total_amount"]; ok {
		total, err := parseAmount("total_amount", raw)
		if err != nil {
			return patch, err
		}
		patch.TotalAmount = mo.Some(total)
	}

	if raw, ok := form["advance_amount"]; ok {
		advance, err := parseAmount("advance_amount", raw)
		if err != nil {
			return patch, err
		}
		patch.AdvanceAmount = mo.Some(advance)
	}

	if raw, ok := form["status"]; ok {
		if raw == nil || !models.OrderStatus(strings.TrimSpace(*raw)).Valid() {
			return patch, invalid("status", "Invalid status")
		}
		patch.Status = mo.Some(models.OrderStatus(strings.TrimSpace(*raw)))
	}

	// An empty measurements field leaves the stored set alone.
	if raw := form["measurements"]; raw != nil && strings.TrimSpace(*raw) != "" {
		measurements, err := ParseMeasurements(*raw)
		if err != nil {
			return patch, err
		}
		patch.Measurements = mo.Some(measurements)
	}

	return patch, nil
}

func parseCustomerID(raw *string) (uint, error) {
	if raw == nil {
		return 0, invalid("customer_id", "Invalid customer_id format")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(*raw), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid("customer_id", "Invalid customer_id format")
	}
	return uint(id), nil
}

// parseGarmentTypes accepts a JSON array of strings. Entries are trimmed,
// blanks dropped, and at least one must remain.
func parseGarmentTypes(raw *string) (models.GarmentTypes, error) {
	if raw == nil {
		return nil, invalid("garment_types", "Invalid garment_types format")
	}

	var list []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(*raw)), &list); err != nil {
		return nil, invalid("garment_types", "Invalid garment_types format")
	}

	garments := lo.Filter(lo.Map(list, func(g string, _ int) string {
		return strings.TrimSpace(g)
	}), func(g string, _ int) bool {
		return g != ""
	})
	if len(garments) == 0 {
		return nil, invalid("garment_types", "At least one garment type is required")
	}
	return models.GarmentTypes(garments), nil
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Blank or null
// clears the date.
func parseDate(field string, raw *string) (models.Date, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return models.Date{}, nil
	}
	s := strings.TrimSpace(*raw)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return models.NewDate(t.Format(dateLayout)), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.NewDate(t.Format(dateLayout)), nil
	}
	return models.Date{}, invalid(field, fmt.Sprintf("Invalid %s format", field))
}

// parseAmount reads a decimal amount. Blank, null and missing mean zero.
func parseAmount(field string, raw *string) (decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.Zero, invalid(field, fmt.Sprintf("Invalid %s format", field))
	}
	if err := checkAmount(field, d, maxAmount); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Amounts are stored in REAL columns. The bounds keep every stored value,
// balances included, finite and exact to the paisa.
var (
	maxAmount  = decimal.New(1, 12)
	maxBalance = maxAmount.Mul(decimal.NewFromInt(2))
)

func checkAmount(field string, d, limit decimal.Decimal) error {
	if d.Abs().GreaterThan(limit) {
		return invalid(field, fmt.Sprintf("%s is out of range", field))
	}
	return nil
}

// checkAmounts validates a total/advance pair and the balance derived from it
func checkAmounts(total, advance, balance decimal.Decimal) error {
	if err := checkAmount("total_amount", total, maxAmount); err != nil {
		return err
	}
	if err := checkAmount("advance_amount", advance, maxAmount); err != nil {
		return err
	}
	return checkAmount("balance_amount", balance, maxBalance)
}

type measurementEntry struct {
	MeasurementType string          `json:"measurement_type"`
	Type            string          `json:"type"`
	Value           json.RawMessage `json:"value"`
	Unit            string          `json:"unit"`
}

// ParseMeasurements decodes a JSON array of measurements. Entries whose
// value is blank are skipped; "type" is accepted for "measurement_type".
func ParseMeasurements(raw string) ([]models.Measurement, error) {
	var entries []measurementEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &entries); err != nil {
		return nil, invalid("measurements", "Invalid measurements format")
	}

	measurements := make([]models.Measurement, 0, len(entries))
	for _, e := range entries {
		value, ok, err := measurementValue(e.Value)
		if err != nil {
			return nil, invalid("measurements", fmt.Sprintf("Invalid value for measurement %q", e.name()))
		}
		if !ok {
			continue
		}
		if e.name() == "" {
			return nil, invalid("measurements", "measurement_type is required")
		}

		unit := strings.TrimSpace(e.Unit)
		if unit == "" {
			unit = models.DefaultUnit
		}
		measurements = append(measurements, models.Measurement{
			MeasurementType: e.name(),
			Value:           value,
			Unit:            unit,
		})
	}
	return measurements, nil
}

func (e measurementEntry) name() string {
	if name := strings.TrimSpace(e.MeasurementType); name != "" {
		return name
	}
	return strings.TrimSpace(e.Type)
}

// measurementValue reports the numeric value and whether one was given
func measurementValue(raw json.RawMessage) (float64, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, false, nil
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
