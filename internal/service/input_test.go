package service

import (
	"testing"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Message
}

func TestFormValuesFromJSON(t *testing.T) {
	values, err := FormValuesFromJSON([]byte(`{"customer_id": 3, "notes": null, "status": "ready", "garment_types": ["kurti"]}`))
	require.NoError(t, err)

	require.NotNil(t, values["customer_id"])
	assert.Equal(t, "3", *values["customer_id"])
	assert.Equal(t, "ready", *values["status"])
	assert.Equal(t, `["kurti"]`, *values["garment_types"])

	notes, present := values["notes"]
	assert.True(t, present)
	assert.Nil(t, notes)

	empty, err := FormValuesFromJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = FormValuesFromJSON([]byte(`[1,2]`))
	assert.True(t, IsValidationError(err))
}

func TestParseOrderCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		form FormValues
		want string
	}{
		{
			name: "missing customer",
			form: form("garment_types", `["kurti"]`),
			want: "Invalid customer_id format",
		},
		{
			name: "non numeric customer",
			form: form("customer_id", "abc", "garment_types", `["kurti"]`),
			want: "Invalid customer_id format",
		},
		{
			name: "garments not json",
			form: form("customer_id", "1", "garment_types", "kurti"),
			want: "Invalid garment_types format",
		},
		{
			name: "garments missing",
			form: form("customer_id", "1"),
			want: "Invalid garment_types format",
		},
		{
			name: "garments blank",
			form: form("customer_id", "1", "garment_types", `["  ", ""]`),
			want: "At least one garment type is required",
		},
		{
			name: "bad amount",
			form: form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "ten"),
			want: "Invalid total_amount format",
		},
		{
			name: "total overflows a float",
			form: form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "1e400"),
			want: "total_amount is out of range",
		},
		{
			name: "difference overflows",
			form: form("customer_id", "1", "garment_types", `["kurti"]`, "total_amount", "1e308", "advance_amount", "-1e308"),
			want: "total_amount is out of range",
		},
		{
			name: "negative advance beyond bound",
			form: form("customer_id", "1", "garment_types", `["kurti"]`, "advance_amount", "-1e308"),
			want: "advance_amount is out of range",
		},
		{
			name: "bad date",
			form: form("customer_id", "1", "garment_types", `["kurti"]`, "delivery_date", "next week"),
			want: "Invalid delivery_date format",
		},
		{
			name: "measurement without type",
			form: form("customer_id", "1", "garment_types", `["kurti"]`, "measurements", `[{"value": 3}]`),
			want: "measurement_type is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrderCreate(tt.form)
			assert.Equal(t, tt.want, validationMessage(t, err))
		})
	}
}

func TestParseOrderCreate(t *testing.T) {
	in, err := ParseOrderCreate(form(
		"customer_id", " 7 ",
		"garment_types", `[" kurti ", "blouse"]`,
		"delivery_date", "2024-07-01T10:00:00Z",
		"notes", "lining",
		"total_amount", "1250.50",
		"advance_amount", "250",
	))
	require.NoError(t, err)

	assert.Equal(t, uint(7), in.CustomerID)
	assert.Equal(t, models.GarmentTypes{"kurti", "blouse"}, in.GarmentTypes)
	assert.Equal(t, models.NewDate("2024-07-01"), in.DeliveryDate)
	require.NotNil(t, in.Notes)
	assert.Equal(t, "lining", *in.Notes)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(in.TotalAmount))
	assert.True(t, decimal.NewFromInt(250).Equal(in.AdvanceAmount))
	assert.Empty(t, in.Measurements)
}

func TestParseOrderPatch(t *testing.T) {
	patch, err := ParseOrderPatch(form("advance_amount", "500", "measurements", ""))
	require.NoError(t, err)

	assert.True(t, patch.AdvanceAmount.IsPresent())
	assert.True(t, patch.TotalAmount.IsAbsent())
	assert.True(t, patch.Measurements.IsAbsent())
	assert.True(t, patch.TouchesAmounts())
	assert.False(t, patch.IsComplete())

	empty, err := ParseOrderPatch(FormValues{})
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParseOrderPatch(form("total_amount", "1e400"))
	assert.Equal(t, "total_amount is out of range", validationMessage(t, err))

	bounded, err := ParseOrderPatch(form("total_amount", "1000000000000", "advance_amount", "-1000000000000"))
	require.NoError(t, err)
	assert.True(t, bounded.TouchesAmounts())

	_, err = ParseOrderPatch(form("status", "lost"))
	assert.Equal(t, "Invalid status", validationMessage(t, err))

	_, err = ParseOrderPatch(FormValues{"status": nil})
	assert.Equal(t, "Invalid status", validationMessage(t, err))

	cleared, err := ParseOrderPatch(FormValues{"notes": nil, "delivery_date": nil})
	require.NoError(t, err)
	notes, ok := cleared.Notes.Get()
	require.True(t, ok)
	assert.Nil(t, notes)
	date, ok := cleared.DeliveryDate.Get()
	require.True(t, ok)
	assert.False(t, date.Valid)
}

func TestParseMeasurements(t *testing.T) {
	got, err := ParseMeasurements(`[
		{"measurement_type": "bust", "value": "34.5"},
		{"type": "waist", "value": 28, "unit": "cm"},
		{"measurement_type": "hip", "value": ""},
		{"measurement_type": "length", "value": null}
	]`)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Measurement{MeasurementType: "bust", Value: 34.5, Unit: "inch"}, got[0])
	assert.Equal(t, models.Measurement{MeasurementType: "waist", Value: 28, Unit: "cm"}, got[1])

	_, err = ParseMeasurements(`[{"measurement_type": "bust", "value": "wide"}]`)
	assert.Equal(t, `Invalid value for measurement "bust"`, validationMessage(t, err))

	_, err = ParseMeasurements(`{"bust": 34}`)
	assert.Equal(t, "Invalid measurements format", validationMessage(t, err))

	none, err := ParseMeasurements(`[]`)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestValidateCustomerInput(t *testing.T) {
	long := make([]byte, 40)
	for i := range long {
		long[i] = '9'
	}
	contact := string(long)

	err := validateStruct(CustomerInput{Name: "Asha", ContactNumber: &contact})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "contact_number", verr.Field)

	assert.NoError(t, validateStruct(CustomerInput{Name: "Asha"}))
}
