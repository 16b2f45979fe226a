package models

import (
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// OrderPatch is a partial order update. An absent option leaves the
// column untouched; a present one overwrites it.
type OrderPatch struct {
	CustomerID    mo.Option[uint]
	GarmentTypes  mo.Option[GarmentTypes]
	DeliveryDate  mo.Option[Date]
	Notes         mo.Option[*string]
	TotalAmount   mo.Option[decimal.Decimal]
	AdvanceAmount mo.Option[decimal.Decimal]
	Status        mo.Option[OrderStatus]
	DesignImage   mo.Option[string]
	Measurements  mo.Option[[]Measurement]
}

// IsEmpty reports whether the patch changes nothing
func (p OrderPatch) IsEmpty() bool {
	return p.CustomerID.IsAbsent() &&
		p.GarmentTypes.IsAbsent() &&
		p.DeliveryDate.IsAbsent() &&
		p.Notes.IsAbsent() &&
		p.TotalAmount.IsAbsent() &&
		p.AdvanceAmount.IsAbsent() &&
		p.Status.IsAbsent() &&
		p.DesignImage.IsAbsent() &&
		p.Measurements.IsAbsent()
}

// IsComplete reports whether the patch carries the fields needed to echo
// the whole order back to the caller.
func (p OrderPatch) IsComplete() bool {
	return p.CustomerID.IsPresent() &&
		p.GarmentTypes.IsPresent() &&
		p.TotalAmount.IsPresent() &&
		p.AdvanceAmount.IsPresent()
}

// TouchesAmounts reports whether the balance has to be recomputed
func (p OrderPatch) TouchesAmounts() bool {
	return p.TotalAmount.IsPresent() || p.AdvanceAmount.IsPresent()
}

// Columns compiles the present scalar fields into a column map suitable for
// a parameterized UPDATE. Balance and measurements are handled by the caller.
func (p OrderPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})

	if v, ok := p.CustomerID.Get(); ok {
		cols["customer_id"] = v
	}
	if v, ok := p.GarmentTypes.Get(); ok {
		cols["garment_types"] = v
	}
	if v, ok := p.DeliveryDate.Get(); ok {
		cols["delivery_date"] = v
	}
	if v, ok := p.Notes.Get(); ok {
		cols["notes"] = v
	}
	if v, ok := p.TotalAmount.Get(); ok {
		cols["total_amount"] = Amount(v)
	}
	if v, ok := p.AdvanceAmount.Get(); ok {
		cols["advance_amount"] = Amount(v)
	}
	if v, ok := p.Status.Get(); ok {
		cols["status"] = string(v)
	}
	if v, ok := p.DesignImage.Get(); ok {
		cols["design_image"] = v
	}

	return cols
}

// ResolveBalance computes the balance for a patch against the stored row.
// The amount the patch does not carry is taken from current.
func (p OrderPatch) ResolveBalance(current *Order) decimal.Decimal {
	total := p.TotalAmount.OrElse(AmountOrZero(current.TotalAmount))
	advance := p.AdvanceAmount.OrElse(AmountOrZero(current.AdvanceAmount))
	return Balance(total, advance)
}
