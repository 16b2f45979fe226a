package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the progress of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// DefaultUnit is the unit recorded for measurements that do not name one
const DefaultUnit = "inch"

// Order is a row of the orders table
type Order struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	OrderNumber   string              `gorm:"column:order_number" json:"order_number"`
	CustomerID    uint                `gorm:"column:customer_id" json:"customer_id"`
	GarmentTypes  GarmentTypes        `gorm:"column:garment_types" json:"garment_types"`
	OrderDate     Date                `gorm:"column:order_date" json:"order_date"`
	DeliveryDate  Date                `gorm:"column:delivery_date" json:"delivery_date"`
	Status        OrderStatus         `gorm:"column:status" json:"status"`
	DesignImage   *string             `gorm:"column:design_image" json:"design_image"`
	Notes         *string             `gorm:"column:notes" json:"notes"`
	TotalAmount   decimal.NullDecimal `gorm:"column:total_amount" json:"total_amount"`
	AdvanceAmount decimal.NullDecimal `gorm:"column:advance_amount" json:"advance_amount"`
	BalanceAmount decimal.NullDecimal `gorm:"column:balance_amount" json:"balance_amount"`
	CreatedAt     time.Time           `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// Balance returns total minus advance. Negative values mean overpayment.
func Balance(total, advance decimal.Decimal) decimal.Decimal {
	return total.Sub(advance)
}

// OrderDetail is an order joined with its customer
type OrderDetail struct {
	Order
	CustomerName   string        `gorm:"column:customer_name" json:"customer_name"`
	ContactNumber  *string       `gorm:"column:contact_number" json:"contact_number"`
	CustomerNumber string        `gorm:"column:customer_number" json:"customer_number"`
	Address        *string       `gorm:"column:address" json:"address,omitempty"`
	Measurements   []Measurement `gorm:"-" json:"measurements,omitempty"`
}

// Measurement is a named dimension owned by one order
type Measurement struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"column:order_id" json:"order_id"`
	MeasurementType string  `gorm:"column:measurement_type" json:"measurement_type"`
	Value           float64 `gorm:"column:value" json:"value"`
	Unit            string  `gorm:"column:unit" json:"unit"`
}

// TableName overrides the table name
func (Measurement) TableName() string {
	return "measurements"
}
