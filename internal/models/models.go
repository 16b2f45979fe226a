package models

import (
	"time"
)

// Tailor is an operator account of the shop
type Tailor struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"`
	ShopName     string    `gorm:"column:shop_name" json:"shop_name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name
func (Tailor) TableName() string {
	return "tailors"
}

// Customer is a customer record. CustomerNumber is allocated once and never changes.
type Customer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CustomerNumber string    `gorm:"column:customer_number;uniqueIndex;not null" json:"customer_number"`
	Name           string    `gorm:"column:name;not null" json:"name"`
	ContactNumber  *string   `gorm:"column:contact_number" json:"contact_number"`
	Address        *string   `gorm:"column:address" json:"address"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// CustomerUpdate holds the mutable customer fields
type CustomerUpdate struct {
	Name          string
	ContactNumber *string
	Address       *string
}
