package models

import (
	"strings"
	"time"
)

// Customer represents a CRM client record
type Customer struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	Name    string `json:"name" gorm:"type:varchar(255);not null;index"`
	Email   string `json:"email" gorm:"type:varchar(255);index"`
	Phone   string `json:"phone" gorm:"type:varchar(20)"`
	Company string `json:"company" gorm:"type:varchar(255);index"`
	TaxID   string `json:"taxId" gorm:"column:tax_id;type:varchar(18)"`

	// Structured address
	Street     string `json:"street" gorm:"type:varchar(255)"`
	Number     string `json:"number" gorm:"type:varchar(20)"`
	District   string `json:"district" gorm:"type:varchar(100)"`
	City       string `json:"city" gorm:"type:varchar(100);index"`
	State      string `json:"state" gorm:"type:varchar(2)"` // 2-letter state code
	PostalCode string `json:"postalCode" gorm:"type:varchar(10)"`

	Notes string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// ApplyDefaults normalizes a customer record before persistence. It is a
// total mapping: every optional field ends up with a well-defined value.
func (c *Customer) ApplyDefaults() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.State = strings.ToUpper(strings.TrimSpace(c.State))
}
