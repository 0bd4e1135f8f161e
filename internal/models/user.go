package models

import "time"

// AccessLevel represents a user's permission tier
type AccessLevel string

const (
	AccessAdmin  AccessLevel = "Admin"
	AccessSeller AccessLevel = "Seller"
	AccessViewer AccessLevel = "Viewer"
)

// User is an application account. The table is migrated alongside the CRM
// entities but no in-scope service reads or writes it yet.
type User struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	Name         string      `json:"name" gorm:"type:varchar(255);not null"`
	Email        string      `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string      `json:"-" gorm:"type:varchar(255);not null"`
	AccessLevel  AccessLevel `json:"accessLevel" gorm:"type:varchar(20);default:'Seller'"`
	Active       bool        `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
