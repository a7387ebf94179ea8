package models

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID         string `gorm:"primaryKey" json:"id"`
	Name       string `json:"name"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Phone      string `json:"phone"`
	Password   string `gorm:"not null" json:"-"`
	Role       Role   `gorm:"type:VARCHAR(20);default:'user'" json:"role"`
	ProfileImg string `json:"profileImg"`
	Active     bool   `gorm:"default:true" json:"active"`

	// Password change / reset bookkeeping. The reset code is stored only as
	// a sha256 hex digest and is cleared once consumed.
	PasswordChangedAt     *time.Time `json:"-"`
	PasswordResetCode     string     `json:"-"`
	PasswordResetExpires  *time.Time `json:"-"`
	PasswordResetVerified bool       `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
