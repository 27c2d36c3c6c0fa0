package auth

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

// User identity is the email. Records are created on register and read on
// login; this service never updates or deletes them.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string    `gorm:"type:varchar(255);not null"` // bcrypt hash
	Role        string    `gorm:"type:varchar(50);not null;default:'employee';check:role IN ('employee','hr','admin')"`
	Designation string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidRole reports whether role is one of the fixed enumerated set.
func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleHR, RoleAdmin:
		return true
	default:
		return false
	}
}
