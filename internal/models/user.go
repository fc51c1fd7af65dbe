package models

import (
	"github.com/google/uuid"
)

// Role values accepted at signup.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User represents one registrant. Exactly one of Email/Phone is set at
// signup; the pointer columns keep the unique indexes from colliding on
// empty strings.
type User struct {
	BaseModel
	Name            string  `json:"name"`
	Email           *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone           *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	PasswordHash    string  `json:"-"`
	Role            string  `json:"role"`
	IsEmailVerified bool    `json:"is_email_verified"`
	IsPhoneVerified bool    `json:"is_phone_verified"`
}

// OTPCode is a single issued one-time code. Rows are never invalidated
// when a newer code is sent; verification consults the most recent row
// for the (user, channel) pair.
type OTPCode struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User    User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Channel string    `gorm:"index" json:"channel"`
	Code    string    `json:"-"`
}

// RefreshToken is a long-lived opaque session credential. It carries no
// expiry; the only kill switch is the revocation flag set at logout.
type RefreshToken struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"uniqueIndex" json:"-"`
	IsRevoked bool      `json:"is_revoked"`
}
