package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a learner or instructor account.
type User struct {
	BaseModel
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PhoneNumber  string     `gorm:"size:11;uniqueIndex;not null" json:"phone_number"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	About        string     `json:"about"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	IsTeacher    bool       `gorm:"not null" json:"is_teacher"`
	Balance      int64      `gorm:"not null" json:"balance"`
	ActiveCartID *uuid.UUID `gorm:"type:uuid" json:"active_cart_id,omitempty"`
}

// OTPPurpose tags what a one-time code unlocks.
type OTPPurpose string

const (
	OTPPurposeRegister       OTPPurpose = "register"
	OTPPurposeForgotPassword OTPPurpose = "forgot-password"
)

// OTPCode is a short-lived numeric code bound to a phone number and purpose.
// At most one row exists per (phone_number, purpose).
type OTPCode struct {
	BaseModel
	Code        string     `gorm:"size:5;not null" json:"-"`
	PhoneNumber string     `gorm:"size:11;not null;uniqueIndex:idx_otp_phone_purpose" json:"phone_number"`
	Purpose     OTPPurpose `gorm:"size:32;not null;uniqueIndex:idx_otp_phone_purpose" json:"purpose"`
	ExpireTime  time.Time  `gorm:"not null;index" json:"expire_time"`
}

// Expired reports whether the code is no longer usable at t.
func (o *OTPCode) Expired(t time.Time) bool {
	return !t.Before(o.ExpireTime)
}
