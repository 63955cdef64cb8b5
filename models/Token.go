package models

import (
	"time"

	"gorm.io/gorm"
)

// Token is one wallet session. The raw token is handed to the client once;
// only its sha512 hash is stored.
type Token struct {
	gorm.Model
	ExpiresAt time.Time
	TokenHash string `gorm:"index"`

	Address string

	Payments []PaymentRecord
}
