package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PasswordHash string     `json:"-" gorm:"not null"`
	DisplayName  string     `json:"displayName" gorm:"uniqueIndex;not null"`
	CoupleID     *uuid.UUID `json:"coupleId" gorm:"type:uuid"`
	Points       int        `json:"points" gorm:"not null;default:0"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsPaired reports whether the user currently belongs to a couple.
func (u *User) IsPaired() bool {
	return u.CoupleID != nil
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
