package domain

import (
	"time"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusConsumed InviteStatus = "consumed"
)

// InviteCode is a single-use pairing token. Expired codes are never
// deleted; expiry alone makes them inert.
type InviteCode struct {
	ID         uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code       string       `json:"code" gorm:"uniqueIndex;not null"`
	InviterID  uuid.UUID    `json:"inviterId" gorm:"type:uuid;not null"`
	Status     InviteStatus `json:"status" gorm:"not null;default:'pending'"`
	ExpiresAt  time.Time    `json:"expiresAt" gorm:"not null"`
	ConsumedBy *uuid.UUID   `json:"consumedBy" gorm:"type:uuid"`
	CreatedAt  time.Time    `json:"createdAt"`

	// Relations
	Inviter *User `json:"inviter,omitempty" gorm:"foreignKey:InviterID"`
}

func (i *InviteCode) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

func (i *InviteCode) IsConsumed() bool {
	return i.Status == InviteStatusConsumed
}
