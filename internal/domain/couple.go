package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultDailyQuota is the number of daily questions granted per civil day.
	DefaultDailyQuota = 1
	// DefaultTicketQuota is the number of choice-game tickets granted per ticket period.
	DefaultTicketQuota = 3
	// MaxPendingChoice caps simultaneously outstanding choice games per couple.
	MaxPendingChoice = 3
)

type Couple struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Member1ID            uuid.UUID `json:"member1Id" gorm:"type:uuid;not null"`
	Member2ID            uuid.UUID `json:"member2Id" gorm:"type:uuid;not null"`
	AnniversaryDate      string    `json:"anniversaryDate"`
	DailyRemaining       int       `json:"dailyRemaining" gorm:"not null;default:1"`
	TicketsRemaining     int       `json:"ticketsRemaining" gorm:"not null;default:3"`
	Streak               int       `json:"streak" gorm:"not null;default:0"`
	HasPendingDaily      bool      `json:"hasPendingDaily" gorm:"not null;default:false"`
	PendingChoiceCount   int       `json:"pendingChoiceCount" gorm:"not null;default:0"`
	LastTicketPeriod     string    `json:"lastTicketPeriod"`
	LastDailyResetDate   string    `json:"lastDailyResetDate"`
	LastStreakEarnedDate string    `json:"lastStreakEarnedDate"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`

	// Relations
	Member1 *User `json:"member1,omitempty" gorm:"foreignKey:Member1ID"`
	Member2 *User `json:"member2,omitempty" gorm:"foreignKey:Member2ID"`
}

// MemberIDs returns both member ids in stable order.
func (c *Couple) MemberIDs() []uuid.UUID {
	return []uuid.UUID{c.Member1ID, c.Member2ID}
}

// HasMember reports whether the given user belongs to this couple.
func (c *Couple) HasMember(userID uuid.UUID) bool {
	return c.Member1ID == userID || c.Member2ID == userID
}

// PartnerOf returns the other member's id. The caller must already be a member.
func (c *Couple) PartnerOf(userID uuid.UUID) uuid.UUID {
	if c.Member1ID == userID {
		return c.Member2ID
	}
	return c.Member1ID
}
