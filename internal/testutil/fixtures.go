package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/period"
	"github.com/mins/twogether/internal/seed"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	points      int
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPoints sets the starting points balance
func (b *UserBuilder) WithPoints(points int) *UserBuilder {
	b.points = points
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		Points:       b.points,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// CoupleBuilder creates a paired couple with fresh quotas by default
type CoupleBuilder struct {
	dailyRemaining   int
	ticketsRemaining int
	streak           int
	lastStreakDate   string
	ticketPeriod     string
	dailyResetDate   string
}

// NewCoupleBuilder creates a new CoupleBuilder with fresh defaults
func NewCoupleBuilder() *CoupleBuilder {
	now := time.Now()
	return &CoupleBuilder{
		dailyRemaining:   domain.DefaultDailyQuota,
		ticketsRemaining: domain.DefaultTicketQuota,
		ticketPeriod:     period.Ticket(now),
		dailyResetDate:   period.Daily(now),
	}
}

// WithDailyRemaining sets the daily-question quota
func (b *CoupleBuilder) WithDailyRemaining(n int) *CoupleBuilder {
	b.dailyRemaining = n
	return b
}

// WithTicketsRemaining sets the ticket quota
func (b *CoupleBuilder) WithTicketsRemaining(n int) *CoupleBuilder {
	b.ticketsRemaining = n
	return b
}

// WithStreak sets the streak and its last-earned date
func (b *CoupleBuilder) WithStreak(streak int, lastEarnedDate string) *CoupleBuilder {
	b.streak = streak
	b.lastStreakDate = lastEarnedDate
	return b
}

// WithTicketPeriod overrides the stored ticket period marker
func (b *CoupleBuilder) WithTicketPeriod(p string) *CoupleBuilder {
	b.ticketPeriod = p
	return b
}

// WithDailyResetDate overrides the stored daily reset marker
func (b *CoupleBuilder) WithDailyResetDate(d string) *CoupleBuilder {
	b.dailyResetDate = d
	return b
}

// Build creates two users and their couple in the database
func (b *CoupleBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Couple, *domain.User, *domain.User) {
	t.Helper()

	member1, _ := NewUserBuilder().Build(t, db)
	member2, _ := NewUserBuilder().Build(t, db)

	couple := &domain.Couple{
		ID:                   uuid.New(),
		Member1ID:            member1.ID,
		Member2ID:            member2.ID,
		DailyRemaining:       b.dailyRemaining,
		TicketsRemaining:     b.ticketsRemaining,
		Streak:               b.streak,
		LastStreakEarnedDate: b.lastStreakDate,
		LastTicketPeriod:     b.ticketPeriod,
		LastDailyResetDate:   b.dailyResetDate,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := db.Create(couple).Error; err != nil {
		t.Fatalf("failed to create couple: %v", err)
	}

	for _, member := range []*domain.User{member1, member2} {
		member.CoupleID = &couple.ID
		if err := db.Save(member).Error; err != nil {
			t.Fatalf("failed to link member: %v", err)
		}
	}

	return couple, member1, member2
}

// SeedQuestions loads the default question bank into the test database
func SeedQuestions(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.Create(seed.Questions()).Error; err != nil {
		t.Fatalf("failed to seed questions: %v", err)
	}
}
