package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/period"
	"github.com/mins/twogether/internal/repository"
	"gorm.io/gorm"
)

// CoupleService owns the lazy quota reset logic and couple state reads.
type CoupleService struct {
	repos *repository.Repositories
}

func NewCoupleService(repos *repository.Repositories) *CoupleService {
	return &CoupleService{repos: repos}
}

// applyQuotaResets refreshes stale quota markers in place and reports
// whether anything changed. The ticket and daily resets are independent;
// both may fire in one call. Also zeroes the streak when the couple
// skipped at least one full day.
func applyQuotaResets(c *domain.Couple, now time.Time) bool {
	changed := false

	if tp := period.Ticket(now); c.LastTicketPeriod != tp {
		c.TicketsRemaining = domain.DefaultTicketQuota
		c.LastTicketPeriod = tp
		changed = true
	}

	if d := period.Daily(now); c.LastDailyResetDate != d {
		c.DailyRemaining = domain.DefaultDailyQuota
		c.LastDailyResetDate = d
		changed = true
	}

	if c.Streak != 0 &&
		!period.IsToday(c.LastStreakEarnedDate, now) &&
		!period.IsYesterday(c.LastStreakEarnedDate, now) {
		c.Streak = 0
		changed = true
	}

	return changed
}

// EnsureFresh lazily resets the couple's quotas and streak continuity.
// Idempotent: when the couple is already fresh no write is issued.
func (s *CoupleService) EnsureFresh(ctx context.Context, coupleID uuid.UUID) (*domain.Couple, error) {
	var couple *domain.Couple
	err := s.repos.Tx.Run(ctx, func(r *repository.Repositories) error {
		c, err := r.Couple.GetByIDForUpdate(ctx, coupleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCoupleNotFound
			}
			return err
		}

		if applyQuotaResets(c, time.Now()) {
			if err := r.Couple.Update(ctx, c); err != nil {
				return err
			}
		}

		couple = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return couple, nil
}

type MemberState struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Points      int       `json:"points"`
}

// CoupleState is the full snapshot returned to clients, including the
// per-member points balances (member-scoped so they survive unpairing)
// and the next reset boundaries for countdown display.
type CoupleState struct {
	Couple            *domain.Couple `json:"couple"`
	Members           []MemberState  `json:"members"`
	NextTicketResetAt time.Time      `json:"nextTicketResetAt"`
	NextDailyResetAt  time.Time      `json:"nextDailyResetAt"`
}

// GetState refreshes the couple then returns the current snapshot. The
// caller must be one of the couple's members.
func (s *CoupleService) GetState(ctx context.Context, coupleID, callerID uuid.UUID) (*CoupleState, error) {
	couple, err := s.EnsureFresh(ctx, coupleID)
	if err != nil {
		return nil, err
	}
	if !couple.HasMember(callerID) {
		return nil, domain.ErrNotCoupleMember
	}

	members := make([]MemberState, 0, 2)
	for _, memberID := range couple.MemberIDs() {
		user, err := s.repos.User.GetByID(ctx, memberID)
		if err != nil {
			return nil, err
		}
		members = append(members, MemberState{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			Points:      user.Points,
		})
	}

	now := time.Now()
	return &CoupleState{
		Couple:            couple,
		Members:           members,
		NextTicketResetAt: period.NextTicketBoundary(now),
		NextDailyResetAt:  period.NextDailyBoundary(now),
	}, nil
}
