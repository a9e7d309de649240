package service

import (
	"time"

	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/period"
)

// applyStreak credits the couple's streak for a session completed now. It
// runs inside the same transaction that marks the session completed and is
// the only code path that mutates Couple.Streak upward.
//
// The streak is type-agnostic: daily questions and choice games both count.
func applyStreak(c *domain.Couple, now time.Time) {
	switch {
	case period.IsToday(c.LastStreakEarnedDate, now):
		// Already credited today; a second completion does not double-count.
	case period.IsYesterday(c.LastStreakEarnedDate, now):
		c.Streak++
		c.LastStreakEarnedDate = period.Daily(now)
	default:
		// First completion ever, or a gap of two or more days.
		c.Streak = 1
		c.LastStreakEarnedDate = period.Daily(now)
	}
}
