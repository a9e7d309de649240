package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/config"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/period"
	"github.com/mins/twogether/internal/repository"
	"gorm.io/gorm"
)

const (
	inviteCodeLength  = 6
	inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeGenAttempts   = 10
)

// PairingService issues single-use invite codes and turns an accepted code
// into a Couple aggregate.
type PairingService struct {
	repos    *repository.Repositories
	cfg      *config.Config
	notifier Notifier
}

func NewPairingService(repos *repository.Repositories, cfg *config.Config, notifier Notifier) *PairingService {
	return &PairingService{
		repos:    repos,
		cfg:      cfg,
		notifier: notifier,
	}
}

func randomInviteCode() string {
	bytes := make([]byte, inviteCodeLength)
	rand.Read(bytes)
	code := make([]byte, inviteCodeLength)
	for i, b := range bytes {
		code[i] = inviteCodeCharset[int(b)%len(inviteCodeCharset)]
	}
	return string(code)
}

// GenerateCode creates a pairing code for an unpaired user. Collisions
// against existing codes are retried a bounded number of times.
func (s *PairingService) GenerateCode(ctx context.Context, inviterID uuid.UUID) (*domain.InviteCode, error) {
	inviter, err := s.repos.User.GetByID(ctx, inviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if inviter.IsPaired() {
		return nil, domain.ErrAlreadyPaired
	}

	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code := randomInviteCode()
		if _, err := s.repos.Invite.GetByCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		invite := &domain.InviteCode{
			ID:        uuid.New(),
			Code:      code,
			InviterID: inviterID,
			Status:    domain.InviteStatusPending,
			ExpiresAt: time.Now().Add(s.cfg.InviteTTL),
			CreatedAt: time.Now(),
		}
		if err := s.repos.Invite.Create(ctx, invite); err != nil {
			// A concurrent generator can win the same code between the
			// lookup and the insert; that is just another collision.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, err
		}
		return invite, nil
	}

	return nil, domain.ErrCodeGeneration
}

// validateInvite runs the shared eligibility checks. Expiry is checked
// before consumption so expired codes are rejected regardless of status.
func validateInvite(invite *domain.InviteCode, requester, inviter *domain.User, now time.Time) error {
	if invite.IsExpired(now) {
		return domain.ErrCodeExpired
	}
	if invite.IsConsumed() {
		return domain.ErrCodeConsumed
	}
	if invite.InviterID == requester.ID {
		return domain.ErrOwnCode
	}
	if requester.IsPaired() {
		return domain.ErrAlreadyPaired
	}
	if inviter.IsPaired() {
		return domain.ErrInviterUnavailable
	}
	return nil
}

// ValidateCode is a read-only pre-check so the client can show the inviter
// before confirming. The same conditions are re-checked transactionally in
// AcceptInvite because codes can race between validate and accept.
func (s *PairingService) ValidateCode(ctx context.Context, code string, requesterID uuid.UUID) (*domain.InviteCode, error) {
	invite, err := s.repos.Invite.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}

	requester, err := s.repos.User.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	inviter, err := s.repos.User.GetByID(ctx, invite.InviterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := validateInvite(invite, requester, inviter, time.Now()); err != nil {
		return nil, err
	}

	invite.Inviter = inviter
	return invite, nil
}

// AcceptInvite consumes the code and creates the couple. Every check from
// ValidateCode is repeated inside a single transaction holding the invite
// row and both user rows; either all four writes commit or none do.
func (s *PairingService) AcceptInvite(ctx context.Context, code string, requesterID uuid.UUID, anniversaryDate string) (*domain.Couple, error) {
	var couple *domain.Couple
	err := s.repos.Tx.Run(ctx, func(r *repository.Repositories) error {
		invite, err := r.Invite.GetByCodeForUpdate(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCodeNotFound
			}
			return err
		}

		// Lock both user rows, lowest id first. The pairing checks are
		// only trustworthy while the rows are held; concurrent accepts
		// of different codes touching the same user serialize here.
		ids := []uuid.UUID{invite.InviterID, requesterID}
		if bytes.Compare(ids[1][:], ids[0][:]) < 0 {
			ids[0], ids[1] = ids[1], ids[0]
		}
		users := make(map[uuid.UUID]*domain.User, 2)
		for _, id := range ids {
			user, err := r.User.GetByIDForUpdate(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrUserNotFound
				}
				return err
			}
			users[id] = user
		}
		inviter := users[invite.InviterID]
		requester := users[requesterID]

		now := time.Now()
		if err := validateInvite(invite, requester, inviter, now); err != nil {
			return err
		}

		couple = &domain.Couple{
			ID:                 uuid.New(),
			Member1ID:          inviter.ID,
			Member2ID:          requester.ID,
			AnniversaryDate:    anniversaryDate,
			DailyRemaining:     domain.DefaultDailyQuota,
			TicketsRemaining:   domain.DefaultTicketQuota,
			Streak:             0,
			LastTicketPeriod:   period.Ticket(now),
			LastDailyResetDate: period.Daily(now),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := r.Couple.Create(ctx, couple); err != nil {
			return err
		}

		inviter.CoupleID = &couple.ID
		if err := r.User.Update(ctx, inviter); err != nil {
			return err
		}
		requester.CoupleID = &couple.ID
		if err := r.User.Update(ctx, requester); err != nil {
			return err
		}

		invite.Status = domain.InviteStatusConsumed
		invite.ConsumedBy = &requester.ID
		return r.Invite.Update(ctx, invite)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(couple.ID, Event{Type: EventCoupleUpdated, Payload: couple})
	return couple, nil
}

// Unpair dissolves the caller's couple: sessions are deleted best-effort,
// then the member links and the couple row go in one transaction.
func (s *PairingService) Unpair(ctx context.Context, requesterID uuid.UUID) error {
	user, err := s.repos.User.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if !user.IsPaired() {
		return domain.ErrCoupleNotFound
	}
	coupleID := *user.CoupleID

	// Session cleanup is best-effort; a failure here must not block the
	// unpair itself.
	if err := s.repos.GameSession.DeleteByCouple(ctx, coupleID); err != nil {
		log.Printf("unpair: failed to delete sessions for couple %s: %v", coupleID, err)
	}

	err = s.repos.Tx.Run(ctx, func(r *repository.Repositories) error {
		if err := r.User.ClearCouple(ctx, coupleID); err != nil {
			return err
		}
		return r.Couple.Delete(ctx, coupleID)
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(coupleID, Event{Type: EventCoupleUnpaired})
	return nil
}
