package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/repository"
	"gorm.io/gorm"
)

// AnswerPoints is awarded to a member for submitting their own answer,
// independent of whether the session ever completes.
const AnswerPoints = 10

// GameService owns the session lifecycle: quota-gated starts, answer
// submission, completion, and the pending/history reads.
type GameService struct {
	repos    *repository.Repositories
	notifier Notifier
}

func NewGameService(repos *repository.Repositories, notifier Notifier) *GameService {
	return &GameService{
		repos:    repos,
		notifier: notifier,
	}
}

type StartResult struct {
	Session  *domain.GameSession `json:"session"`
	Question *domain.Question    `json:"question"`
	Couple   *domain.Couple      `json:"couple"`
}

// StartDaily opens the couple's daily question. Only one daily session may
// be outstanding per couple at a time, regardless of who started it.
func (s *GameService) StartDaily(ctx context.Context, coupleID, initiatorID uuid.UUID, purchased bool) (*StartResult, error) {
	return s.start(ctx, coupleID, initiatorID, domain.GameTypeDaily, purchased)
}

// StartChoice opens a choice-type game, gated on tickets and on the
// pending-choice cap.
func (s *GameService) StartChoice(ctx context.Context, coupleID, initiatorID uuid.UUID, gameType domain.GameType, purchased bool) (*StartResult, error) {
	if !gameType.IsChoice() {
		return nil, domain.ErrUnsupportedGameType
	}
	return s.start(ctx, coupleID, initiatorID, gameType, purchased)
}

func (s *GameService) start(ctx context.Context, coupleID, initiatorID uuid.UUID, gameType domain.GameType, purchased bool) (*StartResult, error) {
	var result StartResult
	err := s.repos.Tx.Run(ctx, func(r *repository.Repositories) error {
		couple, err := r.Couple.GetByIDForUpdate(ctx, coupleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCoupleNotFound
			}
			return err
		}
		if !couple.HasMember(initiatorID) {
			return domain.ErrNotCoupleMember
		}

		now := time.Now()
		applyQuotaResets(couple, now)

		if gameType == domain.GameTypeDaily {
			if couple.HasPendingDaily {
				return domain.ErrPendingDailyExists
			}
			if !purchased {
				if couple.DailyRemaining <= 0 {
					return domain.ErrNoDailyRemaining
				}
				couple.DailyRemaining--
			}
			couple.HasPendingDaily = true
		} else {
			if couple.PendingChoiceCount >= domain.MaxPendingChoice {
				return domain.ErrPendingChoiceLimit
			}
			if !purchased {
				if couple.TicketsRemaining <= 0 {
					return domain.ErrNoTicketsRemaining
				}
				couple.TicketsRemaining--
			}
			couple.PendingChoiceCount++
		}

		question, err := r.Question.GetRandomActive(ctx, gameType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrQuestionNotFound
			}
			return err
		}

		session := &domain.GameSession{
			ID:          uuid.New(),
			CoupleID:    coupleID,
			Type:        gameType,
			QuestionID:  question.ID,
			InitiatorID: initiatorID,
			Status:      domain.SessionStatusWaiting,
			Purchased:   purchased,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := session.EncodeAnswers(map[string]domain.Answer{}); err != nil {
			return err
		}
		if err := r.GameSession.Create(ctx, session); err != nil {
			return err
		}
		if err := r.Couple.Update(ctx, couple); err != nil {
			return err
		}

		session.Question = question
		result = StartResult{Session: session, Question: question, Couple: couple}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(coupleID, Event{Type: EventSessionCreated, Payload: result.Session})
	s.notifier.Publish(coupleID, Event{Type: EventCoupleUpdated, Payload: result.Couple})
	if purchased {
		s.notifier.Publish(coupleID, Event{
			Type:    EventChatMessage,
			Payload: fmt.Sprintf("A %s game was purchased and started!", gameType),
		})
	}
	return &result, nil
}

type AnswerResult struct {
	Completed bool `json:"completed"`
}

// SubmitAnswer records one member's answer. The submitter is awarded
// points immediately; completion, pending-flag clearing, and the streak
// credit all land in the same transaction as the final answer.
func (s *GameService) SubmitAnswer(ctx context.Context, coupleID, sessionID, memberID uuid.UUID, answer string) (*AnswerResult, error) {
	var (
		completed bool
		couple    *domain.Couple
		session   *domain.GameSession
	)
	err := s.repos.Tx.Run(ctx, func(r *repository.Repositories) error {
		// Couple first, session second: all writers take locks in this
		// order.
		c, err := r.Couple.GetByIDForUpdate(ctx, coupleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCoupleNotFound
			}
			return err
		}
		if !c.HasMember(memberID) {
			return domain.ErrNotCoupleMember
		}

		sess, err := r.GameSession.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if sess.CoupleID != coupleID {
			return domain.ErrSessionNotFound
		}
		if sess.Status == domain.SessionStatusCompleted {
			return domain.ErrSessionCompleted
		}

		answers, err := sess.DecodeAnswers()
		if err != nil {
			return err
		}
		if _, ok := answers[memberID.String()]; ok {
			return domain.ErrAlreadyAnswered
		}

		now := time.Now()
		answers[memberID.String()] = domain.Answer{Value: answer, AnsweredAt: now}
		if err := sess.EncodeAnswers(answers); err != nil {
			return err
		}
		sess.UpdatedAt = now

		completed = true
		for _, id := range c.MemberIDs() {
			if _, ok := answers[id.String()]; !ok {
				completed = false
				break
			}
		}

		if completed {
			sess.Status = domain.SessionStatusCompleted
			sess.CompletedAt = &now

			applyStreak(c, now)
			if sess.Type == domain.GameTypeDaily {
				c.HasPendingDaily = false
			} else if c.PendingChoiceCount > 0 {
				c.PendingChoiceCount--
			}
			if err := r.Couple.Update(ctx, c); err != nil {
				return err
			}
		}

		if err := r.GameSession.Update(ctx, sess); err != nil {
			return err
		}

		// Answering is rewarded per member, not per joint completion.
		if err := r.User.AddPoints(ctx, memberID, AnswerPoints); err != nil {
			return err
		}

		couple = c
		session = sess
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.notifier.Publish(coupleID, Event{Type: EventSessionCompleted, Payload: session})
		s.notifier.Publish(coupleID, Event{Type: EventCoupleUpdated, Payload: couple})
	} else {
		s.notifier.Publish(coupleID, Event{Type: EventSessionAnswered, Payload: session})
	}
	return &AnswerResult{Completed: completed}, nil
}

// GetPending lists waiting sessions the member has not answered yet. A
// couple that vanished under the caller (concurrent unpair) yields an
// empty list, not an error.
func (s *GameService) GetPending(ctx context.Context, coupleID, memberID uuid.UUID) ([]*domain.GameSession, error) {
	couple, err := s.repos.Couple.GetByID(ctx, coupleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*domain.GameSession{}, nil
		}
		return nil, err
	}
	if !couple.HasMember(memberID) {
		return []*domain.GameSession{}, nil
	}

	sessions, err := s.repos.GameSession.GetWaitingByCouple(ctx, coupleID)
	if err != nil {
		return nil, err
	}

	pending := make([]*domain.GameSession, 0, len(sessions))
	for _, sess := range sessions {
		if !sess.HasAnswerFrom(memberID) {
			pending = append(pending, sess)
		}
	}
	return pending, nil
}

type HistoryEntry struct {
	Session *domain.GameSession `json:"session"`
	// CanAnswer reports whether the calling member can still answer.
	CanAnswer bool `json:"canAnswer"`
}

// GetHistory returns recent sessions, most recent first, annotated with
// whether the caller can still answer each one.
func (s *GameService) GetHistory(ctx context.Context, coupleID, memberID uuid.UUID, limit, offset int) ([]HistoryEntry, error) {
	couple, err := s.repos.Couple.GetByID(ctx, coupleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []HistoryEntry{}, nil
		}
		return nil, err
	}
	if !couple.HasMember(memberID) {
		return []HistoryEntry{}, nil
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	sessions, err := s.repos.GameSession.GetHistoryByCouple(ctx, coupleID, limit, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(sessions))
	for _, sess := range sessions {
		entries = append(entries, HistoryEntry{
			Session:   sess,
			CanAnswer: sess.Status == domain.SessionStatusWaiting && !sess.HasAnswerFrom(memberID),
		})
	}
	return entries, nil
}
