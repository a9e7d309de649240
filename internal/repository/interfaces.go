package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByIDForUpdate locks the user row for the duration of the
	// surrounding transaction. Pairing state transitions hold both
	// member rows so concurrent accepts serialize.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// AddPoints atomically increments a user's points balance.
	AddPoints(ctx context.Context, id uuid.UUID, delta int) error
	// ClearCouple removes the couple link from every member of the couple.
	ClearCouple(ctx context.Context, coupleID uuid.UUID) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type CoupleRepository interface {
	Create(ctx context.Context, couple *domain.Couple) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Couple, error)
	// GetByIDForUpdate locks the couple row for the duration of the
	// surrounding transaction. The couple row is the single point of
	// mutual exclusion for quota and pending-count invariants.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Couple, error)
	Update(ctx context.Context, couple *domain.Couple) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GameSessionRepository interface {
	Create(ctx context.Context, session *domain.GameSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GameSession, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.GameSession, error)
	Update(ctx context.Context, session *domain.GameSession) error
	GetWaitingByCouple(ctx context.Context, coupleID uuid.UUID) ([]*domain.GameSession, error)
	GetHistoryByCouple(ctx context.Context, coupleID uuid.UUID, limit, offset int) ([]*domain.GameSession, error)
	DeleteByCouple(ctx context.Context, coupleID uuid.UUID) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.InviteCode) error
	GetByCode(ctx context.Context, code string) (*domain.InviteCode, error)
	GetByCodeForUpdate(ctx context.Context, code string) (*domain.InviteCode, error)
	Update(ctx context.Context, invite *domain.InviteCode) error
}

type QuestionRepository interface {
	// GetRandomActive picks an active question of the given type.
	// Selection is approximately uniform, not cryptographically fair.
	GetRandomActive(ctx context.Context, gameType domain.GameType) (*domain.Question, error)
	Count(ctx context.Context) (int64, error)
	CreateMany(ctx context.Context, questions []*domain.Question) error
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Couple      CoupleRepository
	GameSession GameSessionRepository
	Invite      InviteRepository
	Question    QuestionRepository
	Tx          TxRunner
}

// TxRunner executes fn with repositories bound to a single database
// transaction. Every read-modify-write in the game engine goes through
// exactly one Run call so the two partners' concurrent requests serialize
// on the rows they touch.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Repositories) error) error
}
