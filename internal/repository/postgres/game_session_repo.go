package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gameSessionRepository struct {
	db *gorm.DB
}

func NewGameSessionRepository(db *gorm.DB) *gameSessionRepository {
	return &gameSessionRepository{db: db}
}

func (r *gameSessionRepository) Create(ctx context.Context, session *domain.GameSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *gameSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GameSession, error) {
	var session domain.GameSession
	err := r.db.WithContext(ctx).
		Preload("Question").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *gameSessionRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.GameSession, error) {
	var session domain.GameSession
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *gameSessionRepository) Update(ctx context.Context, session *domain.GameSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *gameSessionRepository) GetWaitingByCouple(ctx context.Context, coupleID uuid.UUID) ([]*domain.GameSession, error) {
	var sessions []*domain.GameSession
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("couple_id = ? AND status = ?", coupleID, domain.SessionStatusWaiting).
		Order("created_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *gameSessionRepository) GetHistoryByCouple(ctx context.Context, coupleID uuid.UUID, limit, offset int) ([]*domain.GameSession, error) {
	var sessions []*domain.GameSession
	err := r.db.WithContext(ctx).
		Preload("Question").
		Where("couple_id = ?", coupleID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *gameSessionRepository) DeleteByCouple(ctx context.Context, coupleID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.GameSession{}, "couple_id = ?", coupleID).Error
}
