package postgres

import (
	"context"

	"github.com/mins/twogether/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *inviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteRepository) GetByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	var invite domain.InviteCode
	err := r.db.WithContext(ctx).
		Preload("Inviter").
		First(&invite, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) GetByCodeForUpdate(ctx context.Context, code string) (*domain.InviteCode, error) {
	var invite domain.InviteCode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invite, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) Update(ctx context.Context, invite *domain.InviteCode) error {
	return r.db.WithContext(ctx).Save(invite).Error
}
