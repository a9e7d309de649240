package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mins/twogether/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type coupleRepository struct {
	db *gorm.DB
}

func NewCoupleRepository(db *gorm.DB) *coupleRepository {
	return &coupleRepository{db: db}
}

func (r *coupleRepository) Create(ctx context.Context, couple *domain.Couple) error {
	return r.db.WithContext(ctx).Create(couple).Error
}

func (r *coupleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Couple, error) {
	var couple domain.Couple
	err := r.db.WithContext(ctx).
		Preload("Member1").
		Preload("Member2").
		First(&couple, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

func (r *coupleRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Couple, error) {
	var couple domain.Couple
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&couple, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

func (r *coupleRepository) Update(ctx context.Context, couple *domain.Couple) error {
	return r.db.WithContext(ctx).Save(couple).Error
}

func (r *coupleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Couple{}, "id = ?", id).Error
}
