package postgres

import (
	"context"

	"github.com/mins/twogether/internal/domain"
	"gorm.io/gorm"
)

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *questionRepository {
	return &questionRepository{db: db}
}

// GetRandomActive picks one active question of the given type. ORDER BY
// RANDOM() is approximately uniform, which is all the game needs.
func (r *questionRepository) GetRandomActive(ctx context.Context, gameType domain.GameType) (*domain.Question, error) {
	var question domain.Question
	err := r.db.WithContext(ctx).
		Where("type = ? AND active = ?", gameType, true).
		Order("RANDOM()").
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Question{}).Count(&count).Error
	return count, err
}

func (r *questionRepository) CreateMany(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(questions).Error
}
