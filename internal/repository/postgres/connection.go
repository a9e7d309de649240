package postgres

import (
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Couple{},
		&domain.GameSession{},
		&domain.InviteCode{},
		&domain.Question{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Couple:      NewCoupleRepository(db),
		GameSession: NewGameSessionRepository(db),
		Invite:      NewInviteRepository(db),
		Question:    NewQuestionRepository(db),
		Tx:          NewTxRunner(db),
	}
}
