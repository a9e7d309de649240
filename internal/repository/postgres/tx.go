package postgres

import (
	"context"

	"github.com/mins/twogether/internal/repository"
	"gorm.io/gorm"
)

type txRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *txRunner {
	return &txRunner{db: db}
}

// Run executes fn against repositories bound to a single database
// transaction. A returned error rolls everything back.
func (r *txRunner) Run(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
