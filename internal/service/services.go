package service

import (
	"github.com/mins/twogether/internal/config"
	"github.com/mins/twogether/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Pairing *PairingService
	Couple  *CoupleService
	Game    *GameService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier Notifier) *Services {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Pairing: NewPairingService(repos, cfg, notifier),
		Couple:  NewCoupleService(repos),
		Game:    NewGameService(repos, notifier),
	}
}
