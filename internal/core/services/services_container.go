package services

import (
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/platform/config"
)

// NewServiceContainer wires the service facades from the repository provider.
// feed components may be nil when no live view layer is attached.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.FeedPublisher, subscriber portssvc.FeedSubscriber) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Room = NewRoomService(repos.RoomRepo, repos.PlayerRepo)
	container.Player = NewPlayerService(repos.PlayerRepo, repos.RoomRepo, repos.ConfigRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.PlayerRepo, publisher, cfg.TransferMaxRetries)
	container.BankPass = NewBankPassService(repos.BankPassRepo, repos.PlayerRepo, container.Ledger)
	container.Token = NewTokenService(cfg)
	container.Feed = subscriber

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.RoomSvcFacade     = (*roomService)(nil)
	_ portssvc.PlayerSvcFacade   = (*playerService)(nil)
	_ portssvc.LedgerSvcFacade   = (*ledgerService)(nil)
	_ portssvc.BankPassSvcFacade = (*bankPassService)(nil)
)
