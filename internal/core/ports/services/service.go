package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Room     RoomSvcFacade
	Player   PlayerSvcFacade
	Ledger   LedgerSvcFacade
	BankPass BankPassSvcFacade
	Token    TokenSvcFacade
	Feed     FeedSubscriber
}
