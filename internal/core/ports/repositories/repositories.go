package repositories

// RepositoryProvider bundles the repository facades handed to the service
// container at startup.
type RepositoryProvider struct {
	RoomRepo     RoomRepositoryFacade
	PlayerRepo   PlayerRepositoryFacade
	ConfigRepo   ConfigRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	BankPassRepo BankPassRepositoryFacade
}
