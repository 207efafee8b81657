package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a
// specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, it's committed. All repository operations within the function
	// must go through the provided factory so they share the transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one specific
// transaction.
type RepositoryFactory interface {
	// PersonRepo returns a PersonRepository bound to the current transaction.
	PersonRepo() PersonRepository

	// LeadRepo returns a LeadRepository bound to the current transaction.
	LeadRepo() LeadRepository

	// LinkRepo returns a LinkRepository bound to the current transaction.
	LinkRepo() LinkRepository

	// CampaignRepo returns a CampaignRepository bound to the current transaction.
	CampaignRepo() CampaignRepository
}
