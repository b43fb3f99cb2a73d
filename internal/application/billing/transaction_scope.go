package billing

import (
	"context"

	"github.com/lodge/backend/internal/domain/billing"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the billing repositories
// within a transaction. All repositories returned share the same underlying
// database transaction, which also scopes the advisory lock taken through
// LedgerRepo.
type TransactionalRepositories interface {
	// ResidentRepo returns the resident repository scoped to the current transaction
	ResidentRepo() billing.ResidentRepository
	// LedgerRepo returns the ledger repository scoped to the current transaction
	LedgerRepo() billing.LedgerRepository
	// ReceiptRepo returns the receipt repository scoped to the current transaction
	ReceiptRepo() billing.ReceiptRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for unit tests with fake repositories.
type NoOpTransactionScope struct {
	residentRepo billing.ResidentRepository
	ledgerRepo   billing.LedgerRepository
	receiptRepo  billing.ReceiptRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	residentRepo billing.ResidentRepository,
	ledgerRepo billing.LedgerRepository,
	receiptRepo billing.ReceiptRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		residentRepo: residentRepo,
		ledgerRepo:   ledgerRepo,
		receiptRepo:  receiptRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ResidentRepo returns the resident repository.
func (s *NoOpTransactionScope) ResidentRepo() billing.ResidentRepository {
	return s.residentRepo
}

// LedgerRepo returns the ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() billing.LedgerRepository {
	return s.ledgerRepo
}

// ReceiptRepo returns the receipt repository.
func (s *NoOpTransactionScope) ReceiptRepo() billing.ReceiptRepository {
	return s.receiptRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
