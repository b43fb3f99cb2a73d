package finance

import (
	"context"

	"github.com/lodge/backend/internal/domain/finance"
)

// TransactionScope provides transactional access to finance repositories.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the finance repositories
// within a transaction.
type TransactionalRepositories interface {
	// ExpenseRepo returns the expense repository scoped to the current transaction
	ExpenseRepo() finance.ExpenseRepository
	// ExpenseFileRepo returns the attachment repository scoped to the current transaction
	ExpenseFileRepo() finance.ExpenseFileRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for unit tests with fake repositories.
type NoOpTransactionScope struct {
	expenseRepo     finance.ExpenseRepository
	expenseFileRepo finance.ExpenseFileRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	expenseRepo finance.ExpenseRepository,
	expenseFileRepo finance.ExpenseFileRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		expenseRepo:     expenseRepo,
		expenseFileRepo: expenseFileRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExpenseRepo returns the expense repository.
func (s *NoOpTransactionScope) ExpenseRepo() finance.ExpenseRepository {
	return s.expenseRepo
}

// ExpenseFileRepo returns the attachment repository.
func (s *NoOpTransactionScope) ExpenseFileRepo() finance.ExpenseFileRepository {
	return s.expenseFileRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
