package persistence

import (
	"context"

	appfinance "github.com/lodge/backend/internal/application/finance"
	"github.com/lodge/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// GormFinanceTransactionScope implements the finance TransactionScope using
// GORM transactions.
type GormFinanceTransactionScope struct {
	db *gorm.DB
}

// NewGormFinanceTransactionScope creates a new GormFinanceTransactionScope.
func NewGormFinanceTransactionScope(db *gorm.DB) *GormFinanceTransactionScope {
	return &GormFinanceTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormFinanceTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormFinanceRepositories{tx: tx}
		return fn(repos)
	})
}

// gormFinanceRepositories provides repositories scoped to one transaction.
type gormFinanceRepositories struct {
	tx *gorm.DB
}

// ExpenseRepo returns the expense repository scoped to the current transaction.
func (r *gormFinanceRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

// ExpenseFileRepo returns the attachment repository scoped to the current transaction.
func (r *gormFinanceRepositories) ExpenseFileRepo() finance.ExpenseFileRepository {
	return NewGormExpenseFileRepository(r.tx)
}

var _ appfinance.TransactionScope = (*GormFinanceTransactionScope)(nil)
var _ appfinance.TransactionalRepositories = (*gormFinanceRepositories)(nil)
