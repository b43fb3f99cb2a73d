package persistence

import (
	"context"

	appbilling "github.com/lodge/backend/internal/application/billing"
	"github.com/lodge/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormBillingTransactionScope implements the billing TransactionScope using
// GORM transactions. Advisory locks taken through the scoped ledger
// repository live until the transaction ends.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope.
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormBillingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormBillingRepositories provides repositories scoped to one transaction.
type gormBillingRepositories struct {
	tx *gorm.DB
}

// ResidentRepo returns the resident repository scoped to the current transaction.
func (r *gormBillingRepositories) ResidentRepo() billing.ResidentRepository {
	return NewGormResidentRepository(r.tx)
}

// LedgerRepo returns the ledger repository scoped to the current transaction.
func (r *gormBillingRepositories) LedgerRepo() billing.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// ReceiptRepo returns the receipt repository scoped to the current transaction.
func (r *gormBillingRepositories) ReceiptRepo() billing.ReceiptRepository {
	return NewGormReceiptRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)
