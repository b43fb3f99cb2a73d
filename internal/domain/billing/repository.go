package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResidentWithBalance pairs a resident with the signed sum of their ledger
type ResidentWithBalance struct {
	Resident *Resident
	Balance  decimal.Decimal
}

// EntryWithReceipt pairs a ledger entry with its receipt pointer, if any
type EntryWithReceipt struct {
	Entry       *LedgerEntry
	ReceiptPath *string
}

// PaymentWithResident is a payment entry joined with the resident's name
type PaymentWithResident struct {
	Entry        *LedgerEntry
	ResidentName string
	ReceiptPath  *string
}

// ResidentPaymentSummary is one row of the recent-payments overview
type ResidentPaymentSummary struct {
	ResidentID      uuid.UUID
	FullName        string
	Status          ResidentStatus
	Balance         decimal.Decimal
	LastPaymentDate *time.Time
	LastPaymentAmt  *decimal.Decimal
}

// ResidentRepository defines the interface for resident data access
type ResidentRepository interface {
	Save(ctx context.Context, resident *Resident) error
	FindByID(ctx context.Context, id uuid.UUID) (*Resident, error)
	FindAll(ctx context.Context) ([]*Resident, error)
	// FindAllWithBalances returns residents with their current ledger sum,
	// active residents first, then by name.
	FindAllWithBalances(ctx context.Context) ([]*ResidentWithBalance, error)
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, resident *Resident) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerRepository defines the interface for ledger entry data access
type LedgerRepository interface {
	// LockResident takes the transaction-scoped advisory lock serializing
	// accrual for one resident. Blocks until the lock is granted; the lock
	// is released when the surrounding transaction ends.
	LockResident(ctx context.Context, residentID uuid.UUID) error
	// LastAutoChargeDate returns the most recent auto rent charge date for
	// the resident, or nil when none exists.
	LastAutoChargeDate(ctx context.Context, residentID uuid.UUID) (*time.Time, error)
	// InsertAutoCharge inserts an engine-generated charge, tolerating a
	// duplicate (resident, date) pair. Returns true only when a row was
	// actually written.
	InsertAutoCharge(ctx context.Context, entry *LedgerEntry) (bool, error)
	Save(ctx context.Context, entry *LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	SumBalance(ctx context.Context, residentID uuid.UUID) (decimal.Decimal, error)
	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*EntryWithReceipt, error)
	ListPayments(ctx context.Context) ([]*PaymentWithResident, error)
	PaymentSummaries(ctx context.Context, activeOnly bool) ([]*ResidentPaymentSummary, error)
}

// ReceiptRepository defines the interface for receipt metadata access
type ReceiptRepository interface {
	// Upsert writes receipt metadata, replacing any existing row for the
	// same ledger entry.
	Upsert(ctx context.Context, receipt *Receipt) error
	FindByLedgerEntryID(ctx context.Context, ledgerEntryID uuid.UUID) (*Receipt, error)
}
