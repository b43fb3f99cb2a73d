package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryType represents the kind of ledger entry
type EntryType string

const (
	EntryCharge     EntryType = "Charge"
	EntryPayment    EntryType = "Payment"
	EntryAdjustment EntryType = "Adjustment"
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	switch t {
	case EntryCharge, EntryPayment, EntryAdjustment:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// SourceAutoRent marks ledger entries created by the accrual engine
const SourceAutoRent = "auto_rent"

// AutoRentDescription is the description written on system rent charges
const AutoRentDescription = "Auto rent charge"

// LedgerEntry is one immutable line on a resident's account. Amount is a
// sign-less magnitude for charges and payments; adjustments carry their own
// sign. Source is set to auto_rent for engine-generated charges and nil for
// entries recorded by staff.
type LedgerEntry struct {
	shared.BaseEntity
	ResidentID  uuid.UUID
	EntryDate   time.Time
	Type        EntryType
	Amount      decimal.Decimal
	Description string
	Source      *string
	CreatedBy   *uuid.UUID
}

// NewLedgerEntry creates a manual ledger entry recorded by a staff member
func NewLedgerEntry(
	residentID uuid.UUID,
	entryDate time.Time,
	entryType EntryType,
	amount decimal.Decimal,
	description string,
	createdBy *uuid.UUID,
) (*LedgerEntry, error) {
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident ID is required")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type must be Charge, Payment or Adjustment")
	}

	switch entryType {
	case EntryCharge, EntryPayment:
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive for charges and payments")
		}
	case EntryAdjustment:
		if amount.IsZero() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount cannot be zero")
		}
	}

	return &LedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		ResidentID:  residentID,
		EntryDate:   DateOnly(entryDate),
		Type:        entryType,
		Amount:      amount,
		Description: description,
		Source:      nil,
		CreatedBy:   createdBy,
	}, nil
}

// NewAutoRentCharge creates a system-generated rent charge for a due date
func NewAutoRentCharge(residentID uuid.UUID, dueDate time.Time, amount decimal.Decimal) (*LedgerEntry, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount must be positive")
	}
	source := SourceAutoRent
	return &LedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		ResidentID:  residentID,
		EntryDate:   DateOnly(dueDate),
		Type:        EntryCharge,
		Amount:      amount,
		Description: AutoRentDescription,
		Source:      &source,
		CreatedBy:   nil,
	}, nil
}

// BalanceContribution returns the signed effect of the entry on the
// resident's balance. Positive balance means the resident owes money.
func (e *LedgerEntry) BalanceContribution() decimal.Decimal {
	switch e.Type {
	case EntryCharge:
		return e.Amount
	case EntryPayment:
		return e.Amount.Neg()
	case EntryAdjustment:
		return e.Amount
	}
	return decimal.Zero
}

// IsAutoRent reports whether the entry was generated by the accrual engine
func (e *LedgerEntry) IsAutoRent() bool {
	return e.Source != nil && *e.Source == SourceAutoRent
}
