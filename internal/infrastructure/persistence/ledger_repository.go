package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// LockResident takes a transaction-scoped advisory lock keyed on the
// resident ID. hashtextextended folds the uuid text into the bigint key the
// lock function needs. Postgres releases the lock at commit or rollback, so
// this must run inside a transaction.
func (r *GormLedgerRepository) LockResident(ctx context.Context, residentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?::text, 0))", residentID.String()).
		Error
}

// LastAutoChargeDate returns the newest auto rent charge date for the
// resident, or nil if the engine has never charged them.
func (r *GormLedgerRepository) LastAutoChargeDate(ctx context.Context, residentID uuid.UUID) (*time.Time, error) {
	var result struct {
		MaxDate *time.Time
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("MAX(entry_date) AS max_date").
		Where("resident_id = ? AND source = ?", residentID, billing.SourceAutoRent).
		Scan(&result).Error; err != nil {
		return nil, err
	}
	return result.MaxDate, nil
}

// InsertAutoCharge inserts an engine-generated charge. A concurrent or
// previous run may already have written the same (resident, date) pair; the
// partial unique index makes the insert a no-op in that case and we report
// it by returning false.
func (r *GormLedgerRepository) InsertAutoCharge(ctx context.Context, entry *billing.LedgerEntry) (bool, error) {
	model := models.LedgerEntryModelFromDomain(entry)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Save creates a manual ledger entry
func (r *GormLedgerRepository) Save(ctx context.Context, entry *billing.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a ledger entry by ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumBalance returns the signed sum of the resident's ledger. Charges and
// adjustments add, payments subtract.
func (r *GormLedgerRepository) SumBalance(ctx context.Context, residentID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select(`COALESCE(SUM(
			CASE type
				WHEN 'Payment' THEN -amount
				ELSE amount
			END), 0) AS total`).
		Where("resident_id = ?", residentID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ListByResident returns the resident's entries newest first, each with the
// stored receipt path when one exists.
func (r *GormLedgerRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*billing.EntryWithReceipt, error) {
	type row struct {
		models.LedgerEntryModel
		ReceiptPath *string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("ledger_entries.*, rc.object_path AS receipt_path").
		Joins("LEFT JOIN receipts rc ON rc.ledger_entry_id = ledger_entries.id").
		Where("ledger_entries.resident_id = ?", residentID).
		Order("ledger_entries.entry_date DESC, ledger_entries.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]*billing.EntryWithReceipt, len(rows))
	for i := range rows {
		entries[i] = &billing.EntryWithReceipt{
			Entry:       rows[i].LedgerEntryModel.ToDomain(),
			ReceiptPath: rows[i].ReceiptPath,
		}
	}
	return entries, nil
}

// ListPayments returns all payment entries with the resident name and the
// receipt pointer, newest first.
func (r *GormLedgerRepository) ListPayments(ctx context.Context) ([]*billing.PaymentWithResident, error) {
	type row struct {
		models.LedgerEntryModel
		ResidentName string
		ReceiptPath  *string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("ledger_entries.*, res.full_name AS resident_name, rc.object_path AS receipt_path").
		Joins("JOIN residents res ON res.id = ledger_entries.resident_id").
		Joins("LEFT JOIN receipts rc ON rc.ledger_entry_id = ledger_entries.id").
		Where("ledger_entries.type = ?", billing.EntryPayment.String()).
		Order("ledger_entries.entry_date DESC, ledger_entries.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]*billing.PaymentWithResident, len(rows))
	for i := range rows {
		payments[i] = &billing.PaymentWithResident{
			Entry:        rows[i].LedgerEntryModel.ToDomain(),
			ResidentName: rows[i].ResidentName,
			ReceiptPath:  rows[i].ReceiptPath,
		}
	}
	return payments, nil
}

// PaymentSummaries returns one row per resident with their balance and most
// recent payment, for the recent-payments overview.
func (r *GormLedgerRepository) PaymentSummaries(ctx context.Context, activeOnly bool) ([]*billing.ResidentPaymentSummary, error) {
	type row struct {
		ResidentID      uuid.UUID
		FullName        string
		Status          string
		Balance         decimal.Decimal
		LastPaymentDate *time.Time
		LastPaymentAmt  *decimal.Decimal
	}

	query := r.db.WithContext(ctx).
		Table("residents res").
		Select(`res.id AS resident_id, res.full_name, res.status,
			COALESCE(SUM(
				CASE le.type
					WHEN 'Payment' THEN -le.amount
					ELSE le.amount
				END), 0) AS balance,
			(SELECT p.entry_date FROM ledger_entries p
				WHERE p.resident_id = res.id AND p.type = 'Payment'
				ORDER BY p.entry_date DESC, p.created_at DESC LIMIT 1) AS last_payment_date,
			(SELECT p.amount FROM ledger_entries p
				WHERE p.resident_id = res.id AND p.type = 'Payment'
				ORDER BY p.entry_date DESC, p.created_at DESC LIMIT 1) AS last_payment_amt`).
		Joins("LEFT JOIN ledger_entries le ON le.resident_id = res.id").
		Group("res.id").
		Order("res.status ASC, res.full_name ASC")

	if activeOnly {
		query = query.Where("res.status = ?", billing.StatusActive.String())
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]*billing.ResidentPaymentSummary, len(rows))
	for i := range rows {
		summaries[i] = &billing.ResidentPaymentSummary{
			ResidentID:      rows[i].ResidentID,
			FullName:        rows[i].FullName,
			Status:          billing.ResidentStatus(rows[i].Status),
			Balance:         rows[i].Balance,
			LastPaymentDate: rows[i].LastPaymentDate,
			LastPaymentAmt:  rows[i].LastPaymentAmt,
		}
	}
	return summaries, nil
}

var _ billing.LedgerRepository = (*GormLedgerRepository)(nil)
