package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// Upsert writes receipt metadata. Regenerating a receipt for the same
// ledger entry replaces the stored pointer and integrity fields.
func (r *GormReceiptRepository) Upsert(ctx context.Context, receipt *billing.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ledger_entry_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bucket", "object_path", "original_filename",
				"content_type", "file_size_bytes", "sha256", "created_by",
			}),
		}).
		Create(model).Error
}

// FindByLedgerEntryID finds the receipt for a payment entry
func (r *GormReceiptRepository) FindByLedgerEntryID(ctx context.Context, ledgerEntryID uuid.UUID) (*billing.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		First(&model, "ledger_entry_id = ?", ledgerEntryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ billing.ReceiptRepository = (*GormReceiptRepository)(nil)
