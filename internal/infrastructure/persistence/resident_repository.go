package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormResidentRepository implements ResidentRepository using GORM
type GormResidentRepository struct {
	db *gorm.DB
}

// NewGormResidentRepository creates a new GormResidentRepository
func NewGormResidentRepository(db *gorm.DB) *GormResidentRepository {
	return &GormResidentRepository{db: db}
}

// Save creates a new resident
func (r *GormResidentRepository) Save(ctx context.Context, resident *billing.Resident) error {
	model := models.ResidentModelFromDomain(resident)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a resident by ID
func (r *GormResidentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Resident, error) {
	var model models.ResidentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all residents, active first, then by name
func (r *GormResidentRepository) FindAll(ctx context.Context) ([]*billing.Resident, error) {
	var residentModels []models.ResidentModel
	if err := r.db.WithContext(ctx).
		Order("status ASC, full_name ASC").
		Find(&residentModels).Error; err != nil {
		return nil, err
	}
	residents := make([]*billing.Resident, len(residentModels))
	for i := range residentModels {
		residents[i] = residentModels[i].ToDomain()
	}
	return residents, nil
}

// FindAllWithBalances returns residents with their ledger sums in one query
func (r *GormResidentRepository) FindAllWithBalances(ctx context.Context) ([]*billing.ResidentWithBalance, error) {
	type row struct {
		models.ResidentModel
		Balance decimal.Decimal
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.ResidentModel{}).
		Select(`residents.*, COALESCE(SUM(
			CASE le.type
				WHEN 'Payment' THEN -le.amount
				ELSE le.amount
			END), 0) AS balance`).
		Joins("LEFT JOIN ledger_entries le ON le.resident_id = residents.id").
		Group("residents.id").
		Order("residents.status ASC, residents.full_name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*billing.ResidentWithBalance, len(rows))
	for i := range rows {
		result[i] = &billing.ResidentWithBalance{
			Resident: rows[i].ResidentModel.ToDomain(),
			Balance:  rows[i].Balance,
		}
	}
	return result, nil
}

// FindActiveIDs returns the IDs of all active residents
func (r *GormResidentRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.ResidentModel{}).
		Where("status = ?", billing.StatusActive.String()).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update updates an existing resident
func (r *GormResidentRepository) Update(ctx context.Context, resident *billing.Resident) error {
	model := models.ResidentModelFromDomain(resident)
	result := r.db.WithContext(ctx).Model(&models.ResidentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"full_name":      model.FullName,
			"phone":          model.Phone,
			"rate_amount":    model.RateAmount,
			"rate_frequency": model.RateFrequency,
			"start_date":     model.StartDate,
			"status":         model.Status,
			"notes":          model.Notes,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a resident. Ledger entries and receipts go with it via
// ON DELETE CASCADE.
func (r *GormResidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ResidentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ billing.ResidentRepository = (*GormResidentRepository)(nil)
