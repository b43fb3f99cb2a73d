package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/finance"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Save creates a new expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an expense by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllWithFiles returns all expenses newest first with their attachments
func (r *GormExpenseRepository) FindAllWithFiles(ctx context.Context) ([]*finance.ExpenseWithFiles, error) {
	var expenseModels []models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Order("expense_date DESC, created_at DESC").
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	if len(expenseModels) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(expenseModels))
	for i := range expenseModels {
		ids[i] = expenseModels[i].ID
	}

	var fileModels []models.ExpenseFileModel
	if err := r.db.WithContext(ctx).
		Where("expense_id IN ?", ids).
		Order("created_at ASC").
		Find(&fileModels).Error; err != nil {
		return nil, err
	}

	filesByExpense := make(map[uuid.UUID][]*finance.ExpenseFile, len(expenseModels))
	for i := range fileModels {
		f := fileModels[i].ToDomain()
		filesByExpense[f.ExpenseID] = append(filesByExpense[f.ExpenseID], f)
	}

	result := make([]*finance.ExpenseWithFiles, len(expenseModels))
	for i := range expenseModels {
		expense := expenseModels[i].ToDomain()
		result[i] = &finance.ExpenseWithFiles{
			Expense: expense,
			Files:   filesByExpense[expense.ID],
		}
	}
	return result, nil
}

// Delete removes an expense. Attachments go with it via ON DELETE CASCADE.
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormExpenseFileRepository implements ExpenseFileRepository using GORM
type GormExpenseFileRepository struct {
	db *gorm.DB
}

// NewGormExpenseFileRepository creates a new GormExpenseFileRepository
func NewGormExpenseFileRepository(db *gorm.DB) *GormExpenseFileRepository {
	return &GormExpenseFileRepository{db: db}
}

// Save creates attachment metadata
func (r *GormExpenseFileRepository) Save(ctx context.Context, file *finance.ExpenseFile) error {
	model := models.ExpenseFileModelFromDomain(file)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds an attachment by ID
func (r *GormExpenseFileRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ExpenseFile, error) {
	var model models.ExpenseFileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var (
	_ finance.ExpenseRepository     = (*GormExpenseRepository)(nil)
	_ finance.ExpenseFileRepository = (*GormExpenseFileRepository)(nil)
)
