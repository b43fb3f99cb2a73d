package finance

import (
	"context"

	"github.com/google/uuid"
)

// ExpenseWithFiles pairs an expense with its attachment metadata
type ExpenseWithFiles struct {
	Expense *Expense
	Files   []*ExpenseFile
}

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	Save(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAllWithFiles(ctx context.Context) ([]*ExpenseWithFiles, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseFileRepository defines the interface for attachment metadata access
type ExpenseFileRepository interface {
	Save(ctx context.Context, file *ExpenseFile) error
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseFile, error)
}
