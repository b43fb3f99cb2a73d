package finance

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Expense is money spent running the facility
type Expense struct {
	shared.BaseEntity
	Vendor      string
	ExpenseDate time.Time
	Amount      decimal.Decimal
	Category    *string
	Notes       *string
	CreatedBy   *uuid.UUID
}

// NewExpense creates a new expense record
func NewExpense(
	vendor string,
	expenseDate time.Time,
	amount decimal.Decimal,
	category *string,
	notes *string,
	createdBy *uuid.UUID,
) (*Expense, error) {
	if vendor == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor cannot be empty")
	}
	if expenseDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPENSE_DATE", "Expense date is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	return &Expense{
		BaseEntity:  shared.NewBaseEntity(),
		Vendor:      vendor,
		ExpenseDate: time.Date(expenseDate.Year(), expenseDate.Month(), expenseDate.Day(), 0, 0, 0, 0, time.UTC),
		Amount:      amount,
		Category:    category,
		Notes:       notes,
		CreatedBy:   createdBy,
	}, nil
}

// allowed extensions for expense attachments
var allowedFileExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".pdf":  {},
}

// ValidateFilename checks that an attachment filename carries an allowed
// extension. Matching is case-insensitive.
func ValidateFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedFileExtensions[ext]; !ok {
		return shared.NewDomainError("INVALID_FILE_TYPE", "File type not allowed; use jpg, jpeg, png or pdf")
	}
	return nil
}

// ExpenseFile points at a stored attachment (invoice photo, receipt scan)
type ExpenseFile struct {
	ID               uuid.UUID
	ExpenseID        uuid.UUID
	Bucket           string
	ObjectPath       string
	OriginalFilename string
	ContentType      string
	FileSizeBytes    int64
	SHA256           string
	UploadedBy       *uuid.UUID
	CreatedAt        time.Time
}

// NewExpenseFile creates attachment metadata for an uploaded file
func NewExpenseFile(
	expenseID uuid.UUID,
	bucket string,
	objectPath string,
	originalFilename string,
	contentType string,
	fileSizeBytes int64,
	sha256Hex string,
	uploadedBy *uuid.UUID,
) (*ExpenseFile, error) {
	if expenseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPENSE", "Expense ID is required")
	}
	if bucket == "" || objectPath == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT_PATH", "Bucket and object path are required")
	}
	if err := ValidateFilename(originalFilename); err != nil {
		return nil, err
	}
	return &ExpenseFile{
		ID:               uuid.New(),
		ExpenseID:        expenseID,
		Bucket:           bucket,
		ObjectPath:       objectPath,
		OriginalFilename: originalFilename,
		ContentType:      contentType,
		FileSizeBytes:    fileSizeBytes,
		SHA256:           sha256Hex,
		UploadedBy:       uploadedBy,
		CreatedAt:        time.Now(),
	}, nil
}
