package finance

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/finance"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/logger"
	"github.com/lodge/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseService records facility expenses with optional file attachments.
// An expense and all of its attachments are written in a single transaction;
// a failed attachment upload rolls the whole expense back.
type ExpenseService struct {
	txScope       TransactionScope
	expenseRepo   finance.ExpenseRepository
	fileRepo      finance.ExpenseFileRepository
	objectStorage storage.ObjectStorage
	expenseBucket string
	signedURLTTL  time.Duration
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	txScope TransactionScope,
	expenseRepo finance.ExpenseRepository,
	fileRepo finance.ExpenseFileRepository,
	objectStorage storage.ObjectStorage,
	expenseBucket string,
	signedURLTTL time.Duration,
) *ExpenseService {
	return &ExpenseService{
		txScope:       txScope,
		expenseRepo:   expenseRepo,
		fileRepo:      fileRepo,
		objectStorage: objectStorage,
		expenseBucket: expenseBucket,
		signedURLTTL:  signedURLTTL,
	}
}

// AttachmentUpload is one uploaded file accompanying an expense
type AttachmentUpload struct {
	Filename string
	Data     []byte
}

// CreateExpenseRequest represents a request to create an expense
type CreateExpenseRequest struct {
	Vendor      string          `json:"vendor" binding:"required"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    *string         `json:"category"`
	Notes       *string         `json:"notes"`
	CreatedBy   *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
	Attachments []AttachmentUpload
}

// ExpenseFileResponse represents an attachment in API responses
type ExpenseFileResponse struct {
	ID               uuid.UUID `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	FileSizeBytes    int64     `json:"file_size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          uuid.UUID             `json:"id"`
	Vendor      string                `json:"vendor"`
	ExpenseDate time.Time             `json:"expense_date"`
	Amount      decimal.Decimal       `json:"amount"`
	Category    *string               `json:"category,omitempty"`
	Notes       *string               `json:"notes,omitempty"`
	Files       []ExpenseFileResponse `json:"files"`
	CreatedAt   time.Time             `json:"created_at"`
}

// CreateExpense creates an expense together with zero or more attachments.
// Attachment filenames are validated before anything is written.
func (s *ExpenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	for _, a := range req.Attachments {
		if err := finance.ValidateFilename(a.Filename); err != nil {
			return nil, err
		}
	}

	expense, err := finance.NewExpense(
		req.Vendor,
		req.ExpenseDate,
		req.Amount,
		req.Category,
		req.Notes,
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	files := make([]*finance.ExpenseFile, 0, len(req.Attachments))
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ExpenseRepo().Save(ctx, expense); err != nil {
			return err
		}
		for _, a := range req.Attachments {
			file, err := s.storeAttachment(ctx, expense.ID, a, req.CreatedBy)
			if err != nil {
				return err
			}
			if err := repos.ExpenseFileRepo().Save(ctx, file); err != nil {
				return err
			}
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.Int("attachments", len(files)))

	return toExpenseResponse(&finance.ExpenseWithFiles{Expense: expense, Files: files}), nil
}

// storeAttachment uploads one attachment and returns its metadata. The
// object path embeds a fresh UUID so identical filenames never collide.
func (s *ExpenseService) storeAttachment(
	ctx context.Context,
	expenseID uuid.UUID,
	upload AttachmentUpload,
	uploadedBy *uuid.UUID,
) (*finance.ExpenseFile, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectPath := fmt.Sprintf("%s/%s%s", expenseID, uuid.New(), ext)
	result, err := s.objectStorage.Upload(ctx, s.expenseBucket, objectPath, upload.Data, contentType)
	if err != nil {
		logger.L(ctx).Error("attachment upload failed", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to store attachment")
	}

	return finance.NewExpenseFile(
		expenseID,
		s.expenseBucket,
		objectPath,
		upload.Filename,
		contentType,
		result.Size,
		result.SHA256,
		uploadedBy,
	)
}

// ListExpenses returns all expenses with their attachment metadata,
// newest expense date first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]ExpenseResponse, error) {
	rows, err := s.expenseRepo.FindAllWithFiles(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ExpenseResponse, len(rows))
	for i, row := range rows {
		responses[i] = *toExpenseResponse(row)
	}
	return responses, nil
}

// DeleteExpense removes an expense and its attachment metadata. Stored
// objects are left behind; they are unreachable without the metadata rows.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("expense deleted", zap.String("expense_id", id.String()))
	return nil
}

// SignedFileURL returns a short-lived download URL for one attachment
func (s *ExpenseService) SignedFileURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	file, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.objectStorage.SignObject(ctx, file.Bucket, file.ObjectPath, s.signedURLTTL)
}

func toExpenseResponse(row *finance.ExpenseWithFiles) *ExpenseResponse {
	files := make([]ExpenseFileResponse, len(row.Files))
	for i, f := range row.Files {
		files[i] = ExpenseFileResponse{
			ID:               f.ID,
			OriginalFilename: f.OriginalFilename,
			ContentType:      f.ContentType,
			FileSizeBytes:    f.FileSizeBytes,
			CreatedAt:        f.CreatedAt,
		}
	}
	return &ExpenseResponse{
		ID:          row.Expense.ID,
		Vendor:      row.Expense.Vendor,
		ExpenseDate: row.Expense.ExpenseDate,
		Amount:      row.Expense.Amount,
		Category:    row.Expense.Category,
		Notes:       row.Expense.Notes,
		Files:       files,
		CreatedAt:   row.Expense.CreatedAt,
	}
}
