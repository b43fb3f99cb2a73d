package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/infrastructure/storage"
)

// ReceiptService serves download access to stored payment receipts
type ReceiptService struct {
	receiptRepo   billing.ReceiptRepository
	objectStorage storage.ObjectStorage
	signedURLTTL  time.Duration
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo billing.ReceiptRepository,
	objectStorage storage.ObjectStorage,
	signedURLTTL time.Duration,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:   receiptRepo,
		objectStorage: objectStorage,
		signedURLTTL:  signedURLTTL,
	}
}

// SignedReceiptURL returns a short-lived download URL for the receipt of the
// given payment ledger entry.
func (s *ReceiptService) SignedReceiptURL(ctx context.Context, ledgerEntryID uuid.UUID) (string, error) {
	receipt, err := s.receiptRepo.FindByLedgerEntryID(ctx, ledgerEntryID)
	if err != nil {
		return "", err
	}
	return s.objectStorage.SignObject(ctx, receipt.Bucket, receipt.ObjectPath, s.signedURLTTL)
}
