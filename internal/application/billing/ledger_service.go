package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/logger"
	"github.com/lodge/backend/internal/infrastructure/printing"
	"github.com/lodge/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService records ledger entries and serves ledger read models.
// Recording a payment also renders its PDF receipt and stores it, all within
// the same transaction as the ledger insert: if rendering or upload fails the
// payment is rolled back, so a recorded payment always has a receipt.
type LedgerService struct {
	txScope       TransactionScope
	ledgerRepo    billing.LedgerRepository
	renderer      printing.ReceiptRenderer
	objectStorage storage.ObjectStorage
	facilityName  string
	receiptBucket string
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txScope TransactionScope,
	ledgerRepo billing.LedgerRepository,
	renderer printing.ReceiptRenderer,
	objectStorage storage.ObjectStorage,
	facilityName string,
	receiptBucket string,
) *LedgerService {
	return &LedgerService{
		txScope:       txScope,
		ledgerRepo:    ledgerRepo,
		renderer:      renderer,
		objectStorage: objectStorage,
		facilityName:  facilityName,
		receiptBucket: receiptBucket,
	}
}

// RecordEntryRequest represents a request to record a manual ledger entry
type RecordEntryRequest struct {
	ResidentID  uuid.UUID       `json:"-"` // Set from the URL path, not from request body
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=Charge Payment Adjustment"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	CreatedBy   *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ResidentID  uuid.UUID       `json:"resident_id"`
	EntryDate   time.Time       `json:"entry_date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Source      *string         `json:"source,omitempty"`
	HasReceipt  bool            `json:"has_receipt"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PaymentResponse is a payment entry with the resident's name attached
type PaymentResponse struct {
	LedgerEntryResponse
	ResidentName string `json:"resident_name"`
}

// PaymentSummaryResponse is one row of the recent-payments overview
type PaymentSummaryResponse struct {
	ResidentID      uuid.UUID        `json:"resident_id"`
	FullName        string           `json:"full_name"`
	Status          string           `json:"status"`
	Balance         decimal.Decimal  `json:"balance"`
	LastPaymentDate *time.Time       `json:"last_payment_date,omitempty"`
	LastPaymentAmt  *decimal.Decimal `json:"last_payment_amount,omitempty"`
}

// RecordEntry records a manual charge, payment or adjustment. For payments
// the receipt PDF is rendered and uploaded before the transaction commits.
func (s *LedgerService) RecordEntry(ctx context.Context, req RecordEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := billing.NewLedgerEntry(
		req.ResidentID,
		req.EntryDate,
		billing.EntryType(req.Type),
		req.Amount,
		req.Description,
		req.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	hasReceipt := false
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		resident, err := repos.ResidentRepo().FindByID(ctx, entry.ResidentID)
		if err != nil {
			return err
		}

		if err := repos.LedgerRepo().Save(ctx, entry); err != nil {
			return err
		}

		if entry.Type != billing.EntryPayment {
			return nil
		}

		balance, err := repos.LedgerRepo().SumBalance(ctx, entry.ResidentID)
		if err != nil {
			return err
		}

		receipt, err := s.storeReceipt(ctx, entry, resident.FullName, balance)
		if err != nil {
			return err
		}
		if err := repos.ReceiptRepo().Upsert(ctx, receipt); err != nil {
			return err
		}
		hasReceipt = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("ledger entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("resident_id", entry.ResidentID.String()),
		zap.String("type", entry.Type.String()))

	resp := toLedgerEntryResponse(entry, nil)
	resp.HasReceipt = hasReceipt
	return resp, nil
}

// storeReceipt renders the payment receipt and uploads it. The upload happens
// inside the caller's transaction window so a storage failure aborts the
// payment; a stray PDF from a later rollback is overwritten on retry because
// the object path is derived from the entry ID.
func (s *LedgerService) storeReceipt(
	ctx context.Context,
	entry *billing.LedgerEntry,
	residentName string,
	balanceAfter decimal.Decimal,
) (*billing.Receipt, error) {
	pdf, err := s.renderer.RenderReceipt(ctx, printing.ReceiptData{
		FacilityName: s.facilityName,
		ResidentName: residentName,
		EntryID:      entry.ID,
		EntryDate:    entry.EntryDate,
		AmountPaid:   entry.Amount,
		BalanceAfter: balanceAfter,
	})
	if err != nil {
		logger.L(ctx).Error("receipt rendering failed", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to render payment receipt")
	}

	objectPath := fmt.Sprintf("%s/%s.pdf", entry.ResidentID, entry.ID)
	result, err := s.objectStorage.Upload(ctx, s.receiptBucket, objectPath, pdf, "application/pdf")
	if err != nil {
		logger.L(ctx).Error("receipt upload failed", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to store payment receipt")
	}

	return billing.NewReceipt(
		entry.ID,
		entry.ResidentID,
		s.receiptBucket,
		objectPath,
		fmt.Sprintf("receipt-%s.pdf", entry.ID),
		"application/pdf",
		result.Size,
		result.SHA256,
		entry.CreatedBy,
	)
}

// ComputeBalance returns the resident's current balance. Positive means the
// resident owes money.
func (s *LedgerService) ComputeBalance(ctx context.Context, residentID uuid.UUID) (decimal.Decimal, error) {
	return s.ledgerRepo.SumBalance(ctx, residentID)
}

// ListEntries returns the resident's full ledger, newest first
func (s *LedgerService) ListEntries(ctx context.Context, residentID uuid.UUID) ([]LedgerEntryResponse, error) {
	entries, err := s.ledgerRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, err
	}
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = *toLedgerEntryResponse(e.Entry, e.ReceiptPath)
	}
	return responses, nil
}

// ListPayments returns all payments across residents, newest first
func (s *LedgerService) ListPayments(ctx context.Context) ([]PaymentResponse, error) {
	payments, err := s.ledgerRepo.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = PaymentResponse{
			LedgerEntryResponse: *toLedgerEntryResponse(p.Entry, p.ReceiptPath),
			ResidentName:        p.ResidentName,
		}
	}
	return responses, nil
}

// RecentPaymentSummary returns the per-resident payment overview, optionally
// restricted to active residents.
func (s *LedgerService) RecentPaymentSummary(ctx context.Context, activeOnly bool) ([]PaymentSummaryResponse, error) {
	summaries, err := s.ledgerRepo.PaymentSummaries(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]PaymentSummaryResponse, len(summaries))
	for i, sum := range summaries {
		responses[i] = PaymentSummaryResponse{
			ResidentID:      sum.ResidentID,
			FullName:        sum.FullName,
			Status:          sum.Status.String(),
			Balance:         sum.Balance,
			LastPaymentDate: sum.LastPaymentDate,
			LastPaymentAmt:  sum.LastPaymentAmt,
		}
	}
	return responses, nil
}

func toLedgerEntryResponse(e *billing.LedgerEntry, receiptPath *string) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:          e.ID,
		ResidentID:  e.ResidentID,
		EntryDate:   e.EntryDate,
		Type:        e.Type.String(),
		Amount:      e.Amount,
		Description: e.Description,
		Source:      e.Source,
		HasReceipt:  receiptPath != nil,
		CreatedAt:   e.CreatedAt,
	}
}
