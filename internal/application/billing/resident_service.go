package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ResidentService provides application-level resident operations
type ResidentService struct {
	residentRepo billing.ResidentRepository
}

// NewResidentService creates a new ResidentService
func NewResidentService(residentRepo billing.ResidentRepository) *ResidentService {
	return &ResidentService{residentRepo: residentRepo}
}

// CreateResidentRequest represents a request to create a resident
type CreateResidentRequest struct {
	FullName      string          `json:"full_name" binding:"required,max=200"`
	Phone         string          `json:"phone"`
	RateAmount    decimal.Decimal `json:"rate_amount" binding:"required"`
	RateFrequency string          `json:"rate_frequency" binding:"required,oneof=Weekly Monthly"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	Notes         string          `json:"notes"`
}

// UpdateResidentRequest represents a request to update a resident's details.
// Rate changes apply to future charges only; past charges are never adjusted.
type UpdateResidentRequest struct {
	FullName      string          `json:"full_name" binding:"required,max=200"`
	Phone         string          `json:"phone"`
	RateAmount    decimal.Decimal `json:"rate_amount" binding:"required"`
	RateFrequency string          `json:"rate_frequency" binding:"required,oneof=Weekly Monthly"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	Notes         string          `json:"notes"`
}

// SetResidentStatusRequest represents a request to change a resident's status
type SetResidentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Active Inactive"`
}

// ResidentResponse represents a resident in API responses
type ResidentResponse struct {
	ID            uuid.UUID       `json:"id"`
	FullName      string          `json:"full_name"`
	Phone         string          `json:"phone,omitempty"`
	RateAmount    decimal.Decimal `json:"rate_amount"`
	RateFrequency string          `json:"rate_frequency"`
	StartDate     time.Time       `json:"start_date"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ResidentWithBalanceResponse pairs a resident with their current balance
type ResidentWithBalanceResponse struct {
	ResidentResponse
	Balance decimal.Decimal `json:"balance"`
}

// CreateResident creates a new resident with Active status
func (s *ResidentService) CreateResident(ctx context.Context, req CreateResidentRequest) (*ResidentResponse, error) {
	resident, err := billing.NewResident(
		req.FullName,
		req.Phone,
		req.RateAmount,
		billing.RateFrequency(req.RateFrequency),
		req.StartDate,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.residentRepo.Save(ctx, resident); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("resident created",
		zap.String("resident_id", resident.ID.String()),
		zap.String("frequency", resident.RateFrequency.String()))

	return toResidentResponse(resident), nil
}

// GetResident gets a resident by ID
func (s *ResidentService) GetResident(ctx context.Context, id uuid.UUID) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResidentResponse(resident), nil
}

// UpdateResident updates a resident's details. The new rate takes effect for
// charges generated after the update.
func (s *ResidentService) UpdateResident(ctx context.Context, id uuid.UUID, req UpdateResidentRequest) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := billing.NewResident(
		req.FullName,
		req.Phone,
		req.RateAmount,
		billing.RateFrequency(req.RateFrequency),
		req.StartDate,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	resident.FullName = updated.FullName
	resident.Phone = updated.Phone
	resident.RateAmount = updated.RateAmount
	resident.RateFrequency = updated.RateFrequency
	resident.StartDate = updated.StartDate
	resident.Notes = updated.Notes
	resident.Touch()

	if err := s.residentRepo.Update(ctx, resident); err != nil {
		return nil, err
	}
	return toResidentResponse(resident), nil
}

// ListResidentsWithBalances returns all residents with their current
// balances, active residents first, then by name.
func (s *ResidentService) ListResidentsWithBalances(ctx context.Context) ([]ResidentWithBalanceResponse, error) {
	rows, err := s.residentRepo.FindAllWithBalances(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ResidentWithBalanceResponse, len(rows))
	for i, row := range rows {
		responses[i] = ResidentWithBalanceResponse{
			ResidentResponse: *toResidentResponse(row.Resident),
			Balance:          row.Balance,
		}
	}
	return responses, nil
}

// SetResidentStatus moves a resident between Active and Inactive. Inactive
// residents stop accruing rent but keep their full ledger history.
func (s *ResidentService) SetResidentStatus(ctx context.Context, id uuid.UUID, req SetResidentStatusRequest) (*ResidentResponse, error) {
	resident, err := s.residentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := resident.SetStatus(billing.ResidentStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.residentRepo.Update(ctx, resident); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("resident status changed",
		zap.String("resident_id", resident.ID.String()),
		zap.String("status", resident.Status.String()))

	return toResidentResponse(resident), nil
}

// DeleteResident removes a resident and, through database cascades, their
// ledger entries and receipts.
func (s *ResidentService) DeleteResident(ctx context.Context, id uuid.UUID) error {
	if err := s.residentRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("resident deleted", zap.String("resident_id", id.String()))
	return nil
}

func toResidentResponse(r *billing.Resident) *ResidentResponse {
	return &ResidentResponse{
		ID:            r.ID,
		FullName:      r.FullName,
		Phone:         r.Phone,
		RateAmount:    r.RateAmount,
		RateFrequency: r.RateFrequency.String(),
		StartDate:     r.StartDate,
		Status:        r.Status.String(),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
