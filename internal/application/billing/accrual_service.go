package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AccrualService generates the recurring rent charges residents owe. Charges
// are written lazily: callers invoke it before reading balances, and it
// catches each resident up through the as-of date. The catch-up for one
// resident runs in a single transaction under a per-resident advisory lock,
// so concurrent invocations cannot double-charge.
type AccrualService struct {
	txScope      TransactionScope
	residentRepo billing.ResidentRepository
}

// NewAccrualService creates a new AccrualService
func NewAccrualService(txScope TransactionScope, residentRepo billing.ResidentRepository) *AccrualService {
	return &AccrualService{
		txScope:      txScope,
		residentRepo: residentRepo,
	}
}

// EnsureChargesUpToDate writes every missing rent charge for the resident
// with a due date on or before asOf, and returns how many were written.
// Missing or inactive residents are a no-op: the engine never charges an
// account that is not currently active, and never back-fills on return to
// active status.
func (s *AccrualService) EnsureChargesUpToDate(ctx context.Context, residentID uuid.UUID, asOf time.Time) (int, error) {
	inserted := 0
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.LedgerRepo().LockResident(ctx, residentID); err != nil {
			return err
		}

		resident, err := repos.ResidentRepo().FindByID(ctx, residentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if !resident.IsActive() {
			return nil
		}

		lastCharged, err := repos.LedgerRepo().LastAutoChargeDate(ctx, residentID)
		if err != nil {
			return err
		}

		for _, dueDate := range billing.DueDates(resident.RateFrequency, resident.StartDate, lastCharged, asOf) {
			charge, err := billing.NewAutoRentCharge(residentID, dueDate, resident.RateAmount)
			if err != nil {
				return err
			}
			created, err := repos.LedgerRepo().InsertAutoCharge(ctx, charge)
			if err != nil {
				return err
			}
			if created {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		logger.L(ctx).Info("rent charges accrued",
			zap.String("resident_id", residentID.String()),
			zap.Int("charges", inserted))
	}
	return inserted, nil
}

// RefreshAllActive catches every active resident up through asOf. Each
// resident gets their own transaction; a failure on one resident is logged
// and does not stop the sweep. Returns the total number of charges written.
func (s *AccrualService) RefreshAllActive(ctx context.Context, asOf time.Time) (int, error) {
	ids, err := s.residentRepo.FindActiveIDs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, id := range ids {
		n, err := s.EnsureChargesUpToDate(ctx, id, asOf)
		if err != nil {
			logger.L(ctx).Error("accrual failed for resident",
				zap.String("resident_id", id.String()),
				zap.Error(err))
			continue
		}
		total += n
	}
	return total, nil
}
