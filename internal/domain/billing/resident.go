package billing

import (
	"time"

	"github.com/lodge/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateFrequency represents how often a resident's rent accrues
type RateFrequency string

const (
	FrequencyWeekly  RateFrequency = "Weekly"
	FrequencyMonthly RateFrequency = "Monthly"
)

// IsValid checks if the frequency is a valid RateFrequency
func (f RateFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// String returns the string representation of RateFrequency
func (f RateFrequency) String() string {
	return string(f)
}

// ResidentStatus represents whether a resident is currently billed
type ResidentStatus string

const (
	StatusActive   ResidentStatus = "Active"
	StatusInactive ResidentStatus = "Inactive"
)

// IsValid checks if the status is a valid ResidentStatus
func (s ResidentStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

// String returns the string representation of ResidentStatus
func (s ResidentStatus) String() string {
	return string(s)
}

// Resident represents a person staying at the facility and being billed.
// StartDate is the first weekly due date, or the anchor month for monthly
// billing. Rate changes never retroactively adjust past charges.
type Resident struct {
	shared.BaseEntity
	FullName      string
	Phone         string
	RateAmount    decimal.Decimal
	RateFrequency RateFrequency
	StartDate     time.Time
	Status        ResidentStatus
	Notes         string
}

// NewResident creates a new resident with Active status
func NewResident(
	fullName string,
	phone string,
	rateAmount decimal.Decimal,
	rateFrequency RateFrequency,
	startDate time.Time,
	notes string,
) (*Resident, error) {
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	if rateAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate amount must be positive")
	}
	if !rateFrequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Rate frequency must be Weekly or Monthly")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}

	return &Resident{
		BaseEntity:    shared.NewBaseEntity(),
		FullName:      fullName,
		Phone:         phone,
		RateAmount:    rateAmount,
		RateFrequency: rateFrequency,
		StartDate:     DateOnly(startDate),
		Status:        StatusActive,
		Notes:         notes,
	}, nil
}

// SetStatus transitions the resident between Active and Inactive.
// Transitions are allowed in either direction, any number of times.
func (r *Resident) SetStatus(status ResidentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status must be Active or Inactive")
	}
	r.Status = status
	r.Touch()
	return nil
}

// IsActive returns true if the resident currently accrues rent
func (r *Resident) IsActive() bool {
	return r.Status == StatusActive
}
