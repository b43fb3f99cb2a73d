package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// ResidentModel is the GORM model for residents
type ResidentModel struct {
	BaseModel
	FullName      string          `gorm:"type:varchar(200);not null"`
	Phone         string          `gorm:"type:varchar(50)"`
	RateAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RateFrequency string          `gorm:"type:varchar(10);not null"`
	StartDate     time.Time       `gorm:"type:date;not null"`
	Status        string          `gorm:"type:varchar(10);not null;default:'Active';index"`
	Notes         string          `gorm:"type:text"`
}

// TableName specifies the table name
func (ResidentModel) TableName() string {
	return "residents"
}

// ToDomain converts the model to a domain resident
func (m *ResidentModel) ToDomain() *billing.Resident {
	return &billing.Resident{
		BaseEntity:    m.BaseModel.ToDomain(),
		FullName:      m.FullName,
		Phone:         m.Phone,
		RateAmount:    m.RateAmount,
		RateFrequency: billing.RateFrequency(m.RateFrequency),
		StartDate:     m.StartDate,
		Status:        billing.ResidentStatus(m.Status),
		Notes:         m.Notes,
	}
}

// ResidentModelFromDomain converts a domain resident to the model
func ResidentModelFromDomain(r *billing.Resident) *ResidentModel {
	m := &ResidentModel{
		FullName:      r.FullName,
		Phone:         r.Phone,
		RateAmount:    r.RateAmount,
		RateFrequency: r.RateFrequency.String(),
		StartDate:     r.StartDate,
		Status:        r.Status.String(),
		Notes:         r.Notes,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// LedgerEntryModel is the GORM model for ledger entries
type LedgerEntryModel struct {
	BaseModel
	ResidentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryDate   time.Time       `gorm:"type:date;not null"`
	Type        string          `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Description string          `gorm:"type:text"`
	Source      *string         `gorm:"type:varchar(20)"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
}

// TableName specifies the table name
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the model to a domain ledger entry
func (m *LedgerEntryModel) ToDomain() *billing.LedgerEntry {
	return &billing.LedgerEntry{
		BaseEntity:  m.BaseModel.ToDomain(),
		ResidentID:  m.ResidentID,
		EntryDate:   m.EntryDate,
		Type:        billing.EntryType(m.Type),
		Amount:      m.Amount,
		Description: m.Description,
		Source:      m.Source,
		CreatedBy:   m.CreatedBy,
	}
}

// LedgerEntryModelFromDomain converts a domain ledger entry to the model
func LedgerEntryModelFromDomain(e *billing.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		ResidentID:  e.ResidentID,
		EntryDate:   e.EntryDate,
		Type:        e.Type.String(),
		Amount:      e.Amount,
		Description: e.Description,
		Source:      e.Source,
		CreatedBy:   e.CreatedBy,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// ReceiptModel is the GORM model for receipt metadata
type ReceiptModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	LedgerEntryID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ResidentID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Bucket           string     `gorm:"type:varchar(100);not null"`
	ObjectPath       string     `gorm:"type:text;not null"`
	OriginalFilename string     `gorm:"type:varchar(255)"`
	ContentType      string     `gorm:"type:varchar(100)"`
	FileSizeBytes    int64      `gorm:"not null"`
	SHA256           string     `gorm:"type:char(64);column:sha256"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time  `gorm:"not null"`
}

// TableName specifies the table name
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the model to a domain receipt
func (m *ReceiptModel) ToDomain() *billing.Receipt {
	return &billing.Receipt{
		ID:               m.ID,
		LedgerEntryID:    m.LedgerEntryID,
		ResidentID:       m.ResidentID,
		Bucket:           m.Bucket,
		ObjectPath:       m.ObjectPath,
		OriginalFilename: m.OriginalFilename,
		ContentType:      m.ContentType,
		FileSizeBytes:    m.FileSizeBytes,
		SHA256:           m.SHA256,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// ReceiptModelFromDomain converts a domain receipt to the model
func ReceiptModelFromDomain(r *billing.Receipt) *ReceiptModel {
	return &ReceiptModel{
		ID:               r.ID,
		LedgerEntryID:    r.LedgerEntryID,
		ResidentID:       r.ResidentID,
		Bucket:           r.Bucket,
		ObjectPath:       r.ObjectPath,
		OriginalFilename: r.OriginalFilename,
		ContentType:      r.ContentType,
		FileSizeBytes:    r.FileSizeBytes,
		SHA256:           r.SHA256,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}
