package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the GORM model for expenses
type ExpenseModel struct {
	BaseModel
	Vendor      string          `gorm:"type:varchar(200);not null"`
	ExpenseDate time.Time       `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Category    *string         `gorm:"type:varchar(100)"`
	Notes       *string         `gorm:"type:text"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid"`
}

// TableName specifies the table name
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to a domain expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		BaseEntity:  m.BaseModel.ToDomain(),
		Vendor:      m.Vendor,
		ExpenseDate: m.ExpenseDate,
		Amount:      m.Amount,
		Category:    m.Category,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
	}
}

// ExpenseModelFromDomain converts a domain expense to the model
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		Vendor:      e.Vendor,
		ExpenseDate: e.ExpenseDate,
		Amount:      e.Amount,
		Category:    e.Category,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// ExpenseFileModel is the GORM model for expense attachments
type ExpenseFileModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key"`
	ExpenseID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Bucket           string     `gorm:"type:varchar(100);not null"`
	ObjectPath       string     `gorm:"type:text;not null"`
	OriginalFilename string     `gorm:"type:varchar(255)"`
	ContentType      string     `gorm:"type:varchar(100)"`
	FileSizeBytes    int64      `gorm:"not null"`
	SHA256           string     `gorm:"type:char(64);column:sha256"`
	UploadedBy       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time  `gorm:"not null"`
}

// TableName specifies the table name
func (ExpenseFileModel) TableName() string {
	return "expense_files"
}

// ToDomain converts the model to a domain expense file
func (m *ExpenseFileModel) ToDomain() *finance.ExpenseFile {
	return &finance.ExpenseFile{
		ID:               m.ID,
		ExpenseID:        m.ExpenseID,
		Bucket:           m.Bucket,
		ObjectPath:       m.ObjectPath,
		OriginalFilename: m.OriginalFilename,
		ContentType:      m.ContentType,
		FileSizeBytes:    m.FileSizeBytes,
		SHA256:           m.SHA256,
		UploadedBy:       m.UploadedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// ExpenseFileModelFromDomain converts a domain expense file to the model
func ExpenseFileModelFromDomain(f *finance.ExpenseFile) *ExpenseFileModel {
	return &ExpenseFileModel{
		ID:               f.ID,
		ExpenseID:        f.ExpenseID,
		Bucket:           f.Bucket,
		ObjectPath:       f.ObjectPath,
		OriginalFilename: f.OriginalFilename,
		ContentType:      f.ContentType,
		FileSizeBytes:    f.FileSizeBytes,
		SHA256:           f.SHA256,
		UploadedBy:       f.UploadedBy,
		CreatedAt:        f.CreatedAt,
	}
}
