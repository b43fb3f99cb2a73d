// Package printing renders payment receipts to PDF.
package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptData carries everything printed on a payment receipt.
type ReceiptData struct {
	FacilityName string
	ResidentName string
	EntryID      uuid.UUID
	EntryDate    time.Time
	AmountPaid   decimal.Decimal
	BalanceAfter decimal.Decimal
}

// ReceiptRenderer renders receipt data to PDF bytes.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
