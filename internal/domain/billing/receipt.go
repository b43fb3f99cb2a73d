package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/shared"
)

// Receipt points at the stored PDF generated for a payment ledger entry.
// Exactly one receipt exists per payment; regenerating a receipt replaces
// the pointer and integrity metadata in place.
type Receipt struct {
	ID               uuid.UUID
	LedgerEntryID    uuid.UUID
	ResidentID       uuid.UUID
	Bucket           string
	ObjectPath       string
	OriginalFilename string
	ContentType      string
	FileSizeBytes    int64
	SHA256           string
	CreatedBy        *uuid.UUID
	CreatedAt        time.Time
}

// NewReceipt creates receipt metadata for an uploaded payment PDF
func NewReceipt(
	ledgerEntryID uuid.UUID,
	residentID uuid.UUID,
	bucket string,
	objectPath string,
	originalFilename string,
	contentType string,
	fileSizeBytes int64,
	sha256Hex string,
	createdBy *uuid.UUID,
) (*Receipt, error) {
	if ledgerEntryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEDGER_ENTRY", "Ledger entry ID is required")
	}
	if residentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident ID is required")
	}
	if bucket == "" || objectPath == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT_PATH", "Bucket and object path are required")
	}
	return &Receipt{
		ID:               uuid.New(),
		LedgerEntryID:    ledgerEntryID,
		ResidentID:       residentID,
		Bucket:           bucket,
		ObjectPath:       objectPath,
		OriginalFilename: originalFilename,
		ContentType:      contentType,
		FileSizeBytes:    fileSizeBytes,
		SHA256:           sha256Hex,
		CreatedBy:        createdBy,
		CreatedAt:        time.Now(),
	}, nil
}
