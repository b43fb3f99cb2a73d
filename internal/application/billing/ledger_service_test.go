package billing

import (
	"context"
	"testing"
	"time"

	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	svc          *LedgerService
	residentRepo *fakeResidentRepo
	ledgerRepo   *fakeLedgerRepo
	receiptRepo  *fakeReceiptRepo
	renderer     *fakeRenderer
	storage      *storage.StubObjectStorage
}

func newLedgerFixture(residents ...*billing.Resident) *ledgerFixture {
	residentRepo := newFakeResidentRepo(residents...)
	ledgerRepo := &fakeLedgerRepo{}
	receiptRepo := newFakeReceiptRepo()
	renderer := &fakeRenderer{}
	stub := storage.NewStubObjectStorage()
	scope := &fakeTxScope{residentRepo: residentRepo, ledgerRepo: ledgerRepo, receiptRepo: receiptRepo}
	return &ledgerFixture{
		svc:          NewLedgerService(scope, ledgerRepo, renderer, stub, "Maple House", "receipts"),
		residentRepo: residentRepo,
		ledgerRepo:   ledgerRepo,
		receiptRepo:  receiptRepo,
		renderer:     renderer,
		storage:      stub,
	}
}

func TestLedgerService_RecordCharge(t *testing.T) {
	resident := newTestResident(t, billing.FrequencyWeekly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f := newLedgerFixture(resident)

	resp, err := f.svc.RecordEntry(context.Background(), RecordEntryRequest{
		ResidentID:  resident.ID,
		EntryDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:        "Charge",
		Amount:      decimal.NewFromInt(50),
		Description: "Laundry fee",
	})
	require.NoError(t, err)
	assert.Equal(t, "Charge", resp.Type)
	assert.False(t, resp.HasReceipt)
	assert.Nil(t, resp.Source)
	assert.Len(t, f.ledgerRepo.entries, 1)
	assert.Empty(t, f.receiptRepo.receipts)
}

func TestLedgerService_RecordPaymentStoresReceipt(t *testing.T) {
	resident := newTestResident(t, billing.FrequencyWeekly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f := newLedgerFixture(resident)
	ctx := context.Background()

	// Outstanding charge of 450 before the payment.
	_, err := f.svc.RecordEntry(ctx, RecordEntryRequest{
		ResidentID: resident.ID,
		EntryDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:       "Charge",
		Amount:     decimal.NewFromInt(450),
	})
	require.NoError(t, err)

	resp, err := f.svc.RecordEntry(ctx, RecordEntryRequest{
		ResidentID:  resident.ID,
		EntryDate:   time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Type:        "Payment",
		Amount:      decimal.NewFromInt(200),
		Description: "Cash payment",
	})
	require.NoError(t, err)
	assert.True(t, resp.HasReceipt)

	receipt, ok := f.receiptRepo.receipts[resp.ID]
	require.True(t, ok)
	assert.Equal(t, "receipts", receipt.Bucket)
	assert.Equal(t, resident.ID, receipt.ResidentID)
	assert.Equal(t, "application/pdf", receipt.ContentType)
	assert.Len(t, receipt.SHA256, 64)

	stored, ok := f.storage.Object(receipt.Bucket, receipt.ObjectPath)
	require.True(t, ok)
	assert.Equal(t, int64(len(stored)), receipt.FileSizeBytes)

	// The rendered receipt carries the balance after this payment.
	assert.Equal(t, "Maple House", f.renderer.lastData.FacilityName)
	assert.Equal(t, "Jane Doe", f.renderer.lastData.ResidentName)
	assert.True(t, f.renderer.lastData.BalanceAfter.Equal(decimal.NewFromInt(250)))
	assert.True(t, f.renderer.lastData.AmountPaid.Equal(decimal.NewFromInt(200)))
}

func TestLedgerService_RenderFailureFailsPayment(t *testing.T) {
	resident := newTestResident(t, billing.FrequencyWeekly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f := newLedgerFixture(resident)
	f.renderer.renderErr = errRenderFailed

	_, err := f.svc.RecordEntry(context.Background(), RecordEntryRequest{
		ResidentID: resident.ID,
		EntryDate:  time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Type:       "Payment",
		Amount:     decimal.NewFromInt(200),
	})
	assert.Error(t, err)
	// The payment rolls back with the failed receipt write.
	assert.Empty(t, f.ledgerRepo.entries)
	assert.Empty(t, f.receiptRepo.receipts)
}

func TestLedgerService_RejectsUnknownResident(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.RecordEntry(context.Background(), RecordEntryRequest{
		ResidentID: newTestResident(t, billing.FrequencyWeekly, time.Now()).ID,
		EntryDate:  time.Now(),
		Type:       "Payment",
		Amount:     decimal.NewFromInt(10),
	})
	assert.Error(t, err)
	assert.Empty(t, f.ledgerRepo.entries)
}

func TestLedgerService_RejectsInvalidAmounts(t *testing.T) {
	resident := newTestResident(t, billing.FrequencyWeekly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f := newLedgerFixture(resident)
	ctx := context.Background()

	_, err := f.svc.RecordEntry(ctx, RecordEntryRequest{
		ResidentID: resident.ID,
		EntryDate:  time.Now(),
		Type:       "Payment",
		Amount:     decimal.NewFromInt(-5),
	})
	assert.Error(t, err)

	_, err = f.svc.RecordEntry(ctx, RecordEntryRequest{
		ResidentID: resident.ID,
		EntryDate:  time.Now(),
		Type:       "Adjustment",
		Amount:     decimal.Zero,
	})
	assert.Error(t, err)
	assert.Empty(t, f.ledgerRepo.entries)
}

func TestLedgerService_ComputeBalance(t *testing.T) {
	resident := newTestResident(t, billing.FrequencyWeekly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f := newLedgerFixture(resident)
	ctx := context.Background()

	entries := []struct {
		entryType string
		amount    int64
	}{
		{"Charge", 500},
		{"Payment", 200},
		{"Adjustment", -50},
	}
	for _, e := range entries {
		_, err := f.svc.RecordEntry(ctx, RecordEntryRequest{
			ResidentID: resident.ID,
			EntryDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Type:       e.entryType,
			Amount:     decimal.NewFromInt(e.amount),
		})
		require.NoError(t, err)
	}

	balance, err := f.svc.ComputeBalance(ctx, resident.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(250)), "got %s", balance)
}
