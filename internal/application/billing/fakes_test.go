package billing

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/billing"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
)

// fakeResidentRepo is an in-memory ResidentRepository for unit tests
type fakeResidentRepo struct {
	residents map[uuid.UUID]*billing.Resident
	saveErr   error
}

func newFakeResidentRepo(residents ...*billing.Resident) *fakeResidentRepo {
	m := make(map[uuid.UUID]*billing.Resident)
	for _, r := range residents {
		m[r.ID] = r
	}
	return &fakeResidentRepo{residents: m}
}

func (f *fakeResidentRepo) Save(_ context.Context, r *billing.Resident) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.residents[r.ID] = r
	return nil
}

func (f *fakeResidentRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Resident, error) {
	r, ok := f.residents[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeResidentRepo) FindAll(_ context.Context) ([]*billing.Resident, error) {
	out := make([]*billing.Resident, 0, len(f.residents))
	for _, r := range f.residents {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeResidentRepo) FindAllWithBalances(_ context.Context) ([]*billing.ResidentWithBalance, error) {
	out := make([]*billing.ResidentWithBalance, 0, len(f.residents))
	for _, r := range f.residents {
		out = append(out, &billing.ResidentWithBalance{Resident: r, Balance: decimal.Zero})
	}
	return out, nil
}

func (f *fakeResidentRepo) FindActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, r := range f.residents {
		if r.IsActive() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (f *fakeResidentRepo) Update(_ context.Context, r *billing.Resident) error {
	if _, ok := f.residents[r.ID]; !ok {
		return shared.ErrNotFound
	}
	f.residents[r.ID] = r
	return nil
}

func (f *fakeResidentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.residents[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.residents, id)
	return nil
}

// fakeLedgerRepo is an in-memory LedgerRepository. Duplicate detection for
// InsertAutoCharge matches the partial unique constraint on
// (resident_id, entry_date) for auto rent charges.
type fakeLedgerRepo struct {
	entries   []*billing.LedgerEntry
	lockCalls []uuid.UUID
	lockErr   error
	insertErr error
	saveErr   error
}

func (f *fakeLedgerRepo) LockResident(_ context.Context, residentID uuid.UUID) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.lockCalls = append(f.lockCalls, residentID)
	return nil
}

func (f *fakeLedgerRepo) LastAutoChargeDate(_ context.Context, residentID uuid.UUID) (*time.Time, error) {
	var last *time.Time
	for _, e := range f.entries {
		if e.ResidentID == residentID && e.IsAutoRent() {
			if last == nil || e.EntryDate.After(*last) {
				d := e.EntryDate
				last = &d
			}
		}
	}
	return last, nil
}

func (f *fakeLedgerRepo) InsertAutoCharge(_ context.Context, entry *billing.LedgerEntry) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	for _, e := range f.entries {
		if e.ResidentID == entry.ResidentID && e.IsAutoRent() && e.EntryDate.Equal(entry.EntryDate) {
			return false, nil
		}
	}
	f.entries = append(f.entries, entry)
	return true, nil
}

func (f *fakeLedgerRepo) Save(_ context.Context, entry *billing.LedgerEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.LedgerEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeLedgerRepo) SumBalance(_ context.Context, residentID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range f.entries {
		if e.ResidentID == residentID {
			sum = sum.Add(e.BalanceContribution())
		}
	}
	return sum, nil
}

func (f *fakeLedgerRepo) ListByResident(_ context.Context, residentID uuid.UUID) ([]*billing.EntryWithReceipt, error) {
	var out []*billing.EntryWithReceipt
	for _, e := range f.entries {
		if e.ResidentID == residentID {
			out = append(out, &billing.EntryWithReceipt{Entry: e})
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ListPayments(_ context.Context) ([]*billing.PaymentWithResident, error) {
	var out []*billing.PaymentWithResident
	for _, e := range f.entries {
		if e.Type == billing.EntryPayment {
			out = append(out, &billing.PaymentWithResident{Entry: e})
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) PaymentSummaries(_ context.Context, _ bool) ([]*billing.ResidentPaymentSummary, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) autoChargesFor(residentID uuid.UUID) []*billing.LedgerEntry {
	var out []*billing.LedgerEntry
	for _, e := range f.entries {
		if e.ResidentID == residentID && e.IsAutoRent() {
			out = append(out, e)
		}
	}
	return out
}

// fakeReceiptRepo is an in-memory ReceiptRepository
type fakeReceiptRepo struct {
	receipts  map[uuid.UUID]*billing.Receipt
	upsertErr error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*billing.Receipt)}
}

func (f *fakeReceiptRepo) Upsert(_ context.Context, r *billing.Receipt) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.receipts[r.LedgerEntryID] = r
	return nil
}

func (f *fakeReceiptRepo) FindByLedgerEntryID(_ context.Context, ledgerEntryID uuid.UUID) (*billing.Receipt, error) {
	r, ok := f.receipts[ledgerEntryID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

// fakeTxScope mimics transaction semantics over the in-memory fakes: when
// the function fails, ledger and receipt writes made inside it are discarded.
type fakeTxScope struct {
	residentRepo *fakeResidentRepo
	ledgerRepo   *fakeLedgerRepo
	receiptRepo  *fakeReceiptRepo
}

func (s *fakeTxScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	entries := append([]*billing.LedgerEntry(nil), s.ledgerRepo.entries...)
	receipts := make(map[uuid.UUID]*billing.Receipt, len(s.receiptRepo.receipts))
	for k, v := range s.receiptRepo.receipts {
		receipts[k] = v
	}
	if err := fn(s); err != nil {
		s.ledgerRepo.entries = entries
		s.receiptRepo.receipts = receipts
		return err
	}
	return nil
}

func (s *fakeTxScope) ResidentRepo() billing.ResidentRepository { return s.residentRepo }
func (s *fakeTxScope) LedgerRepo() billing.LedgerRepository     { return s.ledgerRepo }
func (s *fakeTxScope) ReceiptRepo() billing.ReceiptRepository   { return s.receiptRepo }

// fakeRenderer records the last receipt it rendered
type fakeRenderer struct {
	lastData  printing.ReceiptData
	renderErr error
}

func (f *fakeRenderer) RenderReceipt(_ context.Context, data printing.ReceiptData) ([]byte, error) {
	if f.renderErr != nil {
		return nil, f.renderErr
	}
	f.lastData = data
	return []byte("%PDF-1.4 fake receipt"), nil
}

var errRenderFailed = errors.New("render failed")
