package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lodge/backend/internal/domain/finance"
	"github.com/lodge/backend/internal/domain/shared"
	"github.com/lodge/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExpenseRepo is an in-memory ExpenseRepository
type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*finance.Expense
	files    *fakeExpenseFileRepo
}

func (f *fakeExpenseRepo) Save(_ context.Context, e *finance.Expense) error {
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (f *fakeExpenseRepo) FindAllWithFiles(_ context.Context) ([]*finance.ExpenseWithFiles, error) {
	var out []*finance.ExpenseWithFiles
	for id, e := range f.expenses {
		row := &finance.ExpenseWithFiles{Expense: e}
		for _, file := range f.files.files {
			if file.ExpenseID == id {
				row.Files = append(row.Files, file)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.expenses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

// fakeExpenseFileRepo is an in-memory ExpenseFileRepository
type fakeExpenseFileRepo struct {
	files map[uuid.UUID]*finance.ExpenseFile
}

func (f *fakeExpenseFileRepo) Save(_ context.Context, file *finance.ExpenseFile) error {
	f.files[file.ID] = file
	return nil
}

func (f *fakeExpenseFileRepo) FindByID(_ context.Context, id uuid.UUID) (*finance.ExpenseFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return file, nil
}

type expenseFixture struct {
	svc         *ExpenseService
	expenseRepo *fakeExpenseRepo
	fileRepo    *fakeExpenseFileRepo
	storage     *storage.StubObjectStorage
}

func newExpenseFixture() *expenseFixture {
	fileRepo := &fakeExpenseFileRepo{files: make(map[uuid.UUID]*finance.ExpenseFile)}
	expenseRepo := &fakeExpenseRepo{expenses: make(map[uuid.UUID]*finance.Expense), files: fileRepo}
	stub := storage.NewStubObjectStorage()
	scope := NewNoOpTransactionScope(expenseRepo, fileRepo)
	return &expenseFixture{
		svc:         NewExpenseService(scope, expenseRepo, fileRepo, stub, "expenses", time.Hour),
		expenseRepo: expenseRepo,
		fileRepo:    fileRepo,
		storage:     stub,
	}
}

func TestExpenseService_CreateWithAttachments(t *testing.T) {
	f := newExpenseFixture()
	category := "supplies"

	resp, err := f.svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Vendor:      "Hardware Store",
		ExpenseDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromFloat(84.20),
		Category:    &category,
		Attachments: []AttachmentUpload{
			{Filename: "invoice.pdf", Data: []byte("pdf bytes")},
			{Filename: "photo.JPG", Data: []byte("jpeg bytes")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hardware Store", resp.Vendor)
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "invoice.pdf", resp.Files[0].OriginalFilename)
	assert.Equal(t, "application/pdf", resp.Files[0].ContentType)
	assert.Equal(t, int64(len("pdf bytes")), resp.Files[0].FileSizeBytes)

	// Both objects made it to storage under the expense's prefix.
	for _, file := range f.fileRepo.files {
		_, ok := f.storage.Object("expenses", file.ObjectPath)
		assert.True(t, ok)
		assert.Contains(t, file.ObjectPath, resp.ID.String())
	}
}

func TestExpenseService_CreateWithoutAttachments(t *testing.T) {
	f := newExpenseFixture()

	resp, err := f.svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Vendor:      "Utility Co",
		ExpenseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Files)
}

func TestExpenseService_RejectsDisallowedFileType(t *testing.T) {
	f := newExpenseFixture()

	_, err := f.svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Vendor:      "Hardware Store",
		ExpenseDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(10),
		Attachments: []AttachmentUpload{
			{Filename: "malware.exe", Data: []byte("nope")},
		},
	})
	assert.Error(t, err)
	assert.Empty(t, f.expenseRepo.expenses)
	assert.Empty(t, f.fileRepo.files)
}

func TestExpenseService_RejectsInvalidExpense(t *testing.T) {
	f := newExpenseFixture()
	ctx := context.Background()

	_, err := f.svc.CreateExpense(ctx, CreateExpenseRequest{
		Vendor:      "",
		ExpenseDate: time.Now(),
		Amount:      decimal.NewFromInt(10),
	})
	assert.Error(t, err)

	_, err = f.svc.CreateExpense(ctx, CreateExpenseRequest{
		Vendor:      "Vendor",
		ExpenseDate: time.Now(),
		Amount:      decimal.Zero,
	})
	assert.Error(t, err)
}

func TestExpenseService_SignedFileURL(t *testing.T) {
	f := newExpenseFixture()

	resp, err := f.svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Vendor:      "Hardware Store",
		ExpenseDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(10),
		Attachments: []AttachmentUpload{
			{Filename: "receipt.png", Data: []byte("png bytes")},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Files, 1)

	url, err := f.svc.SignedFileURL(context.Background(), resp.Files[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	_, err = f.svc.SignedFileURL(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestExpenseService_DeleteExpense(t *testing.T) {
	f := newExpenseFixture()

	resp, err := f.svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Vendor:      "Utility Co",
		ExpenseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteExpense(context.Background(), resp.ID))
	assert.Empty(t, f.expenseRepo.expenses)

	err = f.svc.DeleteExpense(context.Background(), resp.ID)
	assert.Error(t, err)
}
