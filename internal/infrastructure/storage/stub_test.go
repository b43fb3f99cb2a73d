package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_UploadAndSign(t *testing.T) {
	s := NewStubObjectStorage()
	data := []byte("attachment bytes")

	result, err := s.Upload(context.Background(), "expenses", "2024/03/invoice.pdf", data, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.Len(t, result.SHA256, 64)

	stored, ok := s.Object("expenses", "2024/03/invoice.pdf")
	require.True(t, ok)
	assert.Equal(t, data, stored)

	url, err := s.SignObject(context.Background(), "expenses", "2024/03/invoice.pdf", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "expenses/2024/03/invoice.pdf")
}

func TestStubObjectStorage_SignMissingObject(t *testing.T) {
	s := NewStubObjectStorage()

	_, err := s.SignObject(context.Background(), "expenses", "missing.pdf", time.Hour)
	assert.Error(t, err)
}

func TestStubObjectStorage_UploadOverwrites(t *testing.T) {
	s := NewStubObjectStorage()

	_, err := s.Upload(context.Background(), "receipts", "r.pdf", []byte("v1"), "application/pdf")
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), "receipts", "r.pdf", []byte("v2"), "application/pdf")
	require.NoError(t, err)

	stored, ok := s.Object("receipts", "r.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), stored)
}

func TestStubObjectStorage_RequiresBucketAndPath(t *testing.T) {
	s := NewStubObjectStorage()

	_, err := s.Upload(context.Background(), "", "p", nil, "")
	assert.Error(t, err)
	_, err = s.SignObject(context.Background(), "b", "", time.Hour)
	assert.Error(t, err)
}
