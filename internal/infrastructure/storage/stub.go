package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// StubObjectStorage is an in-memory ObjectStorage for development and tests.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated signed URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload keeps the object in memory
func (s *StubObjectStorage) Upload(_ context.Context, bucket, path string, data []byte, _ string) (UploadResult, error) {
	if bucket == "" || path == "" {
		return UploadResult{}, errors.New("bucket and path are required")
	}

	s.mu.Lock()
	s.objects[bucket+"/"+path] = data
	s.mu.Unlock()

	digest := sha256.Sum256(data)
	return UploadResult{
		SHA256: hex.EncodeToString(digest[:]),
		Size:   int64(len(data)),
	}, nil
}

// SignObject returns a fake signed URL for a stored object
func (s *StubObjectStorage) SignObject(_ context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	if bucket == "" || path == "" {
		return "", errors.New("bucket and path are required")
	}

	s.mu.RLock()
	_, ok := s.objects[bucket+"/"+path]
	s.mu.RUnlock()
	if !ok {
		return "", errors.New("object not found")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + bucket + "/" + path + "?expires=" + expiresAt.Format(time.RFC3339), nil
}

// Object returns a stored object's bytes, for test assertions
func (s *StubObjectStorage) Object(bucket, path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+path]
	return data, ok
}

var _ ObjectStorage = (*StubObjectStorage)(nil)
