package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lodge/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SupabaseStorage implements ObjectStorage against the Supabase storage
// REST API using a service-role key.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// SupabaseStorageOption is a functional option for configuring SupabaseStorage
type SupabaseStorageOption func(*SupabaseStorage)

// WithSupabaseLogger sets a custom logger for SupabaseStorage
func WithSupabaseLogger(logger *zap.Logger) SupabaseStorageOption {
	return func(s *SupabaseStorage) {
		s.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client, mainly for tests
func WithHTTPClient(client *http.Client) SupabaseStorageOption {
	return func(s *SupabaseStorage) {
		s.httpClient = client
	}
}

// NewSupabaseStorage creates a new SupabaseStorage from configuration
func NewSupabaseStorage(cfg *config.SupabaseConfig, opts ...SupabaseStorageOption) (*SupabaseStorage, error) {
	if cfg == nil {
		return nil, errors.New("supabase configuration is required")
	}
	if cfg.URL == "" {
		return nil, errors.New("supabase url is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("supabase service key is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	s := &SupabaseStorage{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upload stores data at bucket/path with upsert semantics: re-uploading the
// same path replaces the object.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (UploadResult, error) {
	if bucket == "" || path == "" {
		return UploadResult{}, errors.New("bucket and path are required")
	}

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("storage upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error("storage upload rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("bucket", bucket),
			zap.String("path", path),
		)
		return UploadResult{}, fmt.Errorf("storage upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	digest := sha256.Sum256(data)
	return UploadResult{
		SHA256: hex.EncodeToString(digest[:]),
		Size:   int64(len(data)),
	}, nil
}

// SignObject asks the store for a time-limited signed URL. The API returns a
// relative URL which is normalized against the project base, prefixing
// /storage/v1 when the store omits it.
func (s *SupabaseStorage) SignObject(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	if bucket == "" || path == "" {
		return "", errors.New("bucket and path are required")
	}

	payload, err := json.Marshal(map[string]int{"expiresIn": int(expiresIn.Seconds())})
	if err != nil {
		return "", fmt.Errorf("failed to encode sign request: %w", err)
	}

	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", s.baseURL, bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build sign request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage sign failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("storage sign failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode sign response: %w", err)
	}
	if result.SignedURL == "" {
		return "", errors.New("storage sign response missing signedURL")
	}

	return s.normalizeSignedURL(result.SignedURL), nil
}

// normalizeSignedURL turns the relative signedURL variants the API returns
// into an absolute URL.
func (s *SupabaseStorage) normalizeSignedURL(signed string) string {
	if strings.HasPrefix(signed, "http://") || strings.HasPrefix(signed, "https://") {
		return signed
	}
	if !strings.HasPrefix(signed, "/") {
		signed = "/" + signed
	}
	if !strings.HasPrefix(signed, "/storage/v1/") {
		signed = "/storage/v1" + signed
	}
	return s.baseURL + signed
}

var _ ObjectStorage = (*SupabaseStorage)(nil)
