package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gearroom-backend/internal/logger"
)

// MockStorage stores files on the local filesystem and issues plain
// HTTP URLs pointing at the server's own upload/download handlers.
// It exists so the system runs end to end without cloud credentials.
type MockStorage struct {
	uploadDir string
	baseURL   string
}

func NewMockStorage(uploadDir, baseURL string) (*MockStorage, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", uploadDir, err)
	}
	return &MockStorage{
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

func (m *MockStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	url := fmt.Sprintf("%s/api/v1/files/upload/%s?key=%s", m.baseURL, encodeKey(key), key)
	logger.Debug("mock storage issued upload URL", "key", key, "content_type", contentType)
	return url, nil
}

func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	exists, _, err := m.FileExists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("file not found: %s", key)
	}
	return fmt.Sprintf("%s/api/v1/files/download/%s?key=%s", m.baseURL, encodeKey(key), key), nil
}

func (m *MockStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	info, err := os.Stat(m.pathFor(key))
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	err := os.Remove(m.pathFor(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (m *MockStorage) SaveFile(key string, reader io.Reader) error {
	path := m.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return err
	}
	logger.Debug("mock storage saved file", "key", key)
	return nil
}

func (m *MockStorage) ReadFile(key string) (io.ReadCloser, error) {
	return os.Open(m.pathFor(key))
}

// pathFor keeps keys inside uploadDir even if a key contains "..".
func (m *MockStorage) pathFor(key string) string {
	clean := filepath.Clean("/" + key)
	return filepath.Join(m.uploadDir, clean)
}

func encodeKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
