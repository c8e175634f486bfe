package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

// Storage keeps captures on the local filesystem under
// <base>/scans/<user>/. Keys are relative paths so a future move to
// object storage does not change what the database holds.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/scans"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Put(_ context.Context, data []byte, userID, kind string) (string, error) {
	key := objectKey(userID, kind)
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", domain.WrapError(domain.ErrStorage, "create user dir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", domain.WrapError(domain.ErrStorage, "write image", err)
	}
	return key, nil
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "read image", err)
	}
	return data, nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return domain.WrapError(domain.ErrStorage, "remove image", err)
	}
	return nil
}

func objectKey(userID, kind string) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("scans/%s/%d_%s_%s.jpg", userID, time.Now().UnixMilli(), kind, short)
}
