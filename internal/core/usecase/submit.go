package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Shashank2985/Cannon/internal/core/domain"
	"github.com/Shashank2985/Cannon/internal/core/ports"
)

type SubmitScanUseCase struct {
	repo    ports.ScanRepository
	storage ports.ImageStorage
}

func NewSubmitScanUseCase(repo ports.ScanRepository, storage ports.ImageStorage) *SubmitScanUseCase {
	return &SubmitScanUseCase{repo: repo, storage: storage}
}

// Submit stores all three captures and creates a pending scan. The upload
// is all-or-nothing: if any Put fails, no scan row is created and the
// blobs stored so far are removed best-effort.
func (uc *SubmitScanUseCase) Submit(
	ctx context.Context,
	identity domain.Identity,
	front, left, right []byte,
) (*domain.Scan, error) {
	if len(front) == 0 || len(left) == 0 || len(right) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit scan", errors.New("all three images are required"))
	}

	type capture struct {
		kind string
		data []byte
	}
	captures := []capture{
		{kind: "front", data: front},
		{kind: "left", data: left},
		{kind: "right", data: right},
	}

	keys := make(map[string]string, len(captures))
	stored := make([]string, 0, len(captures))
	for _, c := range captures {
		key, err := uc.storage.Put(ctx, c.data, identity.UserID, c.kind)
		if err != nil {
			uc.cleanup(ctx, stored)
			return nil, fmt.Errorf("store %s image: %w", c.kind, err)
		}
		keys[c.kind] = key
		stored = append(stored, key)
	}

	now := time.Now().UTC()
	scan := &domain.Scan{
		ID:     uuid.NewString(),
		UserID: identity.UserID,
		Images: domain.ScanImages{
			Front: keys["front"],
			Left:  keys["left"],
			Right: keys["right"],
		},
		Status:     domain.StatusPending,
		IsUnlocked: identity.Paid,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.repo.Create(ctx, scan); err != nil {
		uc.cleanup(ctx, stored)
		return nil, fmt.Errorf("create scan record: %w", err)
	}
	return scan, nil
}

func (uc *SubmitScanUseCase) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := uc.storage.Remove(ctx, key); err != nil {
			slog.Warn("orphaned scan image left in storage", "key", key, "error", err)
		}
	}
}
