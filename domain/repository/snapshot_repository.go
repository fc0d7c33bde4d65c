package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Songmu/retry"
	"github.com/pyama86/breachtracker/domain/entity"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotCorrupt  = errors.New("snapshot corrupt")
)

const (
	saveRetries  = 3
	saveInterval = 100 * time.Millisecond
)

type FileSnapshotRepository struct {
	path string
}

func NewFileSnapshotRepository(path string) *FileSnapshotRepository {
	return &FileSnapshotRepository{path: path}
}

func (r *FileSnapshotRepository) Path() string {
	return r.path
}

func (r *FileSnapshotRepository) Load(_ context.Context) (*entity.Snapshot, error) {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s entity.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return &s, nil
}

// Save overwrites the snapshot through a temp file and rename, so readers
// never observe a partial write.
func (r *FileSnapshotRepository) Save(_ context.Context, s *entity.Snapshot) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	return retry.Retry(saveRetries, saveInterval, func() error {
		err := r.write(dir, b)
		if err != nil {
			slog.Warn("snapshot write failed", slog.String("path", r.path), slog.Any("error", err))
		}
		return err
	})
}

func (r *FileSnapshotRepository) write(dir string, b []byte) error {
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *FileSnapshotRepository) Clear(_ context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
