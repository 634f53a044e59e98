package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileSnapshotRepo keeps a single JSON document on disk, the layout the club
// data file has always used. Writes go through a temp file and a rename so a
// crash never leaves a half-written document behind.
type FileSnapshotRepo struct {
	path string
}

func NewFileSnapshotRepo(path string) *FileSnapshotRepo {
	return &FileSnapshotRepo{path: path}
}

func (r *FileSnapshotRepo) Path() string { return r.path }

func (r *FileSnapshotRepo) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("board file %s: %w", r.path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading board file: %w", err)
	}
	return data, nil
}

func (r *FileSnapshotRepo) Save(ctx context.Context, blob []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating board directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".board-*.json")
	if err != nil {
		return fmt.Errorf("creating temp board file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp board file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp board file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replacing board file: %w", err)
	}
	return nil
}

// History reports the current file as the only version.
func (r *FileSnapshotRepo) History(ctx context.Context, _ int) ([]SnapshotVersion, error) {
	data, err := r.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, fmt.Errorf("stat board file: %w", err)
	}
	return []SnapshotVersion{{
		Version:  1,
		Size:     len(data),
		Checksum: checksum(data),
		SavedAt:  info.ModTime().UTC(),
	}}, nil
}

// Quarantine copies blob next to the board file with a ".corrupt-<unix>"
// suffix.
func (r *FileSnapshotRepo) Quarantine(ctx context.Context, blob []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := fmt.Sprintf("%s.corrupt-%d", r.path, time.Now().Unix())
	if err := os.WriteFile(dest, blob, 0o600); err != nil {
		return "", fmt.Errorf("writing corrupt board copy: %w", err)
	}
	return dest, nil
}
