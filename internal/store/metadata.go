package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an imported file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RecordImport remembers that fp was imported with n records, replacing any
// earlier import of the same path.
func (s *Store) RecordImport(ctx context.Context, fp FileFingerprint, n int) error {
	return recordImport(ctx, s.db, fp, n)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func recordImport(ctx context.Context, db execer, fp FileFingerprint, n int) error {
	_, err := db.ExecContext(ctx,
		"INSERT OR REPLACE INTO imports (path, size, mod_time, records) VALUES (?, ?, ?, ?)",
		fp.Path, fp.Size, fp.ModTime.UnixNano(), int64(n))
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// HasImport reports whether the file described by fp was already imported
// unchanged (same path, size and modification time).
func (s *Store) HasImport(ctx context.Context, fp FileFingerprint) (bool, error) {
	var size, modTime int64
	err := s.db.QueryRowContext(ctx,
		"SELECT size, mod_time FROM imports WHERE path = ?", fp.Path).Scan(&size, &modTime)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup import: %w", err)
	}
	return size == fp.Size && modTime == fp.ModTime.UnixNano(), nil
}
