package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
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

func (fp FileFingerprint) String() string {
	return fp.Path + "|" + strconv.FormatInt(fp.Size, 10) + "|" + fp.ModTime.UTC().Format(time.RFC3339Nano)
}

// fingerprintKey combines the fingerprints of all input files of one import
// into an order-independent key.
func fingerprintKey(fps []FileFingerprint) string {
	parts := make([]string, len(fps))
	for i, fp := range fps {
		parts[i] = fp.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// ImportInfo describes one stored import.
type ImportInfo struct {
	ID         int64
	Format     string
	ImportedAt time.Time
	Features   int64
	Warnings   int64
}

// FindImport returns the id of the most recent import whose input files
// match fps exactly.
func (s *Store) FindImport(format string, fps ...FileFingerprint) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT import_id FROM imports
		WHERE format=? AND fingerprint=?
		ORDER BY import_id DESC LIMIT 1`, format, fingerprintKey(fps)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find import: %w", err)
	}
	return id, true, nil
}

// Imports lists stored imports, oldest first.
func (s *Store) Imports() ([]ImportInfo, error) {
	rows, err := s.db.Query(`SELECT import_id, format, imported_at, features, warnings
		FROM imports ORDER BY import_id`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []ImportInfo
	for rows.Next() {
		var info ImportInfo
		if err := rows.Scan(&info.ID, &info.Format, &info.ImportedAt, &info.Features, &info.Warnings); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}
	return out, nil
}

// DeleteImport removes an import and all its rows.
func (s *Store) DeleteImport(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range append(dataTables, "imports") {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE import_id=?", id); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}
