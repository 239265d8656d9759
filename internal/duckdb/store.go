// Package duckdb persists assembled feature graphs in DuckDB. Each import is
// stored under its own import id together with the fingerprints of its input
// files, so repeated imports of unchanged files can be detected.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding imported feature graphs.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS imports (
		import_id BIGINT PRIMARY KEY,
		format VARCHAR,
		fingerprint VARCHAR,
		imported_at TIMESTAMP,
		features BIGINT,
		warnings BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS contigs (
		import_id BIGINT,
		contig_id VARCHAR,
		length BIGINT,
		circular BOOLEAN,
		description VARCHAR,
		md5 VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS features (
		import_id BIGINT,
		ord BIGINT,
		feature_id VARCHAR,
		type VARCHAR,
		parent_gene VARCHAR,
		parent_mrna VARCHAR,
		cds VARCHAR,
		dna_sequence VARCHAR,
		dna_length BIGINT,
		md5 VARCHAR,
		protein VARCHAR,
		protein_length BIGINT,
		note VARCHAR,
		PRIMARY KEY (import_id, feature_id)
	)`,
	`CREATE TABLE IF NOT EXISTS feature_locations (
		import_id BIGINT,
		feature_id VARCHAR,
		ord BIGINT,
		contig_id VARCHAR,
		start BIGINT,
		strand VARCHAR,
		length BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS feature_values (
		import_id BIGINT,
		feature_id VARCHAR,
		kind VARCHAR,
		ord BIGINT,
		value VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS feature_terms (
		import_id BIGINT,
		feature_id VARCHAR,
		source VARCHAR,
		term_id VARCHAR,
		name VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS import_warnings (
		import_id BIGINT,
		ord BIGINT,
		kind VARCHAR,
		accession VARCHAR,
		feature_id VARCHAR,
		message VARCHAR
	)`,
}

// dataTables hold per-import rows keyed by import_id.
var dataTables = []string{"contigs", "features", "feature_locations", "feature_values", "feature_terms", "import_warnings"}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
