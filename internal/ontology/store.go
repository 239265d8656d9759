package ontology

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store provides term lookups backed by DuckDB.
type Store struct {
	db       *sql.DB
	lookupPS *sql.Stmt // prepared statement for Lookup, lazily initialized

	// In-memory copy filled by PreloadToMemory.
	memCache Dictionary
}

// Open opens or creates a DuckDB term database at the given path. An empty
// path opens an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ontology_terms (
		source VARCHAR,
		term_id VARCHAR,
		name VARCHAR
	)`)
	return err
}

// Loaded returns true if the term table has data.
func (s *Store) Loaded() bool {
	n, err := s.Count()
	return err == nil && n > 0
}

// Count returns the number of terms in the store.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM ontology_terms").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ontology terms: %w", err)
	}
	return count, nil
}

// Load replaces the stored terms with the contents of a term dictionary TSV
// using DuckDB's read_csv. The header must name columns term_id and name;
// other columns are ignored, as are rows without a source prefix or a name.
func (s *Store) Load(tsvPath string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ontology_terms`); err != nil {
		return fmt.Errorf("clear ontology terms: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO ontology_terms
		SELECT DISTINCT ON (term_id) split_part(term_id, ':', 1), term_id, name
		FROM read_csv('%s', delim='\t', header=true, all_varchar=true)
		WHERE contains(term_id, ':') AND name IS NOT NULL AND name <> ''`, tsvPath)
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("loading term dictionary: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.memCache = nil
	return nil
}

// PreloadToMemory copies every stored term into memory so lookups avoid the
// database.
func (s *Store) PreloadToMemory() error {
	rows, err := s.db.Query("SELECT term_id, name FROM ontology_terms")
	if err != nil {
		return fmt.Errorf("query ontology terms for preload: %w", err)
	}
	defer rows.Close()

	cache := make(Dictionary)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan preload row: %w", err)
		}
		cache[id] = name
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("preload rows: %w", err)
	}

	s.memCache = cache
	return nil
}

// MemCacheSize returns the number of terms in the in-memory cache, or 0 if
// not loaded.
func (s *Store) MemCacheSize() int {
	return len(s.memCache)
}

// Lookup returns the name of a term. Uses the in-memory cache if available,
// otherwise queries DuckDB.
func (s *Store) Lookup(source, id string) (string, bool) {
	if s.memCache != nil {
		return s.memCache.Lookup(source, id)
	}

	if s.lookupPS == nil {
		ps, err := s.db.Prepare("SELECT name FROM ontology_terms WHERE source=? AND term_id=? LIMIT 1")
		if err != nil {
			return "", false
		}
		s.lookupPS = ps
	}
	var name string
	if err := s.lookupPS.QueryRow(source, id).Scan(&name); err != nil {
		return "", false
	}
	return name, true
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.lookupPS != nil {
		s.lookupPS.Close()
	}
	return s.db.Close()
}
