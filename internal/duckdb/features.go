package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genome-import/internal/genome"
)

// Value kinds stored in feature_values.
const (
	valueFunction = "function"
	valueAlias    = "alias"
	valueWarning  = "warning"
)

// WriteGenome stores an assembled genome as a new import and returns its id.
// fps identify the input files. Rows are bulk-inserted with the Appender API.
func (s *Store) WriteGenome(format string, fps []FileFingerprint, contigs *genome.ContigSet, g *genome.Genome) (int64, error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var id int64
	if err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(import_id), 0) + 1 FROM imports").Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate import id: %w", err)
	}

	all := g.All()
	if _, err := conn.ExecContext(ctx, `INSERT INTO imports VALUES (?, ?, ?, ?, ?, ?)`,
		id, format, fingerprintKey(fps), time.Now().UTC(), int64(len(all)), int64(len(g.Warnings))); err != nil {
		return 0, fmt.Errorf("insert import: %w", err)
	}

	err = withAppenders(conn, func(app map[string]*goduckdb.Appender) error {
		for _, cid := range contigs.IDs() {
			c, _ := contigs.Get(cid)
			if err := app["contigs"].AppendRow(id, c.ID, c.Length(), c.Circular, c.Description, genome.SequenceMD5(c.Sequence)); err != nil {
				return fmt.Errorf("append contig: %w", err)
			}
		}
		for i, f := range all {
			if err := appendFeature(app, id, int64(i), f); err != nil {
				return err
			}
		}
		for i, w := range g.Warnings {
			if err := app["import_warnings"].AppendRow(id, int64(i), string(w.Kind), w.Accession, w.FeatureID, w.Message); err != nil {
				return fmt.Errorf("append warning: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		// Roll back the partial import so FindImport never sees it.
		s.DeleteImport(id)
		return 0, err
	}
	return id, nil
}

func appendFeature(app map[string]*goduckdb.Appender, id, ord int64, f *genome.Feature) error {
	if err := app["features"].AppendRow(id, ord, f.ID, f.Type,
		f.ParentGene, f.ParentMRNA, f.CDS,
		f.DNASequence, f.DNASequenceLength, f.MD5,
		f.ProteinTranslation, int64(f.ProteinTranslationLength), f.Note,
	); err != nil {
		return fmt.Errorf("append feature %s: %w", f.ID, err)
	}
	for i, seg := range f.Location {
		if err := app["feature_locations"].AppendRow(id, f.ID, int64(i), seg.ContigID, seg.Start, seg.Strand.String(), seg.Length); err != nil {
			return fmt.Errorf("append location of %s: %w", f.ID, err)
		}
	}
	values := []struct {
		kind string
		list []string
	}{
		{valueFunction, f.Functions},
		{valueAlias, f.Aliases},
		{valueWarning, f.Warnings},
	}
	for _, v := range values {
		for i, val := range v.list {
			if err := app["feature_values"].AppendRow(id, f.ID, v.kind, int64(i), val); err != nil {
				return fmt.Errorf("append %s of %s: %w", v.kind, f.ID, err)
			}
		}
	}
	for source, terms := range f.OntologyTerms {
		for termID, name := range terms {
			if err := app["feature_terms"].AppendRow(id, f.ID, source, termID, name); err != nil {
				return fmt.Errorf("append term of %s: %w", f.ID, err)
			}
		}
	}
	return nil
}

// withAppenders opens one appender per data table on conn, runs fn and
// flushes every appender.
func withAppenders(conn interface {
	Raw(func(any) error) error
}, fn func(map[string]*goduckdb.Appender) error) error {
	apps := make(map[string]*goduckdb.Appender, len(dataTables))
	defer func() {
		for _, a := range apps {
			a.Close()
		}
	}()
	for _, table := range dataTables {
		if err := conn.Raw(func(driverConn any) error {
			a, err := goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
			if err != nil {
				return err
			}
			apps[table] = a
			return nil
		}); err != nil {
			return fmt.Errorf("create appender for %s: %w", table, err)
		}
	}

	if err := fn(apps); err != nil {
		return err
	}
	for _, table := range dataTables {
		if err := apps[table].Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", table, err)
		}
	}
	return nil
}
