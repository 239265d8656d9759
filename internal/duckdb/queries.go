package duckdb

import (
	"fmt"

	"github.com/inodb/genome-import/internal/genome"
)

const featureColumns = `feature_id, type, parent_gene, parent_mrna, cds,
	dna_sequence, dna_length, md5, protein, protein_length, note`

// LookupFeature loads one stored feature with its location, annotations and
// child references. It returns nil when the feature does not exist.
func (s *Store) LookupFeature(importID int64, featureID string) (*genome.Feature, error) {
	rows, err := s.db.Query(`SELECT `+featureColumns+`
		FROM features WHERE import_id=? AND feature_id=?`, importID, featureID)
	if err != nil {
		return nil, fmt.Errorf("query feature: %w", err)
	}
	features, err := scanFeatures(rows)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, nil
	}
	f := features[0]
	if err := s.fillFeatures(importID, features); err != nil {
		return nil, err
	}
	return f, nil
}

// FeaturesByType loads all stored features of one type in import order.
func (s *Store) FeaturesByType(importID int64, featureType string) ([]*genome.Feature, error) {
	rows, err := s.db.Query(`SELECT `+featureColumns+`
		FROM features WHERE import_id=? AND type=? ORDER BY ord`, importID, featureType)
	if err != nil {
		return nil, fmt.Errorf("query features by type: %w", err)
	}
	features, err := scanFeatures(rows)
	if err != nil {
		return nil, err
	}
	if err := s.fillFeatures(importID, features); err != nil {
		return nil, err
	}
	return features, nil
}

// CountByType returns the number of stored features per type.
func (s *Store) CountByType(importID int64) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT type, COUNT(*) FROM features
		WHERE import_id=? GROUP BY type`, importID)
	if err != nil {
		return nil, fmt.Errorf("count features: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[t] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Warnings returns the warnings recorded for an import in report order.
func (s *Store) Warnings(importID int64) ([]genome.Warning, error) {
	rows, err := s.db.Query(`SELECT kind, accession, feature_id, message
		FROM import_warnings WHERE import_id=? ORDER BY ord`, importID)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer rows.Close()

	var out []genome.Warning
	for rows.Next() {
		var w genome.Warning
		var kind string
		if err := rows.Scan(&kind, &w.Accession, &w.FeatureID, &w.Message); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		w.Kind = genome.WarningKind(kind)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warnings: %w", err)
	}
	return out, nil
}

// scanFeatures scans feature rows and closes them.
func scanFeatures(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}) ([]*genome.Feature, error) {
	defer rows.Close()

	var features []*genome.Feature
	for rows.Next() {
		var f genome.Feature
		var proteinLen int64
		if err := rows.Scan(
			&f.ID, &f.Type, &f.ParentGene, &f.ParentMRNA, &f.CDS,
			&f.DNASequence, &f.DNASequenceLength, &f.MD5,
			&f.ProteinTranslation, &proteinLen, &f.Note,
		); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		f.ProteinTranslationLength = int(proteinLen)
		f.OntologyTerms = make(map[string]map[string]string)
		features = append(features, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return features, nil
}

// fillFeatures loads locations, annotation values, ontology terms and child
// references for features of one import.
func (s *Store) fillFeatures(importID int64, features []*genome.Feature) error {
	for _, f := range features {
		if err := s.fillLocation(importID, f); err != nil {
			return err
		}
		if err := s.fillValues(importID, f); err != nil {
			return err
		}
		if err := s.fillTerms(importID, f); err != nil {
			return err
		}
		if err := s.fillChildren(importID, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) fillLocation(importID int64, f *genome.Feature) error {
	rows, err := s.db.Query(`SELECT contig_id, start, strand, length FROM feature_locations
		WHERE import_id=? AND feature_id=? ORDER BY ord`, importID, f.ID)
	if err != nil {
		return fmt.Errorf("query location of %s: %w", f.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var seg genome.Segment
		var strand string
		if err := rows.Scan(&seg.ContigID, &seg.Start, &strand, &seg.Length); err != nil {
			return fmt.Errorf("scan location of %s: %w", f.ID, err)
		}
		seg.Strand = genome.Forward
		if strand == string(genome.Reverse) {
			seg.Strand = genome.Reverse
		}
		f.Location = append(f.Location, seg)
	}
	return rows.Err()
}

func (s *Store) fillValues(importID int64, f *genome.Feature) error {
	rows, err := s.db.Query(`SELECT kind, value FROM feature_values
		WHERE import_id=? AND feature_id=? ORDER BY kind, ord`, importID, f.ID)
	if err != nil {
		return fmt.Errorf("query values of %s: %w", f.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return fmt.Errorf("scan value of %s: %w", f.ID, err)
		}
		switch kind {
		case valueFunction:
			f.Functions = append(f.Functions, value)
		case valueAlias:
			f.Aliases = append(f.Aliases, value)
		case valueWarning:
			f.Warnings = append(f.Warnings, value)
		}
	}
	return rows.Err()
}

func (s *Store) fillTerms(importID int64, f *genome.Feature) error {
	rows, err := s.db.Query(`SELECT source, term_id, name FROM feature_terms
		WHERE import_id=? AND feature_id=?`, importID, f.ID)
	if err != nil {
		return fmt.Errorf("query terms of %s: %w", f.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var source, id, name string
		if err := rows.Scan(&source, &id, &name); err != nil {
			return fmt.Errorf("scan term of %s: %w", f.ID, err)
		}
		if f.OntologyTerms[source] == nil {
			f.OntologyTerms[source] = make(map[string]string)
		}
		f.OntologyTerms[source][id] = name
	}
	return rows.Err()
}

// fillChildren rebuilds the gene back references from the parent_gene
// column of the gene's children.
func (s *Store) fillChildren(importID int64, f *genome.Feature) error {
	rows, err := s.db.Query(`SELECT feature_id, type FROM features
		WHERE import_id=? AND parent_gene=? ORDER BY ord`, importID, f.ID)
	if err != nil {
		return fmt.Errorf("query children of %s: %w", f.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, t string
		if err := rows.Scan(&id, &t); err != nil {
			return fmt.Errorf("scan child of %s: %w", f.ID, err)
		}
		switch t {
		case genome.TypeCDS:
			f.CDSs = append(f.CDSs, id)
		case genome.TypeMRNA:
			f.MRNAs = append(f.MRNAs, id)
		default:
			f.Children = append(f.Children, id)
		}
	}
	return rows.Err()
}
