// Package ontology provides ontology term dictionaries: an in-memory map
// loaded from a TSV file, and a DuckDB-backed store for large dictionaries.
package ontology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// Dictionary maps term ids such as "GO:0008150" to term names.
type Dictionary map[string]string

// Lookup returns the name of a term. The source prefix must match the id.
func (d Dictionary) Lookup(source, id string) (string, bool) {
	if source != "" && genome.TermSource(id) != source {
		return "", false
	}
	name, ok := d[id]
	return name, ok
}

// Sources returns the number of terms per ontology source.
func (d Dictionary) Sources() map[string]int {
	out := make(map[string]int)
	for id := range d {
		out[genome.TermSource(id)]++
	}
	return out
}

// LoadTSV loads a term dictionary TSV file.
// The TSV must have columns "term_id" and "name" in the header.
func LoadTSV(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open term dictionary: %w", err)
	}
	defer f.Close()
	return ReadTSV(f)
}

// ReadTSV reads a term dictionary in the format accepted by LoadTSV.
func ReadTSV(r io.Reader) (Dictionary, error) {
	scanner := bufio.NewScanner(r)

	// Read header to find column indices
	if !scanner.Scan() {
		return nil, fmt.Errorf("term dictionary: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	idIdx := -1
	nameIdx := -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "term_id":
			idIdx = i
		case "name":
			nameIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("term dictionary: missing 'term_id' column")
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("term dictionary: missing 'name' column")
	}

	d := make(Dictionary)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= idIdx || len(fields) <= nameIdx {
			continue
		}
		id := strings.TrimSpace(fields[idIdx])
		name := strings.TrimSpace(fields[nameIdx])
		if id == "" || name == "" {
			continue
		}
		d[id] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading term dictionary: %w", err)
	}

	return d, nil
}
