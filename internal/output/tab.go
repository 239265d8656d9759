// Package output provides feature table and import summary formatters.
package output

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// TabWriter writes features in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Feature",
			"Type",
			"Location",
			"Length",
			"Parent_gene",
			"Parent_mRNA",
			"CDS",
			"Children",
			"Protein_length",
			"MD5",
			"Function",
			"Aliases",
			"Ontology_terms",
			"Note",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single feature.
func (tw *TabWriter) Write(f *genome.Feature) error {
	children := make([]string, 0, len(f.CDSs)+len(f.MRNAs)+len(f.Children))
	children = append(children, f.CDSs...)
	children = append(children, f.MRNAs...)
	children = append(children, f.Children...)

	proteinLen := "-"
	if f.ProteinTranslationLength > 0 {
		proteinLen = strconv.Itoa(f.ProteinTranslationLength)
	}

	values := []string{
		f.ID,
		f.Type,
		orDash(genome.FormatLocation(f.Location)),
		strconv.FormatInt(f.DNASequenceLength, 10),
		orDash(f.ParentGene),
		orDash(f.ParentMRNA),
		orDash(f.CDS),
		orDash(strings.Join(children, ",")),
		proteinLen,
		orDash(f.MD5),
		orDash(strings.Join(f.Functions, "; ")),
		orDash(strings.Join(f.Aliases, ",")),
		orDash(formatTerms(f.OntologyTerms)),
		orDash(f.Note),
	}
	for i, v := range values {
		values[i] = cleanField(v)
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteGenome writes the header and every feature of g.
func (tw *TabWriter) WriteGenome(g *genome.Genome) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, f := range g.All() {
		if err := tw.Write(f); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// formatTerms renders ontology terms as sorted "id:name" pairs.
func formatTerms(terms map[string]map[string]string) string {
	var ids []string
	names := make(map[string]string)
	for _, bySource := range terms {
		for id, name := range bySource {
			ids = append(ids, id)
			names[id] = name
		}
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id + "(" + names[id] + ")"
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// cleanField keeps values on one line and out of neighbouring columns.
func cleanField(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
