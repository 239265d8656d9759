package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/montanaflynn/stats"

	"github.com/inodb/genome-import/internal/genome"
)

// Summary holds import statistics for reporting.
type Summary struct {
	Contigs      int
	TotalLength  int64
	MeanLength   float64
	MedianLength float64
	MinLength    float64
	MaxLength    float64
	GCContent    float64 // fraction of G and C among A, C, G and T

	Counts         map[string]int
	MeanProteinLen float64
	Warnings       map[genome.WarningKind]int
	TermsPresent   map[string]int // ontology source -> distinct terms
	TermsNotFound  int            // distinct unresolved term ids
}

// Summarize computes contig and feature statistics for an import.
func Summarize(contigs *genome.ContigSet, g *genome.Genome) Summary {
	s := Summary{
		Counts:       make(map[string]int, len(g.Counts)),
		Warnings:     make(map[genome.WarningKind]int),
		TermsPresent: make(map[string]int),
	}

	var lengths []float64
	var gc, acgt int64
	for _, id := range contigs.IDs() {
		c, _ := contigs.Get(id)
		lengths = append(lengths, float64(c.Length()))
		s.TotalLength += c.Length()
		for i := 0; i < len(c.Sequence); i++ {
			switch c.Sequence[i] {
			case 'G', 'C', 'g', 'c':
				gc++
				acgt++
			case 'A', 'T', 'a', 't':
				acgt++
			}
		}
	}
	s.Contigs = len(lengths)
	if len(lengths) > 0 {
		s.MeanLength, _ = stats.Mean(lengths)
		s.MedianLength, _ = stats.Median(lengths)
		s.MinLength, _ = stats.Min(lengths)
		s.MaxLength, _ = stats.Max(lengths)
	}
	if acgt > 0 {
		s.GCContent = float64(gc) / float64(acgt)
	}

	for k, v := range g.Counts {
		s.Counts[k] = v
	}
	var proteinLens []float64
	for _, f := range g.CDSs {
		proteinLens = append(proteinLens, float64(f.ProteinTranslationLength))
	}
	if len(proteinLens) > 0 {
		s.MeanProteinLen, _ = stats.Mean(proteinLens)
	}

	for _, w := range g.Warnings {
		s.Warnings[w.Kind]++
	}
	for source, terms := range g.OntologiesPresent {
		s.TermsPresent[source] = len(terms)
	}
	s.TermsNotFound = len(g.TermsNotFound)
	return s
}

// WriteSummary writes a human-readable import summary.
func WriteSummary(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Contigs:\t%d\n", s.Contigs)
	fmt.Fprintf(tw, "  Total length:\t%d bp\n", s.TotalLength)
	if s.Contigs > 0 {
		fmt.Fprintf(tw, "  Length mean/median:\t%.1f / %.1f bp\n", s.MeanLength, s.MedianLength)
		fmt.Fprintf(tw, "  Length min/max:\t%.0f / %.0f bp\n", s.MinLength, s.MaxLength)
		fmt.Fprintf(tw, "  GC content:\t%.1f%%\n", s.GCContent*100)
	}

	fmt.Fprintf(tw, "Features:\t\n")
	for _, k := range sortedKeys(s.Counts) {
		fmt.Fprintf(tw, "  %s\t%d\n", k, s.Counts[k])
	}
	if s.MeanProteinLen > 0 {
		fmt.Fprintf(tw, "  Mean protein length:\t%.1f aa\n", s.MeanProteinLen)
	}

	if len(s.TermsPresent) > 0 || s.TermsNotFound > 0 {
		fmt.Fprintf(tw, "Ontology terms:\t\n")
		for _, k := range sortedKeys(s.TermsPresent) {
			fmt.Fprintf(tw, "  %s\t%d\n", k, s.TermsPresent[k])
		}
		fmt.Fprintf(tw, "  not found\t%d\n", s.TermsNotFound)
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintf(tw, "Warnings:\t\n")
		kinds := make(map[string]int, len(s.Warnings))
		for k, v := range s.Warnings {
			kinds[string(k)] = v
		}
		for _, k := range sortedKeys(kinds) {
			fmt.Fprintf(tw, "  %s\t%d\n", k, kinds[k])
		}
	}
	return tw.Flush()
}

// WriteWarnings lists up to limit warnings, one per line. A limit of zero or
// less lists all of them.
func WriteWarnings(w io.Writer, warnings []genome.Warning, limit int) error {
	n := len(warnings)
	if limit > 0 && limit < n {
		n = limit
	}
	for _, warn := range warnings[:n] {
		if _, err := fmt.Fprintln(w, warn.String()); err != nil {
			return err
		}
	}
	if n < len(warnings) {
		_, err := fmt.Fprintf(w, "... and %d more\n", len(warnings)-n)
		return err
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
