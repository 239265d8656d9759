// Package genome holds the feature graph model and the reconstruction engine
// shared by the GenBank and GFF3 import paths: location algebra, sequence
// extraction and translation, identifier allocation and hierarchy assembly.
package genome

import (
	"fmt"
	"strings"
)

// Strand is the reading direction of a segment.
type Strand byte

const (
	Forward Strand = '+'
	Reverse Strand = '-'
)

func (s Strand) String() string {
	return string(s)
}

// Segment is one contiguous stretch of a feature location.
type Segment struct {
	ContigID string
	Start    int64  // 1-based coordinate where reading begins (high coordinate on the reverse strand)
	Strand   Strand // Forward or Reverse
	Length   int64
}

// Low returns the smallest contig coordinate covered by the segment.
func (s Segment) Low() int64 {
	if s.Strand == Reverse {
		return s.Start - s.Length + 1
	}
	return s.Start
}

// High returns the largest contig coordinate covered by the segment.
func (s Segment) High() int64 {
	if s.Strand == Reverse {
		return s.Start
	}
	return s.Start + s.Length - 1
}

// Flip returns the same span read from the opposite strand.
func (s Segment) Flip() Segment {
	out := s
	if s.Strand == Reverse {
		out.Strand = Forward
		out.Start = s.Low()
	} else {
		out.Strand = Reverse
		out.Start = s.High()
	}
	return out
}

// abuts reports whether next starts on the base immediately downstream of s.
func (s Segment) abuts(next Segment) bool {
	if s.ContigID != next.ContigID || s.Strand != next.Strand {
		return false
	}
	if s.Strand == Reverse {
		return next.High() == s.Low()-1
	}
	return next.Low() == s.High()+1
}

// contains reports whether other lies fully inside s on the same strand.
func (s Segment) contains(other Segment) bool {
	return s.ContigID == other.ContigID && s.Strand == other.Strand &&
		other.Low() >= s.Low() && other.High() <= s.High()
}

func (s Segment) String() string {
	return fmt.Sprintf("%s_%d_%s_%d", s.ContigID, s.Start, s.Strand, s.Length)
}

// FormatLocation renders a location as semicolon-separated segments.
func FormatLocation(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ";")
}

// TotalLength returns the summed length of all segments.
func TotalLength(segs []Segment) int64 {
	var n int64
	for _, s := range segs {
		n += s.Length
	}
	return n
}

// Contig is a single assembled nucleotide sequence.
type Contig struct {
	ID          string
	Sequence    string
	Description string
	Circular    bool
}

// Length returns the number of bases in the contig.
func (c *Contig) Length() int64 {
	return int64(len(c.Sequence))
}

// ContigSet holds the contigs of one import in load order.
type ContigSet struct {
	order []string
	byID  map[string]*Contig
}

// NewContigSet creates an empty contig set.
func NewContigSet() *ContigSet {
	return &ContigSet{byID: make(map[string]*Contig)}
}

// Add registers a contig. Contig ids must be unique.
func (cs *ContigSet) Add(c *Contig) error {
	if _, ok := cs.byID[c.ID]; ok {
		return fmt.Errorf("duplicate contig id %q", c.ID)
	}
	cs.byID[c.ID] = c
	cs.order = append(cs.order, c.ID)
	return nil
}

// Get returns the contig with the given id.
func (cs *ContigSet) Get(id string) (*Contig, bool) {
	c, ok := cs.byID[id]
	return c, ok
}

// IDs returns contig ids in load order.
func (cs *ContigSet) IDs() []string {
	return cs.order
}

// Len returns the number of contigs.
func (cs *ContigSet) Len() int {
	return len(cs.order)
}

// Feature types with dedicated handling in the hierarchy.
const (
	TypeGene       = "gene"
	TypeMRNA       = "mRNA"
	TypeCDS        = "CDS"
	TypePseudogene = "pseudogene"
)

// Feature is a node of the assembled feature graph.
type Feature struct {
	ID                       string
	Type                     string
	Location                 []Segment
	DNASequence              string
	DNASequenceLength        int64
	MD5                      string
	ProteinTranslation       string // CDS and protein-encoding genes only
	ProteinTranslationLength int
	Functions                []string
	Note                     string
	Aliases                  []string
	OntologyTerms            map[string]map[string]string // ontology source -> term id -> term name
	ParentGene               string
	ParentMRNA               string   // CDS -> mRNA
	CDS                      string   // mRNA -> CDS
	CDSs                     []string // gene -> CDS ids
	MRNAs                    []string // gene -> mRNA ids
	Children                 []string // gene -> other child features
	Warnings                 []string
}

// Genome is the frozen output of one assembly run.
type Genome struct {
	Genes     []*Feature
	MRNAs     []*Feature
	CDSs      []*Feature
	NonCoding []*Feature

	// Counts holds the number of features per type plus the
	// protein_encoding_gene and non_protein_encoding_gene tallies.
	Counts map[string]int

	OntologiesPresent map[string]map[string]string
	TermsNotFound     map[string]int
	Warnings          []Warning

	byID map[string]*Feature
}

// Feature returns the feature with the given id.
func (g *Genome) Feature(id string) (*Feature, bool) {
	f, ok := g.byID[id]
	return f, ok
}

// All returns every feature: genes, mRNAs, CDSs, then non-coding features.
func (g *Genome) All() []*Feature {
	out := make([]*Feature, 0, len(g.Genes)+len(g.MRNAs)+len(g.CDSs)+len(g.NonCoding))
	out = append(out, g.Genes...)
	out = append(out, g.MRNAs...)
	out = append(out, g.CDSs...)
	out = append(out, g.NonCoding...)
	return out
}
