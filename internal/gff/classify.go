package gff

import (
	"fmt"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// idAttributes are tried in order when a line has no ID.
var idAttributes = []string{"ID", "transcriptId", "proteinId", "PACid", "pacid", "Parent", "Name", "name"}

var aliasAttributes = []string{"locus_tag", "old_locus_tag", "protein_id", "transcript_id", "gene", "EC_number", "Alias"}

var goAttributes = []string{"GO_process", "GO_function", "GO_component"}

type termRef struct {
	id   string
	name string
}

// classifier converts GFF3 lines to assembly candidates. A transcript whose
// ID repeats its gene's ID is renamed, and later Parent references to that ID
// resolve to the transcript.
type classifier struct {
	contigs *genome.ContigSet
	renamed map[string]string
}

func newClassifier(contigs *genome.ContigSet) *classifier {
	return &classifier{contigs: contigs, renamed: make(map[string]string)}
}

type classified struct {
	cand     *genome.Candidate
	terms    []termRef
	warnings []genome.Warning
	dropped  bool // pseudo CDS
}

func (c *classifier) classify(l *Line) (classified, error) {
	attrs := &l.Attributes
	contigID := contigName(l.SeqID)
	contig, ok := c.contigs.Get(contigID)
	if !ok {
		return classified{}, &genome.FormatError{
			Accession:   contigID,
			FeatureText: l.Text,
			Msg:         fmt.Sprintf("line %d: unknown contig %q", l.Num, contigID),
		}
	}
	if l.End > contig.Length() {
		return classified{}, &genome.FormatError{
			Accession:   contigID,
			FeatureText: l.Text,
			Msg:         fmt.Sprintf("line %d: end %d exceeds contig %s length %d", l.Num, l.End, contigID, contig.Length()),
		}
	}

	var out classified
	warn := func(kind genome.WarningKind, format string, args ...any) {
		out.warnings = append(out.warnings, genome.Warning{
			Kind:      kind,
			Accession: contigID,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	seg := genome.Segment{ContigID: contigID, Start: l.Start, Strand: genome.Forward, Length: l.End - l.Start + 1}
	switch l.Strand {
	case '-':
		seg.Strand = genome.Reverse
		seg.Start = l.End
	case '+':
	default:
		warn(genome.WarnUnknownStrand, "line %d: strand %q read as +", l.Num, string(l.Strand))
	}

	parents := attrs.Values("Parent")
	for i, p := range parents {
		if n, ok := c.renamed[p]; ok {
			parents[i] = n
		}
	}

	id := ""
	for _, key := range idAttributes {
		if v := attrs.Get(key); v != "" {
			id = v
			break
		}
	}
	if len(parents) > 0 && id != "" && (id == parents[0] || l.Type == genome.TypeCDS) {
		old := id
		id = parents[0] + "." + l.Type
		if strings.Contains(l.Type, "RNA") {
			c.renamed[old] = id
		}
	}

	f := &genome.Feature{
		ID:            id,
		Type:          l.Type,
		Location:      []genome.Segment{seg},
		Functions:     attrs.Values("product"),
		Note:          strings.Join(append(attrs.Values("Note"), attrs.Values("note")...), "; "),
		OntologyTerms: make(map[string]map[string]string),
	}
	out.cand = &genome.Candidate{
		Feature:   f,
		Accession: contigID,
		Text:      l.Text,
		IDSources: strings.Join(idAttributes, ", "),
		Parents:   parents,
	}
	if l.Type == genome.TypeCDS {
		out.cand.CodonOffset = l.Phase
		out.dropped = strings.EqualFold(attrs.Get("pseudo"), "true")
	}

	for _, key := range aliasAttributes {
		f.Aliases = appendUnique(f.Aliases, attrs.Values(key)...)
	}
	for _, v := range attrs.Values("Dbxref") {
		if strings.HasPrefix(v, "GO:") {
			out.terms = append(out.terms, termRef{id: v})
		} else {
			f.Aliases = appendUnique(f.Aliases, v)
		}
	}
	for _, v := range attrs.Values("Ontology_term") {
		out.terms = append(out.terms, termRef{id: v})
	}
	for _, key := range goAttributes {
		for _, v := range attrs.Values(key) {
			termID, name, _ := strings.Cut(v, " - ")
			out.terms = append(out.terms, termRef{id: strings.TrimSpace(termID), name: strings.TrimSpace(name)})
		}
	}

	for _, b := range l.Bare {
		warn(genome.WarnBareQualifier, "line %d: attribute %q has no key=value separator", l.Num, b)
	}
	return out, nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
