package genbank

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/inodb/genome-import/internal/genome"
)

// Metadata is the header information of one GenBank record.
type Metadata struct {
	Accession      string
	Name           string // LOCUS name
	DeclaredLength int64
	MoleculeType   string
	Circular       bool
	Division       string
	Date           string
	Definition     string
	Version        string
	Organism       string
	SequenceLength int64
	FeatureCount   int
}

// RawFeature is one entry of a FEATURES table with its location resolved
// against the record's sequence.
type RawFeature struct {
	Type       string
	Location   string
	Segments   []genome.Segment
	Notes      []genome.LocationNote
	Qualifiers genome.Qualifiers
	Bare       []string // valueless qualifiers that are not known flags
	Text       string
}

// Record is a parsed GenBank record.
type Record struct {
	Index    int
	Metadata Metadata
	Contig   *genome.Contig
	Features []*RawFeature
	Warnings []genome.Warning
}

// ParseRecord parses the text of one record. It does not touch shared state
// and may run concurrently for different records.
func ParseRecord(text, accession string, index int) (*Record, error) {
	rec := &Record{Index: index, Metadata: Metadata{Accession: accession}}
	md := &rec.Metadata

	const (
		inHeader = iota
		inFeatures
		inOrigin
	)
	section := inHeader
	keyword := ""
	hasOrigin := false
	var featureLines []string
	var seq strings.Builder

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "//") {
			break
		}
		if line == "" {
			continue
		}
		if line[0] != ' ' {
			keyword = firstField(line)
			rest := strings.TrimSpace(strings.TrimPrefix(line, keyword))
			switch keyword {
			case "LOCUS":
				parseLocus(rest, md)
				section = inHeader
			case "DEFINITION":
				md.Definition = rest
				section = inHeader
			case "VERSION":
				md.Version = firstField(rest)
				section = inHeader
			case "FEATURES":
				section = inFeatures
			case "ORIGIN":
				section = inOrigin
				hasOrigin = true
			default:
				section = inHeader
			}
			continue
		}

		switch section {
		case inFeatures:
			featureLines = append(featureLines, line)
		case inOrigin:
			seq.WriteString(cleanSequence(line))
		default:
			trimmed := strings.TrimSpace(line)
			switch {
			case keyword == "DEFINITION":
				md.Definition += " " + trimmed
			case keyword == "SOURCE" && strings.HasPrefix(trimmed, "ORGANISM"):
				md.Organism = strings.TrimSpace(strings.TrimPrefix(trimmed, "ORGANISM"))
			}
		}
	}

	if !hasOrigin {
		return nil, &genome.FormatError{Accession: accession, Msg: "record without a sequence"}
	}
	if seq.Len() == 0 {
		return nil, &genome.FormatError{Accession: accession, Msg: "record has an empty sequence"}
	}

	rec.Contig = &genome.Contig{
		ID:          accession,
		Sequence:    seq.String(),
		Description: md.Definition,
		Circular:    md.Circular,
	}
	md.SequenceLength = rec.Contig.Length()
	if md.DeclaredLength > 0 && md.DeclaredLength != md.SequenceLength {
		rec.warnf("LOCUS declares %d bp but the sequence holds %d", md.DeclaredLength, md.SequenceLength)
	}
	if md.MoleculeType != "" && !strings.Contains(strings.ToUpper(md.MoleculeType), "DNA") {
		rec.warnf("molecule type %s is not DNA", md.MoleculeType)
	}

	for _, block := range splitFeatures(featureLines) {
		rf, err := newRawFeature(block, accession, md.SequenceLength)
		if err != nil {
			return nil, genome.WithContext(err, accession, block.text)
		}
		rec.Features = append(rec.Features, rf)
	}
	md.FeatureCount = len(rec.Features)
	return rec, nil
}

func (r *Record) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, genome.Warning{
		Kind:      genome.WarnRecordMetadata,
		Accession: r.Metadata.Accession,
		Message:   fmt.Sprintf(format, args...),
	})
}

func newRawFeature(b featureBlock, accession string, contigLength int64) (*RawFeature, error) {
	segs, notes, err := genome.ParseLocation(b.location, accession, contigLength)
	if err != nil {
		return nil, err
	}
	q, bare := parseQualifiers(b.qualifiers)
	return &RawFeature{
		Type:       b.key,
		Location:   b.location,
		Segments:   segs,
		Notes:      notes,
		Qualifiers: q,
		Bare:       bare,
		Text:       b.text,
	}, nil
}

// parseLocus reads the fields after the LOCUS keyword:
// name, length, unit, molecule type, topology, division and date.
func parseLocus(rest string, md *Metadata) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}
	md.Name = fields[0]
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		switch {
		case f == "bp" || f == "aa":
			if n, err := strconv.ParseInt(fields[i-1], 10, 64); err == nil {
				md.DeclaredLength = n
			}
			if i+1 < len(fields) && !isTopology(fields[i+1]) {
				md.MoleculeType = fields[i+1]
				i++
			}
		case isTopology(f):
			md.Circular = strings.EqualFold(f, "circular")
		case isLocusDate(f):
			md.Date = f
			if prev := fields[i-1]; len(prev) == 3 && strings.ToUpper(prev) == prev && !isTopology(prev) {
				md.Division = prev
			}
		}
	}
}

func isTopology(s string) bool {
	return strings.EqualFold(s, "linear") || strings.EqualFold(s, "circular")
}

// isLocusDate matches DD-MON-YYYY.
func isLocusDate(s string) bool {
	if len(s) != 11 || s[2] != '-' || s[6] != '-' {
		return false
	}
	for _, i := range []int{0, 1, 7, 8, 9, 10} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// cleanSequence drops position numbers, whitespace and '?' from an ORIGIN
// line and uppercases the bases.
func cleanSequence(line string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || r == '?' {
			return -1
		}
		return unicode.ToUpper(r)
	}, line)
}
