// Package gff reads GFF3 annotation with FASTA sequence into the feature
// graph.
package gff

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// Line is one parsed GFF3 feature line.
type Line struct {
	SeqID      string
	Source     string
	Type       string
	Start      int64
	End        int64
	Score      string
	Strand     byte
	Phase      int // 0 when the column is "."
	Attributes genome.Qualifiers
	Bare       []string // attribute tokens without a separator
	Text       string
	Num        int // 1-based line number
}

// Document is a parsed GFF3 stream.
type Document struct {
	Lines []*Line
	FASTA []byte // sequence section after a ##FASTA directive
}

// Parse reads GFF3 feature lines. Comment and blank lines are skipped, and
// everything after a ##FASTA directive is kept as FASTA text.
func Parse(r io.Reader) (*Document, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	doc := &Document{}
	var fasta bytes.Buffer
	inFASTA := false
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if inFASTA {
			fasta.WriteString(line)
			fasta.WriteByte('\n')
			continue
		}
		if strings.HasPrefix(line, "##FASTA") {
			inFASTA = true
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		l, err := ParseLine(line, lineNum)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read GFF3: %w", err)
	}
	doc.FASTA = fasta.Bytes()
	return doc, nil
}

// ParseLine parses one tab-delimited feature line.
func ParseLine(text string, num int) (*Line, error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 9 {
		return nil, lineError(text, num, "expected 9 tab-separated columns, found %d", len(fields))
	}

	start, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return nil, lineError(text, num, "non-numeric start %q", fields[3])
	}
	end, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
	if err != nil {
		return nil, lineError(text, num, "non-numeric end %q", fields[4])
	}
	if start < 1 {
		return nil, lineError(text, num, "start %d below 1", start)
	}
	if start > end {
		return nil, lineError(text, num, "start %d is after end %d", start, end)
	}

	strand := byte('.')
	if s := strings.TrimSpace(fields[6]); s != "" {
		strand = s[0]
	}
	phase := 0
	if p, err := strconv.Atoi(strings.TrimSpace(fields[7])); err == nil && p >= 0 && p <= 2 {
		phase = p
	}

	attrs, bare := parseAttributes(strings.Join(fields[8:], "\t"))
	return &Line{
		SeqID:      strings.TrimSpace(fields[0]),
		Source:     fields[1],
		Type:       strings.TrimSpace(fields[2]),
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     strand,
		Phase:      phase,
		Attributes: attrs,
		Bare:       bare,
		Text:       text,
		Num:        num,
	}, nil
}

func lineError(text string, num int, format string, args ...any) error {
	return &genome.FormatError{
		FeatureText: text,
		Msg:         fmt.Sprintf("line %d: ", num) + fmt.Sprintf(format, args...),
	}
}
