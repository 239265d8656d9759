// Package genbank reads GenBank flat files into contigs and raw features and
// feeds them to the hierarchy assembler.
package genbank

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// RecordRange locates one record in a GenBank stream.
type RecordRange struct {
	Accession string
	Start     int // byte offset of the first line
	End       int // byte offset just past the terminating "//" line
}

// Segment splits a GenBank stream into records terminated by "//" lines.
// A trailing record without a terminator is still returned. A stream with no
// records is a FormatError wrapping genome.ErrNoRecords.
func Segment(data []byte) ([]RecordRange, error) {
	var (
		ranges  []RecordRange
		start   = -1
		locus   string
		acc     string
		pos     int
		flushAt = func(end int) {
			ranges = append(ranges, RecordRange{
				Accession: recordAccession(acc, locus, len(ranges)),
				Start:     start,
				End:       end,
			})
			start, locus, acc = -1, "", ""
		}
	)

	for pos < len(data) {
		lineEnd := bytes.IndexByte(data[pos:], '\n')
		next := len(data)
		if lineEnd >= 0 {
			next = pos + lineEnd + 1
		}
		line := bytes.TrimRight(data[pos:next], "\r\n")

		switch {
		case bytes.HasPrefix(line, []byte("//")):
			if start >= 0 {
				flushAt(next)
			}
		case len(bytes.TrimSpace(line)) == 0:
		default:
			if start < 0 {
				start = pos
			}
			if locus == "" && bytes.HasPrefix(line, []byte("LOCUS")) {
				locus = firstField(string(line[len("LOCUS"):]))
			}
			if acc == "" && bytes.HasPrefix(line, []byte("ACCESSION")) {
				acc = firstField(string(line[len("ACCESSION"):]))
			}
		}
		pos = next
	}
	if start >= 0 {
		flushAt(len(data))
	}

	if len(ranges) == 0 {
		return nil, &genome.FormatError{Msg: "stream holds no GenBank records", Err: genome.ErrNoRecords}
	}
	return ranges, nil
}

// recordAccession picks the record identifier: the first ACCESSION token,
// then the LOCUS name, then a positional placeholder.
func recordAccession(acc, locus string, index int) string {
	if acc != "" && !strings.EqualFold(acc, "unknown") {
		return acc
	}
	if locus != "" {
		return locus
	}
	return fmt.Sprintf("Unknown_%d", index+1)
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
