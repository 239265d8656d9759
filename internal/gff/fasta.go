package gff

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/inodb/genome-import/internal/genome"
)

// LoadContigs reads FASTA sequences into a contig set. Each header line
// starts a contig named by its first word. Bases are uppercased.
func LoadContigs(r io.Reader) (*genome.ContigSet, error) {
	cs := genome.NewContigSet()
	fr := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	for {
		s, err := fr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read FASTA: %w", err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("read FASTA: unexpected sequence type %T", s)
		}
		c := &genome.Contig{
			ID:          contigName(ls.ID),
			Sequence:    lettersToString(ls.Seq),
			Description: ls.Desc,
		}
		if c.Length() == 0 {
			return nil, &genome.FormatError{Accession: c.ID, Msg: "contig has an empty sequence"}
		}
		if err := cs.Add(c); err != nil {
			return nil, &genome.FormatError{Accession: c.ID, Msg: err.Error()}
		}
	}
	if cs.Len() == 0 {
		return nil, &genome.FormatError{Msg: "FASTA input holds no sequences", Err: genome.ErrNoRecords}
	}
	return cs, nil
}

func lettersToString(letters alphabet.Letters) string {
	b := make([]byte, len(letters))
	for i, l := range letters {
		b[i] = byte(l)
	}
	return strings.ToUpper(string(b))
}

// contigName reduces PATRIC style names such as "accn|NC_000913" to the
// accession.
func contigName(id string) string {
	if i := strings.LastIndexByte(id, '|'); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}
