package genome

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// ExtractSequence concatenates the bases under each segment in list order,
// reverse-complementing reverse-strand segments.
func ExtractSequence(contigs *ContigSet, segs []Segment) (string, error) {
	var b strings.Builder
	b.Grow(int(TotalLength(segs)))
	for _, s := range segs {
		c, ok := contigs.Get(s.ContigID)
		if !ok {
			return "", &FormatError{Msg: fmt.Sprintf("unknown contig %q", s.ContigID)}
		}
		lo := s.Low() - 1
		hi := lo + s.Length
		if lo < 0 || s.Length < 0 || hi > c.Length() {
			return "", &FormatError{Msg: fmt.Sprintf("segment %s outside contig %s of length %d", s, c.ID, c.Length())}
		}
		sub := strings.ToUpper(c.Sequence[lo:hi])
		if s.Strand == Reverse {
			sub = ReverseComplement(sub)
		}
		b.WriteString(sub)
	}
	return b.String(), nil
}

// SequenceMD5 returns the hex MD5 digest of the uppercased sequence.
func SequenceMD5(seq string) string {
	sum := md5.Sum([]byte(strings.ToUpper(seq)))
	return hex.EncodeToString(sum[:])
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
// IUPAC ambiguity codes are complemented; unknown symbols become N.
func ReverseComplement(seq string) string {
	n := len(seq)
	var buf [64]byte
	var result []byte
	if n <= len(buf) {
		result = buf[:n]
	} else {
		result = make([]byte, n)
	}
	for i := 0; i < n; i++ {
		result[i] = Complement(seq[n-1-i])
	}
	return string(result)
}

// Complement returns the complement of a single base, preserving case.
func Complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T', 'U':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	case 'R':
		return 'Y'
	case 'Y':
		return 'R'
	case 'K':
		return 'M'
	case 'M':
		return 'K'
	case 'B':
		return 'V'
	case 'V':
		return 'B'
	case 'D':
		return 'H'
	case 'H':
		return 'D'
	case 'S', 'W', 'N':
		return base
	case 'a':
		return 't'
	case 't', 'u':
		return 'a'
	case 'g':
		return 'c'
	case 'c':
		return 'g'
	case 'n':
		return 'n'
	default:
		return 'N'
	}
}
