package genome

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// LocationNote flags an irregular but accepted part of a location expression.
type LocationNote struct {
	Kind   WarningKind
	Detail string
}

func (n LocationNote) String() string {
	switch n.Kind {
	case WarnOrderLocation:
		return fmt.Sprintf("order() location %q merged into one composite location", n.Detail)
	case WarnBetweenBases:
		return fmt.Sprintf("between-bases location %q spans both flanking bases", n.Detail)
	case WarnPartialLocation:
		return fmt.Sprintf("partial location %q used as given", n.Detail)
	case WarnOneOfBases:
		return fmt.Sprintf("one-of-bases location %q read as the full range", n.Detail)
	}
	return n.Detail
}

// ParseLocation parses a GenBank location expression on a contig of the given
// length into segments ordered 5' to 3' along the mature feature.
//
// Supported forms: single positions, ranges (a..b), one-of ranges (a.b),
// between-base sites (a^b), partial bounds (<a, >b), join(...), order(...),
// and complement(...) both around the whole expression and on single members.
func ParseLocation(expr, contigID string, contigLength int64) ([]Segment, []LocationNote, error) {
	loc := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)
	if loc == "" {
		return nil, nil, &FormatError{Msg: "empty location"}
	}
	if strings.Contains(loc, ":") {
		return nil, nil, &FormatError{Msg: fmt.Sprintf("location %q references another entry", expr)}
	}

	var notes []LocationNote
	complementAll := false
	if inner, ok := unwrapOperator(loc, "complement"); ok {
		complementAll = true
		loc = inner
	}
	if inner, ok := unwrapOperator(loc, "join"); ok {
		loc = inner
	} else if inner, ok := unwrapOperator(loc, "order"); ok {
		loc = inner
		notes = append(notes, LocationNote{Kind: WarnOrderLocation, Detail: expr})
	}

	members := splitOnOuterCommas(loc)
	segs := make([]Segment, 0, len(members))
	for _, m := range members {
		seg, memberNotes, err := parseMember(m, complementAll, contigID, contigLength)
		if err != nil {
			return nil, nil, err
		}
		notes = append(notes, memberNotes...)
		segs = append(segs, seg)
	}

	if complementAll && len(segs) > 1 {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}
	return segs, notes, nil
}

func parseMember(member string, complementAll bool, contigID string, contigLength int64) (Segment, []LocationNote, error) {
	var notes []LocationNote

	span := member
	complemented := complementAll
	if inner, ok := unwrapOperator(span, "complement"); ok {
		complemented = true
		span = inner
	}
	if span == "" {
		return Segment{}, nil, &FormatError{Msg: "empty location member"}
	}
	if strings.ContainsAny(span, "(),") {
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("nested location operator in %q", member)}
	}

	if strings.ContainsAny(span, "<>") {
		notes = append(notes, LocationNote{Kind: WarnPartialLocation, Detail: member})
		span = strings.NewReplacer("<", "", ">", "").Replace(span)
	}

	var startText, endText string
	switch {
	case strings.Contains(span, "^"):
		parts := strings.Split(span, "^")
		if len(parts) != 2 {
			return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("cannot parse location %q", member)}
		}
		startText, endText = parts[0], parts[1]
		notes = append(notes, LocationNote{Kind: WarnBetweenBases, Detail: member})
	case strings.Count(span, ".") == 0:
		startText, endText = span, span
	case strings.Count(span, ".") == 1:
		parts := strings.Split(span, ".")
		startText, endText = parts[0], parts[1]
		notes = append(notes, LocationNote{Kind: WarnOneOfBases, Detail: member})
	case strings.Count(span, ".") == 2 && strings.Contains(span, ".."):
		parts := strings.Split(span, "..")
		startText, endText = parts[0], parts[1]
	default:
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("cannot parse location %q", member)}
	}

	start, err := strconv.ParseInt(startText, 10, 64)
	if err != nil {
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("non-numeric coordinate %q in location %q", startText, member)}
	}
	end, err := strconv.ParseInt(endText, 10, 64)
	if err != nil {
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("non-numeric coordinate %q in location %q", endText, member)}
	}
	if start > end {
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("start %d is after end %d in location %q", start, end, member)}
	}
	if start < 1 {
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("coordinate %d below 1 in location %q", start, member)}
	}
	if end > contigLength {
		return Segment{}, nil, &FormatError{Msg: fmt.Sprintf("coordinate %d exceeds contig %s length %d", end, contigID, contigLength)}
	}

	seg := Segment{ContigID: contigID, Start: start, Strand: Forward, Length: end - start + 1}
	if complemented {
		seg.Strand = Reverse
		seg.Start = end
	}
	return seg, notes, nil
}

// unwrapOperator strips op( ... ) when the closing parenthesis of the
// operator is the last character of s.
func unwrapOperator(s, op string) (string, bool) {
	prefix := op + "("
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, ")") {
		return "", false
	}
	depth := 0
	for i := len(op); i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	return s[len(prefix) : len(s)-1], true
}

// splitOnOuterCommas splits s on commas that are not inside parentheses.
func splitOnOuterCommas(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}
