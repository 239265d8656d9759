package genome

import "sort"

type childKind int

const (
	childExon childKind = iota
	childUTR5
	childUTR3
	childCodon
)

// Child records that only shape their parent's location.
var childRecordTypes = map[string]childKind{
	"exon":            childExon,
	"five_prime_UTR":  childUTR5,
	"three_prime_UTR": childUTR3,
	"start_codon":     childCodon,
	"stop_codon":      childCodon,
}

type fragment struct {
	seg    Segment
	offset int // codon offset when this fragment is the 5'-most one
}

// bundle is the accumulation-phase state of one feature: the feature under
// construction, its own location fragments, folded child records and links
// to related bundles. Links become identifier strings at freeze time.
type bundle struct {
	f    *Feature
	cand *Candidate

	fragments []fragment
	ordered   bool // fragments arrive in reading order
	exons     []Segment
	utr5      []Segment
	utr3      []Segment
	codons    []Segment

	gene     *bundle
	mrna     *bundle // CDS -> mRNA
	cds      *bundle // mRNA -> CDS
	cdss     []*bundle
	mrnas    []*bundle
	children []*bundle

	offset      int
	code        int
	synthesized bool
}

func newBundle(c *Candidate, ordered bool) *bundle {
	b := &bundle{f: c.Feature, cand: c, ordered: ordered, code: c.GeneticCode}
	b.addFragments(c.Feature.Location, c.CodonOffset)
	return b
}

func (b *bundle) addFragments(segs []Segment, offset int) {
	for i, s := range segs {
		fr := fragment{seg: s}
		if i == 0 {
			fr.offset = offset
		}
		b.fragments = append(b.fragments, fr)
	}
}

func (b *bundle) attach(kind childKind, segs []Segment) {
	switch kind {
	case childExon:
		b.exons = append(b.exons, segs...)
	case childUTR5:
		b.utr5 = append(b.utr5, segs...)
	case childUTR3:
		b.utr3 = append(b.utr3, segs...)
	case childCodon:
		b.codons = append(b.codons, segs...)
	}
}

// ownLocation returns the feature's own fragments in reading order and sets
// the codon offset from the 5'-most fragment.
func (b *bundle) ownLocation() []Segment {
	frags := make([]fragment, len(b.fragments))
	copy(frags, b.fragments)
	if !b.ordered && len(frags) > 1 {
		segs := make([]Segment, len(frags))
		for i, fr := range frags {
			segs[i] = fr.seg
		}
		if uniformStrand(segs) {
			reverse := segs[0].Strand == Reverse
			sort.SliceStable(frags, func(i, j int) bool {
				if reverse {
					return frags[i].seg.High() > frags[j].seg.High()
				}
				return frags[i].seg.Low() < frags[j].seg.Low()
			})
		}
	}
	segs := make([]Segment, len(frags))
	for i, fr := range frags {
		segs[i] = fr.seg
	}
	if len(frags) > 0 {
		b.offset = frags[0].offset
	}
	return segs
}

// uniformStrand reports whether all segments share one contig and strand.
func uniformStrand(segs []Segment) bool {
	for _, s := range segs[1:] {
		if s.ContigID != segs[0].ContigID || s.Strand != segs[0].Strand {
			return false
		}
	}
	return true
}

// orderSegments returns segs sorted 5' to 3' when they share a contig and
// strand, and in input order otherwise.
func orderSegments(segs []Segment) []Segment {
	out := make([]Segment, len(segs))
	copy(out, segs)
	if len(out) < 2 || !uniformStrand(out) {
		return out
	}
	reverse := out[0].Strand == Reverse
	sort.SliceStable(out, func(i, j int) bool {
		if reverse {
			return out[i].High() > out[j].High()
		}
		return out[i].Low() < out[j].Low()
	})
	return out
}

// mergeAbutting joins consecutive segments where the second starts on the
// base right after the first ends.
func mergeAbutting(segs []Segment) []Segment {
	if len(segs) < 2 {
		return segs
	}
	out := []Segment{segs[0]}
	for _, s := range segs[1:] {
		last := &out[len(out)-1]
		if last.abuts(s) {
			last.Length += s.Length
			continue
		}
		out = append(out, s)
	}
	return out
}

// withCodons appends codon segments not already covered by segs.
func withCodons(segs, codons []Segment) []Segment {
	out := append([]Segment(nil), segs...)
	for _, c := range codons {
		covered := false
		for _, s := range out {
			if s.contains(c) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, c)
		}
	}
	return out
}

// spanOf returns one segment covering segs when they share a contig and
// strand, and a copy of segs otherwise.
func spanOf(segs []Segment) []Segment {
	if len(segs) == 0 {
		return nil
	}
	if !uniformStrand(segs) {
		return append([]Segment(nil), segs...)
	}
	lo, hi := segs[0].Low(), segs[0].High()
	for _, s := range segs[1:] {
		lo = min(lo, s.Low())
		hi = max(hi, s.High())
	}
	out := Segment{ContigID: segs[0].ContigID, Strand: segs[0].Strand, Start: lo, Length: hi - lo + 1}
	if out.Strand == Reverse {
		out.Start = hi
	}
	return []Segment{out}
}
