package genome

import "sort"

// spanIndex answers range overlap queries over gene spans of one contig and
// strand using a sorted slice with a suffix maximum of span ends.
type spanIndex struct {
	spans  []span
	maxEnd []int64 // maxEnd[i] = max(end) for spans[i:]
}

type span struct {
	start int64
	end   int64
	gene  *bundle
}

func buildSpanIndex(spans []span) *spanIndex {
	if len(spans) == 0 {
		return &spanIndex{}
	}
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	maxEnd := make([]int64, len(spans))
	maxEnd[len(spans)-1] = spans[len(spans)-1].end
	for i := len(spans) - 2; i >= 0; i-- {
		maxEnd[i] = spans[i].end
		if maxEnd[i+1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i+1]
		}
	}
	return &spanIndex{spans: spans, maxEnd: maxEnd}
}

// overlapping returns genes whose span intersects [lo, hi].
func (t *spanIndex) overlapping(lo, hi int64) []*bundle {
	if len(t.spans) == 0 {
		return nil
	}
	// Candidates are spans starting at or before hi.
	n := sort.Search(len(t.spans), func(i int) bool {
		return t.spans[i].start > hi
	})

	var out []*bundle
	for i := n - 1; i >= 0; i-- {
		if t.maxEnd[i] < lo {
			break
		}
		if t.spans[i].end >= lo {
			out = append(out, t.spans[i].gene)
		}
	}
	return out
}

type spanKey struct {
	contig string
	strand Strand
}

// geneSpans indexes gene spans per contig and strand.
type geneSpans map[spanKey]*spanIndex

func indexGeneSpans(genes []*bundle) geneSpans {
	grouped := make(map[spanKey][]span)
	for _, g := range genes {
		for _, s := range g.f.Location {
			k := spanKey{s.ContigID, s.Strand}
			grouped[k] = append(grouped[k], span{start: s.Low(), end: s.High(), gene: g})
		}
	}
	idx := make(geneSpans, len(grouped))
	for k, spans := range grouped {
		idx[k] = buildSpanIndex(spans)
	}
	return idx
}

// overlapping returns distinct genes overlapping any segment of segs.
func (g geneSpans) overlapping(segs []Segment) []*bundle {
	seen := make(map[*bundle]bool)
	var out []*bundle
	for _, s := range segs {
		t, ok := g[spanKey{s.ContigID, s.Strand}]
		if !ok {
			continue
		}
		for _, b := range t.overlapping(s.Low(), s.High()) {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}
