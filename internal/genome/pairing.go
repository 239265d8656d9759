package genome

// pairingStrategy pairs CDS and mRNA records sharing a non-empty key when
// exactly one of each carries that key value.
type pairingStrategy struct {
	name string
	key  func(*bundle) string
}

// pairingStrategies run in order over the records left unpaired by the
// previous strategy. Pairing by product is a weak heuristic: paralogous
// transcripts with identical product descriptions can be mis-paired, and
// only groups with exactly one CDS and one mRNA per product are paired.
var pairingStrategies = []pairingStrategy{
	{name: "transcript_id", key: func(b *bundle) string { return b.cand.TranscriptID }},
	{name: "product", key: func(b *bundle) string { return b.cand.Product }},
}

type pair struct {
	cds  *bundle
	mrna *bundle
}

func (s pairingStrategy) pair(cdss, mrnas []*bundle) (paired []pair, leftCDS, leftMRNA []*bundle) {
	cdsByKey := make(map[string][]*bundle)
	mrnaByKey := make(map[string][]*bundle)
	for _, c := range cdss {
		if k := s.key(c); k != "" {
			cdsByKey[k] = append(cdsByKey[k], c)
		}
	}
	for _, m := range mrnas {
		if k := s.key(m); k != "" {
			mrnaByKey[k] = append(mrnaByKey[k], m)
		}
	}

	used := make(map[*bundle]bool)
	for _, c := range cdss {
		k := s.key(c)
		if k == "" || len(cdsByKey[k]) != 1 || len(mrnaByKey[k]) != 1 {
			continue
		}
		m := mrnaByKey[k][0]
		paired = append(paired, pair{cds: c, mrna: m})
		used[c] = true
		used[m] = true
	}
	for _, c := range cdss {
		if !used[c] {
			leftCDS = append(leftCDS, c)
		}
	}
	for _, m := range mrnas {
		if !used[m] {
			leftMRNA = append(leftMRNA, m)
		}
	}
	return paired, leftCDS, leftMRNA
}

// pairByElimination pairs the last CDS and mRNA of a group when exactly one
// of each remains.
func pairByElimination(cdss, mrnas []*bundle) (paired []pair, leftCDS, leftMRNA []*bundle) {
	if len(cdss) == 1 && len(mrnas) == 1 {
		return []pair{{cds: cdss[0], mrna: mrnas[0]}}, nil, nil
	}
	return nil, cdss, mrnas
}

// pairGroup runs every strategy over one group, then elimination when the
// group shares a gene or gene hint.
func pairGroup(cdss, mrnas []*bundle, eliminate bool) (paired []pair, leftCDS, leftMRNA []*bundle) {
	leftCDS, leftMRNA = cdss, mrnas
	for _, s := range pairingStrategies {
		if len(leftCDS) == 0 || len(leftMRNA) == 0 {
			break
		}
		var p []pair
		p, leftCDS, leftMRNA = s.pair(leftCDS, leftMRNA)
		paired = append(paired, p...)
	}
	if !eliminate {
		return paired, leftCDS, leftMRNA
	}
	p, leftCDS, leftMRNA := pairByElimination(leftCDS, leftMRNA)
	return append(paired, p...), leftCDS, leftMRNA
}

// pairingGroup collects unpaired records that belong to the same gene, or
// that name the same missing gene, or that name no gene at all.
type pairingGroup struct {
	gene  *bundle
	hint  string
	cdss  []*bundle
	mrnas []*bundle
}

// keyed reports whether the group's records share a gene or gene hint.
// Records naming no gene at all only pair through transcript_id or product.
func (g *pairingGroup) keyed() bool {
	return g.gene != nil || g.hint != ""
}

func (g *pairingGroup) label() string {
	switch {
	case g.gene != nil:
		return g.gene.f.ID
	case g.hint != "":
		return g.hint
	}
	return "(none)"
}

type groupKey struct {
	gene *bundle
	hint string
}

func pairingKey(b *bundle) groupKey {
	if b.gene != nil {
		return groupKey{gene: b.gene}
	}
	if b.cand.ParentGene != "" {
		return groupKey{hint: b.cand.ParentGene}
	}
	return groupKey{hint: b.cand.ParentGene2}
}

// pairOrphans links CDS records without an mRNA to mRNA records without a
// CDS, within groups sharing a gene.
func (a *Assembler) pairOrphans() {
	groups := make(map[groupKey]*pairingGroup)
	var order []groupKey
	group := func(b *bundle) *pairingGroup {
		k := pairingKey(b)
		g, ok := groups[k]
		if !ok {
			g = &pairingGroup{gene: k.gene, hint: k.hint}
			groups[k] = g
			order = append(order, k)
		}
		return g
	}
	for _, b := range a.bundles {
		switch {
		case b.f.Type == TypeCDS && b.mrna == nil:
			g := group(b)
			g.cdss = append(g.cdss, b)
		case b.f.Type == TypeMRNA && b.cds == nil:
			g := group(b)
			g.mrnas = append(g.mrnas, b)
		}
	}

	for _, k := range order {
		g := groups[k]
		if len(g.cdss) == 0 || len(g.mrnas) == 0 {
			continue
		}
		paired, leftCDS, leftMRNA := pairGroup(g.cdss, g.mrnas, g.keyed())
		for _, p := range paired {
			p.cds.mrna = p.mrna
			p.mrna.cds = p.cds
		}
		if g.keyed() && len(leftCDS) > 0 && len(leftMRNA) > 0 {
			a.report.Warnf(WarnUnpaired, leftCDS[0].cand.Accession, g.label(),
				"could not pair %d mRNA(s) with %d CDS(s)", len(leftMRNA), len(leftCDS))
		}
	}
}
