package genome

import "strings"

// resolveGeneHints links features to genes through their primary and
// secondary gene cross references.
func (a *Assembler) resolveGeneHints() {
	byID := make(map[string]*bundle)
	byID2 := make(map[string]*bundle)
	for _, b := range a.bundles {
		if b.f.Type != TypeGene {
			continue
		}
		if _, ok := byID[b.f.ID]; !ok {
			byID[b.f.ID] = b
		}
		if id2 := b.cand.GeneID2; id2 != "" {
			if _, ok := byID2[id2]; !ok {
				byID2[id2] = b
			}
		}
	}

	lookup := func(m map[string]*bundle, key string) *bundle {
		if key == "" {
			return nil
		}
		return m[key]
	}
	for _, b := range a.bundles {
		if b.f.Type == TypeGene || b.gene != nil {
			continue
		}
		h1, h2 := b.cand.ParentGene, b.cand.ParentGene2
		for _, g := range []*bundle{lookup(byID, h1), lookup(byID2, h2), lookup(byID, h2), lookup(byID2, h1)} {
			if g != nil {
				b.gene = g
				break
			}
		}
	}
}

// linkGenes gives every CDS and mRNA a gene, synthesizing genes where none
// resolves, and fills the genes' back references.
func (a *Assembler) linkGenes() error {
	n := len(a.bundles)
	for i := 0; i < n; i++ {
		b := a.bundles[i]
		if b.f.Type != TypeCDS {
			continue
		}
		if b.gene == nil && b.mrna != nil {
			b.gene = b.mrna.gene
		}
		if b.gene == nil {
			g, err := a.synthesizeGene(b)
			if err != nil {
				return err
			}
			b.gene = g
		}
		if b.mrna != nil && b.mrna.gene == nil {
			b.mrna.gene = b.gene
		}
	}
	for i := 0; i < n; i++ {
		b := a.bundles[i]
		if b.f.Type != TypeMRNA || b.gene != nil {
			continue
		}
		g, err := a.synthesizeGene(b)
		if err != nil {
			return err
		}
		b.gene = g
	}

	for _, b := range a.bundles {
		g := b.gene
		if g == nil || g == b {
			continue
		}
		switch b.f.Type {
		case TypeCDS:
			g.cdss = append(g.cdss, b)
		case TypeMRNA:
			g.mrnas = append(g.mrnas, b)
		default:
			g.children = append(g.children, b)
		}
	}
	return nil
}

// synthesizeGene creates a gene for a CDS or mRNA that has none. Features
// naming the same missing gene share one synthesized gene; otherwise the
// gene takes the feature id with a "_gene" suffix.
func (a *Assembler) synthesizeGene(from *bundle) (*bundle, error) {
	hint := from.cand.ParentGene
	if hint == "" {
		hint = from.cand.ParentGene2
	}
	if hint != "" {
		if g, ok := a.synthByHint[hint]; ok {
			g.f.Location = spanOf(append(append([]Segment(nil), g.f.Location...), from.f.Location...))
			if err := a.resolveSequence(g); err != nil {
				return nil, err
			}
			return g, nil
		}
	}

	id := hint
	if id == "" {
		id = from.f.ID + "_gene"
	}
	f := &Feature{
		ID:            id,
		Type:          TypeGene,
		Location:      spanOf(from.f.Location),
		Functions:     append([]string(nil), from.f.Functions...),
		Aliases:       append([]string(nil), from.f.Aliases...),
		OntologyTerms: cloneTerms(from.f.OntologyTerms),
	}
	g := &bundle{
		f:           f,
		cand:        &Candidate{Feature: f, Accession: from.cand.Accession},
		synthesized: true,
	}
	if err := a.resolveSequence(g); err != nil {
		return nil, err
	}
	a.register(g)
	if hint != "" {
		a.synthByHint[hint] = g
	}
	a.warn(g, WarnGeneSynthesized, "gene synthesized for %s %s", from.f.Type, from.f.ID)
	return g, nil
}

// propagateToGenes copies CDS annotations up to their genes: the function
// when the gene has none, the longest translation, and the union of aliases
// and ontology terms.
func (a *Assembler) propagateToGenes() {
	for _, b := range a.bundles {
		if b.f.Type != TypeCDS || b.gene == nil {
			continue
		}
		g := b.gene.f
		if len(g.Functions) == 0 {
			g.Functions = append([]string(nil), b.f.Functions...)
		}
		if len(b.f.ProteinTranslation) > len(g.ProteinTranslation) {
			g.ProteinTranslation = b.f.ProteinTranslation
			g.ProteinTranslationLength = len(g.ProteinTranslation)
		}
		g.Aliases = unionStrings(g.Aliases, b.f.Aliases)
		if g.OntologyTerms == nil {
			g.OntologyTerms = make(map[string]map[string]string)
		}
		mergeTerms(g.OntologyTerms, b.f.OntologyTerms)
	}
}

// flagMissedLinks warns when a synthesized gene overlaps a source gene on
// the same strand, which usually means a cross reference did not match.
func (a *Assembler) flagMissedLinks() {
	var sourceGenes, synthesized []*bundle
	for _, b := range a.bundles {
		if b.f.Type != TypeGene {
			continue
		}
		if b.synthesized {
			synthesized = append(synthesized, b)
		} else {
			sourceGenes = append(sourceGenes, b)
		}
	}
	if len(synthesized) == 0 || len(sourceGenes) == 0 {
		return
	}
	idx := indexGeneSpans(sourceGenes)
	for _, g := range synthesized {
		hits := idx.overlapping(g.f.Location)
		if len(hits) == 0 {
			continue
		}
		names := make([]string, len(hits))
		for i, h := range hits {
			names[i] = h.f.ID
		}
		a.warn(g, WarnPossibleMissedLink, "synthesized gene overlaps gene(s) %s", strings.Join(names, ", "))
	}
}
