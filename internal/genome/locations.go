package genome

// buildLocations settles every feature's final location and sequence. CDS
// features go first so transcripts can build composites around them.
func (a *Assembler) buildLocations() error {
	for _, b := range a.bundles {
		if b.f.Type == TypeCDS {
			if err := a.finishLocation(b); err != nil {
				return err
			}
		}
	}
	for _, b := range a.bundles {
		if b.f.Type != TypeCDS {
			if err := a.finishLocation(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assembler) finishLocation(b *bundle) error {
	loc := b.ownLocation()
	switch {
	case len(b.exons) > 0:
		loc = orderSegments(b.exons)
	case b.f.Type == TypeCDS:
		if len(b.codons) > 0 {
			loc = mergeAbutting(orderSegments(withCodons(loc, b.codons)))
		}
	case len(b.utr5)+len(b.utr3)+len(b.codons) > 0:
		core := loc
		if b.cds != nil {
			core = b.cds.f.Location
		}
		pieces := make([]Segment, 0, len(b.utr5)+len(core)+len(b.utr3))
		pieces = append(pieces, orderSegments(b.utr5)...)
		pieces = append(pieces, core...)
		pieces = append(pieces, orderSegments(b.utr3)...)
		loc = mergeAbutting(orderSegments(withCodons(pieces, b.codons)))
	}
	b.f.Location = loc
	return a.resolveSequence(b)
}

func (a *Assembler) resolveSequence(b *bundle) error {
	seq, err := ExtractSequence(a.contigs, b.f.Location)
	if err != nil {
		if b.cand != nil {
			return WithContext(err, b.cand.Accession, b.cand.Text)
		}
		return err
	}
	b.f.DNASequence = seq
	b.f.DNASequenceLength = TotalLength(b.f.Location)
	b.f.MD5 = SequenceMD5(seq)
	return nil
}
