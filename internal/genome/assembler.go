package genome

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Linkage selects how parent relationships between features are found.
type Linkage int

const (
	// LinkByHints links features through shared gene identifiers
	// (locus_tag, gene) as GenBank records do.
	LinkByHints Linkage = iota
	// LinkByParent links features through explicit Parent references as
	// GFF3 does. A reference to an unknown feature is a FormatError.
	LinkByParent
)

// Options configure one assembly run.
type Options struct {
	GeneticCode       int // NCBI translation table; DefaultGeneticCode when zero
	GenerateIDs       bool
	Linkage           Linkage
	Terms             TermDictionary
	ExcludeOntologies bool
}

// Candidate is a classified raw feature ready for assembly. Adapters fill the
// Feature with identifiers, location and annotations, and set the hints that
// apply to their format.
type Candidate struct {
	Feature   *Feature
	Accession string
	Text      string // raw source text, reported with fatal errors
	IDSources string // qualifiers that supply this feature's identifier

	// Parents lists explicit parent identifiers (GFF3).
	Parents []string

	// Hints for LinkByHints.
	ParentGene   string // primary gene cross reference
	ParentGene2  string // secondary gene cross reference
	GeneID2      string // secondary identifier of a gene
	TranscriptID string
	Product      string

	CodonOffset int // bases to skip before the first codon
	GeneticCode int // per-feature translation table, 0 for the run default
}

// Assembler builds the feature graph of one import. Features are added in
// source order; Assemble links, synthesizes, translates and freezes them.
// An Assembler is not safe for concurrent use.
type Assembler struct {
	opts    Options
	contigs *ContigSet
	code    *GeneticCode
	codes   map[int]*GeneticCode
	ids     *IDAllocator
	xref    *CrossReferencer
	report  *Report
	logger  *zap.Logger

	bundles     []*bundle
	byID        map[string]*bundle
	synthByHint map[string]*bundle
	frozen      bool
}

// NewAssembler creates an assembler over contigs.
func NewAssembler(contigs *ContigSet, opts Options) (*Assembler, error) {
	if opts.GeneticCode == 0 {
		opts.GeneticCode = DefaultGeneticCode
	}
	code, err := NewGeneticCode(opts.GeneticCode)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	return &Assembler{
		opts:        opts,
		contigs:     contigs,
		code:        code,
		codes:       map[int]*GeneticCode{code.ID: code},
		ids:         NewIDAllocator(),
		xref:        NewCrossReferencer(opts.Terms, opts.ExcludeOntologies),
		report:      NewReport(logger),
		logger:      logger,
		byID:        make(map[string]*bundle),
		synthByHint: make(map[string]*bundle),
	}, nil
}

// SetLogger sets the logger for the assembler and its report.
func (a *Assembler) SetLogger(logger *zap.Logger) {
	a.logger = logger
	a.report.logger = logger
}

// IDs returns the run's identifier allocator.
func (a *Assembler) IDs() *IDAllocator { return a.ids }

// Ontology returns the run's ontology cross-referencer.
func (a *Assembler) Ontology() *CrossReferencer { return a.xref }

// Report returns the run's warning report.
func (a *Assembler) Report() *Report { return a.report }

// Contigs returns the contig set features are resolved against.
func (a *Assembler) Contigs() *ContigSet { return a.contigs }

// GeneticCode returns the run's default translation table.
func (a *Assembler) GeneticCode() *GeneticCode { return a.code }

// AssignID gives c an identifier when it has none. Without identifier
// generation a missing identifier is an IdentityError.
func (a *Assembler) AssignID(c *Candidate) error {
	if c.Feature.ID != "" {
		return nil
	}
	if !a.opts.GenerateIDs {
		return &IdentityError{
			Accession:   c.Accession,
			Type:        c.Feature.Type,
			FeatureText: c.Text,
			Sources:     c.IDSources,
		}
	}
	c.Feature.ID = a.ids.Allocate(c.Feature.Type)
	return nil
}

// Add accumulates one feature. With LinkByParent, exon, UTR and codon
// records are folded into their parents, and records repeating an
// identifier of the same type become additional fragments of that feature.
func (a *Assembler) Add(c *Candidate) error {
	if a.frozen {
		return errors.New("assembler already finalized")
	}
	f := c.Feature
	if a.opts.Linkage == LinkByParent {
		if kind, ok := childRecordTypes[f.Type]; ok && len(c.Parents) > 0 {
			return a.attachChild(c, kind)
		}
	}
	if err := a.AssignID(c); err != nil {
		return err
	}
	if f.OntologyTerms == nil {
		f.OntologyTerms = make(map[string]map[string]string)
	}

	if a.opts.Linkage == LinkByParent {
		if existing, ok := a.byID[f.ID]; ok && existing.f.Type == f.Type {
			existing.addFragments(f.Location, c.CodonOffset)
			mergeAnnotations(existing.f, f)
			return nil
		}
	}

	b := newBundle(c, a.opts.Linkage == LinkByHints)
	if a.opts.Linkage == LinkByParent && len(c.Parents) > 0 {
		if err := a.linkParents(b, c); err != nil {
			return err
		}
	}
	a.register(b)
	return nil
}

func (a *Assembler) register(b *bundle) {
	a.bundles = append(a.bundles, b)
	if _, ok := a.byID[b.f.ID]; !ok {
		a.byID[b.f.ID] = b
	}
}

func (a *Assembler) lookupParents(c *Candidate) ([]*bundle, error) {
	parents := make([]*bundle, 0, len(c.Parents))
	for _, id := range c.Parents {
		p, ok := a.byID[id]
		if !ok {
			return nil, &FormatError{
				Accession:   c.Accession,
				FeatureText: c.Text,
				Msg:         fmt.Sprintf("parent %q of %s %q is not defined before it", id, c.Feature.Type, c.Feature.ID),
			}
		}
		parents = append(parents, p)
	}
	return parents, nil
}

func (a *Assembler) linkParents(b *bundle, c *Candidate) error {
	parents, err := a.lookupParents(c)
	if err != nil {
		return err
	}
	p := parents[0]
	switch {
	case b.f.Type == TypeCDS && p.f.Type == TypeMRNA:
		b.mrna = p
		if p.cds == nil {
			p.cds = b
		}
		b.gene = p.gene
	case isGeneType(p.f.Type):
		b.gene = p
	case p.gene != nil:
		b.gene = p.gene
	}
	return nil
}

func (a *Assembler) attachChild(c *Candidate, kind childKind) error {
	parents, err := a.lookupParents(c)
	if err != nil {
		return err
	}
	for _, p := range parents {
		p.attach(kind, c.Feature.Location)
	}
	return nil
}

// Assemble runs the hierarchy pass and returns the frozen genome. It may be
// called once.
func (a *Assembler) Assemble() (*Genome, error) {
	if a.frozen {
		return nil, errors.New("assembler already finalized")
	}
	a.frozen = true

	if err := a.buildLocations(); err != nil {
		return nil, err
	}
	a.translateAll()
	if a.opts.Linkage == LinkByHints {
		a.resolveGeneHints()
	}
	a.pairOrphans()
	if err := a.linkGenes(); err != nil {
		return nil, err
	}
	a.propagateToGenes()
	a.flagMissedLinks()
	a.dedupe()

	g := a.freeze()
	a.logger.Info("assembled feature graph",
		zap.Int("genes", len(g.Genes)),
		zap.Int("mrnas", len(g.MRNAs)),
		zap.Int("cdss", len(g.CDSs)),
		zap.Int("non_coding", len(g.NonCoding)),
		zap.Int("warnings", len(g.Warnings)))
	return g, nil
}

// warn records a warning on the report and on the feature itself.
func (a *Assembler) warn(b *bundle, kind WarningKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	accession := ""
	if b.cand != nil {
		accession = b.cand.Accession
	}
	a.report.Add(Warning{Kind: kind, Accession: accession, FeatureID: b.f.ID, Message: msg})
	b.f.Warnings = append(b.f.Warnings, msg)
}

func (a *Assembler) translateAll() {
	for _, b := range a.bundles {
		if b.f.Type == TypeCDS {
			a.translate(b)
		}
	}
}

func (a *Assembler) translate(b *bundle) {
	code := a.code
	if b.code != 0 && b.code != code.ID {
		if c, ok := a.codes[b.code]; ok {
			code = c
		} else if c, err := NewGeneticCode(b.code); err == nil {
			a.codes[b.code] = c
			code = c
		} else {
			a.warn(b, WarnTranslationFailed, "genetic code %d is not valid, using %d", b.code, code.ID)
		}
	}

	t := code.Translate(b.f.DNASequence, b.offset)
	if b.offset == 0 && t.FirstCodon != "" && !t.StartOK {
		a.warn(b, WarnStartCodon, "first codon %s is not a start codon in table %d", t.FirstCodon, code.ID)
	}
	if !t.Triplet {
		a.warn(b, WarnNotTriplet, "coding length %d is not a multiple of three", int64(len(b.f.DNASequence))-int64(b.offset))
	}
	if t.Protein == "" {
		a.warn(b, WarnTranslationFailed, "translation produced no amino acids")
	}

	supplied := strings.TrimSuffix(b.f.ProteinTranslation, "*")
	if supplied != "" {
		if !strings.EqualFold(supplied, t.Protein) {
			a.warn(b, WarnTranslationMatch, "supplied translation differs from translation of the sequence")
		}
		b.f.ProteinTranslation = supplied
	} else {
		b.f.ProteinTranslation = t.Protein
	}
	b.f.ProteinTranslationLength = len(b.f.ProteinTranslation)
}

func (a *Assembler) dedupe() {
	renames := Deduplicate(a.bundles, func(b *bundle) *string { return &b.f.ID })
	for _, r := range renames {
		b := a.bundles[r.Index]
		b.f.Warnings = append(b.f.Warnings, fmt.Sprintf("renamed from duplicate id %s", r.Old))
		a.logger.Debug("renamed duplicate feature id",
			zap.String("old", r.Old), zap.String("new", r.New))
	}
}

func (a *Assembler) freeze() *Genome {
	g := &Genome{
		Counts:            make(map[string]int),
		OntologiesPresent: a.xref.Present(),
		TermsNotFound:     a.xref.NotFound(),
		Warnings:          a.report.Warnings(),
		byID:              make(map[string]*Feature, len(a.bundles)),
	}
	for _, b := range a.bundles {
		f := b.f
		if b.gene != nil && b.gene != b {
			f.ParentGene = b.gene.f.ID
		}
		if b.mrna != nil {
			f.ParentMRNA = b.mrna.f.ID
		}
		if b.cds != nil {
			f.CDS = b.cds.f.ID
		}
		f.CDSs = bundleIDs(b.cdss)
		f.MRNAs = bundleIDs(b.mrnas)
		f.Children = bundleIDs(b.children)

		switch f.Type {
		case TypeGene:
			g.Genes = append(g.Genes, f)
			if len(f.CDSs) > 0 {
				g.Counts["protein_encoding_gene"]++
			} else {
				g.Counts["non_protein_encoding_gene"]++
			}
		case TypeMRNA:
			g.MRNAs = append(g.MRNAs, f)
		case TypeCDS:
			g.CDSs = append(g.CDSs, f)
		default:
			g.NonCoding = append(g.NonCoding, f)
		}
		g.Counts[f.Type]++
		g.byID[f.ID] = f
	}
	return g
}

func bundleIDs(bs []*bundle) []string {
	if len(bs) == 0 {
		return nil
	}
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.f.ID
	}
	return out
}

func isGeneType(t string) bool {
	return t == TypeGene || t == TypePseudogene || strings.HasSuffix(t, "_gene")
}

// mergeAnnotations folds annotations of a repeated record into dst.
func mergeAnnotations(dst, src *Feature) {
	dst.Functions = unionStrings(dst.Functions, src.Functions)
	dst.Aliases = unionStrings(dst.Aliases, src.Aliases)
	mergeTerms(dst.OntologyTerms, src.OntologyTerms)
	if dst.Note == "" {
		dst.Note = src.Note
	}
	if dst.ProteinTranslation == "" {
		dst.ProteinTranslation = src.ProteinTranslation
	}
}

// unionStrings appends values of src missing from dst, keeping order.
func unionStrings(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]bool, len(dst)+len(src))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if !seen[v] {
			seen[v] = true
			dst = append(dst, v)
		}
	}
	return dst
}

func mergeTerms(dst, src map[string]map[string]string) {
	for source, terms := range src {
		if dst[source] == nil {
			dst[source] = make(map[string]string, len(terms))
		}
		for id, name := range terms {
			if _, ok := dst[source][id]; !ok {
				dst[source][id] = name
			}
		}
	}
}

func cloneTerms(src map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(src))
	mergeTerms(out, src)
	return out
}
