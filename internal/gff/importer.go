package gff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/genome-import/internal/genome"
)

// Options configure a GFF3 import.
type Options struct {
	GeneticCode       int
	GenerateIDs       bool
	Terms             genome.TermDictionary
	ExcludeOntologies bool
}

// Result is the outcome of a GFF3 import.
type Result struct {
	Genome  *genome.Genome
	Contigs *genome.ContigSet
	Lines   int
}

// Importer reads GFF3 and FASTA into an assembled feature graph.
type Importer struct {
	opts   Options
	logger *zap.Logger
}

// NewImporter creates an importer.
func NewImporter(opts Options) *Importer {
	return &Importer{opts: opts, logger: zap.NewNop()}
}

// SetLogger sets the logger used by the importer and its assembler.
func (im *Importer) SetLogger(logger *zap.Logger) {
	im.logger = logger
}

// Import reads feature lines from gffIn and contig sequences from fastaIn.
// When fastaIn is nil the ##FASTA section of the GFF3 stream is used. The
// first fatal error aborts the import.
func (im *Importer) Import(gffIn, fastaIn io.Reader) (*Result, error) {
	doc, err := Parse(gffIn)
	if err != nil {
		return nil, err
	}

	var contigs *genome.ContigSet
	switch {
	case fastaIn != nil:
		contigs, err = LoadContigs(fastaIn)
	case len(doc.FASTA) > 0:
		contigs, err = LoadContigs(bytes.NewReader(doc.FASTA))
	default:
		return nil, errors.New("no FASTA input and no ##FASTA section in the GFF3 stream")
	}
	if err != nil {
		return nil, err
	}
	im.logger.Info("loaded contigs", zap.Int("contigs", contigs.Len()))

	asm, err := genome.NewAssembler(contigs, genome.Options{
		GeneticCode:       im.opts.GeneticCode,
		GenerateIDs:       im.opts.GenerateIDs,
		Linkage:           genome.LinkByParent,
		Terms:             im.opts.Terms,
		ExcludeOntologies: im.opts.ExcludeOntologies,
	})
	if err != nil {
		return nil, err
	}
	asm.SetLogger(im.logger)

	cls := newClassifier(contigs)
	report := asm.Report()
	xref := asm.Ontology()
	for _, l := range doc.Lines {
		c, err := cls.classify(l)
		if err != nil {
			return nil, err
		}
		f := c.cand.Feature
		if c.dropped {
			report.Warnf(genome.WarnPseudoDropped, c.cand.Accession, f.ID, "line %d: pseudo CDS dropped", l.Num)
			continue
		}
		for _, w := range c.warnings {
			w.FeatureID = f.ID
			report.Add(w)
		}
		for _, t := range c.terms {
			if !xref.Resolve(f.OntologyTerms, t.id, t.name) {
				report.Warnf(genome.WarnTermNotFound, c.cand.Accession, f.ID, "ontology term %s not found", t.id)
			}
		}
		if err := asm.Add(c.cand); err != nil {
			return nil, fmt.Errorf("GFF3 line %d: %w", l.Num, err)
		}
	}

	g, err := asm.Assemble()
	if err != nil {
		return nil, err
	}
	im.logger.Info("imported GFF3",
		zap.Int("lines", len(doc.Lines)),
		zap.Int("features", len(g.All())))
	return &Result{Genome: g, Contigs: contigs, Lines: len(doc.Lines)}, nil
}
