package genbank

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/genome-import/internal/genome"
)

// Options configure a GenBank import.
type Options struct {
	Source            string // "Ensembl" switches gene identity to the gene qualifier
	GeneticCode       int
	GenerateIDs       bool
	Terms             genome.TermDictionary
	ExcludeOntologies bool
	Workers           int // record parsing workers, 0 for runtime.NumCPU()
}

// RecordError is a fatal problem that caused one record to be skipped.
type RecordError struct {
	Index     int
	Accession string
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index+1, e.Accession, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a GenBank import.
type Result struct {
	Genome       *genome.Genome
	Contigs      *genome.ContigSet
	Records      []Metadata
	RecordErrors []*RecordError
}

// Importer reads GenBank flat files into an assembled feature graph.
type Importer struct {
	opts   Options
	cls    classifier
	logger *zap.Logger
}

// NewImporter creates an importer.
func NewImporter(opts Options) *Importer {
	return &Importer{
		opts:   opts,
		cls:    newClassifier(opts.Source),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used by the importer and its assembler.
func (im *Importer) SetLogger(logger *zap.Logger) {
	im.logger = logger
}

// Import reads r to the end and imports every record in it.
func (im *Importer) Import(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GenBank input: %w", err)
	}
	return im.ImportBytes(data)
}

// ImportBytes imports every record in data. A record that fails to parse or
// classify is skipped and reported; the import fails only when no record
// survives.
func (im *Importer) ImportBytes(data []byte) (*Result, error) {
	ranges, err := Segment(data)
	if err != nil {
		return nil, err
	}

	asm, err := genome.NewAssembler(genome.NewContigSet(), genome.Options{
		GeneticCode:       im.opts.GeneticCode,
		GenerateIDs:       im.opts.GenerateIDs,
		Linkage:           genome.LinkByHints,
		Terms:             im.opts.Terms,
		ExcludeOntologies: im.opts.ExcludeOntologies,
	})
	if err != nil {
		return nil, err
	}
	asm.SetLogger(im.logger)

	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i, rg := range ranges {
			items <- WorkItem{Seq: i, Range: rg, Text: string(data[rg.Start:rg.End])}
		}
	}()

	res := &Result{}
	organism := ""
	err = OrderedCollect(ParallelParse(items, im.opts.Workers), func(r WorkResult) error {
		if r.Err == nil {
			r.Err = im.commit(asm, r.Record)
		}
		if r.Err != nil {
			re := &RecordError{Index: r.Seq, Accession: r.Range.Accession, Err: r.Err}
			res.RecordErrors = append(res.RecordErrors, re)
			asm.Report().Warnf(genome.WarnRecordSkipped, r.Range.Accession, "", "record skipped: %v", r.Err)
			return nil
		}

		md := r.Record.Metadata
		if md.Organism != "" {
			if organism == "" {
				organism = md.Organism
			} else if md.Organism != organism {
				asm.Report().Warnf(genome.WarnRecordMetadata, md.Accession, "",
					"organism %q differs from %q in earlier records", md.Organism, organism)
			}
		}
		res.Records = append(res.Records, md)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Records) == 0 {
		return nil, fmt.Errorf("no GenBank record could be imported: %w", res.RecordErrors[0])
	}

	g, err := asm.Assemble()
	if err != nil {
		return nil, err
	}
	res.Genome = g
	res.Contigs = asm.Contigs()

	im.logger.Info("imported GenBank records",
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.RecordErrors)),
		zap.Int("features", len(g.All())))
	return res, nil
}

// commit classifies the features of a parsed record and hands them to the
// assembler. Nothing reaches the assembler unless the whole record is valid.
func (im *Importer) commit(asm *genome.Assembler, rec *Record) error {
	accession := rec.Metadata.Accession
	pending := append([]genome.Warning(nil), rec.Warnings...)
	var accepted []classified

	for _, rf := range rec.Features {
		if skippedTypes[rf.Type] {
			continue
		}
		c := im.cls.classify(accession, rf)
		f := c.cand.Feature
		if c.dropped {
			pending = append(pending, genome.Warning{
				Kind:      genome.WarnPseudoDropped,
				Accession: accession,
				FeatureID: f.ID,
				Message:   fmt.Sprintf("pseudo %s at %s dropped", rf.Type, rf.Location),
			})
			continue
		}

		switch rf.Type {
		case genome.TypeGene, genome.TypeCDS, genome.TypeMRNA:
			if err := asm.AssignID(c.cand); err != nil {
				return err
			}
		default:
			if f.ID == "" {
				f.ID = asm.IDs().Allocate(f.Type)
			}
		}

		for _, n := range rf.Notes {
			pending = append(pending, genome.Warning{Kind: n.Kind, Accession: accession, FeatureID: f.ID, Message: n.String()})
		}
		for _, b := range rf.Bare {
			pending = append(pending, genome.Warning{
				Kind:      genome.WarnBareQualifier,
				Accession: accession,
				FeatureID: f.ID,
				Message:   fmt.Sprintf("qualifier %q does not follow the key=value format", b),
			})
		}
		accepted = append(accepted, c)
	}

	if err := asm.Contigs().Add(rec.Contig); err != nil {
		return &genome.FormatError{Accession: accession, Msg: err.Error()}
	}

	report := asm.Report()
	for _, w := range pending {
		report.Add(w)
	}
	xref := asm.Ontology()
	for _, c := range accepted {
		f := c.cand.Feature
		for _, term := range c.terms {
			if !xref.Resolve(f.OntologyTerms, term, "") {
				report.Warnf(genome.WarnTermNotFound, accession, f.ID, "ontology term %s not found", term)
			}
		}
		if err := asm.Add(c.cand); err != nil {
			return err
		}
	}
	return nil
}
