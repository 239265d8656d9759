package genbank

import (
	"strconv"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// skippedTypes never become graph nodes.
var skippedTypes = map[string]bool{
	"source": true,
	"exon":   true,
	"intron": true,
	"5'UTR":  true,
	"3'UTR":  true,
}

// aliasQualifiers contribute their values to a feature's aliases.
var aliasQualifiers = map[string]bool{
	"gene":          true,
	"locus_tag":     true,
	"old_locus_tag": true,
	"standard_name": true,
	"EC_number":     true,
	"transcript_id": true,
	"protein_id":    true,
}

// classifier turns raw GenBank features into assembly candidates. Gene
// identity comes from locus_tag, or from gene for Ensembl records; the other
// field is kept as the secondary identifier.
type classifier struct {
	ensembl bool
}

func newClassifier(source string) classifier {
	return classifier{ensembl: strings.EqualFold(source, "ensembl")}
}

func (c classifier) idSources(typ string) string {
	switch typ {
	case genome.TypeCDS:
		return "protein_id"
	case genome.TypeMRNA:
		return "transcript_id"
	}
	if c.ensembl {
		return "gene, then locus_tag"
	}
	return "locus_tag, then gene"
}

// classified is a candidate plus the ontology terms it references. Terms are
// resolved only once the record is accepted.
type classified struct {
	cand    *genome.Candidate
	terms   []string
	dropped bool // pseudo CDS or mRNA
}

func (c classifier) classify(accession string, rf *RawFeature) classified {
	q := &rf.Qualifiers
	f := &genome.Feature{
		Type:          rf.Type,
		Location:      rf.Segments,
		OntologyTerms: make(map[string]map[string]string),
	}
	cand := &genome.Candidate{
		Feature:   f,
		Accession: accession,
		Text:      rf.Text,
		IDSources: c.idSources(rf.Type),
	}
	out := classified{cand: cand}

	primary, secondary := q.Get("locus_tag"), q.Get("gene")
	if c.ensembl {
		primary, secondary = secondary, primary
	}
	pseudo := q.Has("pseudo")

	switch rf.Type {
	case genome.TypeGene:
		if pseudo {
			f.Type = genome.TypePseudogene
		}
		f.ID = primary
		if f.ID == "" {
			f.ID = secondary
		}
		cand.GeneID2 = secondary
	case genome.TypeCDS:
		f.ID = q.Get("protein_id")
		cand.TranscriptID = q.Get("transcript_id")
		f.ProteinTranslation = strings.Join(strings.Fields(q.Get("translation")), "")
		if n, err := strconv.Atoi(q.Get("codon_start")); err == nil && n >= 1 && n <= 3 {
			cand.CodonOffset = n - 1
		}
		if n, err := strconv.Atoi(q.Get("transl_table")); err == nil {
			cand.GeneticCode = n
		}
		out.dropped = pseudo
	case genome.TypeMRNA:
		f.ID = q.Get("transcript_id")
		cand.TranscriptID = f.ID
		out.dropped = pseudo
	}
	if rf.Type != genome.TypeGene {
		cand.ParentGene = primary
		cand.ParentGene2 = secondary
	}

	product := q.Get("product")
	cand.Product = product
	if product != "" {
		f.Functions = append(f.Functions, product)
	}
	f.Functions = appendUnique(f.Functions, q.Values("function")...)
	f.Note = strings.Join(q.Values("note"), "; ")

	for _, e := range q.All() {
		if e.Flag || e.Value == "" {
			continue
		}
		switch {
		case aliasQualifiers[e.Key]:
			f.Aliases = appendUnique(f.Aliases, e.Value)
		case e.Key == "gene_synonym":
			for _, s := range strings.Split(e.Value, ";") {
				if s = strings.TrimSpace(s); s != "" {
					f.Aliases = appendUnique(f.Aliases, s)
				}
			}
		case e.Key == "db_xref":
			if term, ok := ontologyTerm(e.Value); ok {
				out.terms = append(out.terms, term)
			} else {
				f.Aliases = appendUnique(f.Aliases, e.Value)
			}
		}
	}
	return out
}

// ontologyTerm recognizes GO and PO cross references and normalizes the
// prefix to upper case.
func ontologyTerm(xref string) (string, bool) {
	src, id, ok := strings.Cut(strings.TrimSpace(xref), ":")
	if !ok {
		return "", false
	}
	src = strings.ToUpper(strings.TrimSpace(src))
	if src != "GO" && src != "PO" {
		return "", false
	}
	return src + ":" + strings.TrimSpace(id), true
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
