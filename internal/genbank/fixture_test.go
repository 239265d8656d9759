package genbank

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Two valid records and a trailing truncated one whose gene runs past the
// end of its sequence.
const testGenBank = `LOCUS       NC_000001                 60 bp    DNA     circular BCT 01-JAN-2020
DEFINITION  Test organism chromosome,
            complete genome.
ACCESSION   NC_000001
VERSION     NC_000001.1
SOURCE      Escherichia coli
  ORGANISM  Escherichia coli
            Bacteria; Proteobacteria.
FEATURES             Location/Qualifiers
     source          1..60
                     /organism="Escherichia coli"
     gene            1..18
                     /gene="abcA"
                     /locus_tag="L1"
     CDS             1..18
                     /gene="abcA"
                     /locus_tag="L1"
                     /protein_id="XP_1"
                     /product="kinase"
                     /db_xref="GO:0016301"
                     /db_xref="GeneID:945"
                     /translation="MKPGF"
     gene            complement(31..42)
                     /locus_tag="L2"
     CDS             complement(31..42)
                     /locus_tag="L2"
                     /protein_id="XP_2"
                     /note="a note that spans
                     two lines"
                     /codon_start=1
     tRNA            19..30
                     /locus_tag="L3"
                     /product="tRNA-Ala"
ORIGIN
        1 atgaaacccg ggttttaagc gcgcgcgcgc ttaatgccac atgcgcgcgc gcgcgcgcgc
//
LOCUS       NC_000002                 60 bp    DNA     linear   BCT 01-JAN-2020
DEFINITION  Plasmid.
ACCESSION   NC_000002
VERSION     NC_000002.1
SOURCE      Escherichia coli
  ORGANISM  Escherichia coli
FEATURES             Location/Qualifiers
     mRNA            <1..>30
                     /transcript_id="XM_001"
     CDS             1..18
                     /transcript_id="XM_001"
                     /protein_id="XP_001"
                     /experimental
     gene            31..42
                     /locus_tag="P1"
                     /pseudo
     CDS             31..42
                     /locus_tag="P1"
                     /pseudo
ORIGIN
        1 atgaaacccg ggttttaagc gcgcgcgcgc ttaatgccac atgcgcgcgc gcgcgcgcgc
//
LOCUS       BAD1                      20 bp    DNA     linear   BCT 01-JAN-2020
ACCESSION   unknown
FEATURES             Location/Qualifiers
     gene            10..25
                     /locus_tag="B1"
ORIGIN
        1 atgaaacccg ggttttaagc
`

const testSequence = "ATGAAACCCGGGTTTTAA" + "GCGCGCGCGCGC" + "TTAATGCCACAT" + "GCGCGCGCGCGCGCGCGC"

type termMap map[string]string

func (m termMap) Lookup(_, id string) (string, bool) {
	name, ok := m[id]
	return name, ok
}

func recordText(t *testing.T, index int) (string, RecordRange) {
	t.Helper()
	data := []byte(testGenBank)
	ranges, err := Segment(data)
	require.NoError(t, err)
	require.Greater(t, len(ranges), index)
	rg := ranges[index]
	return string(data[rg.Start:rg.End]), rg
}
