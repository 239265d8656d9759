package gff

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/genome-import/internal/genome"
)

const testSequence = "ATGAAACCCGGGTTTTAA" + "GCGCGCGCGCGC" + "TTAATGCCACAT" + "GCGCGCGCGCGCGCGCGC"

// A two-gene annotation: gene1 with one spliced transcript and a CDS in two
// fragments, gene2 on the reverse strand with a CDS and a tRNA.
const testGFF = "##gff-version 3\n" +
	"chr1\ttest\tgene\t1\t30\t.\t+\t.\tID=gene1;Name=abcA;locus_tag=L1\n" +
	"chr1\ttest\tmRNA\t1\t30\t.\t+\t.\tID=rna1;Parent=gene1;product=kinase\n" +
	"chr1\ttest\texon\t1\t10\t.\t+\t.\tID=exon1;Parent=rna1\n" +
	"chr1\ttest\texon\t11\t30\t.\t+\t.\tID=exon2;Parent=rna1\n" +
	"chr1\ttest\tCDS\t1\t9\t.\t+\t0\tID=cds1;Parent=rna1;product=kinase;Dbxref=GO:0016301,GeneID:945;protein_id=XP_1\n" +
	"chr1\ttest\tCDS\t10\t18\t.\t+\t0\tID=cds1;Parent=rna1;product=kinase\n" +
	"# a comment\n" +
	"\n" +
	"chr1\ttest\tgene\t31\t42\t.\t-\t.\tID=gene2\n" +
	"chr1\ttest\tCDS\t31\t42\t.\t-\t0\tParent=gene2;GO_process=GO:0008150 - biological_process\n" +
	"chr1\ttest\ttRNA\t43\t60\t.\t.\t.\tID=trna1;Parent=gene2;Note=odd%3B note;bareflag\n"

var testFASTA = ">chr1 test contig\n" + testSequence[:30] + "\n" + testSequence[30:] + "\n"

type termMap map[string]string

func (m termMap) Lookup(_, id string) (string, bool) {
	name, ok := m[id]
	return name, ok
}

func feature(t *testing.T, g *genome.Genome, id string) *genome.Feature {
	t.Helper()
	f, ok := g.Feature(id)
	require.True(t, ok, "feature %s not found", id)
	return f
}
