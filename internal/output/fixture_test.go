package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/genome-import/internal/genome"
	"github.com/inodb/genome-import/internal/gff"
	"github.com/inodb/genome-import/internal/ontology"
)

const testSequence = "ATGAAACCCGGGTTTTAA" + "GCGCGCGCGCGC" + "TTAATGCCACAT" + "GCGCGCGCGCGCGCGCGC"

const testGFF = "chr1\ttest\tgene\t1\t30\t.\t+\t.\tID=gene1;locus_tag=L1\n" +
	"chr1\ttest\tmRNA\t1\t30\t.\t+\t.\tID=rna1;Parent=gene1\n" +
	"chr1\ttest\tCDS\t1\t18\t.\t+\t0\tID=cds1;Parent=rna1;product=kinase;Dbxref=GO:0016301\n" +
	"chr1\ttest\tgene\t31\t42\t.\t-\t.\tID=gene2\n" +
	"chr1\ttest\tCDS\t31\t42\t.\t-\t0\tID=cds2;Parent=gene2\n" +
	"chr1\ttest\ttRNA\t43\t60\t.\t?\t.\tID=trna1;Parent=gene2;Note=two%09columns\n"

func importTestGenome(t *testing.T) (*genome.ContigSet, *genome.Genome) {
	t.Helper()
	im := gff.NewImporter(gff.Options{
		Terms: ontology.Dictionary{"GO:0016301": "kinase activity"},
	})
	res, err := im.Import(strings.NewReader(testGFF), strings.NewReader(">chr1\n"+testSequence+"\n"))
	require.NoError(t, err)
	return res.Contigs, res.Genome
}
