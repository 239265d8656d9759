package duckdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
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
	"chr1\ttest\ttRNA\t43\t60\t.\t?\t.\tID=trna1;Parent=gene2;product=tRNA-Ala\n"

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func importTestGenome(t *testing.T) (*genome.ContigSet, *genome.Genome) {
	t.Helper()
	im := gff.NewImporter(gff.Options{
		Terms: ontology.Dictionary{"GO:0016301": "kinase activity"},
	})
	res, err := im.Import(strings.NewReader(testGFF), strings.NewReader(">chr1\n"+testSequence+"\n"))
	require.NoError(t, err)
	return res.Contigs, res.Genome
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAndLookupGenome(t *testing.T) {
	s := openInMemory(t)
	contigs, g := importTestGenome(t)

	fp := FileFingerprint{Path: "a.gff", Size: 100, ModTime: time.Unix(1700000000, 0)}
	id, err := s.WriteGenome("gff3", []FileFingerprint{fp}, contigs, g)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	cds, err := s.LookupFeature(id, "rna1.CDS")
	require.NoError(t, err)
	require.NotNil(t, cds)
	assert.Equal(t, genome.TypeCDS, cds.Type)
	assert.Equal(t, "gene1", cds.ParentGene)
	assert.Equal(t, "rna1", cds.ParentMRNA)
	assert.Equal(t, "ATGAAACCCGGGTTTTAA", cds.DNASequence)
	assert.Equal(t, int64(18), cds.DNASequenceLength)
	assert.Equal(t, genome.SequenceMD5("ATGAAACCCGGGTTTTAA"), cds.MD5)
	assert.Equal(t, "MKPGF", cds.ProteinTranslation)
	assert.Equal(t, 5, cds.ProteinTranslationLength)
	assert.Equal(t, []string{"kinase"}, cds.Functions)
	assert.Equal(t, "kinase activity", cds.OntologyTerms["GO"]["GO:0016301"])
	assert.Equal(t, []genome.Segment{{ContigID: "chr1", Start: 1, Strand: genome.Forward, Length: 18}}, cds.Location)

	gene2, err := s.LookupFeature(id, "gene2")
	require.NoError(t, err)
	require.NotNil(t, gene2)
	assert.Equal(t, []string{"gene2.CDS"}, gene2.CDSs)
	assert.Equal(t, []string{"trna1"}, gene2.Children)
	assert.Equal(t, genome.Reverse, gene2.Location[0].Strand)
	assert.Equal(t, int64(42), gene2.Location[0].Start)

	rna, err := s.LookupFeature(id, "rna1")
	require.NoError(t, err)
	assert.Equal(t, "rna1.CDS", rna.CDS)

	missing, err := s.LookupFeature(id, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFeaturesByTypeAndCounts(t *testing.T) {
	s := openInMemory(t)
	contigs, g := importTestGenome(t)
	id, err := s.WriteGenome("gff3", nil, contigs, g)
	require.NoError(t, err)

	genes, err := s.FeaturesByType(id, genome.TypeGene)
	require.NoError(t, err)
	require.Len(t, genes, 2)
	assert.Equal(t, "gene1", genes[0].ID)
	assert.Equal(t, []string{"rna1"}, genes[0].MRNAs)
	assert.Equal(t, []string{"L1"}, genes[0].Aliases)

	counts, err := s.CountByType(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"gene": 2, "mRNA": 1, "CDS": 2, "tRNA": 1}, counts)
}

func TestWarningsRoundTrip(t *testing.T) {
	s := openInMemory(t)
	contigs, g := importTestGenome(t)
	require.NotEmpty(t, g.Warnings)
	id, err := s.WriteGenome("gff3", nil, contigs, g)
	require.NoError(t, err)

	warnings, err := s.Warnings(id)
	require.NoError(t, err)
	assert.Equal(t, g.Warnings, warnings)

	trna, err := s.LookupFeature(id, "trna1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tRNA-Ala"}, trna.Functions)
}

func TestFindImport(t *testing.T) {
	s := openInMemory(t)
	contigs, g := importTestGenome(t)

	now := time.Now()
	gffFP := FileFingerprint{Path: "a.gff", Size: 100, ModTime: now}
	fastaFP := FileFingerprint{Path: "a.fa", Size: 60, ModTime: now}

	_, ok, err := s.FindImport("gff3", gffFP, fastaFP)
	require.NoError(t, err)
	assert.False(t, ok, "nothing stored yet")

	id, err := s.WriteGenome("gff3", []FileFingerprint{gffFP, fastaFP}, contigs, g)
	require.NoError(t, err)

	// Order of the inputs does not matter.
	found, ok, err := s.FindImport("gff3", fastaFP, gffFP)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, found)

	// Different modtime → stale
	changed := gffFP
	changed.ModTime = now.Add(time.Hour)
	_, ok, err = s.FindImport("gff3", changed, fastaFP)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.FindImport("genbank", gffFP, fastaFP)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestImportsAndDelete(t *testing.T) {
	s := openInMemory(t)
	contigs, g := importTestGenome(t)

	first, err := s.WriteGenome("gff3", nil, contigs, g)
	require.NoError(t, err)
	second, err := s.WriteGenome("gff3", nil, contigs, g)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	imports, err := s.Imports()
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "gff3", imports[0].Format)
	assert.Equal(t, int64(len(g.All())), imports[0].Features)
	assert.Equal(t, int64(len(g.Warnings)), imports[0].Warnings)

	require.NoError(t, s.DeleteImport(first))
	imports, err = s.Imports()
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, second, imports[0].ID)

	gone, err := s.LookupFeature(first, "gene1")
	require.NoError(t, err)
	assert.Nil(t, gone)
	kept, err := s.LookupFeature(second, "gene1")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestPersistentStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "features.duckdb")
	contigs, g := importTestGenome(t)

	s, err := Open(path)
	require.NoError(t, err)
	id, err := s.WriteGenome("gff3", nil, contigs, g)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	f, err := reopened.LookupFeature(id, "gene1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "MKPGF", f.ProteinTranslation)
}

func TestStatFile(t *testing.T) {
	_, err := StatFile("/nonexistent/file.gff")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "x.gff")
	require.NoError(t, os.WriteFile(path, []byte("##gff-version 3\n"), 0644))
	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(16), fp.Size)
}
