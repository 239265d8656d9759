package genbank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/genome-import/internal/genome"
)

func TestSplitFeatures(t *testing.T) {
	lines := []string{
		"     CDS             join(1..5,",
		"                     10..12)",
		"                     /note=\"first line",
		"                     /not a qualifier\"",
		"                     /gene=\"x\"",
		"                     /pseudo",
		"     misc_feature    20",
	}
	blocks := splitFeatures(lines)
	require.Len(t, blocks, 2)

	assert.Equal(t, "CDS", blocks[0].key)
	assert.Equal(t, "join(1..5,10..12)", blocks[0].location)
	assert.Equal(t, []string{
		"/note=\"first line /not a qualifier\"",
		"/gene=\"x\"",
		"/pseudo",
	}, blocks[0].qualifiers)
	assert.Equal(t, 6, len(splitLines(blocks[0].text)))

	assert.Equal(t, "misc_feature", blocks[1].key)
	assert.Equal(t, "20", blocks[1].location)
	assert.Empty(t, blocks[1].qualifiers)
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func TestParseQualifiers(t *testing.T) {
	q, bare := parseQualifiers([]string{
		`/gene="abcA"`,
		`/codon_start=2`,
		`/note="say ""hello"""`,
		`/pseudo`,
		`/trans_splicing`,
		`/experimental`,
		`/product="multi   spaced  value"`,
		`/db_xref="GO:0008150"`,
		`/db_xref="GeneID:1"`,
	})

	assert.Equal(t, "abcA", q.Get("gene"))
	assert.Equal(t, "2", q.Get("codon_start"))
	assert.Equal(t, `say "hello"`, q.Get("note"))
	assert.Equal(t, "multi spaced value", q.Get("product"))
	assert.Equal(t, []string{"GO:0008150", "GeneID:1"}, q.Values("db_xref"))
	assert.True(t, q.Has("pseudo"))
	assert.True(t, q.Has("experimental"))
	assert.Equal(t, []string{"experimental"}, bare)
}

func rawFeature(typ string, quals ...string) *RawFeature {
	q, bare := parseQualifiers(quals)
	return &RawFeature{
		Type:       typ,
		Location:   "1..18",
		Segments:   []genome.Segment{{ContigID: "NC_1", Start: 1, Strand: genome.Forward, Length: 18}},
		Qualifiers: q,
		Bare:       bare,
	}
}

func TestClassify_GeneIdentity(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		quals   []string
		wantID  string
		wantID2 string
		wantTyp string
	}{
		{"locus tag", "RefSeq", []string{`/locus_tag="b0001"`, `/gene="thrL"`}, "b0001", "thrL", genome.TypeGene},
		{"gene fallback", "RefSeq", []string{`/gene="thrL"`}, "thrL", "thrL", genome.TypeGene},
		{"ensembl", "Ensembl", []string{`/locus_tag="b0001"`, `/gene="ENSG01"`}, "ENSG01", "b0001", genome.TypeGene},
		{"pseudogene", "", []string{`/locus_tag="b0002"`, `/pseudo`}, "b0002", "", genome.TypePseudogene},
		{"none", "", nil, "", "", genome.TypeGene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClassifier(tt.source).classify("NC_1", rawFeature("gene", tt.quals...))
			assert.Equal(t, tt.wantID, c.cand.Feature.ID)
			assert.Equal(t, tt.wantID2, c.cand.GeneID2)
			assert.Equal(t, tt.wantTyp, c.cand.Feature.Type)
			assert.Empty(t, c.cand.ParentGene)
			assert.False(t, c.dropped)
		})
	}
}

func TestClassify_CDS(t *testing.T) {
	c := newClassifier("").classify("NC_1", rawFeature("CDS",
		`/locus_tag="b0001"`,
		`/gene="thrL"`,
		`/gene_synonym="ECK0001; thrA2"`,
		`/protein_id="NP_414542.1"`,
		`/transcript_id="NM_1"`,
		`/product="thr operon leader peptide"`,
		`/function="leader"`,
		`/note="one"`,
		`/note="two"`,
		`/codon_start=2`,
		`/transl_table=4`,
		`/db_xref="GO:0009088"`,
		`/db_xref="po:0000001"`,
		`/db_xref="UniProtKB:P0AD86"`,
		`/translation="MKRI STTI
TTTITITTGNGAG"`,
	))

	f := c.cand.Feature
	assert.Equal(t, "NP_414542.1", f.ID)
	assert.Equal(t, "b0001", c.cand.ParentGene)
	assert.Equal(t, "thrL", c.cand.ParentGene2)
	assert.Equal(t, "NM_1", c.cand.TranscriptID)
	assert.Equal(t, "thr operon leader peptide", c.cand.Product)
	assert.Equal(t, []string{"thr operon leader peptide", "leader"}, f.Functions)
	assert.Equal(t, "one; two", f.Note)
	assert.Equal(t, 1, c.cand.CodonOffset)
	assert.Equal(t, 4, c.cand.GeneticCode)
	assert.Equal(t, "MKRISTTITTTITITTGNGAG", f.ProteinTranslation)
	assert.Equal(t, []string{"GO:0009088", "PO:0000001"}, c.terms)
	assert.Equal(t, []string{"b0001", "thrL", "ECK0001", "thrA2", "NP_414542.1", "NM_1", "UniProtKB:P0AD86"}, f.Aliases)
	assert.Equal(t, "protein_id", c.cand.IDSources)
	assert.NotNil(t, f.OntologyTerms)
}

func TestClassify_PseudoDropped(t *testing.T) {
	for _, typ := range []string{"CDS", "mRNA"} {
		c := newClassifier("").classify("NC_1", rawFeature(typ, `/locus_tag="b1"`, `/pseudo`))
		assert.True(t, c.dropped, typ)
	}
	c := newClassifier("").classify("NC_1", rawFeature("tRNA", `/locus_tag="b1"`, `/pseudo`))
	assert.False(t, c.dropped)
	assert.Equal(t, "b1", c.cand.ParentGene)
}

func TestClassify_MRNA(t *testing.T) {
	c := newClassifier("Ensembl").classify("NC_1", rawFeature("mRNA",
		`/gene="ENSG01"`, `/locus_tag="L1"`, `/transcript_id="ENST01"`, `/product="kinase"`))
	assert.Equal(t, "ENST01", c.cand.Feature.ID)
	assert.Equal(t, "ENST01", c.cand.TranscriptID)
	assert.Equal(t, "ENSG01", c.cand.ParentGene)
	assert.Equal(t, "L1", c.cand.ParentGene2)
	assert.Equal(t, "kinase", c.cand.Product)
}
