package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/genome-import/internal/duckdb"
)

const testSequence = "ATGAAACCCGGGTTTTAA" + "GCGCGCGCGCGC" + "TTAATGCCACAT" + "GCGCGCGCGCGCGCGCGC"

const testGFF = "##gff-version 3\n" +
	"chr1\ttest\tgene\t1\t30\t.\t+\t.\tID=gene1\n" +
	"chr1\ttest\tmRNA\t1\t30\t.\t+\t.\tID=rna1;Parent=gene1\n" +
	"chr1\ttest\tCDS\t1\t18\t.\t+\t0\tID=cds1;Parent=rna1;product=kinase;Dbxref=GO:0016301\n"

const testGenBank = `LOCUS       NC_000001                 60 bp    DNA     circular BCT 01-JAN-2020
DEFINITION  Test chromosome.
ACCESSION   NC_000001
FEATURES             Location/Qualifiers
     gene            1..18
                     /locus_tag="L1"
     CDS             1..18
                     /locus_tag="L1"
                     /protein_id="XP_1"
                     /product="kinase"
                     /db_xref="GO:0016301"
ORIGIN
        1 atgaaacccg ggttttaagc gcgcgcgcgc ttaatgccac atgcgcgcgc gcgcgcgcgc
//
`

const testTerms = "term_id\tname\nGO:0016301\tkinase activity\n"

// testEnv is a temporary directory with a config file.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{dir: dir, config: filepath.Join(dir, "config.yaml")}
	require.NoError(t, os.WriteFile(env.config, []byte("genetic_code: 11\n"), 0644))
	return env
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

// execute runs the command tree with args and returns stdout and stderr.
func (e *testEnv) execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	verbose = false
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--config", e.config))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func gzipBytes(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestWrapInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain", []byte(testGFF)},
		{"gzip", gzipBytes(t, testGFF)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := wrapInput(io.NopCloser(bytes.NewReader(tt.data)))
			require.NoError(t, err)
			got, err := io.ReadAll(in)
			require.NoError(t, err)
			assert.Equal(t, testGFF, string(got))
			assert.NoError(t, in.Close())
		})
	}
}

func TestWrapInput_Short(t *testing.T) {
	in, err := wrapInput(io.NopCloser(strings.NewReader("A")))
	require.NoError(t, err)
	got, err := io.ReadAll(in)
	require.NoError(t, err)
	assert.Equal(t, "A", string(got))
}

func TestGFFCommand(t *testing.T) {
	env := newTestEnv(t)
	gffPath := env.write(t, "a.gff3", testGFF)
	fastaPath := env.path("a.fa.gz")
	require.NoError(t, os.WriteFile(fastaPath, gzipBytes(t, ">chr1\n"+testSequence+"\n"), 0644))
	termsPath := env.write(t, "terms.tsv", testTerms)
	outPath := env.path("features.tsv")
	storePath := filepath.Join(env.dir, "store", "features.duckdb")

	_, stderr, err := env.execute(t, "gff", "--fasta", fastaPath, "--ontology-tsv", termsPath,
		"-o", outPath, "--store", storePath, gffPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "protein_encoding_gene")
	assert.Contains(t, stderr, "Stored as import 1")

	table, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(table), "rna1.CDS\tCDS\tchr1_1_+_18")
	assert.Contains(t, string(table), "GO:0016301(kinase activity)")

	store, err := duckdb.Open(storePath)
	require.NoError(t, err)
	f, err := store.LookupFeature(1, "gene1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "MKPGF", f.ProteinTranslation)
	require.NoError(t, store.Close())

	// Unchanged inputs are not imported twice.
	_, stderr, err = env.execute(t, "gff", "--fasta", fastaPath, "--store", storePath, gffPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Already imported as import 1")

	_, stderr, err = env.execute(t, "gff", "--fasta", fastaPath, "--store", storePath, "--force", gffPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Stored as import 2")
}

func TestGFFCommand_Errors(t *testing.T) {
	env := newTestEnv(t)
	gffPath := env.write(t, "bad.gff3", "chr1\ttest\tgene\t1\t99\t.\t+\t.\tID=g1\n")
	fastaPath := env.write(t, "a.fa", ">chr1\n"+testSequence+"\n")

	_, _, err := env.execute(t, "gff", "--fasta", fastaPath, gffPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds contig chr1")

	_, _, err = env.execute(t, "gff", "--fasta", "-", "-")
	var ue *usageError
	assert.ErrorAs(t, err, &ue)

	_, _, err = env.execute(t, "gff", "--fasta", fastaPath, env.path("missing.gff3"))
	assert.Error(t, err)
}

func TestGenbankCommand(t *testing.T) {
	env := newTestEnv(t)
	gbPath := env.path("a.gbk.gz")
	require.NoError(t, os.WriteFile(gbPath, gzipBytes(t, testGenBank), 0644))

	stdout, stderr, err := env.execute(t, "genbank", "--exclude-ontologies", "-o", "-", gbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "#Feature\tType")
	assert.Contains(t, stdout, "XP_1\tCDS\tNC_000001_1_+_18")
	assert.NotContains(t, stdout, "GO:0016301")
	assert.Contains(t, stderr, "Contigs:")
}

func TestOntologyCommands(t *testing.T) {
	env := newTestEnv(t)
	termsPath := env.write(t, "terms.tsv", testTerms)
	dbPath := env.path("ontology.duckdb")

	stdout, _, err := env.execute(t, "ontology", "load", "--db", dbPath, termsPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 1 terms")

	stdout, _, err = env.execute(t, "ontology", "lookup", "--db", dbPath, "GO:0016301")
	require.NoError(t, err)
	assert.Equal(t, "GO:0016301\tkinase activity\n", stdout)

	_, _, err = env.execute(t, "ontology", "lookup", "--db", dbPath, "GO:0000000")
	assert.ErrorContains(t, err, "1 of 1 terms not found")

	// The import commands read the same database.
	gbPath := env.write(t, "a.gbk", testGenBank)
	stdout, _, err = env.execute(t, "genbank", "--ontology-db", dbPath, "-o", "-", gbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "GO:0016301(kinase activity)")

	_, _, err = env.execute(t, "ontology", "lookup", "GO:0016301")
	assert.ErrorAs(t, err, new(*usageError))
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.execute(t, "config", "set", "generate_ids", "true")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Set generate_ids = true")

	stdout, _, err = env.execute(t, "config", "get", "generate_ids")
	require.NoError(t, err)
	assert.Equal(t, "true\n", stdout)

	stdout, _, err = env.execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "genetic_code: 11")

	_, _, err = env.execute(t, "config", "get", "no_such_key")
	assert.Error(t, err)
}

func TestConfigSet_Validation(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.execute(t, "config", "set", "genetic_code", "4")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Set genetic_code = 4")

	tests := []struct {
		key   string
		value string
	}{
		{"genetic_code", "7"},
		{"genetic_code", "bacterial"},
		{"workers", "-1"},
		{"generate_ids", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, _, err := env.execute(t, "config", "set", tt.key, tt.value)
			var ue *usageError
			require.ErrorAs(t, err, &ue)
			assert.Contains(t, err.Error(), tt.key)
		})
	}

	stdout, _, err = env.execute(t, "config", "get", "genetic_code")
	require.NoError(t, err)
	assert.Equal(t, "4\n", stdout)
}

func TestRunExitCodes(t *testing.T) {
	env := newTestEnv(t)
	viper.Reset()
	assert.Equal(t, ExitUsage, run([]string{"gff", "--config", env.config, "--fasta", "-", "-"}))
	viper.Reset()
	assert.Equal(t, ExitError, run([]string{"no-such-command"}))
	viper.Reset()
	assert.Equal(t, ExitSuccess, run([]string{"--version"}))
}
