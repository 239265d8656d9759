package ontology

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTSV = "term_id\tname\tnamespace\n" +
	"GO:0008150\tbiological_process\tbiological_process\n" +
	"GO:0016301\tkinase activity\tmolecular_function\n" +
	"PO:0000001\tembryo proper\t\n" +
	"\tno id\t\n" +
	"broken\n"

func writeTSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terms.tsv")
	require.NoError(t, os.WriteFile(path, []byte(testTSV), 0644))
	return path
}

func TestLoadTSV(t *testing.T) {
	d, err := LoadTSV(writeTSV(t))
	require.NoError(t, err)
	assert.Len(t, d, 3)

	tests := []struct {
		source string
		id     string
		name   string
		ok     bool
	}{
		{"GO", "GO:0008150", "biological_process", true},
		{"GO", "GO:0016301", "kinase activity", true},
		{"PO", "PO:0000001", "embryo proper", true},
		{"PO", "GO:0008150", "", false},
		{"GO", "GO:9999999", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			name, ok := d.Lookup(tt.source, tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}
	assert.Equal(t, map[string]int{"GO": 2, "PO": 1}, d.Sources())
}

func TestLoadTSV_NotFound(t *testing.T) {
	_, err := LoadTSV("/nonexistent/terms.tsv")
	assert.Error(t, err)
}

func TestReadTSV_Header(t *testing.T) {
	_, err := ReadTSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty file")

	_, err = ReadTSV(strings.NewReader("id\tname\n"))
	assert.ErrorContains(t, err, "term_id")

	_, err = ReadTSV(strings.NewReader("term_id\tlabel\n"))
	assert.ErrorContains(t, err, "'name'")
}
