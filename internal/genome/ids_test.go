package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlphaSuffix(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlphaSuffix(tt.n), "AlphaSuffix(%d)", tt.n)
	}
}

func TestIDAllocator(t *testing.T) {
	a := NewIDAllocator()
	assert.Equal(t, "gene_1", a.Allocate("gene"))
	assert.Equal(t, "gene_2", a.Allocate("gene"))
	assert.Equal(t, "CDS_1", a.Allocate("CDS"))
	assert.Equal(t, 2, a.Issued("gene"))
	assert.Equal(t, 0, a.Issued("mRNA"))
}

func idField(s *string) *string { return s }

func dedupe(ids ...string) ([]string, []Rename) {
	items := make([]*string, len(ids))
	for i := range ids {
		items[i] = &ids[i]
	}
	renames := Deduplicate(items, idField)
	return ids, renames
}

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"pair", []string{"gene_1", "gene_1"}, []string{"gene_1", "gene_1_A"}},
		{"triple", []string{"x", "x", "x"}, []string{"x", "x_A", "x_B"}},
		{"suffix already taken", []string{"a", "a", "a_A"}, []string{"a", "a_B", "a_A"}},
		{"interleaved", []string{"a", "b", "a", "b"}, []string{"a", "b", "a_A", "b_A"}},
		{"empty ids untouched", []string{"", ""}, []string{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := dedupe(append([]string(nil), tt.in...)...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeduplicate_Renames(t *testing.T) {
	_, renames := dedupe("gene_1", "gene_2", "gene_1")
	assert.Equal(t, []Rename{{Index: 2, Old: "gene_1", New: "gene_1_A"}}, renames)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	once, _ := dedupe("a", "a", "b", "a", "a_A")
	twice, renames := dedupe(append([]string(nil), once...)...)
	assert.Equal(t, once, twice)
	assert.Empty(t, renames)

	seen := make(map[string]bool)
	for _, id := range twice {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
