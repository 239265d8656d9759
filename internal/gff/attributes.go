package gff

import (
	"net/url"
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// listAttributes hold comma-separated value lists.
var listAttributes = map[string]bool{
	"Parent":        true,
	"Alias":         true,
	"Dbxref":        true,
	"Ontology_term": true,
}

// parseAttributes splits the ninth column on ';' and each entry on its first
// '=' or, failing that, its first space. Repeated keys accumulate in order.
// Entries with neither separator become flags and are returned as bare.
func parseAttributes(col string) (genome.Qualifiers, []string) {
	var (
		q    genome.Qualifiers
		bare []string
	)
	for _, entry := range strings.Split(col, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			key, value, ok = strings.Cut(entry, " ")
		}
		if !ok {
			q.AddFlag(entry)
			bare = append(bare, entry)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if listAttributes[key] {
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					q.Add(key, decode(v))
				}
			}
			continue
		}
		q.Add(key, decode(value))
	}
	return q, bare
}

// decode undoes GFF3 percent-encoding, keeping the raw text when it is not
// valid escaping.
func decode(v string) string {
	if !strings.Contains(v, "%") {
		return v
	}
	if d, err := url.PathUnescape(v); err == nil {
		return d
	}
	return v
}
