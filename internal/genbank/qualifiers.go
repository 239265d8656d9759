package genbank

import (
	"strings"

	"github.com/inodb/genome-import/internal/genome"
)

// knownFlags are qualifiers that legitimately carry no value.
var knownFlags = map[string]bool{
	"pseudo":               true,
	"trans_splicing":       true,
	"ribosomal_slippage":   true,
	"partial":              true,
	"environmental_sample": true,
	"focus":                true,
	"germline":             true,
	"macronuclear":         true,
	"proviral":             true,
	"rearranged":           true,
	"transgenic":           true,
}

// parseQualifiers turns raw "/key=value" texts into an ordered multimap.
// Tokens without '=' are stored as flags; the ones that are not known flags
// are also returned so the caller can warn about them.
func parseQualifiers(raw []string) (genome.Qualifiers, []string) {
	var (
		q    genome.Qualifiers
		bare []string
	)
	for _, r := range raw {
		body := strings.TrimPrefix(r, "/")
		key, value, ok := strings.Cut(body, "=")
		if !ok {
			token := collapseSpace(body)
			q.AddFlag(token)
			if !knownFlags[token] {
				bare = append(bare, token)
			}
			continue
		}
		q.Add(strings.TrimSpace(key), unquote(collapseSpace(value)))
	}
	return q, bare
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// unquote strips the surrounding quotes of a qualifier value and undoes
// doubled inner quotes.
func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = v[1 : len(v)-1]
	} else {
		v = strings.Trim(v, `"`)
	}
	return strings.ReplaceAll(v, `""`, `"`)
}
