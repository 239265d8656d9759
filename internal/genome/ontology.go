package genome

import "strings"

// TermDictionary resolves ontology term identifiers to names.
type TermDictionary interface {
	Lookup(source, id string) (name string, ok bool)
}

// CrossReferencer attaches ontology terms to features and tallies terms the
// dictionary does not know. One instance serves one import run.
type CrossReferencer struct {
	dict     TermDictionary
	exclude  bool
	present  map[string]map[string]string
	notFound map[string]int
}

// NewCrossReferencer creates a cross-referencer. With exclude set every term
// reference is ignored.
func NewCrossReferencer(dict TermDictionary, exclude bool) *CrossReferencer {
	return &CrossReferencer{
		dict:     dict,
		exclude:  exclude,
		present:  make(map[string]map[string]string),
		notFound: make(map[string]int),
	}
}

// TermSource returns the ontology prefix of a term id such as "GO:0008150".
func TermSource(id string) string {
	if i := strings.Index(id, ":"); i > 0 {
		return id[:i]
	}
	return ""
}

// Resolve records term id on terms. name is used when the dictionary has no
// entry for the id. It returns false when the term could not be named.
func (x *CrossReferencer) Resolve(terms map[string]map[string]string, id, name string) bool {
	if x.exclude {
		return true
	}
	source := TermSource(id)
	if source == "" {
		x.notFound[id]++
		return false
	}
	if x.dict != nil {
		if n, ok := x.dict.Lookup(source, id); ok {
			name = n
		}
	}
	if name == "" {
		x.notFound[id]++
		return false
	}
	if terms[source] == nil {
		terms[source] = make(map[string]string)
	}
	terms[source][id] = name
	if x.present[source] == nil {
		x.present[source] = make(map[string]string)
	}
	x.present[source][id] = name
	return true
}

// Excluded reports whether ontology cross-referencing is switched off.
func (x *CrossReferencer) Excluded() bool {
	return x.exclude
}

// Present returns every resolved term grouped by ontology source.
func (x *CrossReferencer) Present() map[string]map[string]string {
	return x.present
}

// NotFound returns how often each unresolved term id was referenced.
func (x *CrossReferencer) NotFound() map[string]int {
	return x.notFound
}
