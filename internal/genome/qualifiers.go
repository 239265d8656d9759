package genome

// Qualifier is one key/value annotation on a raw feature. Flag qualifiers
// carry no value.
type Qualifier struct {
	Key   string
	Value string
	Flag  bool
}

// Qualifiers is an ordered multimap of qualifier keys to values. Duplicate
// keys are kept in input order.
type Qualifiers struct {
	entries []Qualifier
}

// Add appends a key/value pair.
func (q *Qualifiers) Add(key, value string) {
	q.entries = append(q.entries, Qualifier{Key: key, Value: value})
}

// AddFlag appends a valueless qualifier.
func (q *Qualifiers) AddFlag(key string) {
	q.entries = append(q.entries, Qualifier{Key: key, Flag: true})
}

// First returns the first value stored under key.
func (q *Qualifiers) First(key string) (string, bool) {
	for _, e := range q.entries {
		if e.Key == key && !e.Flag {
			return e.Value, true
		}
	}
	return "", false
}

// Get returns the first value stored under key, or "".
func (q *Qualifiers) Get(key string) string {
	v, _ := q.First(key)
	return v
}

// Values returns every value stored under key in input order.
func (q *Qualifiers) Values(key string) []string {
	var out []string
	for _, e := range q.entries {
		if e.Key == key && !e.Flag {
			out = append(out, e.Value)
		}
	}
	return out
}

// Has reports whether key is present, as a value or a flag.
func (q *Qualifiers) Has(key string) bool {
	for _, e := range q.entries {
		if e.Key == key {
			return true
		}
	}
	return false
}

// All returns the qualifiers in input order.
func (q *Qualifiers) All() []Qualifier {
	return q.entries
}

// Len returns the number of qualifiers.
func (q *Qualifiers) Len() int {
	return len(q.entries)
}
