package genome

import "fmt"

// IDAllocator hands out "{type}_{n}" identifiers from one counter per
// feature type. Counters only move forward within a run.
type IDAllocator struct {
	counters map[string]int
}

// NewIDAllocator creates an allocator with all counters at zero.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{counters: make(map[string]int)}
}

// Allocate returns the next identifier for featureType.
func (a *IDAllocator) Allocate(featureType string) string {
	a.counters[featureType]++
	return fmt.Sprintf("%s_%d", featureType, a.counters[featureType])
}

// Issued returns how many identifiers were allocated for featureType.
func (a *IDAllocator) Issued(featureType string) int {
	return a.counters[featureType]
}

// AlphaSuffix returns the bijective base-26 label for n >= 0:
// 0 is "A", 25 is "Z", 26 is "AA", 701 is "ZZ", 702 is "AAA".
func AlphaSuffix(n int) string {
	var buf [16]byte
	i := len(buf)
	for n++; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// Rename records one identifier changed by Deduplicate.
type Rename struct {
	Index int
	Old   string
	New   string
}

// Deduplicate renames every item after the first in each group sharing an
// identifier by appending "_" and an alphabetic suffix. field returns a
// pointer to the identifier of an item. Candidate names are checked against
// every identifier in use, including names produced earlier in the same pass.
func Deduplicate[T any](items []T, field func(T) *string) []Rename {
	used := make(map[string]bool, len(items))
	for _, it := range items {
		used[*field(it)] = true
	}

	seen := make(map[string]bool, len(items))
	next := make(map[string]int)
	var renames []Rename
	for i, it := range items {
		p := field(it)
		id := *p
		if id == "" {
			continue
		}
		if !seen[id] {
			seen[id] = true
			continue
		}
		n := next[id]
		var candidate string
		for {
			candidate = id + "_" + AlphaSuffix(n)
			n++
			if !used[candidate] {
				break
			}
		}
		next[id] = n
		used[candidate] = true
		*p = candidate
		renames = append(renames, Rename{Index: i, Old: id, New: candidate})
	}
	return renames
}
