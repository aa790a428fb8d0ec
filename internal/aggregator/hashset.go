package aggregator

import (
	"encoding/json"
	"sort"

	"github.com/rohmanhakim/csp-hasher/internal/digest"
)

// HashSet is a set of hash expressions compared by exact string equality.
// Iteration order is not meaningful; use Sorted for stable output.
type HashSet map[digest.HashExpression]struct{}

func NewHashSet(exprs ...digest.HashExpression) HashSet {
	set := make(HashSet, len(exprs))
	for _, e := range exprs {
		set[e] = struct{}{}
	}
	return set
}

// Add inserts expr and reports whether it was not already present.
func (s HashSet) Add(expr digest.HashExpression) bool {
	if _, ok := s[expr]; ok {
		return false
	}
	s[expr] = struct{}{}
	return true
}

func (s HashSet) Contains(expr digest.HashExpression) bool {
	_, ok := s[expr]
	return ok
}

func (s HashSet) Len() int {
	return len(s)
}

// Union returns a new set holding the members of s and other.
func (s HashSet) Union(other HashSet) HashSet {
	out := make(HashSet, len(s)+len(other))
	for e := range s {
		out[e] = struct{}{}
	}
	for e := range other {
		out[e] = struct{}{}
	}
	return out
}

func (s HashSet) Equal(other HashSet) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if _, ok := other[e]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s HashSet) Sorted() []digest.HashExpression {
	out := make([]digest.HashExpression, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the members as plain strings in lexical order.
func (s HashSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = string(e)
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s HashSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *HashSet) UnmarshalJSON(data []byte) error {
	var exprs []digest.HashExpression
	if err := json.Unmarshal(data, &exprs); err != nil {
		return err
	}
	*s = NewHashSet(exprs...)
	return nil
}
