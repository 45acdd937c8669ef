package tokenize

import "sort"

// Set is an unordered collection of normalized tokens.
type Set map[string]struct{}

// NewSet returns a Set holding the given tokens.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// Add inserts a token. Adding an existing token is a no-op.
func (s Set) Add(token string) {
	s[token] = struct{}{}
}

// Has reports whether the token is present.
func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of distinct tokens.
func (s Set) Len() int {
	return len(s)
}

// Merge adds every token of other into s.
func (s Set) Merge(other Set) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Sorted returns the tokens in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IntersectionSize returns |a ∩ b| without allocating.
func IntersectionSize(a, b Set) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for t := range a {
		if _, ok := b[t]; ok {
			n++
		}
	}
	return n
}
