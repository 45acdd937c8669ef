package tokenize

import (
	"regexp"
	"strings"
)

var (
	// wordPattern matches alphanumeric runs in lowercased text.
	wordPattern = regexp.MustCompile(`[a-z0-9]+`)

	// slugSeparator matches the separators between slug segments.
	slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

	// runPattern splits a segment into contiguous letter and digit runs,
	// so "5th" yields "5" and "th".
	runPattern = regexp.MustCompile(`[a-z]+|[0-9]+`)
)

// Tokenize lowercases text and returns its non-stopword alphanumeric runs
// in order of appearance. Duplicates are kept.
func (v *Vocabulary) Tokenize(text string) []string {
	raw := wordPattern.FindAllString(lower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if v.IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// NormalizeText returns the set of non-stopword tokens in text.
func (v *Vocabulary) NormalizeText(text string) Set {
	return NewSet(v.Tokenize(text)...)
}

// NormalizeSlug splits a slug (or any path-like string) on non-alphanumeric
// runs. Each surviving segment is emitted, followed by its letter and digit
// runs, because slugs often glue a topic name to a numeric qualifier.
// Stopword segments are dropped entirely.
func (v *Vocabulary) NormalizeSlug(slug string) []string {
	var out []string
	for _, segment := range slugSeparator.Split(lower(slug), -1) {
		if segment == "" || v.IsStopword(segment) {
			continue
		}
		out = append(out, segment)
		for _, piece := range runPattern.FindAllString(segment, -1) {
			if !v.IsStopword(piece) {
				out = append(out, piece)
			}
		}
	}
	return out
}

// ExpandNumeric returns the word forms of a numeric token: the table entry
// for the whole token if present, plus the word of every digit when the
// token is a multi-digit numeral. Non-numeric tokens yield an empty set.
func (v *Vocabulary) ExpandNumeric(token string) Set {
	out := Set{}
	v.expandInto(out, token)
	return out
}

func (v *Vocabulary) expandInto(target Set, token string) {
	if w, ok := v.NumberWord(token); ok {
		target.Add(w)
	}
	if len(token) > 1 && isDigits(token) {
		for i := 0; i < len(token); i++ {
			if w, ok := v.NumberWord(token[i : i+1]); ok {
				target.Add(w)
			}
		}
	}
}

// Incorporate folds one raw token into target. The token is trimmed and
// lowercased; it joins the set unless it is a stopword, but its letter and
// digit runs and their numeric expansions are mined either way.
// Incorporating the same token twice leaves the set unchanged.
func (v *Vocabulary) Incorporate(target Set, raw string) {
	token := lower(strings.TrimSpace(raw))
	if token == "" {
		return
	}
	if !v.IsStopword(token) {
		target.Add(token)
	}
	for _, piece := range runPattern.FindAllString(token, -1) {
		if !v.IsStopword(piece) {
			target.Add(piece)
		}
		v.expandInto(target, piece)
	}
	v.expandInto(target, token)
}

// IncorporateText tokenizes text and incorporates every token into target.
func (v *Vocabulary) IncorporateText(target Set, text string) {
	for _, t := range v.Tokenize(text) {
		v.Incorporate(target, t)
	}
}

// IncorporateSlug normalizes a slug-like string and incorporates every
// resulting token into target.
func (v *Vocabulary) IncorporateSlug(target Set, slug string) {
	for _, t := range v.NormalizeSlug(slug) {
		v.Incorporate(target, t)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// NormalizeText normalizes text with the default vocabulary.
func NormalizeText(text string) Set {
	return defaultVocabulary.NormalizeText(text)
}

// NormalizeSlug normalizes a slug with the default vocabulary.
func NormalizeSlug(slug string) []string {
	return defaultVocabulary.NormalizeSlug(slug)
}

// ExpandNumeric expands a numeral with the default vocabulary.
func ExpandNumeric(token string) Set {
	return defaultVocabulary.ExpandNumeric(token)
}

// Incorporate folds a token into target with the default vocabulary.
func Incorporate(target Set, raw string) {
	defaultVocabulary.Incorporate(target, raw)
}
