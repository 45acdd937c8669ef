// Package tokenize turns free text, slugs, and numeric strings into
// normalized token sets.
//
// All normalization is lexical: text is lowercased, split into alphanumeric
// runs, and filtered against a stopword list. Numerals are expanded into
// their English word forms so that ranges written with digits ("grade-1-5")
// and pages phrased with spelled-out numbers ("one to five") share tokens.
//
// The stopword and number tables live in a Vocabulary. The built-in tables
// are returned by Default; callers may derive a custom Vocabulary from
// configuration with Vocabulary.With. A Vocabulary is never mutated after
// construction and is safe for concurrent use.
package tokenize
