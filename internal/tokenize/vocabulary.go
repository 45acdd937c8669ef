package tokenize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultStopwords are words that add noise when comparing topical
// similarity of generated landing pages: articles, prepositions, and the
// marketing vocabulary every page shares regardless of topic.
var defaultStopwords = []string{
	"a", "about", "active", "ai", "an", "and", "any", "app", "apps", "are",
	"best", "better", "build", "built", "by",
	"can", "card", "cards", "com", "comprehensive", "content", "create",
	"created", "creates", "creating", "creation",
	"digital", "docx",
	"easy", "efficient", "effortless", "effective", "exam", "exams",
	"fast", "flashcard", "flashcards", "focus", "for", "free", "from",
	"generator", "generators", "generate", "generated", "generating",
	"how",
	"improve", "instant", "instantly", "into",
	"learn", "learning",
	"make", "making", "master", "mastery",
	"notes",
	"online",
	"pdf", "platform", "powerpoint", "prep",
	"quick",
	"seamless", "set", "sets", "simple", "smart", "spaced", "study",
	"studies", "studying", "system", "systems",
	"tool", "tools",
	"ultimate", "upload", "uploads", "using",
	"with",
	"your",
}

// defaultNumberWords maps numerals to their word forms.
var defaultNumberWords = map[string]string{
	"0":    "zero",
	"1":    "one",
	"2":    "two",
	"3":    "three",
	"4":    "four",
	"5":    "five",
	"6":    "six",
	"7":    "seven",
	"8":    "eight",
	"9":    "nine",
	"10":   "ten",
	"11":   "eleven",
	"12":   "twelve",
	"13":   "thirteen",
	"14":   "fourteen",
	"15":   "fifteen",
	"16":   "sixteen",
	"17":   "seventeen",
	"18":   "eighteen",
	"19":   "nineteen",
	"20":   "twenty",
	"30":   "thirty",
	"40":   "forty",
	"50":   "fifty",
	"60":   "sixty",
	"70":   "seventy",
	"80":   "eighty",
	"90":   "ninety",
	"100":  "hundred",
	"1000": "thousand",
}

// Vocabulary holds the stopword and number-word tables used during
// normalization. It is immutable after construction.
type Vocabulary struct {
	stopwords   map[string]struct{}
	numberWords map[string]string
}

var defaultVocabulary = NewVocabulary(defaultStopwords, defaultNumberWords)

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return defaultVocabulary
}

// NewVocabulary builds a vocabulary from explicit tables.
// Entries are lowercased and trimmed; empty entries are ignored.
func NewVocabulary(stopwords []string, numberWords map[string]string) *Vocabulary {
	v := &Vocabulary{
		stopwords:   make(map[string]struct{}, len(stopwords)),
		numberWords: make(map[string]string, len(numberWords)),
	}
	for _, w := range stopwords {
		if w = lower(strings.TrimSpace(w)); w != "" {
			v.stopwords[w] = struct{}{}
		}
	}
	for k, w := range numberWords {
		k = strings.TrimSpace(k)
		w = lower(strings.TrimSpace(w))
		if k != "" && w != "" {
			v.numberWords[k] = w
		}
	}
	return v
}

// With returns a copy of v with extra stopwords added, the keep list removed
// from the stopwords, and extra number words merged over the existing table.
func (v *Vocabulary) With(extraStopwords, keep []string, extraNumbers map[string]string) *Vocabulary {
	stop := make([]string, 0, len(v.stopwords)+len(extraStopwords))
	for w := range v.stopwords {
		stop = append(stop, w)
	}
	stop = append(stop, extraStopwords...)

	numbers := make(map[string]string, len(v.numberWords)+len(extraNumbers))
	for k, w := range v.numberWords {
		numbers[k] = w
	}
	for k, w := range extraNumbers {
		numbers[k] = w
	}

	out := NewVocabulary(stop, numbers)
	for _, w := range keep {
		delete(out.stopwords, lower(strings.TrimSpace(w)))
	}
	return out
}

// IsStopword reports whether the already-lowercased token is a stopword.
func (v *Vocabulary) IsStopword(token string) bool {
	_, ok := v.stopwords[token]
	return ok
}

// NumberWord returns the word form of a numeral key.
func (v *Vocabulary) NumberWord(token string) (string, bool) {
	w, ok := v.numberWords[token]
	return w, ok
}

// StopwordCount returns the number of stopwords in the vocabulary.
func (v *Vocabulary) StopwordCount() int {
	return len(v.stopwords)
}

// lower applies Unicode lowercasing. A Caser carries state, so one is
// created per call to keep Vocabulary safe for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NormalizePhrase trims and lowercases a keyword phrase without splitting it.
func NormalizePhrase(phrase string) string {
	return lower(strings.TrimSpace(phrase))
}
