// Package nlp holds the text helpers the pipeline needs: lemmatization,
// language detection and HTML to text conversion.
package nlp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces English words to a base form
type Lemmatizer struct {
	golem *golem.Lemmatizer
}

// NewLemmatizer loads the English dictionary
func NewLemmatizer() (*Lemmatizer, error) {
	g, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer dictionary: %w", err)
	}
	return &Lemmatizer{golem: g}, nil
}

// minLemmaLength is the shortest word handed to the dictionary. Shorter
// words are mostly acronyms ("ai", "ml", "gpu") that golem maps to
// unrelated lemmas.
const minLemmaLength = 4

// keepAsIs are words whose dictionary lemma changes their meaning in AI news
var keepAsIs = map[string]struct{}{
	"data":      {},
	"media":     {},
	"news":      {},
	"analytics": {},
	"robotics":  {},
	"ethics":    {},
	"physics":   {},
	"series":    {},
	"criteria":  {},
}

// Lemma lower-cases text and lemmatizes it. For multi-word phrases only the
// head (last) word is reduced, so "large language models" becomes
// "large language model". Short words, words in keepAsIs and words the
// dictionary does not know are only lower-cased. The result depends only on
// the lower-cased input, so keywords and stored topics reduce alike.
func (l *Lemmatizer) Lemma(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return ""
	}
	last := len(words) - 1
	if lemmatizable(words[last]) {
		if lemma := l.golem.Lemma(words[last]); lemma != "" {
			words[last] = strings.ToLower(lemma)
		}
	}
	return strings.Join(words, " ")
}

// lemmatizable skips short words and "-ing" heads, which in AI phrases are
// nouns ("reasoning", "fine-tuning") that the dictionary turns into verbs
func lemmatizable(word string) bool {
	if utf8.RuneCountInString(word) < minLemmaLength || strings.HasSuffix(word, "ing") {
		return false
	}
	_, keep := keepAsIs[word]
	return !keep
}
