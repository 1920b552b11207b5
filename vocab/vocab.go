// Package vocab builds bag-of-words vocabularies from training messages
// and turns messages into word-count matrices over them.
package vocab

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// MinDocumentFrequency is the number of distinct messages a word has to
// appear in before it earns a vocabulary slot. Rarer words carry more
// noise than signal.
const MinDocumentFrequency = 5

// Words returns the normalized tokens of a message: lowercased and split
// on whitespace. Punctuation is left alone on purpose.
func Words(message string) []string {
	return strings.Fields(strings.ToLower(message))
}

// Vocabulary maps words to dense column indices. Built once from training
// data, immutable afterwards.
type Vocabulary struct {
	index map[string]int
	words []string
}

// Build counts, per word, the number of distinct messages containing it
// and keeps the words seen in at least MinDocumentFrequency messages.
// Indices are assigned in the order the surviving words were first
// encountered.
func Build(messages []string) *Vocabulary {
	docFreq := make(map[string]int)

	var order []string

	for _, message := range messages {
		seen := make(map[string]bool)

		for _, word := range Words(message) {
			if seen[word] {
				continue
			}
			seen[word] = true

			if docFreq[word] == 0 {
				order = append(order, word)
			}

			docFreq[word]++
		}
	}

	v := &Vocabulary{
		index: make(map[string]int),
	}

	for _, word := range order {
		if docFreq[word] < MinDocumentFrequency {
			continue
		}

		v.index[word] = len(v.words)
		v.words = append(v.words, word)
	}

	return v
}

// FromWords rebuilds a vocabulary from an ordered word list, as stored by
// a model snapshot.
func FromWords(words []string) *Vocabulary {
	v := &Vocabulary{
		index: make(map[string]int, len(words)),
		words: append([]string(nil), words...),
	}

	for i, word := range v.words {
		v.index[word] = i
	}

	return v
}

// Len returns the number of words in the vocabulary.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Index returns the column index for word, if it is in the vocabulary.
func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// Word returns the word at column index i.
func (v *Vocabulary) Word(i int) string {
	return v.words[i]
}

// WordList returns the words in index order.
func (v *Vocabulary) WordList() []string {
	return append([]string(nil), v.words...)
}

// Map returns a word to index mapping, for dumping the vocabulary.
func (v *Vocabulary) Map() map[string]int {
	m := make(map[string]int, len(v.index))
	for word, i := range v.index {
		m[word] = i
	}

	return m
}

// Vectorize maps each message to a row of per-word counts over the
// vocabulary. Words outside the vocabulary are dropped.
func Vectorize(messages []string, v *Vocabulary) *mat.Dense {
	if v.Len() == 0 {
		// mat.NewDense panics on zero columns; an empty vocabulary
		// means there is nothing to count anyway.
		panic("vectorize: empty vocabulary")
	}

	matrix := mat.NewDense(len(messages), v.Len(), nil)

	for row, message := range messages {
		for _, word := range Words(message) {
			col, ok := v.index[word]
			if !ok {
				continue
			}

			matrix.Set(row, col, matrix.At(row, col)+1)
		}
	}

	return matrix
}
