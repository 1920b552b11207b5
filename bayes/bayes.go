// Package bayes implements a multinomial naive bayes classifier over
// word-count matrices, fit in closed form with add-one smoothing.
package bayes

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"spamclass/vocab"
)

// Model is the fitted state: per-word conditional probabilities for each
// class plus the spam prior.
type Model struct {
	PhiSpam []float64 // P(word | spam), add-one smoothed
	PhiHam  []float64 // P(word | ham), add-one smoothed
	PhiY    float64   // P(spam)
}

// Fit estimates the model from a count matrix and its {0,1} labels.
//
//	PhiSpam[j] = (count of word j in spam rows + 1) / (all words in spam rows + V)
//
// and symmetrically for ham. The prior is the label mean.
func Fit(matrix *mat.Dense, labels []int) (*Model, error) {
	rows, cols := matrix.Dims()

	if rows != len(labels) {
		return nil, errors.Errorf("fitting: %d rows but %d labels", rows, len(labels))
	}

	if rows == 0 || cols == 0 {
		return nil, errors.New("fitting: empty training matrix")
	}

	var (
		spamCounts = make([]float64, cols)
		hamCounts  = make([]float64, cols)

		spamTotal float64
		hamTotal  float64
		spamRows  int
	)

	for i := 0; i < rows; i++ {
		row := matrix.RawRowView(i)

		if labels[i] == 1 {
			spamRows++

			for j, c := range row {
				spamCounts[j] += c
				spamTotal += c
			}
		} else {
			for j, c := range row {
				hamCounts[j] += c
				hamTotal += c
			}
		}
	}

	m := &Model{
		PhiSpam: make([]float64, cols),
		PhiHam:  make([]float64, cols),
		PhiY:    float64(spamRows) / float64(rows),
	}

	v := float64(cols)
	for j := 0; j < cols; j++ {
		m.PhiSpam[j] = (spamCounts[j] + 1) / (spamTotal + v)
		m.PhiHam[j] = (hamCounts[j] + 1) / (hamTotal + v)
	}

	return m, nil
}

// Predict labels each row of the count matrix by comparing class
// log-likelihoods. A row is spam iff its spam score is strictly greater.
func (m *Model) Predict(matrix *mat.Dense) []int {
	rows, cols := matrix.Dims()

	if cols != len(m.PhiSpam) {
		panic(fmt.Sprintf("predicting: %d columns against vocabulary of %d", cols, len(m.PhiSpam)))
	}

	preds := make([]int, rows)

	for i := 0; i < rows; i++ {
		row := matrix.RawRowView(i)

		spamScore := math.Log(m.PhiY)
		hamScore := math.Log(1 - m.PhiY)

		for j, c := range row {
			if c == 0 {
				continue
			}

			spamScore += c * math.Log(m.PhiSpam[j])
			hamScore += c * math.Log(m.PhiHam[j])
		}

		if math.IsNaN(spamScore) || math.IsNaN(hamScore) {
			panic(fmt.Sprintf("nan score for row %d: spam=%f ham=%f", i, spamScore, hamScore))
		}

		if spamScore > hamScore {
			preds[i] = 1
		}
	}

	return preds
}

// TopWords returns the n most spam-indicative vocabulary words, most
// indicative first, ranked by log(PhiSpam/PhiHam).
func (m *Model) TopWords(v *vocab.Vocabulary, n int) []string {
	indices := make([]int, len(m.PhiSpam))
	for j := range indices {
		indices[j] = j
	}

	ratio := func(j int) float64 {
		return math.Log(m.PhiSpam[j] / m.PhiHam[j])
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return ratio(indices[a]) > ratio(indices[b])
	})

	if n > len(indices) {
		n = len(indices)
	}

	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = v.Word(indices[i])
	}

	return words
}

// Accuracy returns the fraction of predictions that match the labels.
func Accuracy(predictions, labels []int) float64 {
	if len(predictions) != len(labels) {
		panic(fmt.Sprintf("accuracy: %d predictions against %d labels", len(predictions), len(labels)))
	}

	if len(labels) == 0 {
		return 0
	}

	correct := 0
	for i, p := range predictions {
		if p == labels[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(labels))
}
