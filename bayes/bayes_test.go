package bayes

import (
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"

	"spamclass/vocab"
)

const epsilon = 1e-9

func TestFit(t *testing.T) {
	// One spam row, one ham row over a two-word vocabulary. With add-one
	// smoothing: PhiSpam = (1+1, 0+1)/(1+2), PhiHam = (0+1, 2+1)/(2+2).
	matrix := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 2,
	})
	labels := []int{1, 0}

	m, err := Fit(matrix, labels)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expectSpam := []float64{2.0 / 3, 1.0 / 3}
	expectHam := []float64{1.0 / 4, 3.0 / 4}

	for j := range expectSpam {
		if math.Abs(m.PhiSpam[j]-expectSpam[j]) > epsilon {
			t.Errorf("expected PhiSpam[%d]=%f, got %f", j, expectSpam[j], m.PhiSpam[j])
		}

		if math.Abs(m.PhiHam[j]-expectHam[j]) > epsilon {
			t.Errorf("expected PhiHam[%d]=%f, got %f", j, expectHam[j], m.PhiHam[j])
		}
	}

	if m.PhiY != 0.5 {
		t.Errorf("expected prior 0.5, got %f", m.PhiY)
	}
}

func TestFitProbabilitiesSumToOne(t *testing.T) {
	matrix := mat.NewDense(4, 3, []float64{
		3, 0, 1,
		0, 2, 0,
		1, 1, 1,
		0, 0, 5,
	})
	labels := []int{1, 0, 1, 0}

	m, err := Fit(matrix, labels)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for name, phi := range map[string][]float64{"spam": m.PhiSpam, "ham": m.PhiHam} {
		sum := 0.0
		for _, p := range phi {
			sum += p

			if p <= 0 || p >= 1 {
				t.Errorf("%s probability out of (0,1): %f", name, p)
			}
		}

		if math.Abs(sum-1) > epsilon {
			t.Errorf("expected %s probabilities to sum to 1, got %f", name, sum)
		}
	}
}

func TestFitErrors(t *testing.T) {
	matrix := mat.NewDense(2, 2, nil)

	_, err := Fit(matrix, []int{1})
	if err == nil {
		t.Errorf("expected error on row/label mismatch")
	}
}

func TestPredict(t *testing.T) {
	matrix := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 2,
	})
	labels := []int{1, 0}

	m, err := Fit(matrix, labels)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	testCases := []struct {
		name   string
		counts []float64
		expect int
	}{
		{
			name:   "spammy words",
			counts: []float64{3, 0},
			expect: 1,
		},
		{
			name:   "hammy words",
			counts: []float64{0, 3},
			expect: 0,
		},
		{
			name:   "empty message ties on the prior, ham wins",
			counts: []float64{0, 0},
			expect: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			preds := m.Predict(mat.NewDense(1, 2, tc.counts))

			if len(preds) != 1 {
				t.Fatalf("expected one prediction, got %d", len(preds))
			}

			if preds[0] != tc.expect {
				t.Errorf("expected %d, got %d", tc.expect, preds[0])
			}
		})
	}
}

func TestPredictBinary(t *testing.T) {
	matrix := mat.NewDense(3, 2, []float64{
		2, 1,
		0, 1,
		4, 0,
	})
	labels := []int{1, 0, 1}

	m, err := Fit(matrix, labels)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for _, p := range m.Predict(matrix) {
		if p != 0 && p != 1 {
			t.Errorf("prediction out of {0,1}: %d", p)
		}
	}
}

func TestTopWords(t *testing.T) {
	v := vocab.FromWords([]string{"meeting", "prize", "claim"})

	m := &Model{
		PhiSpam: []float64{0.1, 0.6, 0.3},
		PhiHam:  []float64{0.6, 0.1, 0.3},
		PhiY:    0.5,
	}

	got := m.TopWords(v, 2)
	expect := []string{"prize", "claim"}

	if !reflect.DeepEqual(got, expect) {
		t.Errorf("expected %v, got %v", expect, got)
	}

	// Asking for more words than the vocabulary has returns all of them,
	// in strictly descending ratio order.
	all := m.TopWords(v, 10)
	if !reflect.DeepEqual(all, []string{"prize", "claim", "meeting"}) {
		t.Errorf("unexpected full ranking: %v", all)
	}

	last := math.Inf(1)
	for _, word := range all {
		i, ok := v.Index(word)
		if !ok {
			t.Fatalf("unknown word %q in ranking", word)
		}

		ratio := math.Log(m.PhiSpam[i] / m.PhiHam[i])
		if ratio >= last {
			t.Errorf("ranking not strictly descending at %q: %f >= %f", word, ratio, last)
		}

		last = ratio
	}
}

func TestAccuracy(t *testing.T) {
	testCases := []struct {
		name        string
		predictions []int
		labels      []int
		expect      float64
	}{
		{
			name:        "all correct",
			predictions: []int{1, 0, 1},
			labels:      []int{1, 0, 1},
			expect:      1,
		},
		{
			name:        "half correct",
			predictions: []int{1, 1, 0, 0},
			labels:      []int{1, 0, 1, 0},
			expect:      0.5,
		},
		{
			name:   "empty",
			expect: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Accuracy(tc.predictions, tc.labels)
			if got != tc.expect {
				t.Errorf("expected %f, got %f", tc.expect, got)
			}
		})
	}
}
