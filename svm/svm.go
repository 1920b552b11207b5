// Package svm trains a Gaussian-kernel support vector machine on
// binarized word-count matrices using averaged stochastic subgradient
// descent, and sweeps the kernel radius against a validation set.
package svm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// outerLoops scales the number of SGD steps: steps = outerLoops * rows.
const outerLoops = 10

// Model holds the trained coefficients together with the binarized
// training matrix they are defined over.
type Model struct {
	support  *mat.Dense
	squared  []float64
	alphaAvg []float64
	radius   float64
}

// binarize returns a copy of matrix with every positive entry clamped
// to 1. Word presence matters to the kernel, word counts do not.
func binarize(matrix *mat.Dense) *mat.Dense {
	rows, cols := matrix.Dims()

	b := mat.NewDense(rows, cols, nil)
	b.Apply(func(r, c int, v float64) float64 {
		if v > 0 {
			return 1
		}

		return 0
	}, matrix)

	return b
}

func rowSquaredNorms(matrix *mat.Dense) []float64 {
	rows, _ := matrix.Dims()

	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := matrix.RawRowView(i)
		for _, v := range row {
			norms[i] += v * v
		}
	}

	return norms
}

// kernelMatrix computes K[i][j] = exp(-||a_i - b_j||^2 / (2 radius^2))
// for every row pair, expanding the squared distance through the gram
// matrix a b^T.
func kernelMatrix(a *mat.Dense, aSquared []float64, b *mat.Dense, bSquared []float64, radius float64) *mat.Dense {
	var gram mat.Dense
	gram.Mul(a, b.T())

	denom := 2 * radius * radius

	gram.Apply(func(r, c int, v float64) float64 {
		return math.Exp(-(aSquared[r] + bSquared[c] - 2*v) / denom)
	}, &gram)

	return &gram
}

// Train fits the SVM with averaged kernelized SGD: hinge updates when the
// margin is below 1, ridge shrinkage otherwise, step size 1/sqrt(t), and
// the running alpha average as the final coefficient vector.
func Train(matrix *mat.Dense, labels []int, radius float64) *Model {
	x := binarize(matrix)
	squared := rowSquaredNorms(x)
	k := kernelMatrix(x, squared, x, squared, radius)

	rows, _ := x.Dims()

	y := make([]float64, rows)
	for i, l := range labels {
		y[i] = float64(2*l - 1)
	}

	var (
		alpha    = make([]float64, rows)
		alphaAvg = make([]float64, rows)

		lambda = 1.0 / float64(64*rows)
		steps  = outerLoops * rows
	)

	for t := 0; t < steps; t++ {
		i := rand.Intn(rows)

		margin := 0.0
		for j := 0; j < rows; j++ {
			margin += k.At(i, j) * alpha[j]
		}
		margin *= y[i]

		step := 1.0 / math.Sqrt(float64(t+1))

		for j := 0; j < rows; j++ {
			grad := float64(rows) * lambda * k.At(j, i) * alpha[i]

			if margin < 1 {
				grad -= y[i] * k.At(j, i)
			}

			alpha[j] -= step * grad
		}

		for j, a := range alpha {
			alphaAvg[j] += a
		}
	}

	for j := range alphaAvg {
		alphaAvg[j] /= float64(steps * rows)
	}

	return &Model{
		support:  x,
		squared:  squared,
		alphaAvg: alphaAvg,
		radius:   radius,
	}
}

// Predict labels each row of the count matrix: 1 when the kernelized
// score against the training rows is positive, 0 otherwise.
func (m *Model) Predict(matrix *mat.Dense) []int {
	x := binarize(matrix)
	squared := rowSquaredNorms(x)
	k := kernelMatrix(x, squared, m.support, m.squared, m.radius)

	rows, _ := x.Dims()
	preds := make([]int, rows)

	for i := 0; i < rows; i++ {
		score := 0.0
		for j, a := range m.alphaAvg {
			score += k.At(i, j) * a
		}

		if score > 0 {
			preds[i] = 1
		}
	}

	return preds
}

// TrainAndPredict trains on the training split and labels the test split
// with the given kernel radius.
func TrainAndPredict(train *mat.Dense, trainLabels []int, test *mat.Dense, radius float64) []int {
	return Train(train, trainLabels, radius).Predict(test)
}

// BestRadius sweeps the candidate radii, training on the training split
// and scoring each model on the validation split, and returns the highest
// validation accuracy seen.
func BestRadius(train *mat.Dense, trainLabels []int, val *mat.Dense, valLabels []int, radii []float64) float64 {
	best := 0.0

	for _, radius := range radii {
		preds := TrainAndPredict(train, trainLabels, val, radius)

		acc := accuracy(preds, valLabels)
		if acc > best {
			best = acc
		}
	}

	return best
}

func accuracy(predictions, labels []int) float64 {
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
