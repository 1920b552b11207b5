// Package dataset loads the TSV message splits and writes the small
// result files the pipeline produces.
package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	jsoniterator "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Split is one dataset file: messages with their {0,1} labels, where 1
// means spam.
type Split struct {
	Messages []string
	Labels   []int
}

// Load reads a two-column TSV file of label and message. A label of
// "spam" maps to 1, anything else to 0.
func Load(path string) (Split, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Split{}, errors.Wrap(err, "opening dataset")
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = 2

	var split Split

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Split{}, errors.Wrapf(err, "reading %s", path)
		}

		label := 0
		if record[0] == "spam" {
			label = 1
		}

		split.Messages = append(split.Messages, record[1])
		split.Labels = append(split.Labels, label)
	}

	if len(split.Messages) == 0 {
		return Split{}, errors.Errorf("dataset %s is empty", path)
	}

	return split, nil
}

// LoadAll reads the train, validation and test splits concurrently.
func LoadAll(trainPath, valPath, testPath string) (train, val, test Split, err error) {
	var eg errgroup.Group

	load := func(path string, dst *Split) {
		eg.Go(func() error {
			s, err := Load(path)
			if err != nil {
				return err
			}

			*dst = s

			return nil
		})
	}

	load(trainPath, &train)
	load(valPath, &val)
	load(testPath, &test)

	err = eg.Wait()

	return train, val, test, err
}

// WriteJSON encodes v into a JSON result file.
func WriteJSON(path string, v interface{}) error {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating result file")
	}
	defer fh.Close()

	enc := jsoniterator.NewEncoder(fh)

	err = enc.Encode(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}

	return nil
}

// WriteMatrix dumps up to maxRows rows of the matrix as plain text, one
// space-separated row per line.
func WriteMatrix(path string, matrix *mat.Dense, maxRows int) error {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating matrix dump")
	}
	defer fh.Close()

	w := bufio.NewWriter(fh)

	rows, cols := matrix.Dims()
	if maxRows < rows {
		rows = maxRows
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				err = w.WriteByte(' ')
				if err != nil {
					return errors.Wrap(err, "writing matrix dump")
				}
			}

			_, err = w.WriteString(strconv.FormatFloat(matrix.At(i, j), 'g', -1, 64))
			if err != nil {
				return errors.Wrap(err, "writing matrix dump")
			}
		}

		err = w.WriteByte('\n')
		if err != nil {
			return errors.Wrap(err, "writing matrix dump")
		}
	}

	return errors.Wrap(w.Flush(), "flushing matrix dump")
}

// WritePredictions dumps predicted labels as plain text, one per line.
func WritePredictions(path string, predictions []int) error {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating predictions dump")
	}
	defer fh.Close()

	w := bufio.NewWriter(fh)

	for _, p := range predictions {
		_, err = w.WriteString(strconv.Itoa(p))
		if err != nil {
			return errors.Wrap(err, "writing predictions")
		}

		err = w.WriteByte('\n')
		if err != nil {
			return errors.Wrap(err, "writing predictions")
		}
	}

	return errors.Wrap(w.Flush(), "flushing predictions")
}
