// Package modeldb persists a fitted naive bayes model and its vocabulary
// in a bolt database, so a later run can classify without retraining.
package modeldb

import (
	"strconv"

	"github.com/boltdb/bolt"
	jsoniterator "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"spamclass/bayes"
	"spamclass/vocab"
)

const (
	bucketSpam = "spam"
	bucketHam  = "ham"
	bucketMeta = "meta"

	keyPrior = "prior"
	keyWords = "words"
)

func formatProb(p float64) []byte {
	return []byte(strconv.FormatFloat(p, 'g', -1, 64))
}

func parseProb(d []byte) (float64, error) {
	return strconv.ParseFloat(string(d), 64)
}

// Save writes the model's smoothed probabilities into word-keyed buckets
// and the prior plus the ordered word list into a meta bucket.
func Save(db *bolt.DB, v *vocab.Vocabulary, m *bayes.Model) error {
	words, err := jsoniterator.Marshal(v.WordList())
	if err != nil {
		return errors.Wrap(err, "encoding word list")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		spam, err := tx.CreateBucketIfNotExists([]byte(bucketSpam))
		if err != nil {
			return errors.Wrap(err, "getting 'spam' bucket")
		}

		ham, err := tx.CreateBucketIfNotExists([]byte(bucketHam))
		if err != nil {
			return errors.Wrap(err, "getting 'ham' bucket")
		}

		for j := 0; j < v.Len(); j++ {
			w := []byte(v.Word(j))

			err = spam.Put(w, formatProb(m.PhiSpam[j]))
			if err != nil {
				return errors.Wrap(err, "writing spam probability")
			}

			err = ham.Put(w, formatProb(m.PhiHam[j]))
			if err != nil {
				return errors.Wrap(err, "writing ham probability")
			}
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		if err != nil {
			return errors.Wrap(err, "getting 'meta' bucket")
		}

		err = meta.Put([]byte(keyPrior), formatProb(m.PhiY))
		if err != nil {
			return errors.Wrap(err, "writing prior")
		}

		err = meta.Put([]byte(keyWords), words)
		if err != nil {
			return errors.Wrap(err, "writing word list")
		}

		return nil
	})

	if err != nil {
		return errors.Wrap(err, "persisting model")
	}

	return nil
}

// Load reads back a model stored with Save.
func Load(db *bolt.DB) (*vocab.Vocabulary, *bayes.Model, error) {
	var (
		v *vocab.Vocabulary
		m bayes.Model
	)

	err := db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(bucketMeta))
		if meta == nil {
			return errors.New("no 'meta' bucket, database holds no model")
		}

		var words []string

		err := jsoniterator.Unmarshal(meta.Get([]byte(keyWords)), &words)
		if err != nil {
			return errors.Wrap(err, "decoding word list")
		}

		m.PhiY, err = parseProb(meta.Get([]byte(keyPrior)))
		if err != nil {
			return errors.Wrap(err, "parsing prior")
		}

		v = vocab.FromWords(words)

		spam := tx.Bucket([]byte(bucketSpam))
		ham := tx.Bucket([]byte(bucketHam))
		if spam == nil || ham == nil {
			return errors.New("probability buckets missing")
		}

		m.PhiSpam = make([]float64, v.Len())
		m.PhiHam = make([]float64, v.Len())

		for j := 0; j < v.Len(); j++ {
			w := []byte(v.Word(j))

			m.PhiSpam[j], err = parseProb(spam.Get(w))
			if err != nil {
				return errors.Wrapf(err, "parsing spam probability for %q", w)
			}

			m.PhiHam[j], err = parseProb(ham.Get(w))
			if err != nil {
				return errors.Wrapf(err, "parsing ham probability for %q", w)
			}
		}

		return nil
	})

	if err != nil {
		return nil, nil, errors.Wrap(err, "loading model")
	}

	return v, &m, nil
}
