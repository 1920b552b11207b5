// Spamclass is a batch naive bayes spam classifier with an SVM baseline.
// It reads three TSV dataset splits (train, validation, test), builds a
// bag-of-words vocabulary, fits a multinomial naive bayes model, reports
// the most spam-indicative words and sweeps the SVM kernel radius against
// the validation split.
//
// Result files are written to -outDir; diagnostic messages go to stderr.
package main

import (
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/boltdb/bolt"
	"github.com/pkg/profile"

	"spamclass/bayes"
	"spamclass/dataset"
	"spamclass/modeldb"
	"spamclass/svm"
	"spamclass/vocab"
)

func parseRadii(arg string) ([]float64, error) {
	var radii []float64

	for _, field := range strings.Split(arg, ",") {
		r, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}

		radii = append(radii, r)
	}

	return radii, nil
}

func main() {
	trainPath := flag.String("train", "data/train.tsv", "path to the training TSV file")
	valPath := flag.String("val", "data/val.tsv", "path to the validation TSV file")
	testPath := flag.String("test", "data/test.tsv", "path to the test TSV file")
	outDir := flag.String("outDir", ".", "directory for result files")
	dbPath := flag.String("dbPath", "", "if set, persist the fitted model to this bolt database")
	topWords := flag.Int("topWords", 5, "number of indicative words to report")
	radiiArg := flag.String("radii", "0.01,0.1,1,10", "comma-separated SVM kernel radii to sweep")
	sampleRows := flag.Int("sampleRows", 100, "number of training matrix rows to dump")
	verbose := flag.Bool("verbose", false, "be more verbose about pipeline progress")
	profilingAddr := flag.String("profilingAddr", "127.0.0.1:7999", "Listening address for profiling server")

	flag.Parse()

	go func() {
		log.Println("starting profiling server on", *profilingAddr)
		err := http.ListenAndServe(*profilingAddr, nil)
		if err != nil {
			log.Printf("can't start profiling server on %s: %s", *profilingAddr, err)
		}
	}()

	if *profilingAddr == "" {
		defer profile.Start(profile.ProfilePath("/tmp")).Stop()
	}

	radii, err := parseRadii(*radiiArg)
	if err != nil {
		log.Fatalf("can't parse radii %q: %s", *radiiArg, err)
	}

	err = os.MkdirAll(*outDir, 0755)
	if err != nil {
		log.Fatalf("can't create output directory: %s", err)
	}

	train, val, test, err := dataset.LoadAll(*trainPath, *valPath, *testPath)
	if err != nil {
		log.Fatalf("can't load datasets: %s", err)
	}

	if *verbose {
		log.Printf("loaded %d train, %d val, %d test messages",
			len(train.Messages), len(val.Messages), len(test.Messages))
	}

	v := vocab.Build(train.Messages)
	log.Println("vocabulary size:", v.Len())

	err = dataset.WriteJSON(filepath.Join(*outDir, "vocabulary.json"), v.Map())
	if err != nil {
		log.Fatalf("can't write vocabulary: %s", err)
	}

	trainMatrix := vocab.Vectorize(train.Messages, v)

	err = dataset.WriteMatrix(filepath.Join(*outDir, "sample_train_matrix.txt"), trainMatrix, *sampleRows)
	if err != nil {
		log.Fatalf("can't write sample matrix: %s", err)
	}

	valMatrix := vocab.Vectorize(val.Messages, v)
	testMatrix := vocab.Vectorize(test.Messages, v)

	model, err := bayes.Fit(trainMatrix, train.Labels)
	if err != nil {
		log.Fatalf("can't fit naive bayes model: %s", err)
	}

	predictions := model.Predict(testMatrix)

	err = dataset.WritePredictions(filepath.Join(*outDir, "naive_bayes_predictions.txt"), predictions)
	if err != nil {
		log.Fatalf("can't write predictions: %s", err)
	}

	log.Printf("naive bayes had an accuracy of %f on the testing set", bayes.Accuracy(predictions, test.Labels))

	top := model.TopWords(v, *topWords)
	log.Println("top indicative words for naive bayes:", top)

	err = dataset.WriteJSON(filepath.Join(*outDir, "top_indicative_words.json"), top)
	if err != nil {
		log.Fatalf("can't write indicative words: %s", err)
	}

	optimalRadius := svm.BestRadius(trainMatrix, train.Labels, valMatrix, val.Labels, radii)

	err = dataset.WriteJSON(filepath.Join(*outDir, "optimal_radius.json"), optimalRadius)
	if err != nil {
		log.Fatalf("can't write optimal radius: %s", err)
	}

	log.Printf("the optimal SVM radius was %g", optimalRadius)

	svmPredictions := svm.TrainAndPredict(trainMatrix, train.Labels, testMatrix, optimalRadius)

	log.Printf("the SVM model had an accuracy of %f on the testing set", bayes.Accuracy(svmPredictions, test.Labels))

	if *dbPath == "" {
		return
	}

	db, err := bolt.Open(*dbPath, 0600, &bolt.Options{})
	if err != nil {
		log.Fatalf("can't open model database: %s", err)
	}
	defer db.Close()

	err = modeldb.Save(db, v, model)
	if err != nil {
		log.Fatalf("can't persist model: %s", err)
	}

	if *verbose {
		log.Println("model persisted to", *dbPath)
	}
}
