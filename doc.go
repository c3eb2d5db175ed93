// Package tabml automates a supervised-classification workflow over tabular
// CSV data: it profiles a table, resolves the target column, fits a
// deterministic preprocessing pipeline, trains a classifier and evaluates it,
// and later replays the identical transformation for inference.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/tabml/automl"
//	    "github.com/YuminosukeSato/tabml/dataset"
//	)
//
//	func main() {
//	    table, err := dataset.ReadCSVFile("train.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    artifact, eval, err := automl.Train(table, automl.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("accuracy: %.3f\n", eval.Accuracy)
//
//	    if err := automl.SaveArtifact(artifact, "model.gob"); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    newData, err := dataset.ReadCSVFile("new.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    result, err := automl.Predict(newData, artifact)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = dataset.WriteCSVFile(result, "predictions.csv")
//	}
//
// # Packages
//
//   - dataset: the in-memory Table, CSV I/O and the profiler
//   - preprocessing: imputer, label encoder, scaler and the pipeline
//   - tree, ensemble, linear, svm: the pluggable classifiers
//   - metrics: classification metrics and the confusion-matrix plot
//   - automl: configuration, orchestrators and the persisted artifact
//   - core/model: estimator contracts and gob persistence helpers
//   - core/parallel: parallel processing utilities
//
// Training produces an Artifact that couples the trained model with the
// fitted transformers and the feature schema; Predict only ever consumes an
// artifact whole, so a model can never run with mismatched preprocessing.
package tabml
