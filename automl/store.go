package automl

import (
	"encoding/gob"
	"os"

	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/ensemble"
	"github.com/YuminosukeSato/tabml/linear"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"github.com/YuminosukeSato/tabml/svm"
	"github.com/YuminosukeSato/tabml/tree"
)

// The classifier lives behind an interface and hyperparameter maps carry
// interface{} values, so every concrete type crossing gob must be registered.
func init() {
	gob.Register(&ensemble.RandomForestClassifier{})
	gob.Register(&ensemble.GradientBoostingClassifier{})
	gob.Register(&linear.LogisticRegression{})
	gob.Register(&svm.LinearSVC{})
	gob.Register(&tree.DecisionTreeClassifier{})

	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(0.0)
	gob.Register(false)
	gob.Register("")
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
}

// SaveArtifact writes the artifact to path as a single gob blob.
func SaveArtifact(a *Artifact, path string) error {
	if err := a.validate("SaveArtifact"); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewArtifactError("save", "cannot create "+path, err)
	}
	defer f.Close()

	if err := model.SaveModelToWriter(a, f); err != nil {
		return errors.NewArtifactError("save", "encode failed", err)
	}
	log.GetLoggerWithName("automl").Info("artifact saved",
		log.ArtifactPathKey, path,
		log.ModelNameKey, a.ModelType,
	)
	return nil
}

// LoadArtifact reads an artifact back from path. A decodable blob that lacks
// any required field is rejected; partial artifacts are never returned.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewArtifactError("load", "cannot open "+path, err)
	}
	defer f.Close()

	var a Artifact
	if err := model.LoadModelFromReader(&a, f); err != nil {
		return nil, errors.NewArtifactError("load", "decode failed", err)
	}
	if err := a.validate("LoadArtifact"); err != nil {
		return nil, err
	}
	return &a, nil
}

// validate checks the fields an artifact can never be used without.
func (a *Artifact) validate(op string) error {
	switch {
	case a.Model == nil:
		return errors.NewArtifactError(op, "missing model", nil)
	case a.Pipeline == nil:
		return errors.NewArtifactError(op, "missing preprocessing pipeline", nil)
	case len(a.FeatureColumns) == 0:
		return errors.NewArtifactError(op, "missing feature columns", nil)
	case a.TargetColumn == "":
		return errors.NewArtifactError(op, "missing target column", nil)
	case a.Metadata == nil:
		return errors.NewArtifactError(op, "missing metadata", nil)
	case a.Config.ModelType == "":
		return errors.NewArtifactError(op, "missing configuration", nil)
	}
	return nil
}
