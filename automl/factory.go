package automl

import (
	"github.com/YuminosukeSato/tabml/core/model"
	"github.com/YuminosukeSato/tabml/ensemble"
	"github.com/YuminosukeSato/tabml/linear"
	"github.com/YuminosukeSato/tabml/pkg/errors"
	"github.com/YuminosukeSato/tabml/pkg/log"
	"github.com/YuminosukeSato/tabml/svm"
)

// registry maps model type names to seeded constructors. Models without an
// intrinsic random element ignore the seed.
var registry = map[string]func(seed int64) model.Classifier{
	ModelRandomForest: func(seed int64) model.Classifier {
		f := ensemble.NewRandomForestClassifier()
		f.Seed = seed
		return f
	},
	ModelGradientBoosting: func(int64) model.Classifier {
		return ensemble.NewGradientBoostingClassifier()
	},
	ModelLogisticRegression: func(int64) model.Classifier {
		return linear.NewLogisticRegression()
	},
	ModelSVM: func(seed int64) model.Classifier {
		s := svm.NewLinearSVC()
		s.Seed = seed
		return s
	},
}

// BuildModel constructs an untrained classifier for the model type. Unknown
// names never fail: they warn and fall back to the random forest, and the
// resolved name is returned so the caller can pick matching hyperparameters.
// Invalid hyperparameter values do fail.
func BuildModel(modelType string, params map[string]interface{}, seed int64) (model.Classifier, string, error) {
	resolved := modelType
	constructor, ok := registry[modelType]
	if !ok {
		errors.Warn(errors.NewFallbackWarning("model_type", modelType, ModelRandomForest))
		log.GetLoggerWithName("automl").Warn("unknown model type, using random forest",
			log.ModelNameKey, modelType,
		)
		resolved = ModelRandomForest
		constructor = registry[ModelRandomForest]
	}

	clf := constructor(seed)
	if len(params) > 0 {
		setter, ok := clf.(model.ParameterSetter)
		if !ok {
			return nil, "", errors.NewValueError("BuildModel",
				"model '"+resolved+"' does not accept hyperparameters")
		}
		if err := setter.SetParams(params); err != nil {
			return nil, "", err
		}
	}
	return clf, resolved, nil
}
