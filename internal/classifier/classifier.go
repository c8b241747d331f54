package classifier

import (
	"context"
	"fmt"

	"github.com/spacesedan/emotiscope/config"
)

// Labels is the classifier output order. Index i of every probability
// slice refers to Labels[i].
var Labels = []string{"sadness", "joy", "love", "anger", "fear", "surprise"}

// Classifier scores texts against Labels. Each returned slice holds one
// probability per label and sums to 1.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, texts []string) ([][]float64, error)
	Close() error
}

// New builds the classifier selected by cfg.Classifier.
func New(cfg config.ServerConfig) (Classifier, error) {
	switch cfg.Classifier {
	case "hugot":
		return NewHugotClassifier(cfg.ModelName, cfg.ModelDir)
	case "vader":
		return NewVaderClassifier(), nil
	}
	return nil, fmt.Errorf("[Classifier] unknown classifier %q", cfg.Classifier)
}
