package classifier

import (
	"context"

	"github.com/spacesedan/emotiscope/internal/sentiment"
)

// VaderClassifier maps VADER polarity onto the emotion labels. It needs no
// model files and is meant for local development.
type VaderClassifier struct{}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{}
}

func (v *VaderClassifier) Name() string {
	return "vader"
}

func (v *VaderClassifier) Classify(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, sentiment.AnalyzeWithVADER(text).EmotionProbabilities())
	}
	return out, nil
}

func (v *VaderClassifier) Close() error {
	return nil
}
