package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const DEFAULT_MODEL_NAME = "bhadresh-savani/distilbert-base-uncased-emotion"

// HugotClassifier runs an ONNX text-classification model in process.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	model    string

	mu sync.Mutex
}

func NewHugotClassifier(modelName, modelDir string) (*HugotClassifier, error) {
	if modelName == "" {
		modelName = DEFAULT_MODEL_NAME
	}

	modelPath, err := ensureModel(modelName, modelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotClassifier] Failed to initialize Hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "emotionClassificationPipeline",
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
			pipelines.WithMultiLabel(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[HugotClassifier] Failed to initialize pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline ready",
		slog.String("model", modelName),
		slog.String("path", modelPath))
	return &HugotClassifier{session: session, pipeline: pipeline, model: modelName}, nil
}

// ensureModel downloads modelName into modelDir unless it is already there.
func ensureModel(modelName, modelDir string) (string, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("[HugotClassifier] Failed to create model directory: %w", err)
	}

	localPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(localPath); err == nil {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", localPath))
		return localPath, nil
	}

	slog.Info("[HugotClassifier] Model not found, downloading...", slog.String("model", modelName))
	modelPath, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("[HugotClassifier] Failed to download model %s: %w", modelName, err)
	}
	slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", modelPath))
	return modelPath, nil
}

func (h *HugotClassifier) Name() string {
	return "hugot:" + h.model
}

func (h *HugotClassifier) Classify(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline(texts)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("[HugotClassifier] Classification failed: %w", err)
	}

	results := make([][]float64, 0, len(output.ClassificationOutputs))
	for _, outputs := range output.ClassificationOutputs {
		probs := make([]float64, len(Labels))
		for _, o := range outputs {
			if i := labelIndex(o.Label); i >= 0 {
				probs[i] = float64(o.Score)
			}
		}
		results = append(results, probs)
	}
	return results, nil
}

func (h *HugotClassifier) Close() error {
	return h.session.Destroy()
}

// labelIndex resolves a model label, accepting both named labels and the
// LABEL_n form exported models sometimes carry.
func labelIndex(label string) int {
	label = strings.ToLower(label)
	for i, l := range Labels {
		if l == label || label == fmt.Sprintf("label_%d", i) {
			return i
		}
	}
	return -1
}
