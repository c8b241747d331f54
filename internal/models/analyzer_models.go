package models

type AnalyzeOptions struct {
	Translate      bool `json:"translate"`
	Normalize      bool `json:"normalize"`
	HandleLongText bool `json:"handleLongText"`
}

// DefaultAnalyzeOptions is the fixed capability set the client always asks for.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		Translate:      true,
		Normalize:      true,
		HandleLongText: true,
	}
}

type AnalyzeRequest struct {
	Text    string         `json:"text"`
	Options AnalyzeOptions `json:"options"`
}

// AnalyzeResponse is the /analyze payload. Scores is a map so the client
// can tell a missing object apart from an all-zero one.
type AnalyzeResponse struct {
	Emotion      string             `json:"emotion"`
	Confidence   float64            `json:"confidence"`
	Scores       map[string]float64 `json:"scores"`
	TokenCount   int                `json:"token_count,omitempty"`
	ChunkResults []ChunkResult      `json:"chunk_results"`
	Method       string             `json:"method,omitempty"`
}

type ChunkResult struct {
	ChunkIndex     int       `json:"chunk_index"`
	TokenCount     int       `json:"token_count"`
	PredictedClass int       `json:"predicted_class"`
	Probabilities  []float64 `json:"probabilities"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Classifier string `json:"classifier"`
}
