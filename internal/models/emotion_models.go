package models

type Emotion string

const (
	EmotionSadness  Emotion = "sadness"
	EmotionJoy      Emotion = "joy"
	EmotionLove     Emotion = "love"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionNeutral  Emotion = "neutral"
)

// Emotions lists every label in display order.
var Emotions = []Emotion{
	EmotionSadness,
	EmotionJoy,
	EmotionLove,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionNeutral,
}

// IsValid reports whether e is one of the seven known labels.
func (e Emotion) IsValid() bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

// EmotionScores holds a 0-100 score per label. Every field is always
// serialized so consumers can rely on all seven keys being present.
type EmotionScores struct {
	Sadness  float64 `json:"sadness"`
	Joy      float64 `json:"joy"`
	Love     float64 `json:"love"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Surprise float64 `json:"surprise"`
	Neutral  float64 `json:"neutral"`
}

// Get returns the score for e, zero for unknown labels.
func (s EmotionScores) Get(e Emotion) float64 {
	switch e {
	case EmotionSadness:
		return s.Sadness
	case EmotionJoy:
		return s.Joy
	case EmotionLove:
		return s.Love
	case EmotionAnger:
		return s.Anger
	case EmotionFear:
		return s.Fear
	case EmotionSurprise:
		return s.Surprise
	case EmotionNeutral:
		return s.Neutral
	}
	return 0
}

// Set stores v under e. Unknown labels are ignored.
func (s *EmotionScores) Set(e Emotion, v float64) {
	switch e {
	case EmotionSadness:
		s.Sadness = v
	case EmotionJoy:
		s.Joy = v
	case EmotionLove:
		s.Love = v
	case EmotionAnger:
		s.Anger = v
	case EmotionFear:
		s.Fear = v
	case EmotionSurprise:
		s.Surprise = v
	case EmotionNeutral:
		s.Neutral = v
	}
}

func (s EmotionScores) Max() float64 {
	max := s.Sadness
	for _, e := range Emotions[1:] {
		if v := s.Get(e); v > max {
			max = v
		}
	}
	return max
}

// Top returns the label with the highest score; ties go to the label that
// comes first in Emotions.
func (s EmotionScores) Top() Emotion {
	top := Emotions[0]
	for _, e := range Emotions[1:] {
		if s.Get(e) > s.Get(top) {
			top = e
		}
	}
	return top
}

func (s EmotionScores) AllZero() bool {
	for _, e := range Emotions {
		if s.Get(e) != 0 {
			return false
		}
	}
	return true
}

// ScoresFromMap builds EmotionScores from a label map, treating missing
// labels as zero and dropping labels it does not know.
func ScoresFromMap(m map[string]float64) EmotionScores {
	var s EmotionScores
	for label, v := range m {
		s.Set(Emotion(label), v)
	}
	return s
}

type AnalysisResult struct {
	Emotion    Emotion       `json:"emotion"`
	Confidence float64       `json:"confidence"`
	Scores     EmotionScores `json:"scores"`
}

// HistoryItem is one persisted analysis. Confidence is a pointer because
// entries written by older clients did not carry it.
type HistoryItem struct {
	Timestamp  string        `json:"timestamp"`
	Text       string        `json:"text"`
	Emotion    Emotion       `json:"emotion"`
	Scores     EmotionScores `json:"scores"`
	Confidence *float64      `json:"confidence,omitempty"`
}

// Result returns the analysis embedded in the item. A missing confidence
// is reported as zero; use emotion.ResolveConfidence for display.
func (h HistoryItem) Result() AnalysisResult {
	r := AnalysisResult{Emotion: h.Emotion, Scores: h.Scores}
	if h.Confidence != nil {
		r.Confidence = *h.Confidence
	}
	return r
}
