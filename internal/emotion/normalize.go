package emotion

import (
	"math"

	"github.com/spacesedan/emotiscope/internal/models"
)

// WEAK_SIGNAL_THRESHOLD is the score every label must stay under for a
// result to be reported as neutral.
const WEAK_SIGNAL_THRESHOLD = 30

// Normalize turns a result whose strongest score is below
// WEAK_SIGNAL_THRESHOLD into a neutral one with confidence 100 - max.
// Anything else passes through unchanged.
func Normalize(raw models.AnalysisResult) models.AnalysisResult {
	maxScore := raw.Scores.Max()
	if maxScore >= WEAK_SIGNAL_THRESHOLD {
		return raw
	}

	out := raw
	out.Emotion = models.EmotionNeutral
	out.Confidence = 100 - maxScore
	out.Scores.Neutral = 100 - maxScore
	return out
}

// ResolveConfidence picks the confidence to display. Neutral results always
// report their neutral score; other results use the stored confidence and
// fall back to the top score for entries saved without one.
func ResolveConfidence(e models.Emotion, confidence *float64, scores models.EmotionScores) float64 {
	if e == models.EmotionNeutral {
		return scores.Neutral
	}
	if confidence == nil || *confidence == 0 {
		return scores.Max()
	}
	return *confidence
}

func ResultConfidence(r models.AnalysisResult) float64 {
	return ResolveConfidence(r.Emotion, &r.Confidence, r.Scores)
}

func ItemConfidence(h models.HistoryItem) float64 {
	return ResolveConfidence(h.Emotion, h.Confidence, h.Scores)
}

// RoundPercent rounds half up to a whole percent.
func RoundPercent(v float64) int {
	return int(math.Floor(v + 0.5))
}
