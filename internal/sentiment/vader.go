package sentiment

import (
	"github.com/jonreiter/govader"
)

// Compound scores at or above this split positive mass between joy and love.
const LOVE_COMPOUND_THRESHOLD = 0.6

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Polarity is the VADER breakdown of a text.
type Polarity struct {
	Negative float64
	Neutral  float64
	Positive float64
	Compound float64
}

func AnalyzeWithVADER(text string) Polarity {
	s := analyzer.PolarityScores(ConvertMarkdownToText(text))
	return Polarity{
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Positive: s.Positive,
		Compound: s.Compound,
	}
}

// EmotionProbabilities spreads a polarity over the six classifier labels
// (sadness, joy, love, anger, fear, surprise). Neutral mass is shared evenly,
// so flat text never produces a strong label.
func (p Polarity) EmotionProbabilities() []float64 {
	total := p.Negative + p.Neutral + p.Positive
	if total == 0 {
		return []float64{1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6, 1.0 / 6}
	}
	neg, neu, pos := p.Negative/total, p.Neutral/total, p.Positive/total

	joy, love := pos, 0.0
	if p.Compound >= LOVE_COMPOUND_THRESHOLD {
		joy, love = pos*0.7, pos*0.3
	}

	sadness, anger := neg*0.6, neg*0.4
	if p.Compound <= -LOVE_COMPOUND_THRESHOLD {
		sadness, anger = neg*0.4, neg*0.6
	}

	share := neu / 6
	return []float64{
		sadness + share,
		joy + share,
		love + share,
		anger + share,
		share,
		share,
	}
}
