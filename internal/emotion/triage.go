package emotion

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spacesedan/emotiscope/internal/models"
)

const (
	MIN_TEXT_LENGTH      = 3
	MAX_REPEATED_RUN     = 5
	MAX_SPECIAL_FRACTION = 0.5
)

// NeutralResult is the canned answer for input that carries no usable signal.
func NeutralResult() models.AnalysisResult {
	return models.AnalysisResult{
		Emotion:    models.EmotionNeutral,
		Confidence: 100,
		Scores:     models.EmotionScores{Neutral: 100},
	}
}

// Triage decides whether text is worth sending to the analyzer. When it is
// not, it returns the canned neutral result and true.
func Triage(text string) (models.AnalysisResult, bool) {
	trimmed := strings.TrimSpace(text)

	// Lengths below are in code points.
	switch {
	case utf8.RuneCountInString(trimmed) < MIN_TEXT_LENGTH:
		return NeutralResult(), true
	case isDigitsOnly(trimmed):
		return NeutralResult(), true
	case hasRepeatedRun(text, MAX_REPEATED_RUN):
		return NeutralResult(), true
	case specialFraction(text) > MAX_SPECIAL_FRACTION:
		return NeutralResult(), true
	}

	return models.AnalysisResult{}, false
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hasRepeatedRun reports whether any character occurs n or more times in a
// row. Line terminators never count as a repeated character.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if isLineTerminator(r) {
			run = 0
			continue
		}
		if run > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

// specialFraction is the share of characters that are not ASCII letters,
// ASCII digits or whitespace. Characters are code points, so an emoji
// outside the BMP counts once.
func specialFraction(s string) float64 {
	total, special := 0, 0
	for _, r := range s {
		total++
		if !isPlainRune(r) {
			special++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(special) / float64(total)
}

func isPlainRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return unicode.IsSpace(r)
}
