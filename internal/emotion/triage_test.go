package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/emotiscope/internal/models"
)

func TestTriageFiltersLowInformationInput(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"whitespace":         "   \t\n ",
		"two chars":          "hi",
		"two chars padded":   "   ok   ",
		"two runes":          "😊😊",
		"digits":             "1234567",
		"digits padded":      "  2024  ",
		"repeated letters":   "aaaaa love you",
		"repeated in middle": "so goooooood",
		"repeated spaces":    "wow     nice",
		"repeated emoji":     "yay 😊😊😊😊😊",
		"all specials":       "!!!@@@###$$$",
		"mostly specials":    "ab!!?",
	}

	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			got, skipped := Triage(text)
			require.True(t, skipped, "expected %q to be filtered", text)
			assert.Equal(t, NeutralResult(), got)
		})
	}
}

func TestTriagePassesMeaningfulInput(t *testing.T) {
	cases := []string{
		"I am so happy today!!!",
		"abc",
		"12 345",
		"room 101 was scary",
		"ab!!",
		"aaaa is only four",
		"line\n\n\n\n\nbreaks",
		"héllo wörld, ça va?",
	}

	for _, text := range cases {
		got, skipped := Triage(text)
		assert.False(t, skipped, "expected %q to pass triage", text)
		assert.Equal(t, models.AnalysisResult{}, got)
	}
}

func TestTriageIsDeterministic(t *testing.T) {
	for _, text := range []string{"aaaaa love you", "I miss you", "!!!@@@"} {
		first, firstSkipped := Triage(text)
		second, secondSkipped := Triage(text)
		assert.Equal(t, firstSkipped, secondSkipped)
		assert.Equal(t, first, second)
	}
}

func TestNeutralResultShape(t *testing.T) {
	r := NeutralResult()
	assert.Equal(t, models.EmotionNeutral, r.Emotion)
	assert.Equal(t, 100.0, r.Confidence)
	for _, e := range models.Emotions {
		if e == models.EmotionNeutral {
			assert.Equal(t, 100.0, r.Scores.Get(e))
			continue
		}
		assert.Zero(t, r.Scores.Get(e), "score for %s", e)
	}
}

func TestSpecialFraction(t *testing.T) {
	assert.Zero(t, specialFraction(""))
	assert.Equal(t, 0.5, specialFraction("ab!!"))
	assert.InDelta(t, 0.6, specialFraction("ab!!!"), 1e-9)
	assert.Equal(t, 1.0, specialFraction("@#"))
}

func TestTriageCountsAstralCharactersOnce(t *testing.T) {
	// 2 of 5 code points are special. Counted in UTF-16 units it would be 4 of 7.
	assert.InDelta(t, 0.4, specialFraction("ab 😀😀"), 1e-9)

	_, skip := Triage("ab 😀😀")
	assert.False(t, skip)

	_, skip = Triage("a😀😀")
	assert.True(t, skip)
}
