package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spacesedan/emotiscope/internal/emotion"
	"github.com/spacesedan/emotiscope/internal/models"
)

const (
	BAR_WIDTH        = 30
	HISTORY_PREVIEW  = 60
	UNKNOWN_EMOJI    = "❓"
	PERCENT_TEMPLATE = "%d%%"
)

var emojis = map[models.Emotion]string{
	models.EmotionSadness:  "😢",
	models.EmotionJoy:      "😊",
	models.EmotionLove:     "❤️",
	models.EmotionAnger:    "😠",
	models.EmotionFear:     "😨",
	models.EmotionSurprise: "😲",
	models.EmotionNeutral:  "😐",
}

var labels = map[models.Emotion]string{
	models.EmotionSadness:  "Sadness",
	models.EmotionJoy:      "Joy",
	models.EmotionLove:     "Love",
	models.EmotionAnger:    "Anger",
	models.EmotionFear:     "Fear",
	models.EmotionSurprise: "Surprise",
	models.EmotionNeutral:  "Neutral",
}

var colors = map[models.Emotion]string{
	models.EmotionSadness:  "#8be9fd",
	models.EmotionJoy:      "#50fa7b",
	models.EmotionLove:     "#ff79c6",
	models.EmotionAnger:    "#ff5555",
	models.EmotionFear:     "#bd93f9",
	models.EmotionSurprise: "#ffb86c",
	models.EmotionNeutral:  "#f8f8f2",
}

func Emoji(e models.Emotion) string {
	if s, ok := emojis[e]; ok {
		return s
	}
	return UNKNOWN_EMOJI
}

func Label(e models.Emotion) string {
	if s, ok := labels[e]; ok {
		return s
	}
	return string(e)
}

// ChartSlice is one segment of the score chart.
type ChartSlice struct {
	Label string
	Value float64
	Color string
}

// ChartSlices returns one slice per emotion in canonical order.
func ChartSlices(scores models.EmotionScores) []ChartSlice {
	slices := make([]ChartSlice, 0, len(models.Emotions))
	for _, e := range models.Emotions {
		slices = append(slices, ChartSlice{
			Label: Label(e),
			Value: scores.Get(e),
			Color: colors[e],
		})
	}
	return slices
}

// AverageScores is the per-emotion mean across items. An empty history
// averages to all zeros.
func AverageScores(items []models.HistoryItem) models.EmotionScores {
	var sum models.EmotionScores
	for _, item := range items {
		for _, e := range models.Emotions {
			sum.Set(e, sum.Get(e)+item.Scores.Get(e))
		}
	}

	n := float64(max(len(items), 1))
	var avg models.EmotionScores
	for _, e := range models.Emotions {
		avg.Set(e, sum.Get(e)/n)
	}
	return avg
}

// Result writes the headline emotion and the full breakdown for one analysis.
func Result(w io.Writer, text string, result models.AnalysisResult) error {
	return writeResult(w, text, result.Emotion, emotion.ResultConfidence(result), result.Scores)
}

// Item writes the detail view of a stored entry.
func Item(w io.Writer, item models.HistoryItem) error {
	if _, err := fmt.Fprintf(w, "[%s]\n", item.Timestamp); err != nil {
		return err
	}
	return writeResult(w, item.Text, item.Emotion, emotion.ItemConfidence(item), item.Scores)
}

func writeResult(w io.Writer, text string, e models.Emotion, confidence float64, scores models.EmotionScores) error {
	if _, err := fmt.Fprintf(w, "%s  %s  (%s)\n", Emoji(e), Label(e), percent(confidence)); err != nil {
		return err
	}
	if text != "" {
		if _, err := fmt.Fprintf(w, "   %q\n", text); err != nil {
			return err
		}
	}
	return writeBars(w, scores)
}

// History writes one line per entry, newest first, numbered for the detail view.
func History(w io.Writer, items []models.HistoryItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No analyses yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, item := range items {
		fmt.Fprintf(tw, "%d\t[%s]\t%s\t%s\n", i+1, item.Timestamp, Emoji(item.Emotion), preview(item.Text))
	}
	return tw.Flush()
}

// Stats writes the average score of every emotion across items.
func Stats(w io.Writer, items []models.HistoryItem) error {
	if _, err := fmt.Fprintf(w, "Average over %d analyses\n", len(items)); err != nil {
		return err
	}
	return writeBars(w, AverageScores(items))
}

func writeBars(w io.Writer, scores models.EmotionScores) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, slice := range ChartSlices(scores) {
		fmt.Fprintf(tw, "   %s\t%s\t%s\n", slice.Label, bar(slice.Value), percent(slice.Value))
	}
	return tw.Flush()
}

func bar(value float64) string {
	filled := emotion.RoundPercent(value * BAR_WIDTH / 100)
	filled = min(max(filled, 0), BAR_WIDTH)
	return strings.Repeat("█", filled) + strings.Repeat("░", BAR_WIDTH-filled)
}

func percent(v float64) string {
	return fmt.Sprintf(PERCENT_TEMPLATE, emotion.RoundPercent(v))
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= HISTORY_PREVIEW {
		return text
	}
	runes := []rune(text)
	return string(runes[:HISTORY_PREVIEW-1]) + "…"
}
