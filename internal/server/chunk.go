package server

import "strings"

const (
	MAX_TOKENS    = 512
	CHUNK_SIZE    = 450
	CHUNK_OVERLAP = 50
)

// SplitIntoChunks cuts text into windows of CHUNK_SIZE words that overlap
// by CHUNK_OVERLAP words. Text of at most MAX_TOKENS words is returned whole.
func SplitIntoChunks(text string) []string {
	words := strings.Fields(text)
	if len(words) <= MAX_TOKENS {
		return []string{text}
	}

	var chunks []string
	for start := 0; start < len(words); start += CHUNK_SIZE - CHUNK_OVERLAP {
		end := min(start+CHUNK_SIZE, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func countTokens(text string) int {
	return len(strings.Fields(text))
}

func averageProbabilities(all [][]float64) []float64 {
	if len(all) == 0 {
		return nil
	}
	avg := make([]float64, len(all[0]))
	for _, probs := range all {
		for i, v := range probs {
			avg[i] += v
		}
	}
	for i := range avg {
		avg[i] /= float64(len(all))
	}
	return avg
}

func argmax(probs []float64) int {
	best := 0
	for i, v := range probs {
		if v > probs[best] {
			best = i
		}
	}
	return best
}
