package filter

import (
	"strings"

	"github.com/hanachat/contentguard/internal/constants"
)

// emotionKeyword pairs a keyword with the intensity it contributes.
type emotionKeyword struct {
	word   string
	weight float64
}

// EmotionEstimator produces a deterministic emotion-intensity vector
// for a piece of content using a keyword-weighted heuristic. Each
// keyword occurrence adds its weight to the emotion's score; scores are
// normalized so no value exceeds 1.0.
type EmotionEstimator struct {
	keywords map[string][]emotionKeyword
}

// NewEmotionEstimator builds the estimator with the default keyword
// tables for Japanese and English dialogue.
func NewEmotionEstimator() *EmotionEstimator {
	return &EmotionEstimator{
		keywords: map[string][]emotionKeyword{
			constants.EmotionJoy: {
				{"嬉しい", 0.4}, {"楽しい", 0.4}, {"最高", 0.3}, {"わーい", 0.5},
				{"happy", 0.4}, {"wonderful", 0.3}, {"yay", 0.5},
			},
			constants.EmotionSadness: {
				{"悲しい", 0.4}, {"寂しい", 0.4}, {"泣き", 0.3}, {"つらい", 0.4},
				{"sad", 0.4}, {"lonely", 0.4}, {"crying", 0.4},
			},
			constants.EmotionAnger: {
				{"怒", 0.4}, {"腹が立つ", 0.5}, {"許せない", 0.5}, {"むかつく", 0.4},
				{"angry", 0.4}, {"furious", 0.6}, {"hate you", 0.5},
			},
			constants.EmotionFear: {
				{"怖い", 0.4}, {"恐ろしい", 0.5}, {"不安", 0.3}, {"震え", 0.3},
				{"scared", 0.4}, {"terrified", 0.6}, {"afraid", 0.4},
			},
			constants.EmotionSurprise: {
				{"びっくり", 0.4}, {"驚", 0.4}, {"まさか", 0.3},
				{"surprised", 0.4}, {"unbelievable", 0.4},
			},
			constants.EmotionRomance: {
				{"愛してる", 0.6}, {"大好きだよ", 0.5}, {"キス", 0.5}, {"抱きしめ", 0.4},
				{"love you", 0.5}, {"kiss", 0.5}, {"darling", 0.3},
			},
		},
	}
}

// Estimate returns the emotion-intensity vector for the content. The
// result is deterministic: the same content always yields the same
// vector.
func (e *EmotionEstimator) Estimate(content string) map[string]float64 {
	scores := make(map[string]float64, len(e.keywords))
	lowered := strings.ToLower(content)

	for emotion, keywords := range e.keywords {
		total := 0.0
		for _, kw := range keywords {
			count := strings.Count(lowered, strings.ToLower(kw.word))
			total += float64(count) * kw.weight
		}
		if total > 1.0 {
			total = 1.0
		}
		scores[emotion] = total
	}

	return scores
}
