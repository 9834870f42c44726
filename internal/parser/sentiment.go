package parser

import (
	"math"
	"strings"

	"github.com/ternarybob/auspex/internal/models"
)

// Keyword hits are substring matches against the lower-cased text, so
// "bullish" also scores its embedded "bull". Legacy behavior, kept.
var bullishKeywords = []string{
	"moon", "rocket", "pump", "bull", "bullish", "up", "rise", "surge",
	"breakout", "ath", "all-time high", "lambo", "diamond hands", "hodl",
	"buy", "accumulate",
}

var bearishKeywords = []string{
	"crash", "dump", "bear", "bearish", "down", "fall", "drop", "collapse",
	"bottom", "capitulation", "sell", "short", "dead cat bounce",
}

var bullishEmojis = []string{"🚀", "🌙", "💎", "📈", "💚", "🟢", "⬆️", "🔥"}

var bearishEmojis = []string{"📉", "💀", "🔴", "⬇️", "🩸", "💔", "😱"}

const keywordWeight = 20

// SentimentAnalyzer computes the bounded bear/bull score for a post.
type SentimentAnalyzer struct{}

// Analyze scores 20 points per matched keyword and per distinct emoji
// present, bullish positive and bearish negative, then applies the
// percentage-change adjustment and clamps to [-100, 100].
func (SentimentAnalyzer) Analyze(text string, targetType models.TargetType, value models.ExtractedValue) float64 {
	sentiment := 0.0
	lower := strings.ToLower(text)

	for _, word := range bullishKeywords {
		if strings.Contains(lower, word) {
			sentiment += keywordWeight
		}
	}
	for _, word := range bearishKeywords {
		if strings.Contains(lower, word) {
			sentiment -= keywordWeight
		}
	}

	for _, emoji := range bullishEmojis {
		if strings.Contains(text, emoji) {
			sentiment += keywordWeight
		}
	}
	for _, emoji := range bearishEmojis {
		if strings.Contains(text, emoji) {
			sentiment -= keywordWeight
		}
	}

	if targetType == models.TargetTypePctChange {
		if pct, ok := value.(*models.PercentageChange); ok {
			if math.Abs(pct.Percentage) >= 30 {
				sentiment += sign(pct.Percentage) * 30
			} else {
				sentiment += sign(pct.Percentage) * 15
			}
		}
	}

	return math.Max(-100, math.Min(100, math.Round(sentiment)))
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
