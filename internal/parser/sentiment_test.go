package parser

import (
	"testing"

	"github.com/ternarybob/auspex/internal/models"
)

func TestSentimentKeywords(t *testing.T) {
	var s SentimentAnalyzer

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"bullish stack", "BTC bullish breakout", 60}, // bull + bullish + breakout
		{"bearish stack", "sell the bounce, bear market", -40},
		{"bullish emojis", "ETH 📈💚", 40},
		{"bearish emoji", "BTC 📉", -20},
		{"keyword stacking", "crash dump incoming", -40}, // crash + dump
		{"substring scoring", "strong support at 40k, upgrade coming", 20}, // "up" inside "upgrade" and "support"
		{"neutral", "BTC at 50000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Analyze(tt.text, models.TargetTypePrice, nil)
			if got != tt.want {
				t.Errorf("Analyze(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentimentPercentageAdjustment(t *testing.T) {
	var s SentimentAnalyzer

	// |pct| >= 30 contributes 30 toward its own sign, smaller moves 15.
	big := &models.PercentageChange{Asset: "ETH", Percentage: -40, Currency: "USD"}
	if got := s.Analyze("ETH will fall 40% next month", models.TargetTypePctChange, big); got != -50 {
		t.Errorf("big move: got %v, want -50", got)
	}

	small := &models.PercentageChange{Asset: "SOL", Percentage: 15, Currency: "USD"}
	if got := s.Analyze("SOL up 15%", models.TargetTypePctChange, small); got != 35 {
		t.Errorf("small move: got %v, want 35", got)
	}
}

func TestSentimentAdjustmentOnlyForPctChange(t *testing.T) {
	var s SentimentAnalyzer

	// The adjustment is gated on the category, not just the payload type.
	pct := &models.PercentageChange{Asset: "ETH", Percentage: 40, Currency: "USD"}
	if got := s.Analyze("ETH moving", models.TargetTypePrice, pct); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestSentimentClamp(t *testing.T) {
	var s SentimentAnalyzer

	bull := "moon rocket pump bull bullish up rise surge breakout buy 🚀🔥📈"
	if got := s.Analyze(bull, models.TargetTypeNone, nil); got != 100 {
		t.Errorf("bullish pileup: got %v, want 100", got)
	}

	bear := "crash dump bear bearish down fall drop collapse sell short 💀📉🔴"
	if got := s.Analyze(bear, models.TargetTypeNone, nil); got != -100 {
		t.Errorf("bearish pileup: got %v, want -100", got)
	}
}
