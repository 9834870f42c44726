package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/auspex/internal/models"
)

// WriteTrickyCases writes the markdown report enumerating every failed
// case with its full input, expected, and actual payloads.
func (r *Report) WriteTrickyCases(path string) error {
	var b strings.Builder
	b.WriteString("# Tricky Cases\n\n")
	b.WriteString("This file documents difficult or ambiguous cases encountered during the parsing and evaluation.\n\n---\n")

	for _, tc := range r.TrickyCases {
		b.WriteString("\n## " + tc.Note + "\n\n")
		writeJSONBlock(&b, "Input", tc.Input)
		writeJSONBlock(&b, "Expected", tc.Expected)
		if tc.Actual != nil {
			writeJSONBlock(&b, "Actual", *tc.Actual)
		}
		b.WriteString("---\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write tricky cases report: %w", err)
	}
	return nil
}

func writeJSONBlock(b *strings.Builder, label string, payload interface{}) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", payload))
	}
	b.WriteString("**" + label + ":**\n```json\n")
	b.Write(data)
	b.WriteString("\n```\n\n")
}

// Summary renders the human-readable results block printed after a run.
func (r *Report) Summary() string {
	var b strings.Builder

	b.WriteString("=== Evaluation Results ===\n")
	fmt.Fprintf(&b, "Macro Accuracy (per type): %.2f%%\n", r.MacroAccuracy*100)
	fmt.Fprintf(&b, "Overall Accuracy: %.2f%%\n", r.OverallAccuracy*100)
	fmt.Fprintf(&b, "Timeframe Accuracy: %.2f%%\n", r.TimeframeAccuracy()*100)
	fmt.Fprintf(&b, "Average Sentiment Error: %.2f\n", r.MeanSentimentError)
	if r.Spearman != nil {
		fmt.Fprintf(&b, "Spearman correlation (sentiment): %.3f\n", *r.Spearman)
	} else {
		b.WriteString("Spearman correlation (sentiment): N/A\n")
	}

	if r.NumericExactTotal > 0 {
		fmt.Fprintf(&b, "Numeric extraction exact-match rate: %.2f%% (%d/%d cases)\n",
			r.NumericExactRate()*100, r.NumericExactCorrect, r.NumericExactTotal)
	} else {
		b.WriteString("No numeric extraction cases to evaluate.\n")
	}

	b.WriteString("\nConfusion Matrix (rows expected, columns predicted):\n")
	fmt.Fprintf(&b, "%-14s", "")
	for _, predicted := range models.TargetTypes {
		fmt.Fprintf(&b, "%-14s", predicted)
	}
	b.WriteString("\n")
	for _, expected := range models.TargetTypes {
		fmt.Fprintf(&b, "%-14s", expected)
		for _, predicted := range models.TargetTypes {
			fmt.Fprintf(&b, "%-14d", r.Confusion[expected][predicted])
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPer-Type Accuracy:\n")
	for _, t := range models.TargetTypes {
		acc := r.PerType[t]
		rate := 0.0
		if acc.Total > 0 {
			rate = float64(acc.Correct) / float64(acc.Total) * 100
		}
		fmt.Fprintf(&b, "%s: %.2f%% (%d/%d)\n", t, rate, acc.Correct, acc.Total)
	}

	b.WriteString("\n=== Cost/Failure Report ===\n")
	fmt.Fprintf(&b, "p50 (median): %.2fms\n", r.P50Millis)
	fmt.Fprintf(&b, "p95: %.2fms\n", r.P95Millis)
	fmt.Fprintf(&b, "Mean time batch=1: %.2fms\n", r.MeanBatch1Millis)
	fmt.Fprintf(&b, "Mean time batch=16: %.2fms\n", r.MeanBatch16Millis)
	failRate := 0.0
	if r.TotalCases > 0 {
		failRate = float64(r.FailCount) / float64(r.TotalCases) * 100
	}
	fmt.Fprintf(&b, "Total conformity/execution failures: %d (%.2f%%)\n", r.FailCount, failRate)

	return b.String()
}
