package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/interfaces"
	"github.com/ternarybob/auspex/internal/models"
)

type stubService struct {
	response string
	err      error
}

func (s *stubService) Chat(_ context.Context, _ []interfaces.Message) (string, error) {
	return s.response, s.err
}
func (s *stubService) HealthCheck(_ context.Context) error { return nil }
func (s *stubService) Close() error                        { return nil }

const modelResponse = `{
  "post_text": "echoed by model",
  "target_type": "target_price",
  "extracted_value": {"asset": "BTC", "price": 80000, "currency": "USD"},
  "bear_bull": 45,
  "timeframe": {"explicit": true, "start": "2024-01-15T12:00:00Z", "end": "2024-12-31T23:59:59Z"},
  "notes": ["Clear price target"]
}`

func testInput() models.PostInput {
	return models.PostInput{
		PostText:      "BTC will hit $80,000 by end of year",
		PostCreatedAt: "2024-01-15T12:00:00Z",
	}
}

func TestLLMParserDecodesResponse(t *testing.T) {
	p := NewParser(&stubService{response: modelResponse}, common.GetLogger())

	out, err := p.ParsePrediction(context.Background(), testInput())
	if err != nil {
		t.Fatalf("ParsePrediction: %v", err)
	}

	// The model echo never wins over the original input text.
	if out.PostText != "BTC will hit $80,000 by end of year" {
		t.Errorf("PostText = %q", out.PostText)
	}
	if out.TargetType != models.TargetTypePrice {
		t.Errorf("TargetType = %q", out.TargetType)
	}
	tp, ok := out.ExtractedValue.(*models.TargetPrice)
	if !ok || tp.Price != 80000 || tp.Asset != "BTC" {
		t.Errorf("ExtractedValue = %#v", out.ExtractedValue)
	}
	if out.BearBull != 45 {
		t.Errorf("BearBull = %v", out.BearBull)
	}
	if !out.Timeframe.Explicit {
		t.Error("Timeframe.Explicit = false")
	}
}

func TestLLMParserStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + modelResponse + "\n```"
	p := NewParser(&stubService{response: fenced}, common.GetLogger())

	out, err := p.ParsePrediction(context.Background(), testInput())
	if err != nil {
		t.Fatalf("ParsePrediction: %v", err)
	}
	if out.TargetType != models.TargetTypePrice {
		t.Errorf("TargetType = %q, want target_price", out.TargetType)
	}
}

func TestLLMParserDegradesOnProviderError(t *testing.T) {
	p := NewParser(&stubService{err: fmt.Errorf("connection refused")}, common.GetLogger())

	out, err := p.ParsePrediction(context.Background(), testInput())
	if err != nil {
		t.Fatalf("degraded path must not error: %v", err)
	}
	if out.TargetType != models.TargetTypeNone || out.ExtractedValue != nil || out.BearBull != 0 {
		t.Errorf("degraded output = %+v", out)
	}
	if out.PostText != testInput().PostText {
		t.Errorf("PostText = %q", out.PostText)
	}
	if len(out.Notes) != 1 || !strings.Contains(out.Notes[0], "LLM parsing failed") {
		t.Errorf("Notes = %v", out.Notes)
	}
}

func TestLLMParserDegradesOnBadJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "the model rambled instead"},
		{"payload on none", `{"post_text": "x", "target_type": "none", "extracted_value": {"asset": "BTC"}, "bear_bull": 0, "timeframe": {"explicit": false, "start": null, "end": null}, "notes": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(&stubService{response: tt.response}, common.GetLogger())
			out, err := p.ParsePrediction(context.Background(), testInput())
			if err != nil {
				t.Fatalf("degraded path must not error: %v", err)
			}
			if out.TargetType != models.TargetTypeNone || out.ExtractedValue != nil {
				t.Errorf("degraded output = %+v", out)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{}", "{}"},
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"  {}  ", "{}"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
