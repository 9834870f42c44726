package evaluation

import (
	"math"
	"strings"
	"testing"

	"github.com/ternarybob/auspex/internal/models"
)

func conformingOutput() *models.PredictionOutput {
	return &models.PredictionOutput{
		PostText:   "BTC 50k",
		TargetType: models.TargetTypePrice,
		ExtractedValue: &models.TargetPrice{
			Asset: "BTC", Price: 50000, Currency: "USD",
		},
		BearBull:  20,
		Timeframe: models.Timeframe{Explicit: false},
		Notes:     []string{"No specific timeframe mentioned"},
	}
}

func TestConformityAccepts(t *testing.T) {
	c := NewConformityChecker()

	if errs := c.Check(conformingOutput()); len(errs) != 0 {
		t.Errorf("violations = %v, want none", errs)
	}

	none := &models.PredictionOutput{
		PostText:   "nothing here",
		TargetType: models.TargetTypeNone,
		Notes:      []string{},
	}
	if errs := c.Check(none); len(errs) != 0 {
		t.Errorf("none violations = %v, want none", errs)
	}
}

func TestConformityRejects(t *testing.T) {
	c := NewConformityChecker()

	tests := []struct {
		name    string
		mutate  func(*models.PredictionOutput)
		keyword string
	}{
		{"unknown target type", func(o *models.PredictionOutput) { o.TargetType = "moonshot" }, "target_type"},
		{"nan sentiment", func(o *models.PredictionOutput) { o.BearBull = math.NaN() }, "bear_bull"},
		{"infinite sentiment", func(o *models.PredictionOutput) { o.BearBull = math.Inf(1) }, "bear_bull"},
		{"nil notes", func(o *models.PredictionOutput) { o.Notes = nil }, "notes"},
		{"missing payload", func(o *models.PredictionOutput) { o.ExtractedValue = nil }, "extracted_value"},
		{"wrong variant", func(o *models.PredictionOutput) {
			o.ExtractedValue = &models.Ranking{Asset: "BTC", Ranking: 3, Currency: "USD"}
		}, "does not match"},
		{"empty asset", func(o *models.PredictionOutput) {
			o.ExtractedValue = &models.TargetPrice{Price: 50000, Currency: "USD"}
		}, "Asset"},
		{"empty currency", func(o *models.PredictionOutput) {
			o.ExtractedValue = &models.TargetPrice{Asset: "BTC", Price: 50000}
		}, "Currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := conformingOutput()
			tt.mutate(out)
			errs := c.Check(out)
			if len(errs) == 0 {
				t.Fatal("want violations, got none")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tt.keyword) {
					found = true
				}
			}
			if !found {
				t.Errorf("violations %v do not mention %q", errs, tt.keyword)
			}
		})
	}
}

func TestConformityPayloadOnNone(t *testing.T) {
	c := NewConformityChecker()

	out := conformingOutput()
	out.TargetType = models.TargetTypeNone
	errs := c.Check(out)
	if len(errs) != 1 || !strings.Contains(errs[0], "must be null") {
		t.Errorf("violations = %v", errs)
	}
}

func TestConformityNilOutput(t *testing.T) {
	c := NewConformityChecker()
	if errs := c.Check(nil); len(errs) != 1 {
		t.Errorf("violations = %v, want single nil-output violation", errs)
	}
}
