package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ternarybob/auspex/internal/models"
)

const jsonCases = `[
  {
    "input": {"post_text": "BTC 50k", "post_created_at": "2024-01-15T12:00:00Z"},
    "expected": {
      "post_text": "BTC 50k",
      "target_type": "target_price",
      "extracted_value": {"asset": "BTC", "price": 50000, "currency": "USD", "price_original": "50k"},
      "bear_bull": 0,
      "timeframe": {"explicit": false, "start": null, "end": null},
      "notes": ["No specific timeframe mentioned"]
    }
  }
]`

const yamlCases = `- input:
    post_text: BTC 50k
    post_created_at: "2024-01-15T12:00:00Z"
  expected:
    post_text: BTC 50k
    target_type: target_price
    extracted_value:
      asset: BTC
      price: 50000
      currency: USD
      price_original: 50k
    bear_bull: 0
    timeframe:
      explicit: false
      start: null
      end: null
    notes:
      - No specific timeframe mentioned
`

func writeCasesFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write cases file: %v", err)
	}
	return path
}

func assertLoadedCase(t *testing.T, cases []TestCase) {
	t.Helper()
	if len(cases) != 1 {
		t.Fatalf("got %d cases, want 1", len(cases))
	}
	tc := cases[0]
	if tc.Input.PostText != "BTC 50k" {
		t.Errorf("PostText = %q", tc.Input.PostText)
	}
	if tc.Expected.TargetType != models.TargetTypePrice {
		t.Errorf("TargetType = %q", tc.Expected.TargetType)
	}
	tp, ok := tc.Expected.ExtractedValue.(*models.TargetPrice)
	if !ok {
		t.Fatalf("ExtractedValue = %T, want *TargetPrice", tc.Expected.ExtractedValue)
	}
	if tp.Price != 50000 || tp.Currency != "USD" || tp.PriceOriginal != "50k" {
		t.Errorf("payload = %+v", tp)
	}
	if tc.Expected.Timeframe.Explicit || tc.Expected.Timeframe.Start != nil {
		t.Errorf("timeframe = %+v", tc.Expected.Timeframe)
	}
}

func TestLoadCasesJSON(t *testing.T) {
	path := writeCasesFile(t, "cases.json", jsonCases)
	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	assertLoadedCase(t, cases)
}

func TestLoadCasesYAML(t *testing.T) {
	path := writeCasesFile(t, "cases.yaml", yamlCases)
	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	assertLoadedCase(t, cases)
}

func TestLoadCasesRejects(t *testing.T) {
	if _, err := LoadCases(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file: want error")
	}

	path := writeCasesFile(t, "cases.txt", "not cases")
	if _, err := LoadCases(path); err == nil {
		t.Error("unknown extension: want error")
	}

	path = writeCasesFile(t, "empty.json", "[]")
	if _, err := LoadCases(path); err == nil {
		t.Error("empty list: want error")
	}

	path = writeCasesFile(t, "bad.json", `[{"expected": {"target_type": "none", "extracted_value": {"asset": "BTC"}}}]`)
	if _, err := LoadCases(path); err == nil {
		t.Error("payload on none type: want error")
	}
}
