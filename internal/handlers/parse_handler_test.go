package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/models"
	"github.com/ternarybob/auspex/internal/parser"
)

func newTestHandler() *ParseHandler {
	return NewParseHandler(parser.New(), common.GetLogger())
}

func TestParsePredictionHandler(t *testing.T) {
	h := newTestHandler()

	body := `{"post_text": "BTC will hit $80,000 by end of year 🚀", "post_created_at": "2024-01-15T12:00:00Z"}`
	req := httptest.NewRequest("POST", "/parse_prediction", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ParsePredictionHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var out models.PredictionOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.PostText != "BTC will hit $80,000 by end of year 🚀" {
		t.Errorf("PostText = %q", out.PostText)
	}
	if out.TargetType != models.TargetTypePrice {
		t.Errorf("TargetType = %q", out.TargetType)
	}
	tp, ok := out.ExtractedValue.(*models.TargetPrice)
	if !ok || tp.Price != 80000 {
		t.Errorf("ExtractedValue = %#v", out.ExtractedValue)
	}
	if !out.Timeframe.Explicit || out.Timeframe.End == nil || *out.Timeframe.End != "2024-12-31T23:59:59Z" {
		t.Errorf("Timeframe = %+v", out.Timeframe)
	}
}

func TestParsePredictionHandlerRejects(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"missing post_text", "POST", `{"post_created_at": "2024-01-15T12:00:00Z"}`, http.StatusBadRequest},
		{"missing post_created_at", "POST", `{"post_text": "BTC 50k"}`, http.StatusBadRequest},
		{"empty fields", "POST", `{"post_text": "", "post_created_at": ""}`, http.StatusBadRequest},
		{"malformed json", "POST", `{"post_text": `, http.StatusBadRequest},
		{"wrong method", "GET", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/parse_prediction", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ParsePredictionHandler(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestParsePredictionHandlerNoneResponse(t *testing.T) {
	h := newTestHandler()

	body := `{"post_text": "nothing to see here", "post_created_at": "2024-01-15T12:00:00Z"}`
	req := httptest.NewRequest("POST", "/parse_prediction", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ParsePredictionHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// extracted_value must serialize as an explicit null, notes as an array.
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(raw["extracted_value"]) != "null" {
		t.Errorf("extracted_value = %s, want null", raw["extracted_value"])
	}
	if strings.TrimSpace(string(raw["notes"])) == "null" {
		t.Error("notes must not serialize as null")
	}
}
