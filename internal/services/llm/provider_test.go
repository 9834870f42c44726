package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/auspex/internal/common"
)

func TestNewClaudeServiceRequiresKey(t *testing.T) {
	cfg := common.NewDefaultConfig()
	_, err := NewClaudeService(&cfg.Claude, common.GetLogger())
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("err = %v, want missing API key error", err)
	}
}

func TestNewClaudeServiceRejectsBadTimeout(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Claude.APIKey = "test-key"
	cfg.Claude.Timeout = "soon"
	_, err := NewClaudeService(&cfg.Claude, common.GetLogger())
	if err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("err = %v, want timeout parse error", err)
	}
}

func TestNewGeminiServiceRequiresKey(t *testing.T) {
	cfg := common.NewDefaultConfig()
	_, err := NewGeminiService(&cfg.Gemini, common.GetLogger())
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("err = %v, want missing API key error", err)
	}
}

func TestNewServiceUnknownProvider(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.LLM.DefaultProvider = "oracle"
	_, err := NewService(cfg, common.GetLogger())
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("err = %v, want unsupported provider error", err)
	}
}

func TestNewCallLimiter(t *testing.T) {
	limited := newCallLimiter("100ms")
	if limited.Limit() != 10 {
		t.Errorf("Limit = %v, want 10/s", limited.Limit())
	}

	unlimited := newCallLimiter("")
	if !unlimited.Allow() || !unlimited.Allow() {
		t.Error("unset interval should never throttle")
	}

	// A burst of one means back-to-back calls are spaced by the interval.
	spaced := newCallLimiter("1s")
	if !spaced.Allow() {
		t.Error("first call should pass")
	}
	if spaced.AllowN(time.Now(), 1) {
		t.Error("second immediate call should be throttled")
	}
}
