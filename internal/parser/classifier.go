package parser

import (
	"regexp"
	"strings"

	"github.com/ternarybob/auspex/internal/models"
)

// Classification patterns, evaluated short-circuit in strict priority order:
// pct_change -> range -> ranking -> target_price. First match wins even when
// later families would also match.
var (
	pctChangePattern = regexp.MustCompile(`(?i)(up|down|rise|fall|increase|decrease)\s+\d+%`)
	rangePattern     = regexp.MustCompile(`(?i)(between|consolidating between|range|from)\s*\$?(\d+(?:,\d{3})*)\s*k?\s*(?:-|–|—|to|and)\s*\$?(\d+(?:,\d{3})*)\s*k?`)
	rankingPattern   = regexp.MustCompile(`(?i)top\s+(\d+)`)
	// Every component of the price pattern except the digits is optional, so
	// any digit in the text classifies as target_price when nothing above hit.
	targetPricePattern = regexp.MustCompile(`(?i)(\$|R\$|€|USD|BRL|EUR)?\s*\d+(?:,\d{3})*(?:\.\d{2})?\s*k?`)
)

// PredictionTypeClassifier maps raw post text to one of the five prediction
// categories.
type PredictionTypeClassifier struct{}

// Classify evaluates the pattern families against the lower-cased text in
// priority order and returns the first matching category.
func (PredictionTypeClassifier) Classify(text string) models.TargetType {
	lower := strings.ToLower(text)

	if pctChangePattern.MatchString(lower) {
		return models.TargetTypePctChange
	}
	if rangePattern.MatchString(lower) {
		return models.TargetTypeRange
	}
	if rankingPattern.MatchString(lower) {
		return models.TargetTypeRanking
	}
	if targetPricePattern.MatchString(lower) {
		return models.TargetTypePrice
	}
	return models.TargetTypeNone
}
