package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/auspex/internal/models"
)

var (
	priceValuePattern   = regexp.MustCompile(`(?i)(\$|R\$|USD)?\s*(\d+(?:[.,]\d{3})*(?:[.,]\d{2})?)\s*(k)?`)
	pctValuePattern     = regexp.MustCompile(`(?i)(up|down|rise|fall|increase|decrease)\s+(\d+)%`)
	rankingValuePattern = regexp.MustCompile(`(?i)top\s+(\d+)`)
)

// Direction words that negate an extracted percentage.
var bearishDirections = map[string]bool{
	"down":     true,
	"fall":     true,
	"decrease": true,
}

// NumericExtractor extracts the typed numeric payload for a classified post.
type NumericExtractor struct{}

// Extract returns the payload variant for the given category, or nil when no
// asset was detected or the category sub-pattern fails to match. The currency
// defaults to USD when no marker is present.
func (e NumericExtractor) Extract(text, asset string, targetType models.TargetType) models.ExtractedValue {
	if asset == "" {
		return nil
	}

	currency := detectCurrency(text)
	if currency == "" {
		currency = "USD"
	}

	switch targetType {
	case models.TargetTypePrice:
		return e.extractTargetPrice(text, asset, currency)
	case models.TargetTypePctChange:
		return e.extractPercentageChange(text, asset, currency)
	case models.TargetTypeRange:
		return e.extractRange(text, asset, currency)
	case models.TargetTypeRanking:
		return e.extractRanking(text, asset, currency)
	default:
		return nil
	}
}

// detectCurrency checks the currency markers once, in fixed order. The "$"
// check runs before the "R$" one, so an R$ amount without a "BRL" literal
// resolves to USD. Legacy behavior, kept.
func detectCurrency(text string) string {
	upper := strings.ToUpper(text)
	if strings.Contains(text, "$") || strings.Contains(upper, "USD") {
		return "USD"
	}
	if strings.Contains(upper, "BRL") || strings.Contains(text, "R$") {
		return "BRL"
	}
	if strings.Contains(upper, "EUR") || strings.Contains(text, "€") {
		return "EUR"
	}
	return ""
}

func (NumericExtractor) extractTargetPrice(text, asset, currency string) models.ExtractedValue {
	m := priceValuePattern.FindStringSubmatch(text)
	if m == nil || m[2] == "" {
		return nil
	}

	price, ok := parseAmount(m[2])
	if !ok {
		return nil
	}

	hasKSuffix := m[3] != ""
	if (hasKSuffix || strings.Contains(strings.ToLower(text), "k")) && price < 1000 {
		price *= 1000
	}

	return &models.TargetPrice{
		Asset:         asset,
		Price:         price,
		Currency:      currency,
		PriceOriginal: strings.TrimSpace(m[0]),
	}
}

func (NumericExtractor) extractPercentageChange(text, asset, currency string) models.ExtractedValue {
	m := pctValuePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	percentage, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	if bearishDirections[strings.ToLower(m[1])] {
		percentage = -percentage
	}

	return &models.PercentageChange{
		Asset:      asset,
		Percentage: float64(percentage),
		Currency:   currency,
	}
}

func (NumericExtractor) extractRange(text, asset, currency string) models.ExtractedValue {
	m := rangePattern.FindStringSubmatch(text)
	if m == nil || m[2] == "" || m[3] == "" {
		return nil
	}

	min, okMin := parseGroupedNumber(m[2])
	max, okMax := parseGroupedNumber(m[3])
	if !okMin || !okMax {
		return nil
	}

	// Scaling is driven by a "k" anywhere in the whole text, not by which
	// bound carries the suffix. Known quirk, reproduced deliberately.
	if strings.Contains(strings.ToLower(text), "k") {
		if min < 1000 {
			min *= 1000
		}
		if max < 1000 {
			max *= 1000
		}
	}

	return &models.Range{
		Asset:       asset,
		Min:         min,
		Max:         max,
		Currency:    currency,
		MinOriginal: m[2],
		MaxOriginal: m[3],
	}
}

func (NumericExtractor) extractRanking(text, asset, currency string) models.ExtractedValue {
	m := rankingValuePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	ranking, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	return &models.Ranking{
		Asset:    asset,
		Ranking:  float64(ranking),
		Currency: currency,
	}
}

// parseAmount normalizes a matched price literal. Separator groups of three
// digits ("80,000", "500.000") are thousands markers and are stripped; a
// trailing separator with exactly two digits is the decimal point
// ("1.234,56" -> 1234.56).
func parseAmount(raw string) (float64, bool) {
	integer := raw
	decimal := ""
	if len(raw) > 3 {
		sep := raw[len(raw)-3]
		if (sep == '.' || sep == ',') && allDigits(raw[len(raw)-2:]) {
			integer = raw[:len(raw)-3]
			decimal = raw[len(raw)-2:]
		}
	}

	integer = strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, integer)

	literal := integer
	if decimal != "" {
		literal = integer + "." + decimal
	}

	value, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseGroupedNumber parses a range bound, which uses the comma thousands
// separator only and has no decimal support.
func parseGroupedNumber(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
