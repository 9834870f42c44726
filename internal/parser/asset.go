package parser

import (
	"regexp"
	"strings"
)

// cryptoTickers is the known ticker set, tested in insertion order.
var cryptoTickers = []string{
	"BTC", "ETH", "SOL", "DOGE", "ADA", "AVAX", "PEPE", "SHIB", "DOT", "LINK",
	"MATIC", "UNI", "LTC", "BCH", "XRP", "BNB", "ATOM", "NEAR", "FTM", "ALGO",
}

// assetName maps a full asset name to its ticker. Scanned in order after the
// ticker set produced no hit.
type assetName struct {
	name   string
	ticker string
}

var assetNames = []assetName{
	{"bitcoin", "BTC"},
	{"ethereum", "ETH"},
	{"solana", "SOL"},
	{"dogecoin", "DOGE"},
	{"cardano", "ADA"},
	{"avalanche", "AVAX"},
}

// tickerPatterns holds one case-insensitive whole-word pattern per ticker,
// compiled once at startup and never mutated.
var tickerPatterns = compileTickerPatterns()

func compileTickerPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(cryptoTickers))
	for i, ticker := range cryptoTickers {
		patterns[i] = regexp.MustCompile(`(?i)\b` + ticker + `\b`)
	}
	return patterns
}

// AssetExtractor maps raw post text to a known ticker.
type AssetExtractor struct{}

// Extract returns the first ticker whose whole-word pattern matches the raw
// text, falling back to a case-insensitive substring scan of full asset
// names. ok is false when neither produces a hit.
func (AssetExtractor) Extract(text string) (ticker string, ok bool) {
	for i, pattern := range tickerPatterns {
		if pattern.MatchString(text) {
			return cryptoTickers[i], true
		}
	}

	upper := strings.ToUpper(text)
	for _, entry := range assetNames {
		if strings.Contains(upper, strings.ToUpper(entry.name)) {
			return entry.ticker, true
		}
	}

	return "", false
}
