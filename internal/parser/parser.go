// Package parser implements the deterministic five-stage extraction
// pipeline: asset detection, prediction-type classification, numeric
// extraction, timeframe normalization, and sentiment scoring. Every stage is
// a pure function of its input; absence is represented structurally (none,
// nil, implicit) and no stage ever fails. The only state is the set of
// read-only lookup tables and compiled patterns initialized at process start,
// so concurrent calls need no synchronization.
package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/models"
)

var retweetPattern = regexp.MustCompile(`RT @(\w+):`)

// Parser sequences the pipeline stages and assembles the final record.
type Parser struct {
	assets     AssetExtractor
	classifier PredictionTypeClassifier
	numeric    NumericExtractor
	timeframe  TimeframeNormalizer
	sentiment  SentimentAnalyzer
	logger     arbor.ILogger
}

// New creates a deterministic prediction parser.
func New() *Parser {
	return &Parser{
		logger: common.GetLogger(),
	}
}

// ParsePrediction converts a single post into a structured prediction
// record. The fixed sequence: retweet/quote provenance notes, asset
// detection, classification (skipped entirely when no asset was found),
// numeric extraction, timeframe normalization, sentiment scoring. The input
// text is never stripped or rewritten; downstream stages see the original
// post, retweeted or not. The error return exists only to satisfy the
// engine interface and is always nil.
func (p *Parser) ParsePrediction(_ context.Context, input models.PostInput) (*models.PredictionOutput, error) {
	notes := []string{}
	text := input.PostText

	p.annotateRetweetAndQuote(text, &notes)

	asset, found := p.assets.Extract(text)

	targetType := models.TargetTypeNone
	if found {
		targetType = p.classifier.Classify(text)
	}

	extractedValue := p.numeric.Extract(text, asset, targetType)
	timeframe := p.timeframe.Normalize(text, input.PostCreatedAt, &notes)
	bearBull := p.sentiment.Analyze(text, targetType, extractedValue)

	if found && targetType == models.TargetTypeNone && extractedValue == nil {
		notes = append(notes, "No measurable prediction made")
	}

	p.logger.Debug().
		Str("asset", asset).
		Str("target_type", string(targetType)).
		Float64("bear_bull", bearBull).
		Bool("timeframe_explicit", timeframe.Explicit).
		Msg("Parsed prediction")

	return &models.PredictionOutput{
		PostText:       text,
		TargetType:     targetType,
		ExtractedValue: extractedValue,
		BearBull:       bearBull,
		Timeframe:      timeframe,
		Notes:          notes,
	}, nil
}

// annotateRetweetAndQuote appends provenance notes for retweet and
// quote/disagreement framing. The matched text is deliberately not stripped:
// a retweeted numeric claim stays attributed to the post itself.
func (p *Parser) annotateRetweetAndQuote(text string, notes *[]string) {
	if strings.Contains(text, "RT @") {
		if m := retweetPattern.FindStringSubmatch(text); m != nil {
			*notes = append(*notes, fmt.Sprintf("Retweet - original prediction by @%s", m[1]))
		}
	}
	if strings.Contains(text, `"`) || strings.Contains(strings.ToLower(text), "disagree") {
		*notes = append(*notes, "Quote tweet - prediction attributed to original author")
	}
}
