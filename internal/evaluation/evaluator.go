package evaluation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/auspex/internal/common"
	"github.com/ternarybob/auspex/internal/interfaces"
	"github.com/ternarybob/auspex/internal/models"
)

var numericCategories = map[models.TargetType]bool{
	models.TargetTypePrice:     true,
	models.TargetTypePctChange: true,
	models.TargetTypeRange:     true,
	models.TargetTypeRanking:   true,
}

// TrickyCase records a failed case with full payloads for the report.
type TrickyCase struct {
	Note     string
	Input    models.PostInput
	Expected models.PredictionOutput
	Actual   *models.PredictionOutput
}

// TypeAccuracy is the per-category correct/total tally.
type TypeAccuracy struct {
	Correct int
	Total   int
}

// Report holds every metric produced by a harness run. Latencies are in
// milliseconds. Spearman is nil when the correlation could not be computed.
type Report struct {
	RunID              string
	TotalCases         int
	ConformityFailures int
	FailCount          int

	Confusion       ConfusionMatrix
	PerType         map[models.TargetType]*TypeAccuracy
	OverallAccuracy float64
	MacroAccuracy   float64

	MeanSentimentError float64
	SentimentSamples   int
	Spearman           *float64

	NumericExactCorrect int
	NumericExactTotal   int
	TimeframeCorrect    int
	TimeframeTotal      int

	P50Millis         float64
	P95Millis         float64
	MeanBatch1Millis  float64
	MeanBatch16Millis float64

	TrickyCases []TrickyCase
}

// NumericExactRate returns the exact-match fraction, or 1 when no numeric
// cases were evaluated.
func (r *Report) NumericExactRate() float64 {
	if r.NumericExactTotal == 0 {
		return 1
	}
	return float64(r.NumericExactCorrect) / float64(r.NumericExactTotal)
}

// TimeframeAccuracy returns the timeframe exact-match fraction.
func (r *Report) TimeframeAccuracy() float64 {
	if r.TimeframeTotal == 0 {
		return 0
	}
	return float64(r.TimeframeCorrect) / float64(r.TimeframeTotal)
}

// Evaluator drives a prediction engine through an ordered case suite.
type Evaluator struct {
	engine     interfaces.PredictionParser
	conformity *ConformityChecker
	logger     arbor.ILogger
}

func NewEvaluator(engine interfaces.PredictionParser) *Evaluator {
	return &Evaluator{
		engine:     engine,
		conformity: NewConformityChecker(),
		logger:     common.GetLogger(),
	}
}

// Run executes the engine once per case, in order, measuring wall-clock
// latency per call. Non-conforming outputs (and engine errors) are counted
// and excluded from the quality metrics.
func (e *Evaluator) Run(ctx context.Context, cases []TestCase) *Report {
	runID := uuid.New().String()
	report := &Report{
		RunID:      runID,
		TotalCases: len(cases),
		Confusion:  NewConfusionMatrix(),
		PerType:    make(map[models.TargetType]*TypeAccuracy, len(models.TargetTypes)),
	}
	for _, t := range models.TargetTypes {
		report.PerType[t] = &TypeAccuracy{}
	}

	var (
		execTimes          []float64
		batch16Times       []float64
		sentimentErrors    []float64
		expectedSentiments []float64
		actualSentiments   []float64
		totalCorrect       int
	)

	for idx, tc := range cases {
		start := time.Now()
		actual, err := e.engine.ParsePrediction(ctx, tc.Input)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		execTimes = append(execTimes, elapsed)

		if (idx+1)%16 == 0 {
			batchSum := 0.0
			for _, t := range execTimes[idx-15 : idx+1] {
				batchSum += t
			}
			batch16Times = append(batch16Times, batchSum)
		}

		if err != nil {
			report.FailCount++
			report.ConformityFailures++
			report.TrickyCases = append(report.TrickyCases, TrickyCase{
				Note:     fmt.Sprintf("Case #%d: engine execution failed: %v", idx+1, err),
				Input:    tc.Input,
				Expected: tc.Expected,
			})
			continue
		}

		if violations := e.conformity.Check(actual); len(violations) > 0 {
			report.FailCount++
			report.ConformityFailures++
			report.TrickyCases = append(report.TrickyCases, TrickyCase{
				Note:     fmt.Sprintf("Case #%d: output conformity failure: %s", idx+1, strings.Join(violations, "; ")),
				Input:    tc.Input,
				Expected: tc.Expected,
				Actual:   actual,
			})
			continue
		}

		expected := &tc.Expected
		typeMatch := actual.TargetType == expected.TargetType
		if !typeMatch || numericMismatch(expected, actual) {
			report.FailCount++
		}

		report.Confusion.Add(expected.TargetType, actual.TargetType)
		report.PerType[expected.TargetType].Total++

		if typeMatch {
			report.PerType[expected.TargetType].Correct++
			totalCorrect++
		} else {
			report.TrickyCases = append(report.TrickyCases, TrickyCase{
				Note:     fmt.Sprintf("Case #%d: expected type %s, got %s", idx+1, expected.TargetType, actual.TargetType),
				Input:    tc.Input,
				Expected: tc.Expected,
				Actual:   actual,
			})
		}

		sentimentErrors = append(sentimentErrors, abs(actual.BearBull-expected.BearBull))
		expectedSentiments = append(expectedSentiments, expected.BearBull)
		actualSentiments = append(actualSentiments, actual.BearBull)

		if numericCategories[expected.TargetType] && expected.ExtractedValue != nil && actual.ExtractedValue != nil {
			if numericMismatch(expected, actual) {
				report.TrickyCases = append(report.TrickyCases, TrickyCase{
					Note:     fmt.Sprintf("Case #%d: numeric extraction mismatch", idx+1),
					Input:    tc.Input,
					Expected: tc.Expected,
					Actual:   actual,
				})
			}
			report.NumericExactTotal++
			if exactNumericMatch(expected, actual) {
				report.NumericExactCorrect++
			}
		}

		report.TimeframeTotal++
		if timeframeEqual(expected.Timeframe, actual.Timeframe) {
			report.TimeframeCorrect++
		} else {
			report.TrickyCases = append(report.TrickyCases, TrickyCase{
				Note:     fmt.Sprintf("Case #%d: timeframe mismatch", idx+1),
				Input:    tc.Input,
				Expected: tc.Expected,
				Actual:   actual,
			})
		}
	}

	e.finalize(report, execTimes, batch16Times, sentimentErrors, expectedSentiments, actualSentiments, totalCorrect)
	return report
}

func (e *Evaluator) finalize(report *Report, execTimes, batch16Times, sentimentErrors, expectedSentiments, actualSentiments []float64, totalCorrect int) {
	if report.TotalCases > 0 {
		report.OverallAccuracy = float64(totalCorrect) / float64(report.TotalCases)
	}

	macroSum := 0.0
	for _, t := range models.TargetTypes {
		acc := report.PerType[t]
		denominator := acc.Total
		if denominator == 0 {
			denominator = 1
		}
		macroSum += float64(acc.Correct) / float64(denominator)
	}
	report.MacroAccuracy = macroSum / float64(len(models.TargetTypes))

	report.MeanSentimentError = mean(sentimentErrors)
	report.SentimentSamples = len(expectedSentiments)
	if rho, ok := SpearmanCorrelation(expectedSentiments, actualSentiments); ok {
		report.Spearman = &rho
	}

	sorted := append([]float64(nil), execTimes...)
	sort.Float64s(sorted)
	report.P50Millis = percentile(sorted, 0.5)
	report.P95Millis = percentile(sorted, 0.95)
	report.MeanBatch1Millis = mean(execTimes)
	report.MeanBatch16Millis = mean(batch16Times)

	e.logger.Info().
		Str("run_id", report.RunID).
		Int("cases", report.TotalCases).
		Int("failures", report.FailCount).
		Float64("overall_accuracy", report.OverallAccuracy).
		Float64("macro_accuracy", report.MacroAccuracy).
		Msg("Evaluation run complete")
}

// CheckSentimentGate enforces the fatal sentiment-quality gate: fewer than
// two sentiment samples, an incomputable correlation, or one below the
// threshold aborts the evaluation rather than reporting a degraded score.
func (r *Report) CheckSentimentGate(minSpearman float64) error {
	if r.SentimentSamples < 2 {
		return fmt.Errorf("insufficient sentiment samples (%d) to compute Spearman correlation", r.SentimentSamples)
	}
	if r.Spearman == nil {
		return fmt.Errorf("spearman correlation could not be computed")
	}
	if *r.Spearman < minSpearman {
		return fmt.Errorf("spearman correlation %.3f below minimum %.2f", *r.Spearman, minSpearman)
	}
	return nil
}

// numericMismatch reports a hard extraction failure for the categories
// where the original harness counted one toward the failure total.
func numericMismatch(expected, actual *models.PredictionOutput) bool {
	switch expected.TargetType {
	case models.TargetTypePrice, models.TargetTypePctChange, models.TargetTypeRange:
	default:
		return false
	}
	if expected.ExtractedValue == nil || actual.ExtractedValue == nil {
		return false
	}
	if expected.TargetType != actual.TargetType {
		return true
	}

	switch exp := expected.ExtractedValue.(type) {
	case *models.TargetPrice:
		act, ok := actual.ExtractedValue.(*models.TargetPrice)
		return !ok || exp.Price != act.Price
	case *models.PercentageChange:
		act, ok := actual.ExtractedValue.(*models.PercentageChange)
		return !ok || exp.Percentage != act.Percentage
	case *models.Range:
		act, ok := actual.ExtractedValue.(*models.Range)
		return !ok || exp.Min != act.Min || exp.Max != act.Max
	}
	return false
}

// exactNumericMatch requires the asset, currency, and every numeric payload
// field to agree between the expected and actual records.
func exactNumericMatch(expected, actual *models.PredictionOutput) bool {
	if expected.ExtractedValue == nil || actual.ExtractedValue == nil {
		return false
	}
	if expected.TargetType != actual.TargetType {
		return false
	}
	if expected.ExtractedValue.AssetCode() != actual.ExtractedValue.AssetCode() {
		return false
	}
	if expected.ExtractedValue.CurrencyCode() != actual.ExtractedValue.CurrencyCode() {
		return false
	}

	switch exp := expected.ExtractedValue.(type) {
	case *models.TargetPrice:
		act, ok := actual.ExtractedValue.(*models.TargetPrice)
		return ok && exp.Price == act.Price
	case *models.PercentageChange:
		act, ok := actual.ExtractedValue.(*models.PercentageChange)
		return ok && exp.Percentage == act.Percentage
	case *models.Range:
		act, ok := actual.ExtractedValue.(*models.Range)
		return ok && exp.Min == act.Min && exp.Max == act.Max
	case *models.Ranking:
		act, ok := actual.ExtractedValue.(*models.Ranking)
		return ok && exp.Ranking == act.Ranking
	}
	return false
}

func timeframeEqual(a, b models.Timeframe) bool {
	return a.Explicit == b.Explicit && stringPtrEqual(a.Start, b.Start) && stringPtrEqual(a.End, b.End)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
