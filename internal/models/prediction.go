package models

import (
	"encoding/json"
	"fmt"
)

// TargetType is the classified prediction category for a post.
type TargetType string

const (
	TargetTypePrice     TargetType = "target_price"
	TargetTypePctChange TargetType = "pct_change"
	TargetTypeRange     TargetType = "range"
	TargetTypeRanking   TargetType = "ranking"
	TargetTypeNone      TargetType = "none"
)

// TargetTypes lists all categories in the fixed order used by the
// evaluation confusion matrix.
var TargetTypes = []TargetType{
	TargetTypePrice,
	TargetTypePctChange,
	TargetTypeRange,
	TargetTypeRanking,
	TargetTypeNone,
}

// Valid reports whether t is one of the five known categories.
func (t TargetType) Valid() bool {
	switch t {
	case TargetTypePrice, TargetTypePctChange, TargetTypeRange, TargetTypeRanking, TargetTypeNone:
		return true
	}
	return false
}

// PostInput is the raw social-media post supplied per call.
type PostInput struct {
	PostText      string `json:"post_text" validate:"required"`
	PostCreatedAt string `json:"post_created_at" validate:"required"`
}

// Timeframe is the normalized validity window of a prediction.
// When Explicit is true, Start echoes the original post_created_at string
// and End is a computed ISO timestamp. When false, both are nil.
type Timeframe struct {
	Explicit bool    `json:"explicit"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
}

// ExtractedValue is the tagged union of numeric payloads, keyed by the
// record's TargetType. A nil ExtractedValue marshals as JSON null.
type ExtractedValue interface {
	// AssetCode returns the detected ticker for the payload.
	AssetCode() string
	// CurrencyCode returns the detected (or defaulted) currency.
	CurrencyCode() string
}

// TargetPrice is the payload for target_price predictions.
type TargetPrice struct {
	Asset         string  `json:"asset" validate:"required"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency" validate:"required"`
	PriceOriginal string  `json:"price_original,omitempty"`
}

// PercentageChange is the payload for pct_change predictions. Percentage is
// signed: -15 means a predicted 15% fall.
type PercentageChange struct {
	Asset      string  `json:"asset" validate:"required"`
	Percentage float64 `json:"percentage"`
	Currency   string  `json:"currency" validate:"required"`
}

// Range is the payload for range predictions.
type Range struct {
	Asset       string  `json:"asset" validate:"required"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Currency    string  `json:"currency" validate:"required"`
	MinOriginal string  `json:"min_original,omitempty"`
	MaxOriginal string  `json:"max_original,omitempty"`
}

// Ranking is the payload for "top N" predictions.
type Ranking struct {
	Asset    string  `json:"asset" validate:"required"`
	Ranking  float64 `json:"ranking"`
	Currency string  `json:"currency" validate:"required"`
}

func (v *TargetPrice) AssetCode() string         { return v.Asset }
func (v *TargetPrice) CurrencyCode() string      { return v.Currency }
func (v *PercentageChange) AssetCode() string    { return v.Asset }
func (v *PercentageChange) CurrencyCode() string { return v.Currency }
func (v *Range) AssetCode() string               { return v.Asset }
func (v *Range) CurrencyCode() string            { return v.Currency }
func (v *Ranking) AssetCode() string             { return v.Asset }
func (v *Ranking) CurrencyCode() string          { return v.Currency }

// PredictionOutput is the structured record produced for a single post.
// ExtractedValue is non-nil iff TargetType != none.
type PredictionOutput struct {
	PostText       string         `json:"post_text" validate:"required"`
	TargetType     TargetType     `json:"target_type" validate:"required,oneof=target_price pct_change range ranking none"`
	ExtractedValue ExtractedValue `json:"extracted_value"`
	BearBull       float64        `json:"bear_bull"`
	Timeframe      Timeframe      `json:"timeframe"`
	Notes          []string       `json:"notes"`
}

// MarshalJSON ensures notes always serializes as an array, never null.
func (p PredictionOutput) MarshalJSON() ([]byte, error) {
	type alias PredictionOutput
	out := alias(p)
	if out.Notes == nil {
		out.Notes = []string{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the extracted_value union according to target_type.
func (p *PredictionOutput) UnmarshalJSON(data []byte) error {
	var raw struct {
		PostText       string          `json:"post_text"`
		TargetType     TargetType      `json:"target_type"`
		ExtractedValue json.RawMessage `json:"extracted_value"`
		BearBull       float64         `json:"bear_bull"`
		Timeframe      Timeframe       `json:"timeframe"`
		Notes          []string        `json:"notes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.PostText = raw.PostText
	p.TargetType = raw.TargetType
	p.BearBull = raw.BearBull
	p.Timeframe = raw.Timeframe
	p.Notes = raw.Notes
	p.ExtractedValue = nil

	if len(raw.ExtractedValue) == 0 || string(raw.ExtractedValue) == "null" {
		return nil
	}

	value, err := decodeExtractedValue(raw.TargetType, raw.ExtractedValue)
	if err != nil {
		return err
	}
	p.ExtractedValue = value
	return nil
}

func decodeExtractedValue(targetType TargetType, data json.RawMessage) (ExtractedValue, error) {
	switch targetType {
	case TargetTypePrice:
		var v TargetPrice
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode target_price value: %w", err)
		}
		return &v, nil
	case TargetTypePctChange:
		var v PercentageChange
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode pct_change value: %w", err)
		}
		return &v, nil
	case TargetTypeRange:
		var v Range
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode range value: %w", err)
		}
		return &v, nil
	case TargetTypeRanking:
		var v Ranking
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to decode ranking value: %w", err)
		}
		return &v, nil
	case TargetTypeNone:
		return nil, fmt.Errorf("extracted_value must be null when target_type is none")
	default:
		return nil, fmt.Errorf("unknown target_type %q", targetType)
	}
}
