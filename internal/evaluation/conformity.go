// Package evaluation runs a case suite against a prediction engine and
// reports classification, extraction, sentiment, and latency metrics.
package evaluation

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/auspex/internal/models"
)

// ConformityChecker validates that an engine output is structurally valid
// against the output contract. Field-level rules are validator tags on the
// payload structs; the tagged-union rules are checked by hand.
type ConformityChecker struct {
	validate *validator.Validate
}

func NewConformityChecker() *ConformityChecker {
	return &ConformityChecker{validate: validator.New()}
}

// Check returns the list of contract violations, empty when the output
// conforms. A nil output counts as a single violation.
func (c *ConformityChecker) Check(out *models.PredictionOutput) []string {
	if out == nil {
		return []string{"output is nil"}
	}

	var errors []string

	if !out.TargetType.Valid() {
		errors = append(errors, fmt.Sprintf("target_type missing or malformed (got: %q)", out.TargetType))
	}
	if math.IsNaN(out.BearBull) || math.IsInf(out.BearBull, 0) {
		errors = append(errors, "bear_bull must be a finite number")
	}
	if out.Notes == nil {
		errors = append(errors, "notes must be an array of strings")
	}

	if out.TargetType == models.TargetTypeNone {
		if out.ExtractedValue != nil {
			errors = append(errors, "extracted_value must be null when target_type is none")
		}
		return errors
	}

	if out.ExtractedValue == nil {
		errors = append(errors, "extracted_value missing for target_type "+string(out.TargetType))
		return errors
	}

	if veErrs := c.checkVariant(out.TargetType, out.ExtractedValue); len(veErrs) > 0 {
		errors = append(errors, veErrs...)
	}
	return errors
}

// checkVariant verifies the payload variant matches the declared category
// and that its required fields are populated.
func (c *ConformityChecker) checkVariant(targetType models.TargetType, value models.ExtractedValue) []string {
	var errors []string

	matched := false
	switch value.(type) {
	case *models.TargetPrice:
		matched = targetType == models.TargetTypePrice
	case *models.PercentageChange:
		matched = targetType == models.TargetTypePctChange
	case *models.Range:
		matched = targetType == models.TargetTypeRange
	case *models.Ranking:
		matched = targetType == models.TargetTypeRanking
	}
	if !matched {
		errors = append(errors, fmt.Sprintf("extracted_value payload %T does not match target_type %q", value, targetType))
		return errors
	}

	if err := c.validate.Struct(value); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				errors = append(errors, fmt.Sprintf("extracted_value.%s missing or malformed", fe.Field()))
			}
		} else {
			errors = append(errors, "extracted_value failed validation: "+err.Error())
		}
	}
	return errors
}
