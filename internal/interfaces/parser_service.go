package interfaces

import (
	"context"

	"github.com/ternarybob/auspex/internal/models"
)

// PredictionParser converts a raw social-media post into a structured
// prediction record. Implementations must be total: malformed input is
// represented structurally (target_type none, nil value, implicit
// timeframe), never as an error. The error return is reserved for
// infrastructure failures in remote-backed implementations; the
// deterministic engine never returns one.
type PredictionParser interface {
	// ParsePrediction runs the extraction pipeline for a single post.
	// The returned record echoes input.PostText unmodified.
	ParsePrediction(ctx context.Context, input models.PostInput) (*models.PredictionOutput, error)
}
