package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/auspex/internal/interfaces"
	"github.com/ternarybob/auspex/internal/models"
)

// ParseHandler handles HTTP requests for prediction parsing
type ParseHandler struct {
	engine interfaces.PredictionParser
	logger arbor.ILogger
}

// NewParseHandler creates a new ParseHandler for the given engine
func NewParseHandler(engine interfaces.PredictionParser, logger arbor.ILogger) *ParseHandler {
	return &ParseHandler{
		engine: engine,
		logger: logger,
	}
}

// ParsePredictionHandler handles POST /parse_prediction. The body must be a
// JSON object with non-empty post_text and post_created_at; anything else is
// a 400. Engine failures map to 500.
func (h *ParseHandler) ParsePredictionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var input models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.PostText == "" || input.PostCreatedAt == "" {
		WriteError(w, http.StatusBadRequest, "Missing required fields: post_text and post_created_at")
		return
	}

	output, err := h.engine.ParsePrediction(r.Context(), input)
	if err != nil {
		h.logger.Error().Err(err).Msg("Prediction engine failed")
		WriteError(w, http.StatusInternalServerError, "Failed to parse prediction")
		return
	}

	WriteJSON(w, http.StatusOK, output)
}
