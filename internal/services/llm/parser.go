package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/auspex/internal/interfaces"
	"github.com/ternarybob/auspex/internal/models"
)

// systemPrompt instructs the model on the output contract. It embeds the
// full JSON shape so responses decode directly into PredictionOutput.
const systemPrompt = `You are an expert financial analyst specializing in parsing cryptocurrency social media posts.
Your task is to analyze a given post and extract a prediction into a structured JSON object with this exact shape:

{
  "post_text": string,
  "target_type": "target_price" | "pct_change" | "range" | "ranking" | "none",
  "extracted_value": object | null,
  "bear_bull": number,
  "timeframe": {"explicit": boolean, "start": string | null, "end": string | null},
  "notes": [string]
}

The extracted_value shape depends on target_type:
- target_price: {"asset": string, "price": number, "currency": string}
- pct_change:   {"asset": string, "percentage": number, "currency": string}
- range:        {"asset": string, "min": number, "max": number, "currency": string}
- ranking:      {"asset": string, "ranking": number, "currency": string}

Rules:
1. Analyze the post_text provided by the user.
2. post_created_at is the reference date for relative timeframes like "next month".
3. Determine the target_type. If no specific, quantifiable prediction is made, it must be "none".
4. If target_type is "none", extracted_value must be null; otherwise it must match the shape above.
5. asset is the ticker symbol (BTC, ETH, SOL, ...). currency is USD, BRL, or EUR; default to USD if unclear.
6. bear_bull is a sentiment score between -100 (very bearish) and 100 (very bullish).
7. timeframe.explicit is true only if the post clearly states a timeframe ("by EOY", "next month", "within 3 months").
8. timeframe.start and timeframe.end must be full ISO 8601 date-time strings or null.
9. Add any important observations to the notes array (retweets, quotes, vague predictions).
10. Your final output MUST be ONLY the JSON object, without any surrounding text, explanations, or markdown code blocks.`

// Parser implements the prediction engine by delegating the analysis to a
// remote model. It honors the same output contract as the deterministic
// pipeline: any provider or decode failure degrades to a structurally valid
// empty record with an explanatory note, never an error to the caller.
type Parser struct {
	service interfaces.LLMService
	logger  arbor.ILogger
}

// NewParser creates an LLM-backed prediction parser on top of a provider
// client.
func NewParser(service interfaces.LLMService, logger arbor.ILogger) *Parser {
	return &Parser{
		service: service,
		logger:  logger,
	}
}

// ParsePrediction sends the post to the model and decodes the structured
// response. The original post_text always overwrites whatever the model
// echoed back.
func (p *Parser) ParsePrediction(ctx context.Context, input models.PostInput) (*models.PredictionOutput, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(
			"Here is the post data. Analyze it and provide the JSON output.\n- post_text: %q\n- post_created_at: %q",
			input.PostText, input.PostCreatedAt,
		)},
	}

	response, err := p.service.Chat(ctx, messages)
	if err != nil {
		p.logger.Error().Err(err).Msg("LLM prediction call failed")
		return errorOutput(input.PostText, fmt.Sprintf("LLM parsing failed: %v", err)), nil
	}

	var output models.PredictionOutput
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &output); err != nil {
		p.logger.Error().
			Err(err).
			Int("response_length", len(response)).
			Msg("Failed to decode LLM prediction response")
		return errorOutput(input.PostText, fmt.Sprintf("LLM parsing failed: %v", err)), nil
	}

	output.PostText = input.PostText
	if output.Notes == nil {
		output.Notes = []string{}
	}
	return &output, nil
}

// errorOutput is the degraded record returned when the model cannot be
// reached or its response cannot be decoded.
func errorOutput(postText, note string) *models.PredictionOutput {
	return &models.PredictionOutput{
		PostText:   postText,
		TargetType: models.TargetTypeNone,
		BearBull:   0,
		Timeframe:  models.Timeframe{Explicit: false},
		Notes:      []string{note},
	}
}

// stripCodeFence removes a surrounding markdown code fence that some models
// emit despite instructions.
func stripCodeFence(response string) string {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
