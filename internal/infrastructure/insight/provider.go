// Package insight implements output.InsightProvider on top of the Gemini API.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

var _ output.InsightProvider = Disabled{}

// Disabled answers every request with domain.ErrUpstream. It stands in when
// no API key is configured.
type Disabled struct{}

func (Disabled) Generate(context.Context, entities.InsightRequest) (json.RawMessage, error) {
	return nil, fmt.Errorf("%w: no insight API key configured", domain.ErrUpstream)
}

// New returns a Gemini provider, or Disabled when apiKey is empty.
func New(httpClient *http.Client, baseURL, model, apiKey string) (output.InsightProvider, error) {
	if apiKey == "" {
		return Disabled{}, nil
	}
	return NewGemini(httpClient, baseURL, model, apiKey)
}
