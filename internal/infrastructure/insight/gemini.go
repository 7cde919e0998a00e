package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gojson "github.com/goccy/go-json"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

const (
	maxErrorBody = 4 << 10
	apiKeyHeader = "x-goog-api-key"
)

var _ output.InsightProvider = (*Gemini)(nil)

// Gemini calls the generateContent REST endpoint with a JSON response schema
// and checks the reply against that schema before returning it.
type Gemini struct {
	http       *http.Client
	baseURL    string
	model      string
	apiKey     string
	validators validators
}

func NewGemini(httpClient *http.Client, baseURL, model, apiKey string) (*Gemini, error) {
	v, err := compileValidators()
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Gemini{
		http:       httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		validators: v,
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, req entities.InsightRequest) (json.RawMessage, error) {
	s, ok := kindSchemas[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown insight kind %q", req.Kind)
	}
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}
	body, err := gojson.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   s.geminiDialect(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, g.apiKey)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: gemini returned %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out generateResponse
	if err := gojson.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: gemini returned no candidates", domain.ErrUpstream)
	}
	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	if err := g.validators.validate(req.Kind, []byte(text)); err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func buildPrompt(req entities.InsightRequest) (string, error) {
	if req.Context == nil {
		return req.Prompt, nil
	}
	data, err := gojson.Marshal(req.Context)
	if err != nil {
		return "", fmt.Errorf("encode insight context: %w", err)
	}
	return req.Prompt + "\n\nData: " + string(data), nil
}
