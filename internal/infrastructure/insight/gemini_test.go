package insight

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
)

func replyWith(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g, err := NewGemini(srv.Client(), srv.URL, "test-model", "abc")
	require.NoError(t, err)
	return g
}

func TestGemini_Forecast(t *testing.T) {
	var got generateRequest
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "abc", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.RawQuery)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(replyWith(`{"predictedCount": 42, "reasoning": "steady growth"}`))
	})

	raw, err := g.Generate(context.Background(), entities.InsightRequest{
		Kind:    entities.InsightForecast,
		Prompt:  "Predict.",
		Context: map[string]any{"capacity": 50},
	})
	require.NoError(t, err)

	var f entities.Forecast
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, float64(42), f.PredictedCount)
	assert.Equal(t, "steady growth", f.Reasoning)

	require.Len(t, got.Contents, 1)
	assert.Contains(t, got.Contents[0].Parts[0].Text, `"capacity":50`)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "OBJECT", got.GenerationConfig.ResponseSchema["type"])
}

func TestGemini_RejectsSchemaMismatch(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(replyWith(`{"predicted_attendance_count": 10, "confidence_score": 3}`))
	})

	_, err := g.Generate(context.Background(), entities.InsightRequest{Kind: entities.InsightPrediction})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestGemini_RejectsNonJSONText(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(replyWith("Sure! Here are some trends."))
	})

	_, err := g.Generate(context.Background(), entities.InsightRequest{Kind: entities.InsightTrends})
	assert.Error(t, err)
}

func TestGemini_UpstreamStatus(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := g.Generate(context.Background(), entities.InsightRequest{Kind: entities.InsightTrends})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "429")
}

func TestGemini_NoCandidates(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	_, err := g.Generate(context.Background(), entities.InsightRequest{Kind: entities.InsightTrends})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGemini_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := g.Generate(ctx, entities.InsightRequest{Kind: entities.InsightForecast})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGemini_UnknownKind(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := g.Generate(context.Background(), entities.InsightRequest{Kind: "horoscope"})
	assert.Error(t, err)
}

func TestNew_DisabledWithoutKey(t *testing.T) {
	p, err := New(nil, "https://example.invalid", "m", "")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), entities.InsightRequest{Kind: entities.InsightTrends})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestGemini_TransportErrorHidesKey(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	const secret = "SUPERSECRETKEY"
	g, err := NewGemini(&http.Client{}, "http://"+ln.Addr().String(), "test-model", secret)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), entities.InsightRequest{Kind: entities.InsightForecast})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.NotContains(t, err.Error(), secret)
}
