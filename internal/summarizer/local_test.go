package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQASidecar(t *testing.T, response localQAResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/question-answering", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
}

func TestLocalAnswerSpanWithinContext(t *testing.T) {
	srv := newQASidecar(t, localQAResponse{Answer: "the grant total", Score: 0.6, Start: 4, End: 19})
	defer srv.Close()

	c := NewLocalClient(LocalConfig{Endpoint: srv.URL})
	result, err := c.Answer(context.Background(), "what is the total?", "so: the grant total is large")
	require.NoError(t, err)

	assert.Equal(t, "the grant total", result.Answer)
	// Answer is between 5 and 20 characters, so the native score stands.
	assert.Equal(t, 0.6, result.Confidence)
	assert.Equal(t, "so: the grant total is large", result.ContextUsed)
	assert.Equal(t, 4, result.StartPos)
	assert.Equal(t, 19, result.EndPos)
}

func TestLocalAnswerSpanPastContextEnd(t *testing.T) {
	srv := newQASidecar(t, localQAResponse{Answer: "found it", Score: 0.7, Start: 5000, End: 5010})
	defer srv.Close()

	c := NewLocalClient(LocalConfig{Endpoint: srv.URL})
	result, err := c.Answer(context.Background(), "where?", "short context")
	require.NoError(t, err)

	assert.Equal(t, "found it", result.Answer)
	assert.Equal(t, "short context", result.ContextUsed)
}

func TestLocalAnswerReversedSpan(t *testing.T) {
	srv := newQASidecar(t, localQAResponse{Answer: "backwards", Score: 0.5, Start: 10, End: 2})
	defer srv.Close()

	c := NewLocalClient(LocalConfig{Endpoint: srv.URL})
	result, err := c.Answer(context.Background(), "where?", "a dozen characters or so")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ContextUsed)
}

func TestLocalAnswerNegativeSpan(t *testing.T) {
	srv := newQASidecar(t, localQAResponse{Answer: "negative", Score: 0.5, Start: -7, End: -3})
	defer srv.Close()

	c := NewLocalClient(LocalConfig{Endpoint: srv.URL})
	result, err := c.Answer(context.Background(), "where?", "a dozen characters or so")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ContextUsed)
}

func TestLocalAnswerEmptyAnswerIsError(t *testing.T) {
	srv := newQASidecar(t, localQAResponse{Answer: "", Score: 0.9})
	defer srv.Close()

	c := NewLocalClient(LocalConfig{Endpoint: srv.URL})
	_, err := c.Answer(context.Background(), "where?", "some context")
	require.Error(t, err)
}
