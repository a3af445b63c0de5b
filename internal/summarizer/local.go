package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/intellidoc/backend/internal/models"
)

const (
	localSummaryWordCap = 1024
	localContextCharCap = 3000
	localContextWindow  = 100
	zeroShotMinScore    = 0.5
)

// LocalConfig configures the local inference sidecar backend.
type LocalConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// LocalClient talks to a transformers inference sidecar exposing one
// endpoint per pipeline. It backs all three operations when the remote
// provider is down or unconfigured.
type LocalClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewLocalClient creates the sidecar backend, or nil when no endpoint is
// configured.
func NewLocalClient(cfg LocalConfig) *LocalClient {
	if cfg.Endpoint == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &LocalClient{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *LocalClient) Name() string { return "local-inference" }

func (c *LocalClient) post(ctx context.Context, path string, request, response any) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inference server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type localSummaryRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type localSummaryResponse struct {
	SummaryText string `json:"summary_text"`
}

// Summarize runs the summarization pipeline on a word-capped input.
func (c *LocalClient) Summarize(ctx context.Context, text string) (string, error) {
	var out localSummaryResponse
	err := c.post(ctx, "/summarization", localSummaryRequest{
		Text:      truncateWords(text, localSummaryWordCap),
		MaxLength: 150,
		MinLength: 30,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.SummaryText == "" {
		return "", fmt.Errorf("empty summary returned")
	}
	return out.SummaryText, nil
}

type zeroShotRequest struct {
	Text   string   `json:"text"`
	Labels []string `json:"candidate_labels"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// ExtractInsights classifies the text against the fixed category set and
// keeps labels scoring above the threshold.
func (c *LocalClient) ExtractInsights(ctx context.Context, text string) ([]models.Insight, error) {
	var out zeroShotResponse
	err := c.post(ctx, "/zero-shot-classification", zeroShotRequest{
		Text:   truncateWords(text, localSummaryWordCap),
		Labels: models.InsightCategories,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Labels) != len(out.Scores) {
		return nil, fmt.Errorf("mismatched labels and scores")
	}

	var insights []models.Insight
	for i, label := range out.Labels {
		if out.Scores[i] <= zeroShotMinScore {
			continue
		}
		insights = append(insights, models.Insight{
			Category:    label,
			Description: "Content related to " + label,
			Confidence:  out.Scores[i],
		})
		if len(insights) == 5 {
			break
		}
	}
	return insights, nil
}

type localQARequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type localQAResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Answer runs extractive QA and reports the answer span with a
// length-adjusted score. ContextUsed is the window around the span.
func (c *LocalClient) Answer(ctx context.Context, question, contextText string) (models.QAResult, error) {
	truncated := truncateChars(contextText, localContextCharCap)

	var out localQAResponse
	err := c.post(ctx, "/question-answering", localQARequest{
		Question: question,
		Context:  truncated,
	}, &out)
	if err != nil {
		return models.QAResult{}, err
	}
	if out.Answer == "" {
		return models.QAResult{}, fmt.Errorf("empty answer returned")
	}

	// Span offsets come from the sidecar and cannot be trusted to lie
	// inside the submitted context.
	spanStart := clamp(out.Start, 0, len(truncated))
	spanEnd := clamp(out.End, spanStart, len(truncated))

	start := clamp(spanStart-localContextWindow, 0, len(truncated))
	end := clamp(spanEnd+localContextWindow, start, len(truncated))

	return models.QAResult{
		Answer:      out.Answer,
		Confidence:  adjustExtractiveScore(out.Score, out.Answer),
		ContextUsed: truncated[start:end],
		StartPos:    out.Start,
		EndPos:      out.End,
		Model:       c.Name(),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
