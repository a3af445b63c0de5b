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
	openaiDefaultModel = "gpt-3.5-turbo"

	remoteSummaryWordCap  = 3000
	remoteInsightWordCap  = 2000
	remoteContextCharCap  = 4000
	remoteContextUsedChar = 500
)

// OpenAIConfig configures the remote chat-completions backend.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint. One
// client serves all three operations.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates the remote backend, or nil when no API key is
// configured so the chain skips it entirely.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = openaiDefaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OpenAIClient) Name() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// Summarize asks the chat model for a concise summary.
func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	return c.complete(ctx,
		"You are a document summarization assistant. Provide a concise summary of the document.",
		"Summarize the following document:\n\n"+truncateWords(text, remoteSummaryWordCap),
		300,
	)
}

// ExtractInsights asks the chat model for a strict-JSON insight list.
// Anything other than valid JSON falls through to the next backend.
func (c *OpenAIClient) ExtractInsights(ctx context.Context, text string) ([]models.Insight, error) {
	prompt := fmt.Sprintf(
		"Analyze the following document and extract up to 5 key insights. "+
			"Each insight must use one of these categories: %s. "+
			"Respond with only a JSON array of objects with fields "+
			`"category", "insight" and "confidence" (0 to 1), no other text.`+
			"\n\nDocument:\n%s",
		strings.Join(models.InsightCategories, ", "),
		truncateWords(text, remoteInsightWordCap),
	)

	content, err := c.complete(ctx,
		"You are a document analysis assistant. You respond only with valid JSON.",
		prompt, 500,
	)
	if err != nil {
		return nil, err
	}

	var insights []models.Insight
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &insights); err != nil {
		return nil, fmt.Errorf("failed to parse insights JSON: %w", err)
	}

	valid := insights[:0]
	for _, ins := range insights {
		if models.ValidInsightCategory(ins.Category) {
			valid = append(valid, ins)
		}
	}
	if len(valid) > 5 {
		valid = valid[:5]
	}
	return valid, nil
}

// Answer asks the chat model a question over the retrieved context and scores
// the answer with the generative rule table.
func (c *OpenAIClient) Answer(ctx context.Context, question, contextText string) (models.QAResult, error) {
	truncated := truncateChars(contextText, remoteContextCharCap)

	prompt := fmt.Sprintf(
		"Based on the following context, answer the question. "+
			"If the answer cannot be found in the context, say that you cannot find it."+
			"\n\nContext:\n%s\n\nQuestion: %s",
		truncated, question,
	)

	answer, err := c.complete(ctx,
		"You are a question answering assistant. Answer only from the provided context.",
		prompt, 300,
	)
	if err != nil {
		return models.QAResult{}, err
	}

	contextUsed := truncated
	if len(contextUsed) > remoteContextUsedChar {
		contextUsed = contextUsed[:remoteContextUsedChar] + "..."
	}

	return models.QAResult{
		Answer:      answer,
		Confidence:  scoreGenerativeAnswer(answer),
		ContextUsed: contextUsed,
		Model:       c.model,
	}, nil
}

// stripCodeFence removes a surrounding markdown code fence some chat models
// wrap JSON in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
