package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/pkg/logger"
)

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) Name() string { return "fake-summarizer" }
func (f *fakeSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	return f.summary, f.err
}

type fakeInsighter struct {
	insights []models.Insight
	err      error
}

func (f *fakeInsighter) Name() string { return "fake-insighter" }
func (f *fakeInsighter) ExtractInsights(_ context.Context, _ string) ([]models.Insight, error) {
	return f.insights, f.err
}

type fakeAnswerer struct {
	result models.QAResult
	err    error
}

func (f *fakeAnswerer) Name() string { return "fake-answerer" }
func (f *fakeAnswerer) Answer(_ context.Context, _, _ string) (models.QAResult, error) {
	return f.result, f.err
}

func longText(words int) string {
	return strings.TrimSpace(strings.Repeat("word ", words))
}

func TestScoreGenerativeAnswer(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   float64
	}{
		{"refusal cannot find", "I cannot find that in the context.", 0.3},
		{"refusal not mentioned", "This is NOT MENTIONED anywhere.", 0.3},
		{"refusal wins over length", "I cannot find the answer. " + strings.Repeat("x", 200), 0.3},
		{"long answer", strings.Repeat("a", 101), 0.9},
		{"short answer", "Paris.", 0.8},
		{"boundary hundred chars", strings.Repeat("a", 100), 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreGenerativeAnswer(tt.answer))
		})
	}
}

func TestAdjustExtractiveScore(t *testing.T) {
	assert.InDelta(t, 0.66, adjustExtractiveScore(0.6, strings.Repeat("a", 25)), 1e-9)
	assert.Equal(t, 1.0, adjustExtractiveScore(0.95, strings.Repeat("a", 25)))
	assert.InDelta(t, 0.54, adjustExtractiveScore(0.6, "ab"), 1e-9)
	assert.Equal(t, 0.6, adjustExtractiveScore(0.6, "medium len"))
}

func TestSummarizeEmptyText(t *testing.T) {
	s := NewWithBackends(nil, nil, nil, logger.NewTestLogger())
	assert.Equal(t, "No content available for summary", s.Summarize(context.Background(), "   "))
}

func TestSummarizeShortText(t *testing.T) {
	s := NewWithBackends(nil, nil, nil, logger.NewTestLogger())
	assert.Equal(t, "Document too short for summarization",
		s.Summarize(context.Background(), "just a handful of words here"))
}

func TestSummarizeFallsThroughToNaive(t *testing.T) {
	failing := &fakeSummarizer{err: errors.New("down")}
	s := NewWithBackends([]SummarizeBackend{failing}, nil, nil, logger.NewTestLogger())

	text := "First sentence has quite a few words in it to pass the gate. " +
		"Second sentence also stretches out with extra words for length. " +
		"Third sentence keeps going with more filler words added in. " +
		"Fourth sentence never shows up in the naive summary at all. " +
		"Fifth sentence pads the word count safely past fifty words total."
	summary := s.Summarize(context.Background(), text)

	assert.True(t, strings.HasSuffix(summary, "."))
	assert.Contains(t, summary, "First sentence")
	assert.Contains(t, summary, "Third sentence")
	assert.NotContains(t, summary, "Fourth sentence")
}

func TestSummarizeUsesFirstWorkingBackend(t *testing.T) {
	failing := &fakeSummarizer{err: errors.New("down")}
	working := &fakeSummarizer{summary: "model summary"}
	s := NewWithBackends([]SummarizeBackend{failing, working}, nil, nil, logger.NewTestLogger())

	assert.Equal(t, "model summary", s.Summarize(context.Background(), longText(60)))
}

func TestNaiveSummaryWithoutPeriodIsOneSentence(t *testing.T) {
	assert.Equal(t, "alpha beta gamma.", naiveSummary("alpha beta gamma"))
}

func TestNaiveSummaryNoSentences(t *testing.T) {
	// Only empty fragments between the periods, so the word-count
	// placeholder fires.
	assert.Equal(t, "Document contains 3 words of content.", naiveSummary(". . ."))
}

func TestExtractInsightsFallsThroughToLocal(t *testing.T) {
	remote := &fakeInsighter{err: errors.New("malformed JSON")}
	local := &fakeInsighter{insights: []models.Insight{
		{Category: "technical specifications", Description: "Content related to technical specifications", Confidence: 0.71234},
	}}
	s := NewWithBackends(nil, []InsightBackend{remote, local}, nil, logger.NewTestLogger())

	insights := s.ExtractInsights(context.Background(), longText(60))
	require.Len(t, insights, 1)
	assert.Equal(t, 0.712, insights[0].Confidence)
}

func TestExtractInsightsExhaustedChainIsEmpty(t *testing.T) {
	remote := &fakeInsighter{err: errors.New("down")}
	s := NewWithBackends(nil, []InsightBackend{remote}, nil, logger.NewTestLogger())

	insights := s.ExtractInsights(context.Background(), longText(60))
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

func TestExtractInsightsCapsAtFive(t *testing.T) {
	many := make([]models.Insight, 8)
	for i := range many {
		many[i] = models.Insight{Category: "conclusions", Description: "x", Confidence: 0.8}
	}
	s := NewWithBackends(nil, []InsightBackend{&fakeInsighter{insights: many}}, nil, logger.NewTestLogger())

	assert.Len(t, s.ExtractInsights(context.Background(), longText(60)), 5)
}

func TestAnswerFallbackResult(t *testing.T) {
	failing := &fakeAnswerer{err: errors.New("down")}
	s := NewWithBackends(nil, nil, []AnswerBackend{failing}, logger.NewTestLogger())

	result := s.Answer(context.Background(), "what?", "context")
	assert.Equal(t, "Question answering service not available", result.Answer)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "context...", result.ContextUsed)
	assert.Equal(t, "fallback", result.Model)
}

func TestAnswerRoundsConfidence(t *testing.T) {
	a := &fakeAnswerer{result: models.QAResult{Answer: "yes", Confidence: 0.87654, Model: "m"}}
	s := NewWithBackends(nil, nil, []AnswerBackend{a}, logger.NewTestLogger())

	result := s.Answer(context.Background(), "q", "c")
	assert.Equal(t, 0.877, result.Confidence)
}

func TestStripCodeFence(t *testing.T) {
	fenced := "```json\n[{\"category\":\"key findings\",\"insight\":\"x\",\"confidence\":0.9}]\n```"
	assert.Equal(t, `[{"category":"key findings","insight":"x","confidence":0.9}]`, stripCodeFence(fenced))
	assert.Equal(t, "plain", stripCodeFence("plain"))
}
