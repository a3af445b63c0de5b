package summarizer

import (
	"context"
	"math"
	"strings"

	"github.com/intellidoc/backend/internal/models"
	"github.com/intellidoc/backend/pkg/logger"
)

// SummarizeBackend produces a summary of a document text.
type SummarizeBackend interface {
	Name() string
	Summarize(ctx context.Context, text string) (string, error)
}

// InsightBackend extracts categorized insights from a document text.
type InsightBackend interface {
	Name() string
	ExtractInsights(ctx context.Context, text string) ([]models.Insight, error)
}

// AnswerBackend answers a question over a retrieved context.
type AnswerBackend interface {
	Name() string
	Answer(ctx context.Context, question, context string) (models.QAResult, error)
}

// minSummaryWords is the floor below which documents are not worth
// summarizing through a model.
const minSummaryWords = 50

// confidenceRule scores a generative answer by its shape. Rules are checked
// in order, first match wins; answers matching no rule get the default.
type confidenceRule struct {
	refusalPhrases []string
	minLength      int
	score          float64
}

var generativeConfidenceRules = []confidenceRule{
	{refusalPhrases: []string{"cannot find", "not mentioned"}, score: 0.3},
	{minLength: 101, score: 0.9},
}

const generativeConfidenceDefault = 0.8

func (r confidenceRule) matches(answer string) bool {
	if len(r.refusalPhrases) > 0 {
		lower := strings.ToLower(answer)
		for _, phrase := range r.refusalPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
		return false
	}
	return len(answer) >= r.minLength
}

// scoreGenerativeAnswer applies the rule table to a chat-model answer.
func scoreGenerativeAnswer(answer string) float64 {
	for _, rule := range generativeConfidenceRules {
		if rule.matches(answer) {
			return rule.score
		}
	}
	return generativeConfidenceDefault
}

// adjustExtractiveScore nudges a QA model's native score by answer length:
// long answers gain 10% (capped at 1.0), very short ones lose 10%.
func adjustExtractiveScore(score float64, answer string) float64 {
	switch {
	case len(answer) > 20:
		return math.Min(score*1.1, 1.0)
	case len(answer) < 5:
		return score * 0.9
	default:
		return score
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Service chains summarization, insight extraction and question answering
// backends. Every operation degrades instead of erroring: a failed backend
// falls through to the next, and the final fallback is always pure Go.
type Service struct {
	summarizers []SummarizeBackend
	insighters  []InsightBackend
	answerers   []AnswerBackend
	logger      logger.Logger
}

// New assembles the chains in priority order. Nil backends are skipped, so
// callers pass whatever their deployment has configured.
func New(remote *OpenAIClient, local *LocalClient, log logger.Logger) *Service {
	s := &Service{logger: log}
	if remote != nil {
		s.summarizers = append(s.summarizers, remote)
		s.insighters = append(s.insighters, remote)
		s.answerers = append(s.answerers, remote)
	}
	if local != nil {
		s.summarizers = append(s.summarizers, local)
		s.insighters = append(s.insighters, local)
		s.answerers = append(s.answerers, local)
	}
	return s
}

// NewWithBackends assembles a service from explicit chains. Used by tests
// and deployments with custom providers.
func NewWithBackends(
	summarizers []SummarizeBackend,
	insighters []InsightBackend,
	answerers []AnswerBackend,
	log logger.Logger,
) *Service {
	return &Service{
		summarizers: summarizers,
		insighters:  insighters,
		answerers:   answerers,
		logger:      log,
	}
}

// Summarize returns a summary of text. It never fails: exhausting the model
// chain falls back to a naive sentence extract.
func (s *Service) Summarize(ctx context.Context, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return naiveSummary(trimmed)
	}
	if countWords(trimmed) < minSummaryWords {
		return "Document too short for summarization"
	}

	for _, backend := range s.summarizers {
		summary, err := backend.Summarize(ctx, trimmed)
		if err != nil {
			s.logger.Warn("Summarization backend failed, trying next",
				logger.String("backend", backend.Name()),
				logger.Error(err),
			)
			continue
		}
		if strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
	}

	return naiveSummary(trimmed)
}

// ExtractInsights returns at most five categorized insights. It never fails:
// exhausting the chain yields an empty list.
func (s *Service) ExtractInsights(ctx context.Context, text string) []models.Insight {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []models.Insight{}
	}

	for _, backend := range s.insighters {
		insights, err := backend.ExtractInsights(ctx, trimmed)
		if err != nil {
			s.logger.Warn("Insight backend failed, trying next",
				logger.String("backend", backend.Name()),
				logger.Error(err),
			)
			continue
		}
		if len(insights) > 5 {
			insights = insights[:5]
		}
		for i := range insights {
			insights[i].Confidence = round3(insights[i].Confidence)
		}
		return insights
	}

	return []models.Insight{}
}

// Answer runs the QA chain over an already-assembled context. Exhausting the
// chain yields a zero-confidence fallback result rather than an error.
func (s *Service) Answer(ctx context.Context, question, contextText string) models.QAResult {
	for _, backend := range s.answerers {
		result, err := backend.Answer(ctx, question, contextText)
		if err != nil {
			s.logger.Warn("QA backend failed, trying next",
				logger.String("backend", backend.Name()),
				logger.Error(err),
			)
			continue
		}
		result.Confidence = round3(result.Confidence)
		return result
	}

	return models.QAResult{
		Answer:      "Question answering service not available",
		Confidence:  0.0,
		ContextUsed: truncateChars(contextText, 200) + "...",
		Model:       "fallback",
	}
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// truncateWords keeps at most n whitespace-separated words.
func truncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}

// truncateChars cuts text at n bytes.
func truncateChars(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}
