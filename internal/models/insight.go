package models

// InsightCategories is the closed set of categories an insight may carry.
var InsightCategories = []string{
	"financial information",
	"legal terms",
	"technical specifications",
	"important dates",
	"contact information",
	"action items",
	"risks and concerns",
	"opportunities",
	"conclusions",
}

// Insight is a categorized observation extracted from a document.
type Insight struct {
	Category    string  `json:"category"`
	Description string  `json:"insight"`
	Confidence  float64 `json:"confidence"`
}

// ValidInsightCategory reports whether c belongs to the closed category set.
func ValidInsightCategory(c string) bool {
	for _, known := range InsightCategories {
		if known == c {
			return true
		}
	}
	return false
}

// QAResult is the outcome of answering a question over retrieved context.
type QAResult struct {
	Answer      string  `json:"answer"`
	Confidence  float64 `json:"confidence"`
	ContextUsed string  `json:"contextUsed"`
	StartPos    int     `json:"startPosition,omitempty"`
	EndPos      int     `json:"endPosition,omitempty"`
	Model       string  `json:"model"`
}
