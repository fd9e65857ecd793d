// Package resolver decides which answer a question gets. Structured rules
// over the profile are tried first; optional extractive and generative
// strategies follow in decreasing order of trust, and a fixed terminal reply
// closes the chain. Resolution never fails.
package resolver

// Source tags where an answer came from.
type Source string

const (
	SourceStructured Source = "structured"
	SourceExtractive Source = "extractive_model"
	SourceGenerative Source = "generative_fallback"
	SourceNone       Source = "none"
)

// Confidence levels.
const (
	StructuredConfidence        = 1.0
	EmptyLookupConfidence       = 0.6
	TerminalConfidence          = 0.5
	DefaultExtractiveThreshold  = 0.7
	DefaultGenerativeConfidence = 0.65
)

// Result is the answer to one question.
type Result struct {
	Text       string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	// Rule names the structured rule that fired, if any.
	Rule string `json:"rule,omitempty"`
	// Usage is set for generated answers.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage records the cost of a generated answer.
type Usage struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}
