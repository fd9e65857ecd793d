package llm

// Role is the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a single call. An empty Model selects the
// provider's configured model.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// PromptTokens estimates the size of the request.
func (r CompletionRequest) PromptTokens() int {
	n := 0
	for _, m := range r.Messages {
		n += EstimateTokens(m.Content)
	}
	return n
}

type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// FillUsage replaces whatever the provider did not report with estimates
// derived from req, so every response can be priced.
func (r *CompletionResponse) FillUsage(req CompletionRequest) {
	if r.Model == "" {
		r.Model = req.Model
	}
	if r.InputTokens == 0 {
		r.InputTokens = req.PromptTokens()
	}
	if r.OutputTokens == 0 {
		r.OutputTokens = EstimateTokens(r.Content)
	}
}

// Cost is the estimated USD cost of the call, or 0 for unpriced models.
func (r *CompletionResponse) Cost() float64 {
	return EstimateCost(r.Model, r.InputTokens, r.OutputTokens)
}
