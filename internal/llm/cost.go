package llm

import (
	"strings"
	"unicode/utf8"
)

// price is USD per million tokens.
type price struct {
	in, out float64
}

// prices is keyed by model family. APIs report dated snapshots such as
// "gpt-3.5-turbo-0125", which resolve to the longest matching prefix.
var prices = map[string]price{
	"claude-haiku-4-5":  {0.80, 4.00},
	"claude-sonnet-4-5": {3.00, 15.00},

	"gpt-3.5-turbo": {0.50, 1.50},
	"gpt-4o":        {2.50, 10.00},
	"gpt-4o-mini":   {0.15, 0.60},

	"gemini-2.0-flash": {0.10, 0.40},
	"gemini-2.5-flash": {0.30, 2.50},
	"gemini-2.5-pro":   {1.25, 10.00},
}

func lookupPrice(model string) (price, bool) {
	var (
		best    price
		bestLen int
	)
	for family, p := range prices {
		if strings.HasPrefix(model, family) && len(family) > bestLen {
			best, bestLen = p, len(family)
		}
	}
	return best, bestLen > 0
}

// EstimateCost returns the USD cost of a call, or 0 for models without a
// known price (local Ollama models among them).
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := lookupPrice(model)
	if !ok {
		return 0
	}
	return (float64(inputTokens)*p.in + float64(outputTokens)*p.out) / 1e6
}

// EstimateTokens approximates a token count as one per four characters.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return max(n/4, 1)
}
