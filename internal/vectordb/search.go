package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders results one per line as "rank. [section] score  text".
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No matching passages."
	}
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("%d. [%s] %.3f  %s", i+1, r.Document.Metadata.Section, r.Similarity, r.Document.Content)
	}
	return strings.Join(lines, "\n") + "\n"
}
