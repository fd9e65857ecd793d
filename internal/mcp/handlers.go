package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/candidate-concierge/concierge/internal/vectordb"
)

const defaultSearchLimit = 5

func (s *Server) handleAskCandidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil || strings.TrimSpace(question) == "" {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	sessionID := request.GetString("session_id", "mcp")

	ans := s.svc.Ask(ctx, question, sessionID)

	var sb strings.Builder
	sb.WriteString(ans.Text)
	fmt.Fprintf(&sb, "\n\n(source: %s, confidence: %.2f", ans.Source, ans.Confidence)
	if ans.AnswerID != nil {
		fmt.Fprintf(&sb, ", answer_id: %d", *ans.AnswerID)
	}
	sb.WriteString(")")
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetProfileSection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("section")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: section"), nil
	}
	section, ok := sections[name]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown section %q; valid sections: %s",
			name, strings.Join(sectionNames, ", "))), nil
	}

	var lines []string
	for _, p := range s.kb.Passages() {
		if p.Section == section {
			lines = append(lines, p.Text)
		}
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("The résumé has no %s section.", name)), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) handleSearchProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var filter *vectordb.SearchFilter
	if name := request.GetString("section", ""); name != "" {
		section, ok := sections[name]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown section %q", name)), nil
		}
		filter = &vectordb.SearchFilter{Section: &section}
	}

	results, err := s.store.Search(ctx, query, limit, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return mcp.NewToolResultText(vectordb.FormatResults(results)), nil
}
