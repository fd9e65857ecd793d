package mcp

import "github.com/mark3labs/mcp-go/mcp"

// sections maps tool-facing section names to passage sections.
var sections = map[string]string{
	"contact":        "contact",
	"summary":        "summary",
	"roles":          "role",
	"skills":         "skills",
	"certifications": "certification",
	"education":      "education",
	"achievements":   "achievement",
	"projects":       "project",
	"experience":     "experience",
	"languages":      "languages",
}

var sectionNames = []string{
	"contact", "summary", "roles", "skills", "certifications",
	"education", "achievements", "projects", "experience", "languages",
}

var askCandidateTool = mcp.NewTool("ask_candidate",
	mcp.WithDescription("Ask a question about the candidate's background. Answers come from the résumé and include a confidence score and source."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Question in natural language, e.g. \"What certifications does the candidate hold?\""),
	),
	mcp.WithString("session_id",
		mcp.Description("Optional conversation id used when logging the exchange"),
	),
)

var getProfileSectionTool = mcp.NewTool("get_profile_section",
	mcp.WithDescription("Get one section of the candidate's résumé verbatim."),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Résumé section to return"),
		mcp.Enum(sectionNames...),
	),
)

var searchProfileTool = mcp.NewTool("search_profile",
	mcp.WithDescription("Search the résumé semantically and return the closest passages with similarity scores."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of passages to return (default 5)"),
	),
	mcp.WithString("section",
		mcp.Description("Restrict the search to one section"),
		mcp.Enum(sectionNames...),
	),
)
