package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateToolDef triggers one generation run.
var generateToolDef = mcp.NewTool("project_generate",
	mcp.WithDescription("Generate today's Python project via the configured text-generation endpoint and write it to a dated directory."),
	mcp.WithString("topic",
		mcp.Description("Pin the project topic instead of drawing a random one"),
	),
	mcp.WithString("model",
		mcp.Description("Override the configured model identifier"),
	),
	mcp.WithString("output_dir",
		mcp.Description("Override the configured output root directory"),
	),
)

// listToolDef lists ledger runs.
var listToolDef = mcp.NewTool("project_list",
	mcp.WithDescription("List generation runs from the ledger, newest first."),
	mcp.WithString("status",
		mcp.Description("Filter by run status: ok or failed"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum items to return (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Items to skip"),
	),
)

// getToolDef fetches one run, optionally with artifact files.
var getToolDef = mcp.NewTool("project_get",
	mcp.WithDescription("Fetch one generation run by id or by date, optionally including the generated files."),
	mcp.WithString("id",
		mcp.Description("Run ULID"),
	),
	mcp.WithString("date",
		mcp.Description("ISO date (YYYY-MM-DD); resolves to that day's run, successful preferred"),
	),
	mcp.WithBoolean("include_files",
		mcp.Description("Read main.py, requirements.txt and README.md back from disk"),
	),
)

// latestToolDef fetches the most recent run.
var latestToolDef = mcp.NewTool("project_latest",
	mcp.WithDescription("Fetch the most recent generation run."),
	mcp.WithBoolean("include_failed",
		mcp.Description("Consider failed runs too, not just successful ones"),
	),
)
