package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"dailyforge/internal/config"
	"dailyforge/internal/errors"
	"dailyforge/internal/llm"
	"dailyforge/internal/mcp"
	"dailyforge/internal/ops"
	"dailyforge/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "dailyforge",
		Usage:   "Generate one small Python project a day via a text-generation endpoint",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(db, cfg),
			listCmd(db),
			showCmd(db),
			latestCmd(db),
			exportCmd(db, baseDir),
			purgeCmd(db),
			serveCmd(db, cfg),
			mcpCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// generateCmd creates the generate command.
func generateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate today's project and write it to a dated directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "topic", Aliases: []string{"t"}, Usage: "Pin the project topic instead of drawing a random one"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Override the configured model"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Override the configured output root"},
		},
		Action: func(c *cli.Context) error {
			gen := llm.NewClient(cfg.APIKey, cfg.BaseURL)

			output, err := ops.Generate(c.Context, db, cfg, gen, ops.GenerateInput{
				Topic:     c.String("topic"),
				Model:     c.String("model"),
				OutputDir: c.String("output-dir"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List generation runs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by run status: ok|failed"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Status: c.String("status"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one run by ID or by date",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Resolve by date (YYYY-MM-DD) instead of ID"},
			&cli.BoolFlag{Name: "files", Aliases: []string{"f"}, Usage: "Include the generated file contents"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ShowInput{
				Date:         c.String("date"),
				IncludeFiles: c.Bool("files"),
			}
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			}

			output, err := ops.Show(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "Show the most recent run",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-failed", Usage: "Consider failed runs too"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Latest(db, ops.LatestInput{
				IncludeFailed: c.Bool("include-failed"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the run ledger to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: <base>/exports/runs-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("path")
			if path == "" {
				path = ops.DefaultExportPath(baseDir, time.Now())
			}

			output, err := ops.Export(c.Context, db, ops.ExportInput{Path: path})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete failed run records from the ledger",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "older-than-days", Usage: "Only purge failed runs recorded more than N days ago"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}
			if c.IsSet("older-than-days") {
				days := c.Int("older-than-days")
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the run-ledger web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8713, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown disabled tools: %v", unknown)))
			}

			gen := llm.NewClient(cfg.APIKey, cfg.BaseURL)
			return mcp.Run(db, cfg, gen, Version)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if fErr, ok := err.(*errors.ForgeError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", fErr.Code, fErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
