package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"dailyforge/internal/config"
	"dailyforge/internal/db"
	"dailyforge/internal/llm"
	"dailyforge/internal/ops"
)

const testCompletion = "SCRIPT:\nprint('hi')\nREQS:\nrequests\nREADME:\nDemo project"

// cannedGenerator returns a fixed completion without any network.
type cannedGenerator struct{}

func (cannedGenerator) Complete(_ context.Context, _ llm.Request) (string, error) {
	return testCompletion, nil
}

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config pointed at temp directories.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.APIKey = "gsk_test"
	cfg.OutputDir = t.TempDir()
	return cfg
}

// seedRun records one successful run and returns its ID.
func seedRun(t *testing.T, database *sql.DB, cfg *config.Config) string {
	t.Helper()
	out, err := ops.Generate(context.Background(), database, cfg, cannedGenerator{}, ops.GenerateInput{
		Topic: "a test project",
	})
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	return out.RunID
}

// runApp runs the CLI app capturing stdout.
func runApp(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"dailyforge"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestCLIGenerateMissingCredential verifies the run fails before any network
// attempt when no API key is configured.
func TestCLIGenerateMissingCredential(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)
	cfg.APIKey = ""

	app := newCLIApp(database, cfg, "")

	_, err := runApp(t, app, "generate")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestCLIList tests the list command.
func TestCLIList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)
	seedRun(t, database, cfg)

	app := newCLIApp(database, cfg, "")

	stdout, err := runApp(t, app, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, stdout)
	}

	if len(output.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(output.Items))
	}
	if output.Pagination.Total != 1 {
		t.Errorf("expected total=1, got %d", output.Pagination.Total)
	}
}

// TestCLIShow tests the show command by ID and by date.
func TestCLIShow(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)
	id := seedRun(t, database, cfg)

	app := newCLIApp(database, cfg, "")

	t.Run("show by id", func(t *testing.T) {
		stdout, err := runApp(t, app, "show", id)
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}

		var output ops.ShowOutput
		if err := json.Unmarshal([]byte(stdout), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Run.ID != id {
			t.Errorf("expected ID=%s, got %s", id, output.Run.ID)
		}
	})

	t.Run("show by id with files", func(t *testing.T) {
		stdout, err := runApp(t, app, "show", "--files", id)
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}

		var output ops.ShowOutput
		if err := json.Unmarshal([]byte(stdout), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Files["main.py"] != "print('hi')\n" {
			t.Errorf("expected script content, got %q", output.Files["main.py"])
		}
	})

	t.Run("show by date", func(t *testing.T) {
		// Fetch the run to learn its date
		run, err := ops.Show(database, ops.ShowInput{ID: id})
		if err != nil {
			t.Fatalf("failed to fetch run: %v", err)
		}

		stdout, err := runApp(t, app, "show", "--date="+run.Run.RunDate)
		if err != nil {
			t.Fatalf("show command failed: %v", err)
		}

		var output ops.ShowOutput
		if err := json.Unmarshal([]byte(stdout), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Run.ID != id {
			t.Errorf("expected ID=%s, got %s", id, output.Run.ID)
		}
	})
}

// TestCLILatest tests the latest command.
func TestCLILatest(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)
	id := seedRun(t, database, cfg)

	app := newCLIApp(database, cfg, "")

	stdout, err := runApp(t, app, "latest")
	if err != nil {
		t.Fatalf("latest command failed: %v", err)
	}

	var output ops.LatestOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Item == nil {
		t.Fatal("expected non-nil item")
	}
	if output.Item.ID != id {
		t.Errorf("expected ID=%s, got %s", id, output.Item.ID)
	}
}

// TestCLIExport tests the export command.
func TestCLIExport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)
	seedRun(t, database, cfg)

	app := newCLIApp(database, cfg, "")
	exportPath := filepath.Join(t.TempDir(), "export.jsonl")

	stdout, err := runApp(t, app, "export", "--path="+exportPath)
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Count != 1 {
		t.Errorf("expected count=1, got %d", output.Count)
	}
	if output.Path != exportPath {
		t.Errorf("expected path=%s, got %s", exportPath, output.Path)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

// TestCLIExportDefaultPath tests export without an explicit path.
func TestCLIExportDefaultPath(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)
	seedRun(t, database, cfg)

	baseDir := t.TempDir()
	app := newCLIApp(database, cfg, baseDir)

	stdout, err := runApp(t, app, "export")
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if filepath.Dir(output.Path) != filepath.Join(baseDir, "exports") {
		t.Errorf("expected export under %s/exports, got %s", baseDir, output.Path)
	}
}

// TestCLIPurge tests the purge command.
func TestCLIPurge(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)

	app := newCLIApp(database, cfg, "")

	stdout, err := runApp(t, app, "purge")
	if err != nil {
		t.Fatalf("purge command failed: %v", err)
	}

	var output ops.PurgeOutput
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Purged != 0 {
		t.Errorf("expected purged=0, got %d", output.Purged)
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := testConfig(t)

	app := newCLIApp(database, cfg, "")

	t.Run("show without addressing returns error", func(t *testing.T) {
		_, err := runApp(t, app, "show")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("show not found returns error", func(t *testing.T) {
		_, err := runApp(t, app, "show", "nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("list with invalid status returns error", func(t *testing.T) {
		_, err := runApp(t, app, "list", "--status=bogus")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("purge with negative days returns error", func(t *testing.T) {
		_, err := runApp(t, app, "purge", "--older-than-days=-1")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"dailyforge"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"dailyforge", "--help"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"dailyforge", "-h"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"dailyforge", "--version"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"dailyforge", "help"},
			expected: true,
		},
		{
			name:     "generate command is not help",
			args:     []string{"dailyforge", "generate"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestResolveBaseDir tests the base directory resolution.
func TestResolveBaseDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv(EnvHome, "/tmp/forge-home")
		dir, err := resolveBaseDir()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != "/tmp/forge-home" {
			t.Errorf("expected /tmp/forge-home, got %s", dir)
		}
	})

	t.Run("default under home", func(t *testing.T) {
		t.Setenv(EnvHome, "")
		dir, err := resolveBaseDir()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(dir) != ".dailyforge" {
			t.Errorf("expected .dailyforge suffix, got %s", dir)
		}
	})
}
