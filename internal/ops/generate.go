package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dailyforge/internal/blueprint"
	"dailyforge/internal/config"
	"dailyforge/internal/db"
	"dailyforge/internal/errors"
	"dailyforge/internal/llm"
	"dailyforge/internal/store"
)

// GenerateInput contains parameters for the Generate operation.
// All fields are optional; empty values fall back to config.
type GenerateInput struct {
	Topic     string // pin the project topic instead of drawing one
	Model     string // override the configured model
	OutputDir string // override the configured output root
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	RunID           string   `json:"run_id"`
	Date            string   `json:"date"`
	Dir             string   `json:"dir"`
	DirName         string   `json:"dir_name"`
	Files           []string `json:"files"`
	Topic           string   `json:"topic,omitempty"`
	Model           string   `json:"model"`
	CompletionChars int      `json:"completion_chars"`
	DurationMs      int64    `json:"duration_ms"`
}

// Generate runs one daily generation: prompt, single synchronous endpoint
// call, parse, lint, atomic artifact write, ledger record. Any failure is
// fatal for the run; no retries, and no partial artifact survives. The
// credential check happens before the generator is touched, so a missing key
// never causes a network call.
func Generate(ctx context.Context, database *sql.DB, cfg *config.Config, gen llm.Generator, input GenerateInput) (*GenerateOutput, error) {
	start := time.Now()
	now := start.UTC()
	date := now.Format("2006-01-02")

	model := strings.TrimSpace(input.Model)
	if model == "" {
		model = cfg.Model
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		topic = blueprint.RandomTopic(cfg.Topics)
	}
	outputDir := strings.TrimSpace(input.OutputDir)
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.NewMissingCredential(config.EnvAPIKey)
	}

	prompt := blueprint.BuildPrompt(topic)

	record := &db.Run{
		RunDate:     date,
		Topic:       optional(topic),
		Model:       model,
		PromptChars: blueprint.CountChars(prompt),
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	completion, err := gen.Complete(callCtx, llm.Request{
		Prompt:      prompt,
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		recordFailure(database, record, start, err)
		return nil, err
	}

	record.CompletionChars = blueprint.CountChars(completion)
	record.TokensEstimate = blueprint.EstimateTokens(completion)

	if cfg.CompletionMaxChars > 0 && record.CompletionChars > cfg.CompletionMaxChars {
		err := errors.NewResponseTooLarge(cfg.CompletionMaxChars, record.CompletionChars)
		recordFailure(database, record, start, err)
		return nil, err
	}

	bp, err := blueprint.Parse(completion)
	if err != nil {
		recordFailure(database, record, start, err)
		return nil, err
	}

	lint := blueprint.Lint(blueprint.LintInput{Blueprint: bp, MaxChars: cfg.CompletionMaxChars})
	if !lint.Valid {
		var lintErr *errors.ForgeError
		switch {
		case lint.TooLarge:
			lintErr = errors.NewResponseTooLarge(lint.MaxChars, lint.ActualChars)
		case len(lint.EmptySections) > 0:
			lintErr = errors.NewMalformedResponse(lint.EmptySections)
		default:
			lintErr = errors.NewMalformedResponse([]string{blueprint.SectionReadme})
		}
		recordFailure(database, record, start, lintErr)
		return nil, lintErr
	}

	bp.Readme = bp.Readme + "\n\nGenerated on " + date + "."

	artifact, err := store.Write(outputDir, now, bp)
	if err != nil {
		recordFailure(database, record, start, err)
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	record.ID = id
	record.Status = db.StatusOK
	record.DirName = optional(artifact.DirName)
	record.DirPath = optional(artifact.Dir)
	record.DurationMs = time.Since(start).Milliseconds()
	record.CreatedAt = time.Now().Unix()

	if database != nil {
		if err := db.InsertRun(database, record); err != nil {
			return nil, err
		}
	}

	return &GenerateOutput{
		RunID:           id,
		Date:            date,
		Dir:             artifact.Dir,
		DirName:         artifact.DirName,
		Files:           artifact.Files,
		Topic:           topic,
		Model:           model,
		CompletionChars: record.CompletionChars,
		DurationMs:      record.DurationMs,
	}, nil
}

// recordFailure writes a failed-run ledger record. Best effort: the original
// error is what the caller reports, not a ledger write problem.
func recordFailure(database *sql.DB, record *db.Run, start time.Time, cause error) {
	if database == nil {
		return
	}

	id, err := generateULID()
	if err != nil {
		return
	}

	record.ID = id
	record.Status = db.StatusFailed
	record.DurationMs = time.Since(start).Milliseconds()
	record.CreatedAt = time.Now().Unix()

	code := string(errors.ErrInternal)
	msg := cause.Error()
	if fErr, ok := cause.(*errors.ForgeError); ok {
		code = string(fErr.Code)
		msg = fErr.Message
	}
	record.ErrorCode = &code
	record.ErrorMessage = &msg

	_ = db.InsertRun(database, record)
}

// optional returns a pointer to s, or nil when s is empty.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
