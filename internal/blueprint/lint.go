package blueprint

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
)

// LintInput contains parameters for linting a parsed blueprint.
type LintInput struct {
	Blueprint *Blueprint
	MaxChars  int
}

// LintResult contains the results of linting a blueprint.
type LintResult struct {
	Valid         bool
	EmptySections []string // canonical names of empty required sections
	TooLarge      bool
	ActualChars   int
	MaxChars      int
	ReadmeRenders bool
}

// Lint validates a blueprint before it is written to disk.
// Requirements may be empty; script and readme may not. The readme must
// convert cleanly to HTML.
func Lint(input LintInput) *LintResult {
	bp := input.Blueprint
	result := &LintResult{
		Valid:         true,
		ReadmeRenders: true,
		MaxChars:      input.MaxChars,
	}
	if bp == nil {
		result.Valid = false
		result.EmptySections = []string{SectionScript, SectionReadme}
		return result
	}

	result.ActualChars = CountChars(bp.Script) + CountChars(bp.Requirements) + CountChars(bp.Readme)

	if input.MaxChars > 0 && result.ActualChars > input.MaxChars {
		result.TooLarge = true
		result.Valid = false
	}

	if strings.TrimSpace(bp.Script) == "" {
		result.EmptySections = append(result.EmptySections, SectionScript)
	}
	if strings.TrimSpace(bp.Readme) == "" {
		result.EmptySections = append(result.EmptySections, SectionReadme)
	}
	if len(result.EmptySections) > 0 {
		result.Valid = false
	}

	if strings.TrimSpace(bp.Readme) != "" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(bp.Readme), &buf); err != nil {
			result.ReadmeRenders = false
			result.Valid = false
		}
	}

	return result
}
