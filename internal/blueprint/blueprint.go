package blueprint

import (
	"encoding/json"
	"strings"

	"dailyforge/internal/errors"
)

// Artifact file names written for every run.
const (
	FileScript       = "main.py"
	FileRequirements = "requirements.txt"
	FileReadme       = "README.md"
)

// Blueprint is a parsed generation result: the three logical sections of one
// daily project, ready to be written to disk.
type Blueprint struct {
	// Script is the Python entry-point source.
	Script string

	// Requirements is a plain newline-separated list of pip package names.
	// May be empty for dependency-free projects.
	Requirements string

	// Readme is the Markdown project description.
	Readme string
}

// Files maps artifact file names to their contents.
// Each file is terminated with a single trailing newline.
func (b *Blueprint) Files() map[string]string {
	return map[string]string{
		FileScript:       ensureTrailingNewline(b.Script),
		FileRequirements: ensureTrailingNewline(b.Requirements),
		FileReadme:       ensureTrailingNewline(b.Readme),
	}
}

// Parse splits a raw completion into the three blueprint sections.
// The labeled-section convention (SCRIPT:/REQS:/README:) is the contract the
// prompt instructs; a JSON object response is accepted as a fallback since
// some models ignore label instructions. Missing or empty required sections
// yield a MALFORMED_RESPONSE error.
func Parse(text string) (*Blueprint, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.NewEmptyCompletion()
	}

	bp := parseLabeled(trimmed)
	if bp == nil {
		bp = parseJSON(trimmed)
	}
	if bp == nil {
		return nil, errors.NewMalformedResponse([]string{SectionScript, SectionRequirements, SectionReadme})
	}

	bp.Script = StripFence(bp.Script)
	bp.Requirements = NormalizeRequirements(bp.Requirements)
	bp.Readme = strings.TrimSpace(StripFence(bp.Readme))

	// Requirements may legitimately be empty; script and readme may not.
	var missing []string
	if strings.TrimSpace(bp.Script) == "" {
		missing = append(missing, SectionScript)
	}
	if bp.Readme == "" {
		missing = append(missing, SectionReadme)
	}
	if len(missing) > 0 {
		return nil, errors.NewMalformedResponse(missing)
	}

	return bp, nil
}

// parseLabeled builds a blueprint from labeled sections.
// Returns nil if no script section was found at all.
func parseLabeled(text string) *Blueprint {
	sections := ParseSections(text)
	if len(sections) == 0 {
		return nil
	}

	bp := &Blueprint{}
	found := false
	for _, s := range sections {
		content := strings.TrimSpace(s.Content)
		switch s.Canonical {
		case SectionScript:
			bp.Script = content
			found = true
		case SectionRequirements:
			bp.Requirements = content
		case SectionReadme:
			bp.Readme = content
		}
	}
	if !found {
		return nil
	}
	return bp
}

// parseJSON builds a blueprint from a JSON object response, matching keys
// against the section synonym table (main_py, requirements_txt, readme_md
// and friends). Returns nil if the text is not a JSON object.
func parseJSON(text string) *Blueprint {
	if !strings.HasPrefix(text, "{") {
		// Models often wrap JSON in a code fence
		text = strings.TrimSpace(StripFence(text))
		if !strings.HasPrefix(text, "{") {
			return nil
		}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil
	}

	bp := &Blueprint{}
	found := false
	for key, value := range obj {
		str, ok := value.(string)
		if !ok {
			continue
		}
		switch MatchCanonical(key) {
		case SectionScript:
			bp.Script = str
			found = true
		case SectionRequirements:
			bp.Requirements = str
		case SectionReadme:
			bp.Readme = str
		}
	}
	if !found {
		return nil
	}
	return bp
}

// ensureTrailingNewline guarantees content ends with exactly one newline.
func ensureTrailingNewline(s string) string {
	s = strings.TrimRight(s, "\n")
	return s + "\n"
}
