package blueprint

import (
	"regexp"
	"strings"
)

// Canonical section names in the labeled-section convention.
const (
	SectionScript       = "SCRIPT"
	SectionRequirements = "REQS"
	SectionReadme       = "README"
)

// Section represents a parsed labeled section.
type Section struct {
	Label     string // label as it appeared, without decoration
	Canonical string // canonical name, empty if the label is unknown
	Content   string // text between this label and the next
}

// labelPattern matches a section label on its own line: an identifier followed
// by a colon, optionally decorated as a markdown heading or bold text
// ("**REQS:**" and "**REQS**:" both match). A line only counts as a label if
// the identifier resolves to a known section, so Python lines like "else:"
// inside the script never split a section.
var labelPattern = regexp.MustCompile(`(?m)^[ \t]*(?:#{1,6}[ \t]*)?\*{0,2}([A-Za-z][A-Za-z0-9_.]*)\*{0,2}[ \t]*:[ \t]*\*{0,2}[ \t]*$`)

// fencePattern matches fenced code block delimiters at the start of a line,
// allowing 0-3 spaces of indentation per CommonMark.
var fencePattern = regexp.MustCompile("(?m)^[ ]{0,3}(`{3,}|~{3,})")

// sectionSynonyms maps canonical section names to accepted label spellings
// (lowercase). The JSON fallback keys from the wire convention are included.
var sectionSynonyms = map[string][]string{
	SectionScript:       {"script", "code", "main", "main.py", "main_py"},
	SectionRequirements: {"reqs", "requirements", "requirements.txt", "requirements_txt", "dependencies", "deps"},
	SectionReadme:       {"readme", "readme.md", "readme_md", "description", "docs"},
}

// MatchCanonical resolves a label to its canonical section name.
// Returns the empty string for unknown labels.
func MatchCanonical(label string) string {
	norm := Normalize(label)
	for canonical, synonyms := range sectionSynonyms {
		for _, s := range synonyms {
			if norm == s {
				return canonical
			}
		}
	}
	return ""
}

// fencedRanges returns byte offset ranges [start, end) for fenced code blocks.
// Closing fences must use the same character and be at least as long as the
// opening fence.
func fencedRanges(text string) [][2]int {
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return nil
	}

	var ranges [][2]int
	var openChar byte
	var openLen int
	var openStart int
	inFence := false

	for _, match := range matches {
		fenceChars := text[match[2]:match[3]]
		char := fenceChars[0]
		fenceLen := len(fenceChars)

		if !inFence {
			openChar = char
			openLen = fenceLen
			openStart = match[0]
			inFence = true
		} else if char == openChar && fenceLen >= openLen {
			ranges = append(ranges, [2]int{openStart, match[1]})
			inFence = false
		}
	}
	return ranges
}

// insideFence returns true if byte offset pos falls inside any fenced range.
func insideFence(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// ParseSections finds all known section labels and their content boundaries.
// Labels inside fenced code blocks are ignored, as are identifiers that do not
// resolve to a canonical section. Returns nil if no known label is found.
func ParseSections(text string) []Section {
	allMatches := labelPattern.FindAllStringSubmatchIndex(text, -1)
	if len(allMatches) == 0 {
		return nil
	}

	fences := fencedRanges(text)

	type boundary struct {
		canonical string
		label     string
		start     int // label line start
		end       int // label line end (content starts after)
	}

	var bounds []boundary
	for _, m := range allMatches {
		if insideFence(m[0], fences) {
			continue
		}
		label := text[m[2]:m[3]]
		canonical := MatchCanonical(label)
		if canonical == "" {
			continue
		}
		bounds = append(bounds, boundary{canonical: canonical, label: label, start: m[0], end: m[1]})
	}
	if len(bounds) == 0 {
		return nil
	}

	sections := make([]Section, len(bounds))
	for i, b := range bounds {
		contentStart := b.end
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}
		contentEnd := len(text)
		if i+1 < len(bounds) {
			contentEnd = bounds[i+1].start
		}
		content := ""
		if contentStart < contentEnd {
			content = text[contentStart:contentEnd]
		}
		sections[i] = Section{
			Label:     b.label,
			Canonical: b.canonical,
			Content:   content,
		}
	}

	return sections
}

// SectionNames returns the canonical names present in parsed sections.
func SectionNames(sections []Section) []string {
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Canonical != "" {
			names = append(names, s.Canonical)
		}
	}
	return names
}

// StripFence removes a single surrounding fenced code block from content.
// Content that is not fully wrapped in one fence is returned unchanged
// apart from trailing whitespace trimming.
func StripFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") && !strings.HasPrefix(trimmed, "~~~") {
		return content
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return content
	}
	last := strings.TrimSpace(lines[len(lines)-1])
	if !strings.HasPrefix(last, "```") && !strings.HasPrefix(last, "~~~") {
		return content
	}

	inner := lines[1 : len(lines)-1]
	return strings.Join(inner, "\n")
}
