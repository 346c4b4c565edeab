package blueprint

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  SCRIPT  ":     "script",
		"Main  Py":       "main py",
		"\tREADME.md\n":  "readme.md",
		"requirements":   "requirements",
		"":               "",
		"   \t\n  ":      "",
		"MIXED\t\tCase":  "mixed case",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCountChars_Runes(t *testing.T) {
	if got := CountChars("héllo"); got != 5 {
		t.Errorf("CountChars = %d, want 5", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("one two three"); got != 4 {
		t.Errorf("EstimateTokens = %d, want 4 (ceil 3*1.3)", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(empty) = %d, want 0", got)
	}
}

func TestNormalizeRequirements(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "requests\nflask", "requests\nflask"},
		{"bullets", "- requests\n* flask", "requests\nflask"},
		{"blank lines", "requests\n\n\nflask\n", "requests\nflask"},
		{"placeholder none", "None", ""},
		{"placeholder na", "(n/a)", ""},
		{"fenced", "```\nrequests\n```", "requests"},
		{"version specifiers", "requests>=2.31\nnumpy==1.26.0", "requests>=2.31\nnumpy==1.26.0"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeRequirements(tc.input); got != tc.want {
				t.Errorf("NormalizeRequirements(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
