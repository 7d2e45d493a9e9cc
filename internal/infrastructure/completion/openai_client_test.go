package completion

import (
	"strings"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "Project planning", want: "Project planning"},
		{name: "surrounding whitespace", raw: "  Project planning \n", want: "Project planning"},
		{name: "double quotes stripped", raw: `"Project planning"`, want: "Project planning"},
		{name: "single quotes stripped", raw: "'Project planning'", want: "Project planning"},
		{name: "quotes then whitespace", raw: `" Project planning "`, want: "Project planning"},
		{name: "empty", raw: "", want: ""},
		{name: "quotes only", raw: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeTitle(tt.raw); got != tt.want {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitleTruncates(t *testing.T) {
	raw := strings.Repeat("a", titleMaxLength+50)
	got := sanitizeTitle(raw)
	if len(got) != titleMaxLength {
		t.Errorf("sanitizeTitle() length = %d, want %d", len(got), titleMaxLength)
	}
}
