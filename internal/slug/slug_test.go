package slug

import (
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with titles typical of the
// forum and tutorial submissions, including Spanish accents and symbols.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "category code",
			input: "INTRODUCCION A 2 DIABOLOS LOW",
			want:  "introduccion-a-2-diabolos-low",
		},
		{
			name:  "spanish accents",
			input: "Introducción a 2 diábolos",
			want:  "introduccion-a-2-diabolos",
		},
		{
			name:  "enye",
			input: "Año del diábolo",
			want:  "ano-del-diabolo",
		},
		{
			name:  "parentheses",
			input: "Excalibur (Vertax)",
			want:  "excalibur-vertax",
		},
		{
			name:  "inverted punctuation",
			input: "¡Miren este combo que logré hoy!",
			want:  "miren-este-combo-que-logre-hoy",
		},
		{
			name:  "slash and pipe",
			input: "Siteswap 531 / 441 | basics",
			want:  "siteswap-531-441-basics",
		},
		{
			name:  "tabs and newlines",
			input: "Mini\tGenocidio\nrelease",
			want:  "mini-genocidio-release",
		},
		{
			name:  "leading and trailing hyphens",
			input: "--EJC 2025--",
			want:  "ejc-2025",
		},
		{
			name:  "non latin script only",
			input: "扯铃",
			want:  "",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateTruncates(t *testing.T) {
	long := strings.Repeat("diabolo ", 30)
	got := Generate(long)
	if len(got) > maxLen {
		t.Fatalf("slug length %d exceeds %d", len(got), maxLen)
	}
	if strings.HasSuffix(got, "-") || strings.HasPrefix(got, "-") {
		t.Errorf("slug %q should not start or end with a hyphen", got)
	}
	if !strings.HasPrefix(got, "diabolo-diabolo") {
		t.Errorf("unexpected slug %q", got)
	}
}
