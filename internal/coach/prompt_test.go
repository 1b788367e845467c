package coach

import (
	"strings"
	"testing"

	"diabolohub/internal/locale"
)

func TestSystemInstruction(t *testing.T) {
	for _, lang := range locale.All {
		got := SystemInstruction(lang)
		if !strings.Contains(got, "DiaboloMentor") {
			t.Fatal("persona name missing")
		}
		if !strings.Contains(got, "CONVERSACIÓN: "+string(lang)+".") {
			t.Errorf("instruction for %s does not name the language", lang)
		}
	}
}
