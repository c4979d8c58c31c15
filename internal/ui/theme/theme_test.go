package theme

import (
	"testing"

	"github.com/abhisek/cermat/internal/profile"
)

func TestUseSwitchesPalette(t *testing.T) {
	t.Cleanup(func() { Use(profile.ThemeDark) })

	for _, th := range profile.AllThemes() {
		Use(th)
		if Primary != palettes[th].Primary {
			t.Errorf("%s: primary not applied", th)
		}
	}
}

func TestUseUnknownFallsBackToDark(t *testing.T) {
	t.Cleanup(func() { Use(profile.ThemeDark) })

	Use("neon")
	if Text != palettes[profile.ThemeDark].Text {
		t.Error("expected dark palette for unknown theme")
	}
}
