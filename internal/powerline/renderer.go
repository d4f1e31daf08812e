// Package powerline composes ordered segment fragments into one styled line.
//
// Composition is pure: identical (fragments, theme, profile) input always
// yields the identical string. The color profile is fixed at construction so
// no terminal detection happens during rendering.
package powerline

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/paceline/paceline/internal/domain"
)

// Separator is the powerline glyph drawn between adjacent blocks.
const Separator = ""

// Renderer composes fragments under a fixed theme and color profile.
type Renderer struct {
	theme domain.ThemeSettings
	lip   *lipgloss.Renderer
}

// New builds a renderer with an explicit color profile.
func New(theme domain.ThemeSettings, profile termenv.Profile) *Renderer {
	lip := lipgloss.NewRenderer(os.Stdout)
	lip.SetColorProfile(profile)
	lip.SetHasDarkBackground(theme.Dark)
	return &Renderer{theme: theme, lip: lip}
}

// DetectProfile resolves the theme's color mode into a termenv profile.
// "auto" enables truecolor only when stdout is a terminal.
func DetectProfile(theme domain.ThemeSettings) termenv.Profile {
	switch theme.ColorMode {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.TrueColor
	default:
		fd := os.Stdout.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return termenv.TrueColor
		}
		return termenv.Ascii
	}
}

// Compose renders the fragments in order into a single line. Fragments with
// empty text are dropped; nothing else is reordered or filtered.
func (r *Renderer) Compose(fragments []domain.Fragment) string {
	kept := fragments[:0:0]
	for _, f := range fragments {
		if f.Text != "" {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	if r.theme.Separator != "powerline" {
		return r.composePlain(kept)
	}
	var b strings.Builder
	for i, f := range kept {
		block := r.lip.NewStyle().
			Foreground(lipgloss.Color(f.Foreground)).
			Background(lipgloss.Color(f.Background)).
			Render(" " + f.Text + " ")
		b.WriteString(block)

		sep := r.lip.NewStyle().Foreground(lipgloss.Color(f.Background))
		if i+1 < len(kept) {
			sep = sep.Background(lipgloss.Color(kept[i+1].Background))
		}
		b.WriteString(sep.Render(Separator))
	}
	return b.String()
}

// composePlain joins fragments without powerline blocks. With no colored
// background to sit on, each fragment's accent (its Background color) is
// applied to the text itself; Fragment.Foreground is tuned for contrast
// against the block color and would be near-invisible on a bare terminal.
func (r *Renderer) composePlain(kept []domain.Fragment) string {
	parts := make([]string, 0, len(kept))
	for _, f := range kept {
		parts = append(parts, r.lip.NewStyle().
			Foreground(lipgloss.Color(f.Background)).
			Render(f.Text))
	}
	return strings.Join(parts, " | ")
}
