package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jvx/internal/config"
	"github.com/oakwood-commons/jvx/internal/highlight"
)

// Theme holds the resolved styles for one color scheme.
type Theme struct {
	Name    string
	Palette highlight.Palette

	Text         lipgloss.Style
	Cursor       lipgloss.Style
	LineNumber   lipgloss.Style
	Gutter       lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Prompt       lipgloss.Style
	Match        lipgloss.Style
	CurrentMatch lipgloss.Style

	tokens map[string]lipgloss.Style
}

// ThemeFromConfig builds a Theme from color specs. noColor yields plain
// styles that still mark the cursor and matches with reverse video.
func ThemeFromConfig(name string, cfg config.ThemeConfig, noColor bool) Theme {
	th := Theme{
		Name:   name,
		tokens: make(map[string]lipgloss.Style),
		Palette: highlight.Palette{
			Kinds: map[highlight.Kind]string{
				highlight.Default:     cfg.Text,
				highlight.Key:         cfg.Key,
				highlight.String:      cfg.String,
				highlight.Number:      cfg.Number,
				highlight.Bool:        cfg.Bool,
				highlight.Null:        cfg.Null,
				highlight.Brace:       cfg.Brace,
				highlight.Punct:       cfg.Punct,
				highlight.Index:       cfg.Index,
				highlight.Placeholder: cfg.Placeholder,
			},
			Match:        cfg.Match,
			CurrentMatch: cfg.CurrentMatch,
		},
	}
	if noColor {
		th.Palette = highlight.Palette{Kinds: map[highlight.Kind]string{}}
		th.Cursor = lipgloss.NewStyle().Reverse(true)
		th.Match = lipgloss.NewStyle().Underline(true)
		th.CurrentMatch = lipgloss.NewStyle().Reverse(true)
		th.StatusError = lipgloss.NewStyle().Bold(true)
		return th
	}

	th.Text = fg(lipgloss.NewStyle(), cfg.Text)
	th.Cursor = bg(lipgloss.NewStyle(), cfg.CursorBG)
	th.LineNumber = fg(lipgloss.NewStyle(), cfg.LineNumber)
	th.Gutter = fg(lipgloss.NewStyle(), cfg.Gutter)
	th.Status = bg(fg(lipgloss.NewStyle(), cfg.StatusFG), cfg.StatusBG)
	th.StatusError = bg(fg(lipgloss.NewStyle(), cfg.StatusError), cfg.StatusBG).Bold(true)
	th.Prompt = fg(lipgloss.NewStyle(), cfg.Prompt).Bold(true)
	th.Match = bg(lipgloss.NewStyle(), cfg.Match)
	th.CurrentMatch = bg(lipgloss.NewStyle(), cfg.CurrentMatch).Bold(true)
	if cfg.Match == "" {
		th.Match = th.Match.Underline(true)
	}
	if cfg.CurrentMatch == "" {
		th.CurrentMatch = th.CurrentMatch.Reverse(true)
	}
	return th
}

// ThemeFromSettings resolves the active theme of cfg.
func ThemeFromSettings(cfg config.Config, noColor bool) Theme {
	name, tc := cfg.ActiveTheme()
	return ThemeFromConfig(name, tc, noColor)
}

// TokenStyle returns the style for a token.
func (th Theme) TokenStyle(tok highlight.Token) lipgloss.Style {
	switch tok.Match {
	case highlight.CurrentMatch:
		return th.tokenFG(tok).Inherit(th.CurrentMatch)
	case highlight.Match:
		return th.tokenFG(tok).Inherit(th.Match)
	}
	return th.tokenFG(tok)
}

func (th Theme) tokenFG(tok highlight.Token) lipgloss.Style {
	// Match tokens carry the match color; the kind color is the foreground.
	spec := th.Palette.Kinds[tok.Kind]
	if tok.Match == highlight.NoMatch && tok.Color != "" {
		spec = tok.Color
	}
	if s, ok := th.tokens[spec]; ok {
		return s
	}
	s := fg(lipgloss.NewStyle(), spec)
	if th.tokens != nil {
		th.tokens[spec] = s
	}
	return s
}

func fg(s lipgloss.Style, spec string) lipgloss.Style {
	if c := parseColor(spec); c != nil {
		return s.Foreground(c)
	}
	return s
}

func bg(s lipgloss.Style, spec string) lipgloss.Style {
	if c := parseColor(spec); c != nil {
		return s.Background(c)
	}
	return s
}

func parseColor(spec string) color.Color {
	if spec == "" {
		return nil
	}
	return lipgloss.Color(spec)
}

// DefaultTheme resolves the active theme of the embedded configuration.
func DefaultTheme(noColor bool) Theme {
	cfg, err := config.Default()
	if err != nil {
		return ThemeFromConfig("", config.ThemeConfig{}, noColor)
	}
	return ThemeFromSettings(cfg, noColor)
}
