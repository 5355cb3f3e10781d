package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	accent    lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	panel     lipgloss.Color
	err       lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[string]palette{
	"dark": {
		accent:    lipgloss.Color("#ff8c00"),
		secondary: lipgloss.Color("#8ecae6"),
		text:      lipgloss.Color("#fff4d0"),
		muted:     lipgloss.Color("244"),
		panel:     lipgloss.Color("#2b1400"),
		err:       lipgloss.Color("9"),
		highlight: lipgloss.Color("#ffd166"),
	},
	"light": {
		accent:    lipgloss.Color("#1d4ed8"),
		secondary: lipgloss.Color("#0f766e"),
		text:      lipgloss.Color("#111827"),
		muted:     lipgloss.Color("#6b7280"),
		panel:     lipgloss.Color("#e5e7eb"),
		err:       lipgloss.Color("#b91c1c"),
		highlight: lipgloss.Color("#fde68a"),
	},
	"eye-care": {
		accent:    lipgloss.Color("#5f7d4e"),
		secondary: lipgloss.Color("#8a6d3b"),
		text:      lipgloss.Color("#3b3a30"),
		muted:     lipgloss.Color("#7c7a66"),
		panel:     lipgloss.Color("#e8e4c9"),
		err:       lipgloss.Color("#a0522d"),
		highlight: lipgloss.Color("#d8d0a0"),
	},
}

type styles struct {
	title        lipgloss.Style
	tagline      lipgloss.Style
	section      lipgloss.Style
	helper       lipgloss.Style
	err          lipgloss.Style
	status       lipgloss.Style
	key          lipgloss.Style
	card         lipgloss.Style
	dialog       lipgloss.Style
	sidebar      lipgloss.Style
	sidebarFocus lipgloss.Style
	folder       lipgloss.Style
	folderActive lipgloss.Style
	cursor       lipgloss.Style

	h1     lipgloss.Style
	h2     lipgloss.Style
	h3     lipgloss.Style
	bullet lipgloss.Style
	label  lipgloss.Style
	text   lipgloss.Style
	bold   lipgloss.Style
}

func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["dark"]
	}
	return styles{
		title:        lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		tagline:      lipgloss.NewStyle().Foreground(p.secondary).Italic(true),
		section:      lipgloss.NewStyle().Bold(true).Foreground(p.secondary),
		helper:       lipgloss.NewStyle().Foreground(p.muted),
		err:          lipgloss.NewStyle().Foreground(p.err),
		status:       lipgloss.NewStyle().Foreground(p.text).Background(p.panel).Padding(0, 1),
		key:          lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		card:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 2),
		dialog:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.secondary).Padding(1, 2),
		sidebar:      lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(p.muted).PaddingRight(1),
		sidebarFocus: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(p.accent).PaddingRight(1),
		folder:       lipgloss.NewStyle().Foreground(p.text),
		folderActive: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		cursor:       lipgloss.NewStyle().Background(p.highlight).Foreground(lipgloss.Color("#0f0f0f")),

		h1:     lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.accent),
		h2:     lipgloss.NewStyle().Bold(true).Foreground(p.secondary),
		h3:     lipgloss.NewStyle().Bold(true).Foreground(p.text),
		bullet: lipgloss.NewStyle().Foreground(p.accent),
		label:  lipgloss.NewStyle().Foreground(p.accent),
		text:   lipgloss.NewStyle().Foreground(p.text),
		bold:   lipgloss.NewStyle().Bold(true).Foreground(p.text),
	}
}
