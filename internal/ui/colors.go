package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#FFFFFF", "#86A2FF", "#04B575", "#FF0000", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	label lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(l, v, s, e, h string) *Palette {
	return &Palette{
		label: NewBold(l),
		value: NewStyle(v),
		ok:    NewBold(s),
		err:   NewBold(e),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Label renders field names in the track panel and prompts.
func Label(s string) string { return styles.label.Render(s) }

// Value renders field values in the track panel.
func Value(s string) string { return styles.value.Render(s) }

// Ok renders success messages.
func Ok(s string) string { return styles.ok.Render(s) }

// Err renders failure messages.
func Err(s string) string { return styles.err.Render(s) }

// Help renders hints and secondary text.
func Help(s string) string { return styles.help.Render(s) }
