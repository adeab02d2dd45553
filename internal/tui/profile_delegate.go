package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// profileDelegate renders one profile as a two-line row: identity on the
// first line, sector/location/experience on the second.
type profileDelegate struct {
	title    lipgloss.Style
	meta     lipgloss.Style
	selTitle lipgloss.Style
	selMeta  lipgloss.Style
}

func newProfileDelegate() profileDelegate {
	return profileDelegate{
		title:    lipgloss.NewStyle(),
		meta:     lipgloss.NewStyle().Foreground(colorMuted),
		selTitle: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
		selMeta:  lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg),
	}
}

func (d profileDelegate) Height() int  { return 2 }
func (d profileDelegate) Spacing() int { return 0 }
func (d profileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d profileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(profileItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}
	contentW := m.Width()
	if contentW < 8 {
		fmt.Fprint(w, "")
		return
	}

	titleStyle, metaStyle := d.title, d.meta
	if index == m.Index() {
		titleStyle, metaStyle = d.selTitle, d.selMeta
	}

	line1 := padToWidth(it.Title(), contentW)
	line2 := padToWidth("  "+it.Description(), contentW)
	fmt.Fprint(w, titleStyle.Render(line1)+"\n"+metaStyle.Render(line2))
}

func padToWidth(s string, width int) string {
	w := xansi.StringWidth(s)
	if w > width {
		if width <= 1 {
			return xansi.Cut(s, 0, width)
		}
		return xansi.Cut(s, 0, width-1) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}
