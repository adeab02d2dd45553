package tui

import (
	"fmt"
	"strings"

	"hrdash/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

// profileItem adapts one ProfileRecord to the bubbles list.
type profileItem struct {
	record  model.ProfileRecord
	editing bool
}

func (i profileItem) FilterValue() string {
	return strings.TrimSpace(i.record.Name + " " + i.record.MobileNo)
}

func (i profileItem) Title() string {
	name := i.record.Name
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	marker := ""
	if i.editing {
		marker = glyphSaving + " "
	}
	return fmt.Sprintf("%s%-24s  %-28s  %-12s", marker, clip(name, 24), clip(i.record.Email, 28), clip(i.record.MobileNo, 12))
}

func (i profileItem) Description() string {
	exp := fmt.Sprintf("%dy", i.record.ExperienceYears())
	return fmt.Sprintf("%-18s %-18s %-14s %s", clip(i.record.Sector, 18), clip(i.record.Subsector, 18), clip(i.record.Location, 14), exp)
}

// clip truncates to n columns, ANSI- and width-aware.
func clip(s string, n int) string {
	if xansi.StringWidth(s) <= n {
		return s
	}
	if n <= 1 {
		return xansi.Cut(s, 0, n)
	}
	return xansi.Cut(s, 0, n-1) + "…"
}
