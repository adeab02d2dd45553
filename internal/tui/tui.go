package tui

import (
	"hrdash/internal/api"
	"hrdash/internal/config"
	"hrdash/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(client *api.Client, store session.Store, cfg *config.Config) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(client, store, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
