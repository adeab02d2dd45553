package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hrdash/internal/api"
	"hrdash/internal/dashboard"
	"hrdash/internal/model"
	"hrdash/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	if m.view == viewDashboard {
		return tea.Batch(m.reloadCmd(m.listCtl.Initialize()), m.vocabCmd())
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case listResultMsg:
		return m.handleListResult(msg)

	case vocabResultMsg:
		if errors.Is(msg.err, api.ErrSessionExpired) {
			return m.expireToLogin()
		}
		if msg.err == nil {
			m.listCtl.SetVocabulary(msg.vocab)
		}
		return m, nil

	case updateResultMsg:
		return m.handleUpdateResult(msg)

	case uploadResultMsg:
		return m.handleUploadResult(msg)

	case noticeTimeoutMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewLogin {
			return m.updateLogin(msg)
		}
		if m.modal == modalEdit {
			return m.updateEditModal(msg)
		}
		return m.updateDashboard(msg)
	}
	return m, nil
}

func (m *appModel) resize() {
	h := m.height - 8
	if h < 8 {
		h = 8
	}
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	m.profilesList.SetSize(w, h)
}

// expireToLogin tears the session down on any expired-token signal and
// returns to the login form with an explicit message, never a generic error.
func (m appModel) expireToLogin() (tea.Model, tea.Cmd) {
	_ = m.store.Clear()
	m.sess = session.Session{}
	m.view = viewLogin
	m.pane = paneTable
	m.modal = modalNone
	m.loggingIn = false
	m.loginErr = "session expired; log in again"
	m.passwordInput.SetValue("")
	m.domainInput.Focus()
	m.passwordInput.Blur()
	m.loginFocus = 0

	m.listCtl = dashboard.NewListController()
	m.editCtl = dashboard.NewEditController()
	m.syncProfiles()
	return m, nil
}

func (m appModel) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		m.loginErr = msg.err.Error()
		return m, nil
	}
	if msg.out.Access == "" {
		if msg.out.Message != "" {
			m.loginErr = msg.out.Message
		} else {
			m.loginErr = "login rejected"
		}
		return m, nil
	}

	m.sess = session.Session{AccessToken: msg.out.Access, Role: msg.out.Role.Role}
	if err := m.store.Save(m.sess); err != nil {
		m.loginErr = err.Error()
		return m, nil
	}
	m.loginErr = ""
	m.view = viewDashboard
	m.pane = paneTable
	return m, tea.Batch(m.reloadCmd(m.listCtl.Initialize()), m.vocabCmd())
}

func (m appModel) handleListResult(msg listResultMsg) (tea.Model, tea.Cmd) {
	switch m.listCtl.HandleResult(msg.seq, msg.res, msg.err) {
	case dashboard.ResultStale:
		return m, nil
	case dashboard.ResultSessionExpired:
		return m.expireToLogin()
	case dashboard.ResultFailed:
		noticeCmd := m.showNotice("load failed: " + m.listCtl.LastError())
		return m, noticeCmd
	}
	m.syncProfiles()
	return m, nil
}

func (m appModel) handleUpdateResult(msg updateResultMsg) (tea.Model, tea.Cmd) {
	baseline, revert := m.editCtl.Resolve(msg.profileID, msg.err != nil)
	if revert {
		m.listCtl.ApplyRecord(baseline)
	}
	m.syncProfiles()

	if errors.Is(msg.err, api.ErrSessionExpired) {
		return m.expireToLogin()
	}
	if msg.err != nil {
		noticeCmd := m.showNotice("update failed: " + msg.err.Error())
		return m, noticeCmd
	}
	status := msg.status
	if status == "" {
		status = "updated"
	}
	noticeCmd := m.showNotice(status)
	return m, noticeCmd
}

func (m appModel) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	m.uploading = false
	if errors.Is(msg.err, api.ErrSessionExpired) {
		return m.expireToLogin()
	}
	if msg.err != nil {
		// Staged files stay in place for a retry.
		noticeCmd := m.showNotice("upload failed: " + msg.err.Error())
		return m, noticeCmd
	}
	m.uploadCtl.Clear()
	m.uploadSel = 0
	m.pane = paneTable
	// New records and possibly new filter values exist now; the user's
	// filter state stays put.
	noticeCmd := m.showNotice(fmt.Sprintf("uploaded %d file(s)", msg.count))
	return m, tea.Batch(
		noticeCmd,
		m.reloadCmd(m.listCtl.Refresh()),
		m.vocabCmd(),
	)
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.domainInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.passwordInput.Focus()
			m.domainInput.Blur()
		}
		return m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.passwordInput.Focus()
			m.domainInput.Blur()
			return m, nil
		}
		domain := strings.TrimSpace(m.domainInput.Value())
		password := m.passwordInput.Value()
		if domain == "" || password == "" {
			m.loginErr = "domain id and password are required"
			return m, nil
		}
		if m.loggingIn {
			return m, nil
		}
		m.loggingIn = true
		m.loginErr = ""
		return m, m.loginCmd(domain, password)
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.domainInput, cmd = m.domainInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateEditModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editCtl.Cancel()
		m.closeEdit()
		return m, nil
	case "tab", "down":
		return m.moveEditFocus(1), nil
	case "shift+tab", "up":
		return m.moveEditFocus(-1), nil
	case "enter":
		for i, f := range model.TrackedFields {
			m.editCtl.SetField(f, m.editInputs[i].Value())
		}
		plan, ok := m.editCtl.Commit()
		m.closeEdit()
		if !ok {
			noticeCmd := m.showNotice("no changes")
			return m, noticeCmd
		}
		// Optimistic merge; a failure later restores the baseline.
		m.listCtl.ApplyRecord(plan.Optimistic)
		m.syncProfiles()
		return m, m.updateCmd(plan)
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return m, cmd
}

func (m appModel) moveEditFocus(delta int) appModel {
	m.editInputs[m.editFocus].Blur()
	m.editFocus = (m.editFocus + delta + len(m.editInputs)) % len(m.editInputs)
	m.editInputs[m.editFocus].Focus()
	return m
}

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.pane {
	case paneSearch:
		return m.updateSearchPane(msg)
	case paneFilters:
		return m.updateFilterPane(msg)
	case paneUpload:
		return m.updateUploadPane(msg)
	}
	return m.updateTablePane(msg)
}

func (m appModel) updateTablePane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.pane = paneSearch
		m.searchInput.Focus()
		return m, nil
	case "f":
		m.pane = paneFilters
		return m, nil
	case "u":
		m.pane = paneUpload
		m.pathInput.Focus()
		return m, nil
	case "e":
		if rec, ok := m.selectedRecord(); ok {
			if m.editCtl.InFlight(rec.ProfileID) {
				noticeCmd := m.showNotice("save in progress for this profile")
				return m, noticeCmd
			}
			m.beginEdit(rec)
		}
		return m, nil
	case "d":
		if rec, ok := m.selectedRecord(); ok {
			// Local-only removal; the service keeps the record.
			if m.expandedID == rec.ProfileID {
				m.expandedID = 0
			}
			m.listCtl.RemoveLocal(rec.ProfileID)
			m.syncProfiles()
			noticeCmd := m.showNotice("removed from view (still on the server)")
			return m, noticeCmd
		}
		return m, nil
	case "enter":
		if rec, ok := m.selectedRecord(); ok {
			if m.expandedID == rec.ProfileID {
				m.expandedID = 0
			} else {
				m.expandedID = rec.ProfileID
			}
		}
		return m, nil
	case "o":
		if rec, ok := m.selectedRecord(); ok {
			if rec.Cloudfront == "" {
				noticeCmd := m.showNotice("no document URL for this profile")
				return m, noticeCmd
			}
			noticeCmd := m.showNotice("document: " + rec.Cloudfront)
			return m, noticeCmd
		}
		return m, nil
	case "n", "right":
		if r, ok := m.listCtl.GoToPage(m.listCtl.Page() + 1); ok {
			return m, m.reloadCmd(r)
		}
		return m, nil
	case "p", "left":
		if r, ok := m.listCtl.GoToPage(m.listCtl.Page() - 1); ok {
			return m, m.reloadCmd(r)
		}
		return m, nil
	case "r":
		if r, ok := m.listCtl.GoToPage(m.listCtl.Page()); ok {
			return m, m.reloadCmd(r)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.profilesList, cmd = m.profilesList.Update(msg)
	return m, cmd
}

func (m appModel) updateSearchPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pane = paneTable
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.pane = paneTable
		m.searchInput.Blur()
		return m, m.reloadCmd(m.listCtl.Search(strings.TrimSpace(m.searchInput.Value())))
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m appModel) updateFilterPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pane = paneTable
		return m, nil
	case "tab", "down", "j":
		m.filterFocus = (m.filterFocus + 1) % len(filterFields)
		return m, nil
	case "shift+tab", "up", "k":
		m.filterFocus = (m.filterFocus + len(filterFields) - 1) % len(filterFields)
		return m, nil
	case "right", "l":
		m.cycleFilterValue(1)
		return m, nil
	case "left", "h":
		m.cycleFilterValue(-1)
		return m, nil
	case "enter":
		if r, ok := m.listCtl.ApplyFilters(); ok {
			m.pane = paneTable
			return m, m.reloadCmd(r)
		}
		noticeCmd := m.showNotice("no filters set")
		return m, noticeCmd
	case "x":
		m.resetFilterSelections()
		m.searchInput.SetValue("")
		m.pane = paneTable
		return m, m.reloadCmd(m.listCtl.ClearFilters())
	}
	return m, nil
}

func (m appModel) updateUploadPane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pane = paneTable
		m.pathInput.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		if _, err := os.Stat(path); err != nil {
			noticeCmd := m.showNotice("cannot read " + path)
			return m, noticeCmd
		}
		_, rejection := m.uploadCtl.Add([]api.File{{Name: filepath.Base(path), Path: path}})
		m.pathInput.SetValue("")
		if rejection != "" {
			noticeCmd := m.showNotice(rejection)
			return m, noticeCmd
		}
		return m, nil
	case "ctrl+x":
		m.uploadCtl.Remove(m.uploadSel)
		if m.uploadSel >= m.uploadCtl.Len() && m.uploadSel > 0 {
			m.uploadSel--
		}
		return m, nil
	case "ctrl+p":
		if m.uploadSel > 0 {
			m.uploadSel--
		}
		return m, nil
	case "ctrl+n":
		if m.uploadSel < m.uploadCtl.Len()-1 {
			m.uploadSel++
		}
		return m, nil
	case "ctrl+s":
		if m.uploading {
			return m, nil
		}
		files := m.uploadCtl.Staged()
		if len(files) == 0 {
			noticeCmd := m.showNotice("nothing staged")
			return m, noticeCmd
		}
		m.uploading = true
		return m, m.uploadCmd(files)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}
