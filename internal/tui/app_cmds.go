package tui

import (
	"context"
	"time"

	"hrdash/internal/api"
	"hrdash/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
)

const noticeTimeout = 5 * time.Second

func (m *appModel) loginCmd(domain, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		out, err := client.Login(context.Background(), domain, password)
		return loginResultMsg{out: out, err: err}
	}
}

// reloadCmd executes one Reload issued by the list controller. The sequence
// number travels with the response so stale results can be dropped.
func (m *appModel) reloadCmd(r dashboard.Reload) tea.Cmd {
	client := m.client
	token := m.sess.AccessToken
	return func() tea.Msg {
		res, err := client.ListProfiles(context.Background(), token, r.Request)
		return listResultMsg{seq: r.Seq, res: res, err: err}
	}
}

func (m *appModel) vocabCmd() tea.Cmd {
	client := m.client
	token := m.sess.AccessToken
	return func() tea.Msg {
		vocab, err := client.FilterValues(context.Background(), token)
		return vocabResultMsg{vocab: vocab, err: err}
	}
}

func (m *appModel) updateCmd(plan dashboard.CommitPlan) tea.Cmd {
	client := m.client
	token := m.sess.AccessToken
	return func() tea.Msg {
		out, err := client.UpdateProfile(context.Background(), token, plan.ProfileID, plan.Changes)
		return updateResultMsg{profileID: plan.ProfileID, status: out.Body.Status, err: err}
	}
}

func (m *appModel) uploadCmd(files []api.File) tea.Cmd {
	client := m.client
	token := m.sess.AccessToken
	return func() tea.Msg {
		n, err := client.UploadAndParse(context.Background(), token, files)
		return uploadResultMsg{count: n, err: err}
	}
}

// showNotice replaces the transient message and restarts its dismiss timer.
func (m *appModel) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg { return noticeTimeoutMsg{seq: seq} })
}
