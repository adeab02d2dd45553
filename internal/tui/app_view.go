package tui

import (
	"fmt"
	"strings"

	"hrdash/internal/dashboard"
	"hrdash/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.view == viewLogin {
		return m.viewLogin()
	}
	if m.modal == modalEdit {
		return m.renderEditModal()
	}
	return m.viewDashboard()
}

func (m appModel) viewLogin() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("hrdash: sign in"))
	b.WriteString("\n\n")
	b.WriteString(inputLabel("domain id", m.loginFocus == 0) + m.domainInput.View() + "\n")
	b.WriteString(inputLabel("password", m.loginFocus == 1) + m.passwordInput.View() + "\n")
	if m.loggingIn {
		b.WriteString("\n" + noticeStyle.Render("signing in…"))
	}
	if m.loginErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.loginErr))
	}
	b.WriteString("\n\n" + footerStyle.Render("enter: next/submit  tab: switch field  ctrl+c: quit"))

	form := panelStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}

func inputLabel(name string, focused bool) string {
	label := fmt.Sprintf("%-10s ", name)
	if focused {
		return focusStyle.Render(label)
	}
	return label
}

func (m appModel) viewDashboard() string {
	header := m.renderHeader()

	var sections []string
	sections = append(sections, header)

	switch m.pane {
	case paneSearch:
		sections = append(sections, panelStyle.Render("search: "+m.searchInput.View()))
	case paneFilters:
		sections = append(sections, m.renderFilterPanel())
	case paneUpload:
		sections = append(sections, m.renderUploadPanel())
	}

	sections = append(sections, m.profilesList.View())

	if m.expandedID != 0 {
		if rec, ok := m.listCtl.RecordByID(m.expandedID); ok {
			sections = append(sections, m.renderExpanded(rec))
		}
	}

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	sections = append(sections, footerStyle.Render(m.helpLine()))
	return strings.Join(sections, "\n")
}

func (m appModel) renderHeader() string {
	role := m.sess.Role
	if role == "" {
		role = "-"
	}
	left := headerStyle.Render("hrdash") + "  " + footerStyle.Render("role: "+role)

	counts := fmt.Sprintf("page %d/%d", m.listCtl.Page(), m.listCtl.TotalPages())
	if m.listCtl.FilteredCount() != m.listCtl.TotalCount() {
		counts += fmt.Sprintf("  %d of %d records", m.listCtl.FilteredCount(), m.listCtl.TotalCount())
	} else {
		counts += fmt.Sprintf("  %d records", m.listCtl.TotalCount())
	}

	badge := ""
	if n := activeFilterCount(m.listCtl.ActiveCriteria()); n > 0 {
		badge = "  " + badgeStyle.Render(fmt.Sprintf("%d filter(s)", n))
	}

	status := ""
	switch m.listCtl.Phase() {
	case dashboard.PhaseLoading:
		status = "  " + noticeStyle.Render("loading…")
	case dashboard.PhaseError:
		status = "  " + errorStyle.Render("load error (r to retry)")
	}

	return left + "  " + footerStyle.Render(counts) + badge + status
}

func activeFilterCount(c model.FilterCriteria) int {
	n := 0
	for _, v := range []string{c.Sector, c.Subsector, c.Location, c.Experience, c.Search} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func (m appModel) renderFilterPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("filters") + "\n")
	staged := m.listCtl.StagedCriteria()
	values := map[string]string{
		"sector":     staged.Sector,
		"subsector":  staged.Subsector,
		"location":   staged.Location,
		"experience": staged.Experience,
	}
	for i, f := range filterFields {
		v := values[f]
		if v == "" {
			v = "(any)"
		}
		line := fmt.Sprintf("%-12s ◂ %s ▸", f, v)
		if i == m.filterFocus {
			line = focusStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(footerStyle.Render("←/→: value  tab: field  enter: apply  x: clear all  esc: close"))
	return panelStyle.Render(b.String())
}

func (m appModel) renderUploadPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("upload resumes") + " " + footerStyle.Render("(pdf, doc, docx)") + "\n")
	b.WriteString("add: " + m.pathInput.View() + "\n")
	for i, f := range m.uploadCtl.Staged() {
		marker := "  "
		if i == m.uploadSel {
			marker = focusStyle.Render("> ")
		}
		b.WriteString(marker + f.Name + "\n")
	}
	if m.uploading {
		b.WriteString(noticeStyle.Render("uploading…") + "\n")
	}
	b.WriteString(footerStyle.Render("enter: stage file  ctrl+n/p: select  ctrl+x: remove  ctrl+s: upload all  esc: close"))
	return panelStyle.Render(b.String())
}

func (m appModel) renderExpanded(rec model.ProfileRecord) string {
	cur := "-"
	if rec.CurrentSalary != nil && *rec.CurrentSalary != "" {
		cur = *rec.CurrentSalary
	}
	exp := "-"
	if rec.ExpectedSalary != nil && *rec.ExpectedSalary != "" {
		exp = *rec.ExpectedSalary
	}
	lines := []string{
		headerStyle.Render(rec.Name),
		fmt.Sprintf("current salary: %-14s expected: %s", cur, exp),
		fmt.Sprintf("created: %-22s updated: %s", orDash(rec.CreatedAt), orDash(rec.UpdatedAt)),
		fmt.Sprintf("file: %s", orDash(rec.Filename)),
	}
	body := strings.Join(lines, "\n")
	if m.width > 4 {
		body = normalizePane(body, m.width-6, len(lines))
	}
	return panelStyle.Render(body)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func (m appModel) helpLine() string {
	switch m.pane {
	case paneSearch:
		return "enter: search  esc: cancel"
	case paneFilters, paneUpload:
		return "esc: back to list"
	}
	return "/: search  f: filters  u: upload  e: edit  d: remove  o: doc url  enter: details  ←/→: page  r: reload  q: quit"
}

// renderEditModal draws the edit form over its own screen section. Rendered
// in place of the list while the modal is open.
func (m appModel) renderEditModal() string {
	var b strings.Builder
	id, _ := m.editCtl.Editing()
	b.WriteString(headerStyle.Render(fmt.Sprintf("edit profile %d", id)) + "\n\n")
	for i, f := range model.TrackedFields {
		b.WriteString(inputLabel(f, i == m.editFocus))
		b.WriteString(m.editInputs[i].View() + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("enter: save  tab: next field  esc: cancel"))

	form := panelStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}
