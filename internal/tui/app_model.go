package tui

import (
	"hrdash/internal/api"
	"hrdash/internal/config"
	"hrdash/internal/dashboard"
	"hrdash/internal/model"
	"hrdash/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
)

type appModel struct {
	client *api.Client
	store  session.Store
	cfg    *config.Config
	sess   session.Session

	width  int
	height int

	view  view
	pane  pane
	modal modalKind

	listCtl   *dashboard.ListController
	editCtl   *dashboard.EditController
	uploadCtl *dashboard.UploadController

	profilesList list.Model

	// Login form.
	domainInput   textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loggingIn     bool
	loginErr      string

	// Search + filter panel.
	searchInput textinput.Model
	filterFocus int
	// filterSel tracks the cursor inside each field's vocabulary, -1 = unset.
	filterSel map[string]int

	// Edit modal: one input per tracked field.
	editInputs []textinput.Model
	editFocus  int

	// Upload panel.
	pathInput textinput.Model
	uploadSel int
	uploading bool

	// Row expansion (detail block under the selected row). 0 = collapsed.
	expandedID int

	notice    string
	noticeSeq int
}

func newAppModel(client *api.Client, store session.Store, cfg *config.Config) appModel {
	m := appModel{
		client:    client,
		store:     store,
		cfg:       cfg,
		listCtl:   dashboard.NewListController(),
		editCtl:   dashboard.NewEditController(),
		uploadCtl: dashboard.NewUploadController(),
		filterSel: make(map[string]int),
		view:      viewLogin,
	}

	m.domainInput = newInput("domain id")
	m.passwordInput = newInput("password")
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.searchInput = newInput("name or phone")
	m.pathInput = newInput("path/to/resume.pdf")

	m.profilesList = newProfilesList(nil)

	// A persisted session skips the login form; an expired token bounces
	// back here via the first reload.
	if sess, err := store.Load(); err == nil && sess.Valid() {
		m.sess = sess
		m.view = viewDashboard
	}
	m.domainInput.Focus()
	return m
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	return in
}

func newProfilesList(items []list.Item) list.Model {
	l := list.New(items, newProfileDelegate(), 0, 0)
	// Header, counts, and help are rendered by the app chrome; remote
	// filtering replaces the list's local fuzzy filter.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// ESC is "back/cancel" here, never quit.
	l.KeyMap.Quit.SetKeys("ctrl+c")
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

// syncProfiles rebuilds the bubbles list from the controller's page, keeping
// the selection on the same profile when it survives the reload.
func (m *appModel) syncProfiles() {
	curID := 0
	if it, ok := m.profilesList.SelectedItem().(profileItem); ok {
		curID = it.record.ProfileID
	}
	records := m.listCtl.Records()
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = profileItem{record: r, editing: m.editCtl.InFlight(r.ProfileID)}
	}
	m.profilesList.SetItems(items)
	if curID != 0 {
		for i, it := range items {
			if it.(profileItem).record.ProfileID == curID {
				m.profilesList.Select(i)
				break
			}
		}
	}
	if m.expandedID != 0 {
		if _, ok := m.listCtl.RecordByID(m.expandedID); !ok {
			m.expandedID = 0
		}
	}
}

func (m *appModel) selectedRecord() (model.ProfileRecord, bool) {
	it, ok := m.profilesList.SelectedItem().(profileItem)
	if !ok {
		return model.ProfileRecord{}, false
	}
	return m.listCtl.RecordByID(it.record.ProfileID)
}

// beginEdit opens the edit modal for rec with one input per tracked field.
func (m *appModel) beginEdit(rec model.ProfileRecord) {
	m.editCtl.Begin(rec)
	m.editInputs = make([]textinput.Model, len(model.TrackedFields))
	for i, f := range model.TrackedFields {
		in := newInput(f)
		in.SetValue(rec.FieldValue(f))
		m.editInputs[i] = in
	}
	m.editFocus = 0
	m.editInputs[0].Focus()
	m.modal = modalEdit
}

func (m *appModel) closeEdit() {
	m.modal = modalNone
	m.editInputs = nil
	m.editFocus = 0
}

// vocabularyFor returns the selectable values for a filter field.
func (m *appModel) vocabularyFor(field string) []string {
	v := m.listCtl.Vocabulary()
	switch field {
	case "sector":
		return v.Sector
	case "subsector":
		return v.Subsector
	case "location":
		return v.Location
	case "experience":
		return v.Experience
	}
	return nil
}

// cycleFilterValue moves the vocabulary cursor for the focused field by
// delta, wrapping through "unset" at -1, and stages the result.
func (m *appModel) cycleFilterValue(delta int) {
	field := filterFields[m.filterFocus]
	vocab := m.vocabularyFor(field)
	if len(vocab) == 0 {
		return
	}
	sel, ok := m.filterSel[field]
	if !ok {
		sel = -1
	}
	sel += delta
	if sel < -1 {
		sel = len(vocab) - 1
	}
	if sel >= len(vocab) {
		sel = -1
	}
	m.filterSel[field] = sel
	if sel == -1 {
		m.listCtl.SetCriterion(field, "")
	} else {
		m.listCtl.SetCriterion(field, vocab[sel])
	}
}

func (m *appModel) resetFilterSelections() {
	m.filterSel = make(map[string]int)
}
