package tui

import (
	"hrdash/internal/api"
	"hrdash/internal/model"
)

type view int

const (
	viewLogin view = iota
	viewDashboard
)

type pane int

const (
	paneTable pane = iota
	paneSearch
	paneFilters
	paneUpload
)

type modalKind int

const (
	modalNone modalKind = iota
	modalEdit
)

// filterFields is the tab order of the filter panel.
var filterFields = []string{"sector", "subsector", "location", "experience"}

type loginResultMsg struct {
	out api.LoginResponse
	err error
}

type listResultMsg struct {
	seq uint64
	res api.ListResult
	err error
}

type vocabResultMsg struct {
	vocab model.FilterVocabulary
	err   error
}

type updateResultMsg struct {
	profileID int
	status    string
	err       error
}

type uploadResultMsg struct {
	count int
	err   error
}

// noticeTimeoutMsg dismisses the transient notification. seq guards against
// an old timer clearing a newer notice.
type noticeTimeoutMsg struct{ seq int }
