package dashboard

import (
	"errors"

	"hrdash/internal/api"
	"hrdash/internal/model"
)

// ItemsPerPage is the fixed page size of the profile list.
const ItemsPerPage = 20

// LoadPhase is the list controller's per-load state.
type LoadPhase int

const (
	PhaseIdle LoadPhase = iota
	PhaseLoading
	PhaseLoaded
	PhaseError
	PhaseSessionExpired
)

// Reload describes one outgoing list request. Seq ties the eventual response
// back to the request that issued it; HandleResult discards anything stale.
type Reload struct {
	Seq     uint64
	Request api.ListRequest
}

// ResultAction tells the caller what HandleResult decided.
type ResultAction int

const (
	ResultStale ResultAction = iota
	ResultApplied
	ResultFailed
	ResultSessionExpired
)

// ListController owns the displayed page of profiles, the staged and active
// filter criteria, and the pagination counters. It is a plain state machine:
// every operation that needs the network returns a Reload for the caller to
// execute, and the response comes back through HandleResult. Nothing here
// blocks or spawns goroutines.
type ListController struct {
	staged model.FilterCriteria
	active model.FilterCriteria

	page     int
	total    int
	filtered int
	records  []model.ProfileRecord
	vocab    model.FilterVocabulary

	phase    LoadPhase
	seq      uint64
	applying bool
	lastErr  string
}

func NewListController() *ListController {
	return &ListController{page: 1, phase: PhaseIdle}
}

// Initialize issues the first unfiltered page-1 load. The filter vocabulary
// is loaded concurrently by the caller and lands via SetVocabulary.
func (c *ListController) Initialize() Reload {
	c.page = 1
	c.staged = model.FilterCriteria{}
	c.active = model.FilterCriteria{}
	return c.beginReload()
}

// SetCriterion stages one filter field without reloading. An empty value
// unsets the field.
func (c *ListController) SetCriterion(field, value string) {
	switch field {
	case "sector":
		c.staged.Sector = value
	case "subsector":
		c.staged.Subsector = value
	case "location":
		c.staged.Location = value
	case "experience":
		c.staged.Experience = value
	case "search":
		c.staged.Search = value
	}
}

func (c *ListController) StagedCriteria() model.FilterCriteria { return c.staged }
func (c *ListController) ActiveCriteria() model.FilterCriteria { return c.active }

// ApplyFilters promotes the staged criteria and reloads from page 1.
// No-op when nothing is staged, and single-flight: a second call while one
// is unresolved is rejected.
func (c *ListController) ApplyFilters() (Reload, bool) {
	if c.staged.IsZero() {
		return Reload{}, false
	}
	if c.applying {
		return Reload{}, false
	}
	c.applying = true
	c.active = c.staged
	c.page = 1
	return c.beginReload(), true
}

// ClearFilters unsets everything and reloads page 1 unconditionally.
func (c *ListController) ClearFilters() Reload {
	c.staged = model.FilterCriteria{}
	c.active = model.FilterCriteria{}
	c.page = 1
	return c.beginReload()
}

// Refresh reissues the current request with unchanged criteria and page.
// Used when the remote data set changed underneath us (upload) and the
// user's filter state must survive.
func (c *ListController) Refresh() Reload {
	return c.beginReload()
}

// Search sets the free-text token and reloads from page 1. Explicit submit
// and the Enter keypress both come through here.
func (c *ListController) Search(token string) Reload {
	c.staged.Search = token
	c.active = c.staged
	c.page = 1
	return c.beginReload()
}

// GoToPage navigates with unchanged criteria. Out-of-range targets are
// rejected with no state change and no request.
func (c *ListController) GoToPage(n int) (Reload, bool) {
	if n < 1 || n > c.TotalPages() {
		return Reload{}, false
	}
	c.page = n
	return c.beginReload(), true
}

func (c *ListController) beginReload() Reload {
	c.seq++
	c.phase = PhaseLoading
	c.lastErr = ""
	return Reload{
		Seq: c.seq,
		Request: api.ListRequest{
			FilterCriteria: c.active,
			Limit:          ItemsPerPage,
			Offset:         (c.page - 1) * ItemsPerPage,
		},
	}
}

// HandleResult applies a reload outcome. Responses carrying a stale sequence
// are dropped wholesale; a failed reload keeps the previous page visible.
func (c *ListController) HandleResult(seq uint64, res api.ListResult, err error) ResultAction {
	if seq != c.seq {
		return ResultStale
	}
	c.applying = false
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		c.phase = PhaseSessionExpired
		return ResultSessionExpired
	case err != nil:
		c.phase = PhaseError
		c.lastErr = err.Error()
		return ResultFailed
	}
	c.records = res.Records
	c.total = res.TotalCount
	c.filtered = res.FilteredCount
	if c.page > c.TotalPages() {
		c.page = c.TotalPages()
	}
	c.phase = PhaseLoaded
	return ResultApplied
}

func (c *ListController) Phase() LoadPhase { return c.phase }
func (c *ListController) LastError() string { return c.lastErr }

func (c *ListController) Page() int          { return c.page }
func (c *ListController) TotalCount() int    { return c.total }
func (c *ListController) FilteredCount() int { return c.filtered }

// TotalPages derives from the filtered count, never below 1.
func (c *ListController) TotalPages() int {
	n := (c.filtered + ItemsPerPage - 1) / ItemsPerPage
	if n < 1 {
		return 1
	}
	return n
}

// Records returns the displayed page. Callers must not retain the slice
// across reloads.
func (c *ListController) Records() []model.ProfileRecord { return c.records }

// RecordByID finds a profile on the displayed page.
func (c *ListController) RecordByID(profileID int) (model.ProfileRecord, bool) {
	for _, r := range c.records {
		if r.ProfileID == profileID {
			return r, true
		}
	}
	return model.ProfileRecord{}, false
}

// ApplyRecord replaces the displayed record with the same id, in place.
// Used for the optimistic edit merge and for the exact-baseline rollback.
func (c *ListController) ApplyRecord(rec model.ProfileRecord) bool {
	for i, r := range c.records {
		if r.ProfileID == rec.ProfileID {
			c.records[i] = rec
			return true
		}
	}
	return false
}

// RemoveLocal drops a record from the displayed page only. The remote
// service keeps it; the next reload brings it back.
func (c *ListController) RemoveLocal(profileID int) bool {
	for i, r := range c.records {
		if r.ProfileID == profileID {
			c.records = append(c.records[:i], c.records[i+1:]...)
			return true
		}
	}
	return false
}

func (c *ListController) SetVocabulary(v model.FilterVocabulary) { c.vocab = v }
func (c *ListController) Vocabulary() model.FilterVocabulary     { return c.vocab }
