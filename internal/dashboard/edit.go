package dashboard

import (
	"hrdash/internal/model"
)

// EditController runs at most one inline edit session at a time, with
// optimistic commit and exact-baseline rollback. Like ListController it is
// network-free: Commit returns a plan for the caller to send, and the
// outcome comes back through Resolve.
type EditController struct {
	session  *editSession
	inFlight map[int]model.ProfileRecord // profile id -> baseline of a pending commit
}

type editSession struct {
	id       int
	baseline model.ProfileRecord
	working  model.ProfileRecord
}

func NewEditController() *EditController {
	return &EditController{inFlight: make(map[int]model.ProfileRecord)}
}

// Begin opens an edit session on rec. An already-open session on another
// record is discarded without persisting.
func (c *EditController) Begin(rec model.ProfileRecord) {
	c.session = &editSession{id: rec.ProfileID, baseline: rec, working: rec}
}

// Editing reports the current session target, if any.
func (c *EditController) Editing() (int, bool) {
	if c.session == nil {
		return 0, false
	}
	return c.session.id, true
}

// Working returns the live working copy.
func (c *EditController) Working() (model.ProfileRecord, bool) {
	if c.session == nil {
		return model.ProfileRecord{}, false
	}
	return c.session.working, true
}

// SetField writes one tracked field on the working copy. No validation: the
// remote service owns correctness.
func (c *EditController) SetField(name, value string) bool {
	if c.session == nil {
		return false
	}
	c.session.working.SetFieldValue(name, value)
	return true
}

// Cancel discards the session. No network.
func (c *EditController) Cancel() {
	c.session = nil
}

// CommitPlan is one pending update: the changed fields to send, the
// optimistically merged record to display now, and the id to resolve later.
type CommitPlan struct {
	ProfileID  int
	Changes    map[string]any
	Optimistic model.ProfileRecord
}

// Commit diffs the working copy against the baseline over the tracked
// fields and exits edit mode immediately either way. An empty diff means no
// plan (zero network calls). A record with a commit already in flight
// cannot start another until it resolves.
func (c *EditController) Commit() (CommitPlan, bool) {
	if c.session == nil {
		return CommitPlan{}, false
	}
	s := c.session
	c.session = nil

	if _, pending := c.inFlight[s.id]; pending {
		return CommitPlan{}, false
	}

	changes := make(map[string]any)
	for _, f := range model.TrackedFields {
		if s.working.FieldValue(f) != s.baseline.FieldValue(f) {
			changes[f] = s.working.FieldValue(f)
		}
	}
	if len(changes) == 0 {
		return CommitPlan{}, false
	}

	c.inFlight[s.id] = s.baseline
	return CommitPlan{ProfileID: s.id, Changes: changes, Optimistic: s.working}, true
}

// InFlight reports whether a commit for the record is unresolved.
func (c *EditController) InFlight(profileID int) bool {
	_, ok := c.inFlight[profileID]
	return ok
}

// Resolve settles a pending commit. On failure it returns the exact
// pre-edit baseline for the caller to restore (full replacement, never a
// partial merge). Expired-token failures take this same path; the caller
// additionally tears the session down.
func (c *EditController) Resolve(profileID int, failed bool) (model.ProfileRecord, bool) {
	baseline, ok := c.inFlight[profileID]
	if !ok {
		return model.ProfileRecord{}, false
	}
	delete(c.inFlight, profileID)
	if failed {
		return baseline, true
	}
	return model.ProfileRecord{}, false
}
