package dashboard

import (
	"strings"
	"testing"

	"hrdash/internal/api"
)

func TestAddFiltersTypesAndCombinesRejections(t *testing.T) {
	t.Parallel()
	c := NewUploadController()
	accepted, rejection := c.Add([]api.File{
		{Name: "cv.pdf", Path: "/tmp/cv.pdf"},
		{Name: "photo.png", Path: "/tmp/photo.png"},
		{Name: "old.doc", Path: "/tmp/old.doc"},
		{Name: "notes.txt", Path: "/tmp/notes.txt"},
	})
	if accepted != 2 || c.Len() != 2 {
		t.Fatalf("expected 2 staged; got accepted=%d len=%d", accepted, c.Len())
	}
	if rejection == "" {
		t.Fatal("expected a combined rejection message")
	}
	if !strings.Contains(rejection, "photo.png") || !strings.Contains(rejection, "notes.txt") {
		t.Errorf("expected both rejected names in one message; got %q", rejection)
	}
}

func TestAddIsAdditiveAcrossSelections(t *testing.T) {
	t.Parallel()
	c := NewUploadController()
	c.Add([]api.File{{Name: "a.pdf", Path: "/tmp/a.pdf"}})
	c.Add([]api.File{{Name: "b.docx", Path: "/tmp/b.docx"}})
	if c.Len() != 2 {
		t.Fatalf("expected staging to accumulate; got %d", c.Len())
	}
	// Re-selecting the same path stages it once.
	c.Add([]api.File{{Name: "a.pdf", Path: "/tmp/a.pdf"}})
	if c.Len() != 2 {
		t.Errorf("expected duplicate path ignored; got %d", c.Len())
	}
}

func TestRemoveStagedEntry(t *testing.T) {
	t.Parallel()
	c := NewUploadController()
	c.Add([]api.File{
		{Name: "a.pdf", Path: "/tmp/a.pdf"},
		{Name: "b.pdf", Path: "/tmp/b.pdf"},
	})
	c.Remove(0)
	staged := c.Staged()
	if len(staged) != 1 || staged[0].Name != "b.pdf" {
		t.Fatalf("expected only b.pdf left; got %+v", staged)
	}
	c.Remove(5) // out of range, ignored
	if c.Len() != 1 {
		t.Errorf("expected out-of-range remove ignored; got %d", c.Len())
	}
}

func TestStagedReturnsACopy(t *testing.T) {
	t.Parallel()
	c := NewUploadController()
	c.Add([]api.File{{Name: "a.pdf", Path: "/tmp/a.pdf"}})
	s := c.Staged()
	s[0].Name = "mutated"
	if c.Staged()[0].Name != "a.pdf" {
		t.Error("expected internal staging unaffected by caller mutation")
	}
}
