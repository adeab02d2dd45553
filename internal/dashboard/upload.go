package dashboard

import (
	"fmt"
	"path/filepath"
	"strings"

	"hrdash/internal/api"
)

// UploadController holds the local staging list of documents selected for
// upload. Staging is additive across selections; the commit pipeline itself
// lives in the API client.
type UploadController struct {
	staged []api.File
}

func NewUploadController() *UploadController {
	return &UploadController{}
}

func acceptableUploadType(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".doc", ".docx":
		return true
	}
	return false
}

// Add stages the acceptable files (pdf, doc, docx) and reports every
// rejected name in one combined message. Duplicate paths are staged once.
func (c *UploadController) Add(files []api.File) (accepted int, rejection string) {
	var rejected []string
	for _, f := range files {
		if !acceptableUploadType(f.Name) {
			rejected = append(rejected, f.Name)
			continue
		}
		if c.hasPath(f.Path) {
			continue
		}
		c.staged = append(c.staged, f)
		accepted++
	}
	if len(rejected) > 0 {
		rejection = fmt.Sprintf("unsupported file type (pdf, doc, docx only): %s", strings.Join(rejected, ", "))
	}
	return accepted, rejection
}

func (c *UploadController) hasPath(path string) bool {
	for _, f := range c.staged {
		if f.Path == path {
			return true
		}
	}
	return false
}

// Remove drops one staged entry. Out-of-range indexes are ignored.
func (c *UploadController) Remove(i int) {
	if i < 0 || i >= len(c.staged) {
		return
	}
	c.staged = append(c.staged[:i], c.staged[i+1:]...)
}

// Staged returns a copy of the staging list for the commit pipeline.
func (c *UploadController) Staged() []api.File {
	out := make([]api.File, len(c.staged))
	copy(out, c.staged)
	return out
}

func (c *UploadController) Len() int { return len(c.staged) }

// Clear empties the staging list. Called only after a successful commit;
// failures keep staged files in place.
func (c *UploadController) Clear() {
	c.staged = nil
}
