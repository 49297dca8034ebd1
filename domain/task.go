// tasks/domain/task.go
package domain

import (
	"strings"

	"github.com/google/uuid"
)

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// Patch is a partial update. A nil field leaves the stored value untouched.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

// Apply shallow-merges p onto t and returns the result. The id never changes.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// PatchFrom builds a patch that overwrites every field of the stored task.
func PatchFrom(t Task) Patch {
	return Patch{
		Title:       &t.Title,
		Date:        &t.Date,
		Description: &t.Description,
		Priority:    &t.Priority,
	}
}

// Slug lower-cases title and joins its runs of ASCII letters and digits with
// dashes, so the result is safe in a URL path segment.
func Slug(title string) string {
	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// NewID returns an id of the form "<slug>-<uuid>", or a bare uuid when the
// title has no words.
func NewID(title string) string {
	id := uuid.NewString()
	if s := Slug(title); s != "" {
		return s + "-" + id
	}
	return id
}
