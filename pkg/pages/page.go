package pages

import (
	"context"
	"time"
)

// Page represents a single page in a space. Pages are identified by their
// full hierarchical name, with segments joined by "/" (e.g. "projects/2025/roadmap").
type Page struct {
	Name       string    `json:"name" yaml:"name"`
	Title      string    `json:"title,omitempty" yaml:"title,omitempty"`
	Tags       []string  `json:"tags,omitempty" yaml:"tags,flow,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty" yaml:"modified,omitempty"`

	// Attributes carries any additional frontmatter fields verbatim. The
	// tree builder copies them onto the resulting page node without
	// inspecting them.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// HasTag reports whether the page carries the given tag.
func (p *Page) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Space provides access to the pages of a space and to the identity of the
// page the user is currently on. Both calls may block on I/O; implementations
// must honor context cancellation.
type Space interface {
	// CurrentPage returns the full name of the page the navigation tree
	// should highlight and center its shortcuts on.
	CurrentPage(ctx context.Context) (string, error)

	// ListPages returns every page in the space with its metadata. No
	// particular order is guaranteed.
	ListPages(ctx context.Context) ([]*Page, error)
}
