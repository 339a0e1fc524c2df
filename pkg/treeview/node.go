// Package treeview builds a navigation tree from the flat, hierarchically
// named page list of a space, and computes the previous/next shortcut pages
// relative to the current page.
package treeview

import "github.com/abrahamneben/silverbullet-treeview/pkg/pages"

// Delimiter separates the segments of a page name.
const Delimiter = "/"

// NodeKind discriminates the two node variants.
type NodeKind string

const (
	// KindPage marks a node backed by a real page.
	KindPage NodeKind = "page"

	// KindFolder marks a synthetic node for an intermediate path segment
	// with no backing page.
	KindFolder NodeKind = "folder"
)

// Node is a single entry in the navigation tree: either a page node carrying
// the backing page's metadata, or a folder placeholder for a path prefix.
type Node struct {
	Kind          NodeKind `json:"type"`
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	IsCurrentPage bool     `json:"isCurrentPage"`

	// Page is the backing page for page nodes, nil for folder nodes. The
	// attribute set is carried verbatim from the space.
	Page *pages.Page `json:"page,omitempty"`
}

// Tree is a node together with its ordered children. Children keep their
// first-insertion order; because pages are folded in sorted order, siblings
// come out sorted as well.
type Tree struct {
	Node
	Children []*Tree `json:"children,omitempty"`
}

// childByTitle returns the child whose title equals the given segment, or nil.
func (t *Tree) childByTitle(title string) *Tree {
	for _, child := range t.Children {
		if child.Title == title {
			return child
		}
	}
	return nil
}

// promote turns a folder placeholder into a page node in place. The node
// keeps its position in the parent's child list and its existing children.
func (t *Tree) promote(pg *pages.Page, currentPage string) {
	t.Kind = KindPage
	t.Name = pg.Name
	t.IsCurrentPage = pg.Name == currentPage
	t.Page = pg
}
