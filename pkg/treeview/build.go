package treeview

import (
	"fmt"
	"strings"

	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

// Build folds the given pages into a navigation tree and returns the root's
// ordered child list. The input must already be filtered and sorted; sibling
// display order follows input order.
//
// Page names must be non-empty and free of empty segments (no leading,
// trailing, or doubled delimiters), and must be unique. Violations return an
// error rather than a silently mis-shaped tree.
func Build(pgs []*pages.Page, currentPage string) ([]*Tree, error) {
	root := &Tree{}
	seen := make(map[string]struct{}, len(pgs))
	for _, pg := range pgs {
		if _, dup := seen[pg.Name]; dup {
			return nil, fmt.Errorf("duplicate page name %q", pg.Name)
		}
		seen[pg.Name] = struct{}{}
		if err := insertPage(root, pg, currentPage); err != nil {
			return nil, err
		}
	}
	return root.Children, nil
}

func splitName(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("empty page name")
	}
	segments := strings.Split(name, Delimiter)
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("malformed page name %q: empty path segment", name)
		}
	}
	return segments, nil
}

// insertPage walks the page's segments from the root, reusing an existing
// sibling when one carries the same title and creating a placeholder
// otherwise. Reaching the final segment either promotes an existing folder
// in place or creates the page node outright.
func insertPage(root *Tree, pg *pages.Page, currentPage string) error {
	segments, err := splitName(pg.Name)
	if err != nil {
		return err
	}

	parent := root
	for i, seg := range segments {
		last := i == len(segments)-1
		child := parent.childByTitle(seg)
		if child == nil {
			name := strings.Join(segments[:i+1], Delimiter)
			child = &Tree{Node: Node{
				Kind:          KindFolder,
				Name:          name,
				Title:         seg,
				IsCurrentPage: name == currentPage,
			}}
			if last {
				child.promote(pg, currentPage)
			}
			parent.Children = append(parent.Children, child)
		} else if last && child.Kind == KindFolder {
			child.promote(pg, currentPage)
		}
		// A final segment landing on an existing page node is left
		// untouched; duplicate names are rejected in Build, so this
		// only happens for callers bypassing the uniqueness check.
		parent = child
	}
	return nil
}
