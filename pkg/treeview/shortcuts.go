package treeview

import "github.com/abrahamneben/silverbullet-treeview/pkg/pages"

// ShortcutPages names the pages immediately before and after the current
// page in sorted order, clamped at the ends of the list.
type ShortcutPages struct {
	PrevPage string `json:"prevPage" yaml:"prevPage"`
	NextPage string `json:"nextPage" yaml:"nextPage"`
}

// Shortcuts locates the current page in the filtered, sorted page list and
// returns its neighbors. If the current page is absent (e.g. filtered out),
// the search index is -1 and both neighbors clamp off that base index; the
// result degenerates toward the front of the list rather than erroring.
//
// The list must be non-empty; Assemble guards that for callers.
func Shortcuts(pgs []*pages.Page, currentPage string) ShortcutPages {
	idx := -1
	for i, pg := range pgs {
		if pg.Name == currentPage {
			idx = i
			break
		}
	}
	last := len(pgs) - 1
	return ShortcutPages{
		PrevPage: pgs[clamp(idx-1, 0, last)].Name,
		NextPage: pgs[clamp(idx+1, 0, last)].Name,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
