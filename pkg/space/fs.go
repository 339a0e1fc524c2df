// Package space provides Space implementations backed by concrete page
// stores.
package space

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/abrahamneben/silverbullet-treeview/pkg/frontmatter"
	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

// DefaultCurrentPage is used when no current page is configured.
const DefaultCurrentPage = "index"

// FS is a space rooted at a directory of markdown files. A page's name is
// its path relative to the root without the ".md" extension; metadata comes
// from YAML frontmatter.
type FS struct {
	root    string
	current string
}

// NewFS creates a filesystem space. current may be empty, in which case
// CurrentPage reports DefaultCurrentPage.
func NewFS(root, current string) *FS {
	if current == "" {
		current = DefaultCurrentPage
	}
	return &FS{root: root, current: current}
}

// CurrentPage returns the configured current page name.
func (s *FS) CurrentPage(_ context.Context) (string, error) {
	return s.current, nil
}

// ListPages walks the root directory and returns one page per markdown file.
// Hidden files and directories are skipped.
func (s *FS) ListPages(ctx context.Context) ([]*pages.Page, error) {
	var pgs []*pages.Page
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		pg, err := s.loadPage(path)
		if err != nil {
			return err
		}
		pgs = append(pgs, pg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pgs, nil
}

// loadPage reads one markdown file and builds its page record.
func (s *FS) loadPage(path string) (*pages.Page, error) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.ToSlash(rel), ".md")

	pg := &pages.Page{Name: name}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	pg.ModifiedAt = info.ModTime()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fm, _, err := frontmatter.Parse(string(content))
	if err != nil {
		return nil, err
	}
	if fm != nil {
		pg.Title = fm.Title
		pg.Tags = fm.Tags
		pg.Attributes = fm.Attributes
	}
	if pg.Title == "" {
		segments := strings.Split(name, "/")
		pg.Title = segments[len(segments)-1]
	}

	return pg, nil
}
