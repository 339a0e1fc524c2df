package index

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndexRoundtrip(t *testing.T) {
	idx := openTestIndex(t)

	pg := &pages.Page{
		Name:       "projects/roadmap",
		Title:      "Roadmap",
		Tags:       []string{"planning"},
		Attributes: map[string]any{"owner": "alice"},
		ModifiedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, idx.IndexPage(pg))

	pgs, err := idx.ListPages(context.Background())
	require.NoError(t, err)
	require.Len(t, pgs, 1)

	got := pgs[0]
	assert.Equal(t, pg.Name, got.Name)
	assert.Equal(t, pg.Title, got.Title)
	assert.Equal(t, pg.Tags, got.Tags)
	assert.Equal(t, pg.Attributes, got.Attributes)
}

func TestIndexPageReplaces(t *testing.T) {
	idx := openTestIndex(t)

	require.NoError(t, idx.IndexPage(&pages.Page{Name: "a", Title: "old"}))
	require.NoError(t, idx.IndexPage(&pages.Page{Name: "a", Title: "new"}))

	pgs, err := idx.ListPages(context.Background())
	require.NoError(t, err)
	require.Len(t, pgs, 1)
	assert.Equal(t, "new", pgs[0].Title)
}

func TestRemovePage(t *testing.T) {
	idx := openTestIndex(t)

	require.NoError(t, idx.IndexPage(&pages.Page{Name: "a"}))
	require.NoError(t, idx.RemovePage("a"))

	pgs, err := idx.ListPages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pgs)
}

func TestCurrentPageState(t *testing.T) {
	idx := openTestIndex(t)

	current, err := idx.CurrentPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "index", current)

	require.NoError(t, idx.SetCurrentPage("projects/roadmap"))
	require.NoError(t, idx.SetCurrentPage("notes/today"))

	current, err = idx.CurrentPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "notes/today", current)
}

type staticSpace struct {
	pgs []*pages.Page
}

func (s *staticSpace) CurrentPage(context.Context) (string, error) { return "index", nil }
func (s *staticSpace) ListPages(context.Context) ([]*pages.Page, error) {
	return s.pgs, nil
}

func TestReindex(t *testing.T) {
	idx := openTestIndex(t)

	require.NoError(t, idx.IndexPage(&pages.Page{Name: "stale"}))

	src := &staticSpace{pgs: []*pages.Page{
		{Name: "a", Tags: []string{}},
		{Name: "a/b", Tags: []string{}},
	}}
	n, err := idx.Reindex(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pgs, err := idx.ListPages(context.Background())
	require.NoError(t, err)

	var got []string
	for _, pg := range pgs {
		got = append(got, pg.Name)
	}
	sort.Strings(got)
	assert.Equal(t, []string{"a", "a/b"}, got)
}
