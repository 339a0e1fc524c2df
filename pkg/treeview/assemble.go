package treeview

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/abrahamneben/silverbullet-treeview/pkg/filter"
	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

// ErrNoPages is returned when the exclusion pipeline leaves no pages to
// build a tree from.
var ErrNoPages = errors.New("no pages left after exclusion filters")

// Result is the bundle returned by one tree assembly.
type Result struct {
	Nodes         []*Tree       `json:"nodes"`
	CurrentPage   string        `json:"currentPage"`
	ShortcutPages ShortcutPages `json:"treeShortcutPages"`
}

// Assembler runs one full tree build: fetch the current page identity, fetch
// the page list, filter, sort, locate shortcuts, and fold the tree.
type Assembler struct {
	space    pages.Space
	pipeline *filter.Pipeline
	collator *collate.Collator
}

// NewAssembler wires an assembler. pipeline may be nil to skip filtering;
// collator may be nil to sort with the root collation.
func NewAssembler(space pages.Space, pipeline *filter.Pipeline, collator *collate.Collator) *Assembler {
	if collator == nil {
		collator = collate.New(language.Und)
	}
	return &Assembler{space: space, pipeline: pipeline, collator: collator}
}

// Assemble builds the navigation tree once. The two space calls and any
// external filter stage are the only blocking points and run strictly in
// sequence. Failures propagate unchanged; no partial result is returned.
func (a *Assembler) Assemble(ctx context.Context) (*Result, error) {
	current, err := a.space.CurrentPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current page: %w", err)
	}

	all, err := a.space.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	filtered, err := a.pipeline.Apply(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("apply exclusion filters: %w", err)
	}
	if len(filtered) == 0 {
		return nil, ErrNoPages
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return a.collator.CompareString(filtered[i].Name, filtered[j].Name) < 0
	})

	shortcuts := Shortcuts(filtered, current)

	nodes, err := Build(filtered, current)
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}

	return &Result{
		Nodes:         nodes,
		CurrentPage:   current,
		ShortcutPages: shortcuts,
	}, nil
}
