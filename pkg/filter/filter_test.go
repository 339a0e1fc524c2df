package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

func mkPages(names ...string) []*pages.Page {
	pgs := make([]*pages.Page, 0, len(names))
	for _, n := range names {
		pgs = append(pgs, &pages.Page{Name: n})
	}
	return pgs
}

func names(pgs []*pages.Page) []string {
	out := make([]string, 0, len(pgs))
	for _, pg := range pgs {
		out = append(out, pg.Name)
	}
	return out
}

func TestRegexStage(t *testing.T) {
	tests := []struct {
		name string
		cfg  StageConfig
		want []string
	}{
		{
			name: "drops matches",
			cfg:  StageConfig{Type: StageRegex, Rule: "^_"},
			want: []string{"public", "docs/guide"},
		},
		{
			name: "negate keeps matches",
			cfg:  StageConfig{Type: StageRegex, Rule: "^docs/", Negate: true},
			want: []string{"docs/guide"},
		},
	}

	input := []string{"public", "_private", "docs/guide", "_scratch/tmp"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline([]StageConfig{tt.cfg}, "", nil)
			require.NoError(t, err)
			got, err := p.Apply(context.Background(), mkPages(input...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestRegexStageInvalidPattern(t *testing.T) {
	_, err := NewPipeline([]StageConfig{{Type: StageRegex, Rule: "("}}, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex rule")
}

func TestTagStage(t *testing.T) {
	pgs := []*pages.Page{
		{Name: "a", Tags: []string{"draft"}},
		{Name: "b", Tags: []string{"done"}},
		{Name: "c"},
	}

	p, err := NewPipeline([]StageConfig{{Type: StageTags, Tags: []string{"draft"}}}, "", nil)
	require.NoError(t, err)
	got, err := p.Apply(context.Background(), pgs)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names(got))

	// Negated: keep only tagged pages.
	p, err = NewPipeline([]StageConfig{{Type: StageTags, Tags: []string{"draft"}, Negate: true}}, "", nil)
	require.NoError(t, err)
	got, err = p.Apply(context.Background(), pgs)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names(got))
}

func TestExternalStage(t *testing.T) {
	Register("drop-first", func(_ context.Context, pgs []*pages.Page, _ StageConfig) ([]*pages.Page, error) {
		if len(pgs) == 0 {
			return pgs, nil
		}
		return pgs[1:], nil
	})

	p, err := NewPipeline([]StageConfig{{Type: StageExternal, Handler: "drop-first"}}, "", nil)
	require.NoError(t, err)
	got, err := p.Apply(context.Background(), mkPages("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names(got))
}

func TestExternalStageUnknownHandler(t *testing.T) {
	_, err := NewPipeline([]StageConfig{{Type: StageExternal, Handler: "nope"}}, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no external filter registered")
}

func TestExternalStageErrorAbortsPipeline(t *testing.T) {
	boom := errors.New("predicate failed")
	Register("boom", func(context.Context, []*pages.Page, StageConfig) ([]*pages.Page, error) {
		return nil, boom
	})

	p, err := NewPipeline([]StageConfig{
		{Type: StageExternal, Handler: "boom"},
		{Type: StageRegex, Rule: "^_"},
	}, "", nil)
	require.NoError(t, err)

	_, err = p.Apply(context.Background(), mkPages("a"))
	require.ErrorIs(t, err, boom)
}

func TestPipelineComposesLeftToRight(t *testing.T) {
	input := []*pages.Page{
		{Name: "a", Tags: []string{"draft"}},
		{Name: "_b"},
		{Name: "c"},
	}

	cfgA := StageConfig{Type: StageRegex, Rule: "^_"}
	cfgB := StageConfig{Type: StageTags, Tags: []string{"draft"}}

	combined, err := NewPipeline([]StageConfig{cfgA, cfgB}, "", nil)
	require.NoError(t, err)
	got, err := combined.Apply(context.Background(), input)
	require.NoError(t, err)

	// Applying [A, B] equals applying A then feeding the result into B.
	pa, err := NewPipeline([]StageConfig{cfgA}, "", nil)
	require.NoError(t, err)
	pb, err := NewPipeline([]StageConfig{cfgB}, "", nil)
	require.NoError(t, err)
	step, err := pa.Apply(context.Background(), input)
	require.NoError(t, err)
	want, err := pb.Apply(context.Background(), step)
	require.NoError(t, err)

	assert.Equal(t, names(want), names(got))
	assert.Equal(t, []string{"c"}, names(got))
}

func TestUnknownStageType(t *testing.T) {
	_, err := NewPipeline([]StageConfig{{Type: "bogus"}}, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter stage type")
}

func TestLegacyExcludeOption(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.WarnLevel)

	p, err := NewPipeline(nil, "^_", log)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())

	got, err := p.Apply(context.Background(), mkPages("_private", "public"))
	require.NoError(t, err)
	assert.Equal(t, []string{"public"}, names(got))

	// The advisory is one-time across the process, so a second pipeline
	// must not log again.
	_, err = NewPipeline(nil, "^_", log)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hook.Entries), 1)
}

func TestNilPipelineKeepsEverything(t *testing.T) {
	var p *Pipeline
	got, err := p.Apply(context.Background(), mkPages("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names(got))
}
