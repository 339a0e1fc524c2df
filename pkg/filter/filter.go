// Package filter implements the exclusion pipeline that narrows the page
// list before the navigation tree is built. A pipeline is an ordered list of
// stages; each stage's output feeds the next stage's input, and survivor
// order is always preserved.
package filter

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abrahamneben/silverbullet-treeview/pkg/pages"
)

// StageType identifies one kind of exclusion stage.
type StageType string

const (
	StageRegex    StageType = "regex"
	StageTags     StageType = "tags"
	StageExternal StageType = "external"
)

// StageConfig describes one stage of the exclusion pipeline. Which fields
// apply depends on Type.
type StageConfig struct {
	Type StageType `yaml:"type" mapstructure:"type"`

	// Rule is the regex pattern for "regex" stages, matched against the
	// full page name.
	Rule string `yaml:"rule,omitempty" mapstructure:"rule"`

	// Negate flips the keep/drop polarity of "regex" and "tags" stages.
	Negate bool `yaml:"negate,omitempty" mapstructure:"negate"`

	// Tags is the tag set for "tags" stages.
	Tags []string `yaml:"tags,omitempty" mapstructure:"tags"`

	// Handler names a function registered via Register for "external"
	// stages.
	Handler string `yaml:"handler,omitempty" mapstructure:"handler"`
}

// Func is an externally registered filter function. It receives the pages
// that survived the preceding stages and returns the pages that survive this
// one. It may block on I/O; the pipeline passes the caller's context through.
type Func func(ctx context.Context, pgs []*pages.Page, cfg StageConfig) ([]*pages.Page, error)

var (
	handlersMu sync.RWMutex
	handlers   = map[string]Func{}
)

// Register makes an external filter function available to "external" stages
// under the given name. Registering the same name twice replaces the earlier
// function.
func Register(name string, fn Func) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[name] = fn
}

func lookupHandler(name string) (Func, bool) {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	fn, ok := handlers[name]
	return fn, ok
}

type stage interface {
	apply(ctx context.Context, pgs []*pages.Page) ([]*pages.Page, error)
}

// Pipeline applies an ordered sequence of exclusion stages.
type Pipeline struct {
	stages []stage
}

var legacyExcludeOnce sync.Once

// NewPipeline compiles the given stage configurations into a pipeline.
// legacyExclude, if non-empty, is the deprecated single-regex exclusion
// option; it is applied first as an implicit regex stage and logs a one-time
// deprecation warning.
func NewPipeline(configs []StageConfig, legacyExclude string, log *logrus.Logger) (*Pipeline, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	p := &Pipeline{}

	if legacyExclude != "" {
		legacyExcludeOnce.Do(func() {
			log.Warn("the 'exclude' option is deprecated; use an 'exclusions' entry with type: regex instead")
		})
		st, err := newRegexStage(StageConfig{Type: StageRegex, Rule: legacyExclude})
		if err != nil {
			return nil, fmt.Errorf("compile deprecated exclude pattern: %w", err)
		}
		p.stages = append(p.stages, st)
	}

	for i, cfg := range configs {
		var (
			st  stage
			err error
		)
		switch cfg.Type {
		case StageRegex:
			st, err = newRegexStage(cfg)
		case StageTags:
			st = &tagStage{cfg: cfg}
		case StageExternal:
			st, err = newExternalStage(cfg)
		default:
			err = fmt.Errorf("unknown filter stage type %q", cfg.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("exclusion stage %d: %w", i, err)
		}
		p.stages = append(p.stages, st)
	}

	return p, nil
}

// Apply runs the pages through every stage in order. A nil pipeline keeps
// everything.
func (p *Pipeline) Apply(ctx context.Context, pgs []*pages.Page) ([]*pages.Page, error) {
	if p == nil {
		return pgs, nil
	}
	var err error
	for _, st := range p.stages {
		pgs, err = st.apply(ctx, pgs)
		if err != nil {
			return nil, err
		}
	}
	return pgs, nil
}

// Len returns the number of stages in the pipeline, counting the implicit
// legacy stage if present.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.stages)
}

type regexStage struct {
	re     *regexp.Regexp
	negate bool
}

func newRegexStage(cfg StageConfig) (*regexStage, error) {
	re, err := regexp.Compile(cfg.Rule)
	if err != nil {
		return nil, fmt.Errorf("invalid regex rule %q: %w", cfg.Rule, err)
	}
	return &regexStage{re: re, negate: cfg.Negate}, nil
}

func (s *regexStage) apply(_ context.Context, pgs []*pages.Page) ([]*pages.Page, error) {
	kept := make([]*pages.Page, 0, len(pgs))
	for _, pg := range pgs {
		// Matching pages are dropped unless the stage is negated.
		if s.re.MatchString(pg.Name) == s.negate {
			kept = append(kept, pg)
		}
	}
	return kept, nil
}

type tagStage struct {
	cfg StageConfig
}

func (s *tagStage) apply(_ context.Context, pgs []*pages.Page) ([]*pages.Page, error) {
	kept := make([]*pages.Page, 0, len(pgs))
	for _, pg := range pgs {
		if s.intersects(pg) == s.cfg.Negate {
			kept = append(kept, pg)
		}
	}
	return kept, nil
}

func (s *tagStage) intersects(pg *pages.Page) bool {
	for _, tag := range s.cfg.Tags {
		if pg.HasTag(tag) {
			return true
		}
	}
	return false
}

type externalStage struct {
	cfg StageConfig
	fn  Func
}

func newExternalStage(cfg StageConfig) (*externalStage, error) {
	fn, ok := lookupHandler(cfg.Handler)
	if !ok {
		return nil, fmt.Errorf("no external filter registered under %q", cfg.Handler)
	}
	return &externalStage{cfg: cfg, fn: fn}, nil
}

func (s *externalStage) apply(ctx context.Context, pgs []*pages.Page) ([]*pages.Page, error) {
	out, err := s.fn(ctx, pgs, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("external filter %q: %w", s.cfg.Handler, err)
	}
	return out, nil
}
