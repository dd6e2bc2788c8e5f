package meta

import (
	"context"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/openwire-go/openwire-gen/internal/codegen/model"
)

// PropertyPlan is the generator's view of one valid property at the configured version.
type PropertyPlan struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Getter     string `json:"getter" yaml:"getter" toml:"getter"`
	Setter     string `json:"setter" yaml:"setter" toml:"setter"`
	Version    int    `json:"version" yaml:"version" toml:"version"`
	HasVersion bool   `json:"hasVersion" yaml:"hasVersion" toml:"hasVersion"`
	Cached     bool   `json:"cached" yaml:"cached" toml:"cached"`
	Included   bool   `json:"included" yaml:"included" toml:"included"`
}

// ClassPlan bundles every decision about one class.
type ClassPlan struct {
	Name          string         `json:"name" yaml:"name" toml:"name"`
	SimpleName    string         `json:"simpleName" yaml:"simpleName" toml:"simpleName"`
	Superclass    string         `json:"superclass,omitempty" yaml:"superclass,omitempty" toml:"superclass,omitempty"`
	OpCode        string         `json:"opCode" yaml:"opCode" toml:"opCode"`
	Abstract      bool           `json:"abstract" yaml:"abstract" toml:"abstract"`
	Throwable     bool           `json:"throwable" yaml:"throwable" toml:"throwable"`
	MarshallAware bool           `json:"marshallAware" yaml:"marshallAware" toml:"marshallAware"`
	Properties    []PropertyPlan `json:"properties" yaml:"properties" toml:"properties"`
}

// IncludedProperties returns the properties present on the wire, in declared order.
func (p ClassPlan) IncludedProperties() []PropertyPlan {
	return lo.Filter(p.Properties, func(pp PropertyPlan, _ int) bool {
		return pp.Included
	})
}

// CachedProperties returns the included properties that are cached.
func (p ClassPlan) CachedProperties() []PropertyPlan {
	return lo.Filter(p.Properties, func(pp PropertyPlan, _ int) bool {
		return pp.Included && pp.Cached
	})
}

// Analyze runs every class-level and property-level query for c. Invalid
// properties are left out of the plan.
func (e *Engine) Analyze(c *model.Class) ClassPlan {
	plan := ClassPlan{
		OpCode:        e.OpCode(c),
		Abstract:      e.IsAbstract(c),
		Throwable:     e.IsThrowable(c),
		MarshallAware: e.IsMarshallAware(c),
		Properties:    []PropertyPlan{},
	}
	if c == nil {
		return plan
	}
	plan.Name = c.Name
	plan.SimpleName = c.SimpleName()
	plan.Superclass = c.SuperclassName

	plan.Properties = lo.FilterMap(c.Properties, func(p *model.Property, _ int) (PropertyPlan, bool) {
		if !e.IsValidProperty(p) {
			return PropertyPlan{}, false
		}
		ann := p.Getter.Annotation(AnnotationProperty)
		version, hasVersion := ann.Int(ArgVersion)
		return PropertyPlan{
			Name:       p.Name,
			Getter:     p.Getter.Name,
			Setter:     p.Setter.Name,
			Version:    version,
			HasVersion: hasVersion,
			Cached:     e.IsCachedProperty(p),
			Included:   e.IncludeInThisVersion(ann),
		}, true
	})
	return plan
}

// AnalyzeAll analyzes classes concurrently. Plans come back in input order.
func (e *Engine) AnalyzeAll(ctx context.Context, classes []*model.Class) ([]ClassPlan, error) {
	plans := make([]ClassPlan, len(classes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range classes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			plans[i] = e.Analyze(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}
