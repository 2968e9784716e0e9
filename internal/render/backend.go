// Package render turns a classification tree into a cluster map image and
// its HTML image map.
//
// The driver talks to a Backend only; Standard is the backend shipped with
// the tool.
package render

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/flarebyte/clustermap/internal/classification"
	"github.com/flarebyte/clustermap/internal/cluster"
	"github.com/flarebyte/clustermap/internal/layout"
	"github.com/flarebyte/clustermap/internal/logging"
)

// Backend is the capability set the CLI driver needs.
type Backend interface {
	ParseTree(ctx context.Context, path string) (*classification.Tree, error)
	BuildModel(ctx context.Context, tree *classification.Tree) (*cluster.Model, error)
	Render(ctx context.Context, model *cluster.Model) (*layout.Graph, error)
	WritePNG(w io.Writer, g *layout.Graph) error
	ImageMap(g *layout.Graph, opts MapOptions) (string, error)
}

// Options configures Standard.
type Options struct {
	Layout layout.Options
	// Linker resolves image map links; DefaultLinker when nil.
	Linker Linker
	Logger *slog.Logger
}

// Standard renders with the in-repo layout and an anti-aliased rasteriser.
type Standard struct {
	layout layout.Options
	linker Linker
	log    *slog.Logger
}

var _ Backend = (*Standard)(nil)

// New returns a Standard backend.
func New(opts Options) *Standard {
	s := &Standard{layout: opts.Layout, linker: opts.Linker, log: opts.Logger}
	if s.linker == nil {
		s.linker = DefaultLinker{}
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	return s
}

// ParseTree reads the classification document at path.
func (s *Standard) ParseTree(ctx context.Context, path string) (*classification.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := classification.ParseFile(path)
	if err != nil {
		return nil, err
	}
	s.log.Debug("classification tree parsed",
		"path", path, "objects", len(tree.Objects), "topLevel", len(tree.TopLevel()))
	return tree, nil
}

// BuildModel groups the tree's top-level classifications into clusters.
func (s *Standard) BuildModel(ctx context.Context, tree *classification.Tree) (*cluster.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := cluster.Build(tree)
	if err != nil {
		return nil, err
	}
	s.log.Debug("cluster model built", "classes", len(m.Classes), "clusters", len(m.Clusters), "objects", m.ObjectCount())
	return m, nil
}

// Render lays out the model in memory.
func (s *Standard) Render(ctx context.Context, model *cluster.Model) (*layout.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("nil cluster model")
	}
	g, err := layout.Compute(model, s.layout)
	if err != nil {
		return nil, err
	}
	s.log.Debug("cluster graph laid out", "width", g.Width, "height", g.Height, "edges", len(g.Edges))
	return g, nil
}
