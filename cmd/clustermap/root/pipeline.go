package root

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/flarebyte/clustermap/internal/config"
	"github.com/flarebyte/clustermap/internal/layout"
	"github.com/flarebyte/clustermap/internal/linkscript"
	"github.com/flarebyte/clustermap/internal/logging"
	"github.com/flarebyte/clustermap/internal/provenance"
	"github.com/flarebyte/clustermap/internal/render"
	"github.com/flarebyte/clustermap/internal/report"
)

type runOptions struct {
	configPath   string
	reportPath   string
	reportFormat string
	provenance   bool
	logLevel     string
}

// settings is everything resolved from flags and config before the first
// step runs, so bad flags never leave files behind.
type settings struct {
	cfg          config.Config
	reportFormat report.Format
	log          *slog.Logger
}

func resolveSettings(opts runOptions, stderr io.Writer) (settings, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return settings{}, err
	}
	s := settings{cfg: config.Default(), log: logging.New(stderr, level)}
	if opts.configPath != "" {
		if s.cfg, err = config.Load(opts.configPath); err != nil {
			return settings{}, fmt.Errorf("config: %w", err)
		}
	}
	if s.reportFormat, err = report.ParseFormat(opts.reportFormat); err != nil {
		return settings{}, err
	}
	return s, nil
}

func runPipeline(ctx context.Context, inPath, pngPath string, opts runOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := resolveSettings(opts, stderr)
	if err != nil {
		return err
	}

	var linker render.Linker
	if s.cfg.Links.Inline != "" {
		script, err := linkscript.Compile(s.cfg.Links.Inline, linkscript.Options{Timeout: s.cfg.LinkTimeout()})
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		defer script.Close()
		linker = script
	}

	lo := layout.DefaultOptions()
	lo.Width, lo.Height = s.cfg.Render.Width, s.cfg.Render.Height
	backend := render.New(render.Options{Layout: lo, Linker: linker, Logger: s.log})
	progress := newProgressReporter(stderr)

	progress.begin("Parsing classification tree")
	tree, err := backend.ParseTree(ctx, inPath)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	progress.begin("Building cluster model")
	model, err := backend.BuildModel(ctx, tree)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	progress.begin("Rendering cluster graph")
	graph, err := backend.Render(ctx, model)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	progress.begin("Exporting PNG")
	if err := exportPNG(backend, graph, pngPath); err != nil {
		return fmt.Errorf("png: %w", err)
	}
	s.log.Info("png written", "path", pngPath)

	progress.begin("Exporting HTML image map")
	mapOpts := render.DefaultMapOptions(pngPath)
	mapOpts.Title = s.cfg.Render.Title
	mapOpts.FullDocument = s.cfg.Render.FullDocument
	if opts.provenance {
		rev, err := provenance.Revision(inPath)
		if err != nil {
			s.log.Warn("provenance unavailable", "path", inPath, "error", err)
		}
		mapOpts.Revision = rev
	}
	html, err := backend.ImageMap(graph, mapOpts)
	if err != nil {
		return fmt.Errorf("html: %w", err)
	}
	if _, err := io.WriteString(stdout, html); err != nil {
		return fmt.Errorf("html: %w", err)
	}

	if opts.reportPath != "" {
		if err := report.WriteFile(opts.reportPath, model, s.reportFormat); err != nil {
			return fmt.Errorf("report: %w", err)
		}
		s.log.Info("report written", "path", opts.reportPath, "format", s.reportFormat)
	}
	return nil
}

// exportPNG encodes in memory first and removes a partially written file.
func exportPNG(backend render.Backend, graph *layout.Graph, path string) error {
	var buf bytes.Buffer
	if err := backend.WritePNG(&buf, graph); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = f.Write(buf.Bytes())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
