package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ptplot/pkg/cache"
	"github.com/matzehuels/ptplot/pkg/observability"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → draw → render. When every requested artifact is
// cached the data is not parsed and Result.Drawn is nil.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	raw, err := ReadData(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		DataHash:  cache.Hash(raw),
		SpecHash:  opts.Spec.Hash(),
		Artifacts: make(map[string][]byte),
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, result, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			logger.Debug("artifacts served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	loadStart := time.Now()
	data, filterHit, err := r.Load(ctx, raw, result.DataHash, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Data = data
	result.Stats.Rows = data.Len()
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.FilterHit = filterHit
	logger.Info("loaded tracking data",
		"rows", data.Len(),
		"cached", filterHit,
		"duration", result.Stats.LoadTime)

	drawStart := time.Now()
	drawn, err := Draw(ctx, opts.Spec, data)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	result.Drawn = drawn
	result.Warnings = drawn.Warnings
	result.Stats.DrawTime = time.Since(drawStart)
	result.Stats.Figures = len(drawn.Grid.Figures)
	if drawn.Control != nil {
		result.Stats.Frames = len(drawn.Control.Frames())
	}
	for _, w := range drawn.Warnings {
		logger.Warn(w.Message, "code", w.Code)
	}
	logger.Info("drew plot",
		"figures", result.Stats.Figures,
		"frames", result.Stats.Frames,
		"duration", result.Stats.DrawTime)

	renderStart := time.Now()
	artifacts, err := Render(ctx, drawn, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(result.DataHash, opts.ArtifactKeyOpts(result.SpecHash, format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return result, nil
}

// cached returns every requested artifact, or false if any is missing.
func (r *Runner) cached(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.DataHash, opts.ArtifactKeyOpts(result.SpecHash, format))
		data, ok, err := r.Cache.Get(ctx, key)
		if err != nil || !ok {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
