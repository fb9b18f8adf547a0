package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/classgraph/pkg/cache"
	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
	"github.com/matzehuels/classgraph/pkg/observability"
	"github.com/matzehuels/classgraph/pkg/render"
	"github.com/matzehuels/classgraph/pkg/scene"
)

// Runner executes pipeline stages against a cache. It holds no per-run
// state and is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL overrides cache.LayoutTTL when positive.
	LayoutTTL time.Duration
}

// NewRunner returns a runner. A nil cache disables caching; a nil keyer
// uses [cache.DefaultKeyer]; a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// LayoutWithCacheInfo returns the layout of g and whether it came from the
// cache. Only structural edits change the cache key.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *model.Graph, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return layout.Result{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.Len())
	start := time.Now()

	key := r.Keyer.LayoutKey(g.Fingerprint(), opts.LayoutKeyOpts())
	if !opts.Refresh {
		if res, ok := r.cachedLayout(ctx, key, g); ok {
			opts.Logger.Debug("layout cache hit", "nodes", g.Len())
			hooks.OnLayoutComplete(ctx, observability.LayoutStats{Nodes: g.Len(), Iterations: res.Iterations, Converged: res.Converged, Cached: true}, time.Since(start), nil)
			return res, true, nil
		}
	}

	engine := layout.NewEngine(&opts.Layout, &opts.Sizer)
	res, err := engine.LayoutContext(ctx, g)
	stats := observability.LayoutStats{Nodes: g.Len(), Iterations: res.Iterations, Converged: res.Converged}
	hooks.OnLayoutComplete(ctx, stats, time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	opts.Logger.Debug("computed layout",
		"nodes", g.Len(),
		"iterations", res.Iterations,
		"converged", res.Converged,
		"duration", time.Since(start))
	if !res.Converged {
		opts.Logger.Warn("layout stopped at iteration budget", "iterations", res.Iterations)
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.layoutTTL()); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string, g *model.Graph) (layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layout.Result{}, false
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layout.Result{}, false
	}
	for _, id := range g.IDs() {
		if _, ok := res.Positions[id]; !ok {
			observability.Cache().OnCacheMiss(ctx, "layout")
			return layout.Result{}, false
		}
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return res, true
}

// Layout is LayoutWithCacheInfo without the cache flag.
func (r *Runner) Layout(ctx context.Context, g *model.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// Scene lays out g and resolves its connectors. Geometry is always
// recomputed from the current graph.
func (r *Runner) Scene(ctx context.Context, g *model.Graph, opts Options) (scene.Scene, bool, error) {
	r.applyLogger(&opts)
	res, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return scene.Scene{}, false, err
	}
	opts.SetDefaults()
	resolution := geometry.NewResolver(&opts.Geometry).ResolveGraph(g, res, opts.Sizer)
	if resolution.Dangling > 0 || resolution.Degenerate > 0 {
		opts.Logger.Debug("skipped connectors",
			"dangling", resolution.Dangling,
			"degenerate", resolution.Degenerate)
	}
	return scene.Build(g, res, resolution, opts.Sizer), hit, nil
}

// Render runs every stage and returns the requested artifacts. Cached
// artifacts are reused; the rest render concurrently.
func (r *Runner) Render(ctx context.Context, g *model.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte, len(opts.Formats))}
	result.Stats.Nodes = g.Len()

	layoutStart := time.Now()
	sc, hit, err := r.Scene(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Scene = sc
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)

	sceneData, err := scene.Marshal(sc)
	if err != nil {
		return nil, err
	}
	contentHash := cache.Hash(sceneData)

	renderStart := time.Now()
	var mu sync.Mutex
	allCached := true
	eg, egCtx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				mu.Lock()
				result.Artifacts[format] = data
				mu.Unlock()
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allCached = false

		eg.Go(func() error {
			data, err := r.renderOne(egCtx, sc, sceneData, g, format, opts)
			if err != nil {
				return err
			}
			if err := r.Cache.Set(egCtx, key, data, cache.ArtifactTTL); err == nil {
				observability.Cache().OnCacheSet(egCtx, "artifact", len(data))
			}
			mu.Lock()
			result.Artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	result.CacheInfo.RenderHit = allCached
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered",
		"formats", opts.Formats,
		"nodes", g.Len(),
		"layout_cached", hit,
		"duration", result.Stats.LayoutTime+result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) renderOne(ctx context.Context, sc scene.Scene, sceneData []byte, g *model.Graph, format string, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var data []byte
	var err error
	if format == render.FormatJSON {
		data = sceneData
	} else {
		data, err = RenderArtifact(ctx, sc, g, format, opts)
	}
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data), "duration", time.Since(start))
	return data, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) layoutTTL() time.Duration {
	if r.LayoutTTL > 0 {
		return r.LayoutTTL
	}
	return cache.LayoutTTL
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
