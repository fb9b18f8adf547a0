package pipeline

import (
	"context"

	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

// AsyncResult is the single value delivered by [Runner.LayoutAsync].
type AsyncResult struct {
	Result layout.Result
	Cached bool
	Err    error
}

// LayoutAsync computes the layout of a snapshot of g on a new goroutine.
// The channel receives exactly one complete value and is then closed; on
// cancellation the value carries ctx.Err() and no positions. Editing g
// after the call does not affect the computation.
func (r *Runner) LayoutAsync(ctx context.Context, g *model.Graph, opts Options) <-chan AsyncResult {
	out := make(chan AsyncResult, 1)
	snapshot := g.Clone()
	go func() {
		defer close(out)
		res, hit, err := r.LayoutWithCacheInfo(ctx, snapshot, opts)
		if err != nil {
			out <- AsyncResult{Err: err}
			return
		}
		out <- AsyncResult{Result: res, Cached: hit}
	}()
	return out
}
