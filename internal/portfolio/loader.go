// Package portfolio loads properties and evaluates their lifecycle state in bulk.
package portfolio

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
)

// Reader is the slice of the store the loader needs.
type Reader interface {
	ListProperties(ctx context.Context) ([]model.Property, error)
	ListAllStages(ctx context.Context) (map[string]map[model.PipelineKind][]model.PipelineStageData, error)
}

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Snapshots  []model.Snapshot
	Total      int
	WithStages int
}

// ProgressFunc is called during loading to report progress.
// current is the number of properties evaluated so far, total is the total count.
type ProgressFunc func(current, total int)

// Load reads every property and its stage records and evaluates them with
// a bounded worker pool. Snapshot order follows the reader's property order.
func Load(ctx context.Context, r Reader, engine *lifecycle.Engine, progressFn ProgressFunc) (*LoadResult, error) {
	props, err := r.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}
	stages, err := r.ListAllStages(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stages: %w", err)
	}

	result := &LoadResult{Total: len(props)}
	if len(props) == 0 {
		return result, nil
	}
	for _, p := range props {
		if len(stages[p.ID]) > 0 {
			result.WithStages++
		}
	}

	result.Snapshots, err = Evaluate(ctx, engine, props, stages, progressFn)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Evaluate computes snapshots for props in parallel. It stops early and
// returns the context error if ctx is cancelled.
func Evaluate(
	ctx context.Context,
	engine *lifecycle.Engine,
	props []model.Property,
	stages map[string]map[model.PipelineKind][]model.PipelineStageData,
	progressFn ProgressFunc,
) ([]model.Snapshot, error) {
	if len(props) == 0 {
		return nil, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(props) {
		numWorkers = len(props)
	}

	work := make(chan int, len(props))
	snapshots := make([]model.Snapshot, len(props))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range props {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				p := props[idx]
				snapshots[idx] = engine.Evaluate(p, stages[p.ID])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(props))
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
