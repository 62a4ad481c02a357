package filter

import (
	"context"
	"runtime"
	"sync"

	"github.com/s0up4200/comicvine/comicvine"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.workerCount <= 0 {
		e.workerCount = 1
	}

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the objects matching filter, in their original order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, objects []comicvine.Object) ([]comicvine.Object, error) {
	if len(objects) == 0 {
		return []comicvine.Object{}, nil
	}

	if len(objects) < e.batchSize || !filter.IsThreadSafe() {
		return evaluateSequential(filter, objects), nil
	}

	return e.evaluateConcurrent(ctx, filter, objects)
}

// EvaluateBatch evaluates multiple filters against objects concurrently.
// Filters cancelled by ctx are left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, objects []comicvine.Object) (map[string][]comicvine.Object, error) {
	results := make(map[string][]comicvine.Object, len(filters))
	if len(filters) == 0 || len(objects) == 0 {
		return results, nil
	}

	resultChan := make(chan BatchResult, len(filters))

	var wg sync.WaitGroup
	for name, filter := range filters {
		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				resultChan <- BatchResult{FilterName: name, Error: err}
				return
			}

			resultChan <- BatchResult{
				FilterName: name,
				Matches:    evaluateSequential(filter, objects),
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		if result.Error != nil {
			continue
		}
		results[result.FilterName] = result.Matches
	}

	return results, nil
}

func evaluateSequential(filter CompiledFilter, objects []comicvine.Object) []comicvine.Object {
	matches := make([]comicvine.Object, 0, len(objects))
	for _, obj := range objects {
		if filter.Evaluate(obj) {
			matches = append(matches, obj)
		}
	}
	return matches
}

// evaluateConcurrent splits objects into chunks and reassembles matches in order
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, objects []comicvine.Object) ([]comicvine.Object, error) {
	chunkSize := max(len(objects)/e.workerCount, e.batchSize)
	chunks := (len(objects) + chunkSize - 1) / chunkSize
	results := make([][]comicvine.Object, chunks)

	var wg sync.WaitGroup
	for i := range chunks {
		start := i * chunkSize
		chunk := objects[start:min(start+chunkSize, len(objects))]

		wg.Add(1)
		err := e.pool.Submit(ctx, func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[i] = evaluateSequential(filter, chunk)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	matches := make([]comicvine.Object, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
