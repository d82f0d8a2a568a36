package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Result pairs one input with what the pool produced for it.
type Result[T any, R any] struct {
	Index int
	Input T
	Value R
	Err   error
}

// Func processes a single input.
type Func[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool fans inputs out to a bounded number of goroutines.
type Pool[T any, R any] struct {
	size int
	fn   Func[T, R]
}

// NewPool creates a pool running at most size inputs at once.
func NewPool[T any, R any](size int, fn Func[T, R]) *Pool[T, R] {
	return &Pool[T, R]{size: max(size, 1), fn: fn}
}

// Run processes every input and returns results in input order. Once ctx is
// cancelled no further inputs are handed out; those carry ctx.Err().
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Result[T, R] {
	results := make([]Result[T, R], len(inputs))
	for i, in := range inputs {
		results[i] = Result[T, R]{Index: i, Input: in}
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for range min(p.size, len(inputs)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				results[i].Value, results[i].Err = p.fn(ctx, inputs[i])
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break dispatch
		case next <- i:
			dispatched++
		}
	}
	close(next)
	wg.Wait()

	for i := dispatched; i < len(inputs); i++ {
		results[i].Err = ctx.Err()
	}
	if n := Failed(results); n > 0 {
		log.Debug().Int("failed", n).Int("total", len(inputs)).Msg("Pool finished with failures")
	}
	return results
}

// Failed counts results carrying an error.
func Failed[T any, R any](results []Result[T, R]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
