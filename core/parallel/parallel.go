// Package parallel runs independent units of work on a bounded number of goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a requested worker count: values <= 0 mean one per CPU,
// and there is never more than one worker per item.
func Workers(requested, items int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > items {
		n = items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ForEach calls fn for every index in [0, items) using at most workers
// goroutines and returns the first error. Once an error is returned no new
// indices are started.
func ForEach(items, workers int, fn func(i int) error) error {
	if items == 0 {
		return nil
	}

	n := Workers(workers, items)
	if n == 1 {
		for i := 0; i < items; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(n)
	for i := 0; i < items; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
