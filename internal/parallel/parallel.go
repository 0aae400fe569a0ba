package parallel

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/msalah0e/relgraph/internal/ui"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of a parallel task.
type Result struct {
	Name    string
	OK      bool
	Err     error
	Output  string
	Elapsed time.Duration
}

// Task is a function that runs in parallel. Fn must honor ctx.
type Task struct {
	Name string
	Fn   func(ctx context.Context) (string, error)
}

// Runner executes tasks with bounded concurrency and reports progress lines
// to Out. A nil Out discards progress.
type Runner struct {
	Concurrency int
	Out         io.Writer
}

// Run executes tasks in parallel with the given concurrency limit, printing
// progress to stdout. Returns results in the order tasks were submitted.
func Run(ctx context.Context, tasks []Task, concurrency int) []Result {
	return Runner{Concurrency: concurrency, Out: ui.Stdout()}.Run(ctx, tasks)
}

// Run executes tasks and returns results in submission order. A failing task
// does not cancel the others; a cancelled ctx skips tasks not yet started.
func (r Runner) Run(ctx context.Context, tasks []Task) []Result {
	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 4
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	results := make([]Result, len(tasks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Name: task.Name, Err: err}
				return nil
			}
			start := time.Now()

			output, err := task.Fn(gctx)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = Result{Name: task.Name, OK: false, Err: err, Output: output, Elapsed: elapsed}
				fmt.Fprintf(out, "  %s %s %s\n", ui.StatusIcon(false), task.Name, ui.Bad.Sprintf("(%v)", err))
			} else {
				results[i] = Result{Name: task.Name, OK: true, Output: output, Elapsed: elapsed}
				fmt.Fprintf(out, "  %s %s %s\n", ui.StatusIcon(true), task.Name, ui.Subtle.Sprintf("%s  %.1fs", output, elapsed.Seconds()))
			}
			return nil // never fail the group, collect results instead
		})
	}

	_ = g.Wait()
	return results
}

// Failed counts the results that did not succeed.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.OK {
			n++
		}
	}
	return n
}
