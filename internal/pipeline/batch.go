package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProcessBatch fans the pipeline out over files with at most maxJobs
// concurrent workers. Results come back in input order; per-document
// failures are carried in their Result, so the returned error is only
// ever a context cancellation.
func (p *Processor) ProcessBatch(ctx context.Context, files []string, outDir string, maxJobs int) ([]Result, error) {
	if maxJobs <= 0 {
		maxJobs = 1
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxJobs)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.ProcessFile(ctx, path, outDir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Summary aggregates batch results.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
