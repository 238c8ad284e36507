package backend

import (
	"context"
	"fmt"

	"github.com/robalyx/tribunal/internal/database/types/enum"
	"golang.org/x/sync/errgroup"
)

// CopyResult counts the containers handled by Copy.
type CopyResult struct {
	Copied  int // Containers written to the destination
	Skipped int // Containers left alone because they already existed
	Rows    int // Rows written
}

// CopyOptions controls Copy.
type CopyOptions struct {
	// Overwrite replaces containers that already exist in the destination.
	Overwrite bool
	// Concurrency bounds the number of containers copied at once.
	Concurrency int
	// Progress is called after each container, if set. It may be called
	// from several goroutines.
	Progress func(kind enum.Kind, guildID uint64, rows int, copied bool)
}

// Copy copies every container of every kind from src to dst. Existing
// destination containers are kept unless opts.Overwrite is set.
func Copy(ctx context.Context, src, dst Backend, opts CopyOptions) (CopyResult, error) {
	type job struct {
		kind    enum.Kind
		guildID uint64
	}

	var jobs []job
	for _, kind := range enum.KindValues() {
		guilds, err := src.Guilds(ctx, kind)
		if err != nil {
			return CopyResult{}, fmt.Errorf("failed to list %s containers: %w", kind, err)
		}
		for _, guildID := range guilds {
			jobs = append(jobs, job{kind: kind, guildID: guildID})
		}
	}

	results := make([]CopyResult, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	for i, j := range jobs {
		g.Go(func() error {
			rows, err := src.Load(ctx, j.kind, j.guildID)
			if err != nil {
				return fmt.Errorf("failed to load %s of guild %d: %w", j.kind, j.guildID, err)
			}

			copied := true
			if opts.Overwrite {
				err = dst.Replace(ctx, j.kind, j.guildID, rows)
			} else {
				copied, err = dst.Ensure(ctx, j.kind, j.guildID, rows)
			}
			if err != nil {
				return fmt.Errorf("failed to write %s of guild %d: %w", j.kind, j.guildID, err)
			}

			if copied {
				results[i] = CopyResult{Copied: 1, Rows: len(rows)}
			} else {
				results[i] = CopyResult{Skipped: 1}
			}

			if opts.Progress != nil {
				opts.Progress(j.kind, j.guildID, len(rows), copied)
			}
			return nil
		})
	}

	var total CopyResult
	err := g.Wait()
	for _, r := range results {
		total.Copied += r.Copied
		total.Skipped += r.Skipped
		total.Rows += r.Rows
	}

	return total, err
}
