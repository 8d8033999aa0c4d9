package resolver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/erraggy/refinline/document"
)

// BatchOptions configures ResolveAll.
type BatchOptions struct {
	// Concurrency bounds the number of documents resolved at once.
	// Zero or less means runtime.GOMAXPROCS(0).
	Concurrency int
}

// Result is the outcome of resolving one top-level document in a batch.
type Result struct {
	Document document.Identity
	Value    any
	Err      error
}

// ResolveAll resolves each of ids as an independent top-level document,
// sharing original and resolved between them. A failing document is logged
// and reported in its Result; the rest of the batch carries on. Results are
// returned in the order of ids.
func (r *Resolver) ResolveAll(ctx context.Context, ids []document.Identity, original, resolved *Store, opts BatchOptions) []Result {
	n := opts.Concurrency
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(ids))
	p := pool.New().WithMaxGoroutines(n)
	for i, id := range ids {
		p.Go(func() {
			results[i].Document = id
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			v, err := r.Resolve(ctx, id, original, resolved)
			if err != nil {
				r.logger.Warn("failed to resolve document", "document", id.String(), "error", err)
				results[i].Err = err
				return
			}
			results[i].Value = v
		})
	}
	p.Wait()
	return results
}

// JoinErrors combines the failures of a batch into one error, each prefixed
// with its document. It returns nil when every document resolved.
func JoinErrors(results []Result) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Document, res.Err))
		}
	}
	return errors.Join(errs...)
}
