package bridge

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/meneportal/ltm-bridge/processor"
	"github.com/meneportal/ltm-bridge/store"
)

// IngestReport summarizes one tree ingestion run.
type IngestReport struct {
	Files    int
	Chunks   int
	Skipped  int
	Failures []string
}

// IngestTree walks a directory tree and ingests every readable file
// into the named collection. It is meant to run as a background task
// at startup: cancellable through ctx, with per-file failures
// collected in the report instead of aborting the walk. Serving
// readiness never depends on it.
func (b *Bridge) IngestTree(ctx context.Context, root, collection string) (*IngestReport, error) {
	report := &IngestReport{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !ingestible(path) {
			return nil
		}

		g.Go(func() error {
			added, err := b.store.AddDocument(ctx, path, collection)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, store.ErrEmptyContent):
				report.Skipped++
			case err != nil:
				report.Failures = append(report.Failures, path+": "+err.Error())
				log.Printf("[INGEST] Failed %s: %v", path, err)
			default:
				report.Files++
				report.Chunks += added
			}
			return nil // per-file failures never stop the run
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return report, err
	}
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return report, walkErr
	}

	log.Printf("[INGEST] Ingested %d files (%d chunks, %d skipped, %d failed) from %s",
		report.Files, report.Chunks, report.Skipped, len(report.Failures), root)
	return report, walkErr
}

func ingestible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range processor.DefaultExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
