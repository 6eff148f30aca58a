// Package dateextractor implements the date-extractor stage (spec
// §4.5): drain date-pool, assign publication_date, and persist each
// finished Document to disk as JSON.
package dateextractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecrawler/harvester/internal/dateextract"
	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/stageutil"
	"github.com/ecrawler/harvester/internal/workset"
	"github.com/rs/zerolog"
)

// Config holds the date-extractor's tunables; worker-process count and
// thread-pool size mirror spec §5 the same way textextractor.Config
// does.
type Config struct {
	MaxProcessors int
	MaxThreads    int
	MaxTimeout    time.Duration
	SavedPath     string
}

// Deps wires the date-extractor to its durable state.
type Deps struct {
	Dates  workset.Set
	Logger zerolog.Logger
}

const batchSize = 50

// RunOnce pops one batch of up to 50 Documents, assigns
// publication_date, and persists each to disk. Returns the number
// processed.
func RunOnce(ctx context.Context, cfg Config, deps Deps) (int, error) {
	raw, err := deps.Dates.PopMany(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}

	workers := cfg.MaxProcessors * cfg.MaxThreads
	if workers <= 0 {
		workers = 1
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, r := range raw {
		r := r
		g.Go(func() error {
			var doc pipeline.Document
			if err := json.Unmarshal(r, &doc); err != nil {
				deps.Logger.Error().Err(err).Msg("failed to decode document from date-pool")
				return nil
			}

			doc.PublicationDate = dateextract.PublicationDate(doc.Text)

			if err := persist(cfg.SavedPath, doc); err != nil {
				deps.Logger.Error().Err(err).Str("doc_id", doc.DocID).Msg("failed to persist document")
				return nil
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(raw), nil
}

// Run drains date-pool until empty or cfg.MaxTimeout elapses (spec §5).
func Run(ctx context.Context, cfg Config, deps Deps) error {
	return stageutil.Drain(ctx, cfg.MaxTimeout, func(ctx context.Context) (int, error) {
		return RunOnce(ctx, cfg, deps)
	})
}

// persist writes doc to <savedPath>/<doc_id>.json via a temp file and
// atomic rename (spec §9 crash-safety: at-least-once delivery means a
// duplicate write just overwrites with an identical record).
func persist(savedPath string, doc pipeline.Document) error {
	if err := os.MkdirAll(savedPath, 0o755); err != nil {
		return fmt.Errorf("create saved dir: %w", err)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	final := filepath.Join(savedPath, doc.DocID+".json")
	tmp := final + ".tmp"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
