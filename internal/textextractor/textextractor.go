// Package textextractor implements the text-extractor stage (spec
// §4.4): drain text-pool, run pdf2text on each Document's PDF file, and
// push the augmented Document to date-pool.
package textextractor

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecrawler/harvester/internal/pdftext"
	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/stageutil"
	"github.com/ecrawler/harvester/internal/workset"
	"github.com/rs/zerolog"
)

// Config holds the text-extractor's tunables. MaxProcessors mirrors the
// worker-process count from spec §5; within this Go binary it is
// realized as a bounded goroutine pool rather than OS processes, since
// each batch item is independent CPU/IO-bound file work (see DESIGN.md).
type Config struct {
	MaxProcessors int
	MaxThreads    int
	MaxTimeout    time.Duration
	DownloadPath  string
}

// Deps wires the text-extractor to its durable state and the pdf2text
// implementation.
type Deps struct {
	Texts     workset.Set
	Dates     workset.Set
	Extractor pdftext.Extractor
	Logger    zerolog.Logger
}

// batchSize mirrors §4.4's fixed pop_many(50).
const batchSize = 50

// RunOnce pops one batch of up to 50 Documents from text-pool and runs
// pdf2text on each, bounded by MaxProcessors*MaxThreads concurrent
// files. Returns the number of Documents processed.
func RunOnce(ctx context.Context, cfg Config, deps Deps) (int, error) {
	raw, err := deps.Texts.PopMany(ctx, batchSize)
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

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan pipeline.Document, len(raw))

	for _, r := range raw {
		r := r
		g.Go(func() error {
			var doc pipeline.Document
			if err := json.Unmarshal(r, &doc); err != nil {
				deps.Logger.Error().Err(err).Msg("failed to decode document from text-pool")
				return nil
			}

			path := filepath.Join(cfg.DownloadPath, doc.DocID+".pdf")
			text, scanned, err := deps.Extractor.Extract(gctx, path)
			if err != nil {
				deps.Logger.Error().Err(err).Str("doc_id", doc.DocID).Msg("pdf2text failed, dropping document")
				return nil
			}

			doc.Text = text
			if scanned {
				deps.Logger.Info().Str("doc_id", doc.DocID).Msg("scanned pdf, skipping text")
			}
			results <- doc
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	docs := make([]pipeline.Document, 0, len(raw))
	for d := range results {
		docs = append(docs, d)
	}

	if len(docs) > 0 {
		if err := addDocuments(ctx, deps.Dates, docs); err != nil {
			return len(raw), err
		}
	}

	return len(raw), nil
}

// Run drains text-pool until empty or cfg.MaxTimeout elapses (spec §5).
func Run(ctx context.Context, cfg Config, deps Deps) error {
	return stageutil.Drain(ctx, cfg.MaxTimeout, func(ctx context.Context) (int, error) {
		return RunOnce(ctx, cfg, deps)
	})
}

func addDocuments(ctx context.Context, set workset.Set, docs []pipeline.Document) error {
	entries := make([][]byte, 0, len(docs))
	for _, d := range docs {
		b, err := json.Marshal(d)
		if err != nil {
			continue
		}
		entries = append(entries, b)
	}
	return set.AddMany(ctx, entries)
}
