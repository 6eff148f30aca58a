// Package downloader implements the downloader stage (spec §4.3): drain
// pdf-pool, fetch each PDF to disk, and hand off Document seeds to
// text-pool.
package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecrawler/harvester/internal/hostlimit"
	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/stageutil"
	"github.com/ecrawler/harvester/internal/useragent"
	"github.com/ecrawler/harvester/internal/workset"
	"github.com/rs/zerolog"
)

// Config holds the downloader's tunables, one-to-one with its CLI flags.
type Config struct {
	MaxAttempt   int
	MaxThreads   int
	LimitPerHost int
	MaxTimeout   time.Duration
	DownloadPath string
}

// Deps wires the downloader to its durable state, HTTP client, and disk.
type Deps struct {
	PDFs   workset.Set
	Texts  workset.Set
	Client *http.Client
	Logger zerolog.Logger
}

// RunOnce pops one batch from pdf-pool and processes it, returning how
// many Links it handled (0 means pdf-pool was empty).
func RunOnce(ctx context.Context, cfg Config, deps Deps) (int, error) {
	batchSize := int64(cfg.MaxThreads * 50)
	if batchSize <= 0 {
		batchSize = 50
	}

	raw, err := deps.PDFs.PopMany(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}

	links := make([]pipeline.Link, 0, len(raw))
	for _, r := range raw {
		var l pipeline.Link
		if err := json.Unmarshal(r, &l); err != nil {
			deps.Logger.Error().Err(err).Msg("failed to decode link from pdf-pool")
			continue
		}
		links = append(links, l)
	}

	hosts := make(map[string][]pipeline.Link)
	for _, l := range links {
		h := hostlimit.Host(l.URL)
		hosts[h] = append(hosts[h], l)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxThreads)
	limiter := hostlimit.New(cfg.LimitPerHost)

	for host, hostLinks := range hosts {
		host, hostLinks := host, hostLinks
		g.Go(func() error {
			return processHost(gctx, cfg, deps, limiter, host, hostLinks)
		})
	}
	if err := g.Wait(); err != nil {
		return len(links), err
	}

	return len(links), nil
}

// Run drains pdf-pool until empty or cfg.MaxTimeout elapses (spec §5).
func Run(ctx context.Context, cfg Config, deps Deps) error {
	return stageutil.Drain(ctx, cfg.MaxTimeout, func(ctx context.Context) (int, error) {
		return RunOnce(ctx, cfg, deps)
	})
}

func processHost(ctx context.Context, cfg Config, deps Deps, limiter *hostlimit.Limiter, host string, links []pipeline.Link) error {
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu        sync.Mutex
		failed    []pipeline.Link
		documents []pipeline.Document
	)

	for _, link := range links {
		link := link
		g.Go(func() error {
			doc, failedLink, ok := fetchOne(gctx, cfg, deps, limiter, host, link)

			mu.Lock()
			if ok {
				documents = append(documents, doc)
			} else if failedLink != nil {
				failed = append(failed, *failedLink)
			}
			mu.Unlock()

			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		if err := addLinks(ctx, deps.PDFs, failed); err != nil {
			return err
		}
	}
	if len(documents) > 0 {
		if err := addDocuments(ctx, deps.Texts, documents); err != nil {
			return err
		}
	}

	deps.Logger.Info().
		Str("host", host).
		Int("downloaded", len(documents)).
		Int("failed", len(failed)).
		Msg("processed host batch")

	return nil
}

// fetchOne implements §4.3 steps 1-4 for a single Link. Exactly one of
// (doc valid, failedLink non-nil) is returned; a dropped dead link
// returns both zero.
func fetchOne(ctx context.Context, cfg Config, deps Deps, limiter *hostlimit.Limiter, host string, link pipeline.Link) (doc pipeline.Document, failedLink *pipeline.Link, ok bool) {
	if link.DocID == "" {
		link.DocID = pipeline.DocID(link.URL)
	}

	release, err := limiter.Acquire(ctx, host)
	if err != nil {
		return pipeline.Document{}, nil, false
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.URL, nil)
	if err != nil {
		return retry(cfg, link)
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := deps.Client.Do(req)
	if err != nil {
		return retry(cfg, link)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return retry(cfg, link)
	}

	link.URL = resp.Request.URL.String()

	if err := writePDF(cfg.DownloadPath, link.DocID, resp.Body); err != nil {
		deps.Logger.Error().Err(err).Str("url", link.URL).Msg("write pdf failed")
		return retry(cfg, link)
	}

	return pipeline.NewDocument(link), nil, true
}

func retry(cfg Config, link pipeline.Link) (pipeline.Document, *pipeline.Link, bool) {
	link.Attempt++
	if link.Attempt < cfg.MaxAttempt {
		return pipeline.Document{}, &link, false
	}
	return pipeline.Document{}, nil, false
}

// writePDF streams body to <downloadPath>/<docID>.pdf via a temp file and
// atomic rename, so a crash mid-write never leaves a half-written PDF
// behind under its final name (spec §9 crash-safety argument).
func writePDF(downloadPath, docID string, body io.Reader) error {
	if err := os.MkdirAll(downloadPath, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	final := filepath.Join(downloadPath, docID+".pdf")
	tmp := final + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func addLinks(ctx context.Context, set workset.Set, links []pipeline.Link) error {
	entries := make([][]byte, 0, len(links))
	for _, l := range links {
		b, err := json.Marshal(l)
		if err != nil {
			continue
		}
		entries = append(entries, b)
	}
	return set.AddMany(ctx, entries)
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
