// Package spider implements the spider stage (spec §4.2, §4.2.1):
// expand the frontier from pages-pool, classify links as page or pdf,
// honor per-host connection limits, and bound depth and attempts.
package spider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecrawler/harvester/internal/hostlimit"
	"github.com/ecrawler/harvester/internal/linkextract"
	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/stageutil"
	"github.com/ecrawler/harvester/internal/useragent"
	"github.com/ecrawler/harvester/internal/visited"
	"github.com/ecrawler/harvester/internal/workset"
	"github.com/rs/zerolog"
)

// Config holds the spider's tunables, one-to-one with its CLI flags
// (spec §6).
type Config struct {
	MaxDepth     int
	MaxAttempt   int
	MaxThreads   int
	LimitPerHost int
	MaxTimeout   time.Duration
}

// Deps wires the spider to its durable state and HTTP client.
type Deps struct {
	Pages   workset.Set
	PDFs    workset.Set
	Visited visited.Set
	Client  *http.Client
	Logger  zerolog.Logger
}

// RunOnce pops one batch from pages-pool, processes it, and returns how
// many Links it handed to host-workers (0 means pages-pool was empty).
// Exported so callers can drive one batch at a time; Run wires it into
// stageutil.Drain.
func RunOnce(ctx context.Context, cfg Config, deps Deps) (int, error) {
	batchSize := int64(cfg.MaxThreads * 50)
	if batchSize <= 0 {
		batchSize = 50
	}

	raw, err := deps.Pages.PopMany(ctx, batchSize)
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
			deps.Logger.Error().Err(err).Msg("failed to decode link from pages-pool")
			continue
		}
		links = append(links, l)
	}

	hosts := groupByHost(links)

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

// Run drains pages-pool until empty or cfg.MaxTimeout elapses (spec §5).
func Run(ctx context.Context, cfg Config, deps Deps) error {
	return stageutil.Drain(ctx, cfg.MaxTimeout, func(ctx context.Context) (int, error) {
		return RunOnce(ctx, cfg, deps)
	})
}

func groupByHost(links []pipeline.Link) map[string][]pipeline.Link {
	hosts := make(map[string][]pipeline.Link)
	for _, l := range links {
		h := hostlimit.Host(l.URL)
		hosts[h] = append(hosts[h], l)
	}
	return hosts
}

// processHost is one host-worker: cooperative concurrent I/O over up to
// limit_per_host in-flight requests to that host (spec §4.2).
func processHost(ctx context.Context, cfg Config, deps Deps, limiter *hostlimit.Limiter, host string, links []pipeline.Link) error {
	g, gctx := errgroup.WithContext(ctx)

	var (
		mu          sync.Mutex
		pdfLinks    []pipeline.Link
		failedLinks []pipeline.Link
		deadLinks   []pipeline.Link
		discovered  []pipeline.Link
		visitedKeys []string
	)

	for _, link := range links {
		link := link
		g.Go(func() error {
			pdf, failed, dead, kids, vkeys := analyzeLink(gctx, cfg, deps, limiter, host, link)

			mu.Lock()
			pdfLinks = append(pdfLinks, pdf...)
			failedLinks = append(failedLinks, failed...)
			deadLinks = append(deadLinks, dead...)
			discovered = append(discovered, kids...)
			visitedKeys = append(visitedKeys, vkeys...)
			mu.Unlock()

			return nil
		})
	}
	_ = g.Wait()

	for _, l := range deadLinks {
		deps.Logger.Error().Str("url", l.URL).Int("attempt", l.Attempt).Msg("dead link")
	}

	if len(pdfLinks) > 0 {
		if err := addLinks(ctx, deps.PDFs, pdfLinks); err != nil {
			return err
		}
	}

	if len(failedLinks) > 0 {
		if err := addLinks(ctx, deps.Pages, failedLinks); err != nil {
			return err
		}
	}

	if len(discovered) > 0 {
		if err := addLinks(ctx, deps.Pages, discovered); err != nil {
			return err
		}
	}
	if len(visitedKeys) > 0 {
		if err := deps.Visited.MarkMany(ctx, visitedKeys); err != nil {
			return err
		}
	}

	deps.Logger.Info().
		Str("host", host).
		Int("pdf", len(pdfLinks)).
		Int("failed", len(failedLinks)).
		Int("discovered", len(discovered)).
		Msg("processed host batch")

	return nil
}

// analyzeLink is step 1-2 of §4.2 for a single Link: fetch, classify,
// and on success for HTML pages, extract children.
func analyzeLink(ctx context.Context, cfg Config, deps Deps, limiter *hostlimit.Limiter, host string, link pipeline.Link) (pdf, failed, dead, children []pipeline.Link, visitedKeys []string) {
	if link.ExceedsDepth(cfg.MaxDepth) {
		return nil, nil, nil, nil, nil
	}
	if link.Dead(cfg.MaxAttempt) {
		dead = append(dead, link)
		return nil, nil, dead, nil, nil
	}

	release, err := limiter.Acquire(ctx, host)
	if err != nil {
		return nil, nil, nil, nil, nil
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.URL, nil)
	if err != nil {
		return failRetry(cfg, link)
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := deps.Client.Do(req)
	if err != nil {
		return failRetry(cfg, link)
	}
	defer resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	disposition := resp.Header.Get("Content-Disposition")

	switch {
	case isPDF(contentType, disposition):
		link.Type = pipeline.LinkTypePDF
		link.DocID = pipeline.DocID(link.URL)
		pdf = append(pdf, link)

	case strings.Contains(contentType, "text/html") && sameHost(link.URL, link.Website):
		if !link.CanEnqueueChildren(cfg.MaxDepth) {
			return nil, nil, nil, nil, nil
		}

		alreadyVisited := func(abs string) bool {
			seen, err := deps.Visited.Exists(ctx, pipeline.DocID(abs))
			return err == nil && seen
		}

		kids, err := linkextract.ExtractChildren(link, io.LimitReader(resp.Body, 5<<20), alreadyVisited)
		if err != nil {
			deps.Logger.Error().Err(err).Str("url", link.URL).Msg("html parse error")
			return nil, nil, nil, nil, nil
		}

		for _, kid := range kids {
			children = append(children, kid)
			visitedKeys = append(visitedKeys, pipeline.DocID(kid.URL))
		}

	default:
		// neither pdf nor in-scope html: silently discard
	}

	return pdf, failed, dead, children, visitedKeys
}

func failRetry(cfg Config, link pipeline.Link) (pdf, failed, dead, children []pipeline.Link, visitedKeys []string) {
	link.Attempt++
	if link.Attempt < cfg.MaxAttempt {
		failed = append(failed, link)
	} else {
		dead = append(dead, link)
	}
	return nil, failed, dead, nil, nil
}

func isPDF(contentType, disposition string) bool {
	if strings.Contains(contentType, "application/pdf") {
		return true
	}
	if strings.Contains(contentType, "application/octet-stream") && strings.Contains(strings.ToLower(disposition), ".pdf") {
		return true
	}
	return false
}

func sameHost(linkURL, website string) bool {
	lu, err1 := url.Parse(linkURL)
	wu, err2 := url.Parse(website)
	if err1 != nil || err2 != nil {
		return false
	}
	return lu.Hostname() == wu.Hostname()
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
