// Command harvester runs all four pipeline stages in one process against
// in-memory work-sets, to completion, for local iteration and smoke
// testing. Production deployment runs each stage as its own binary
// against the shared Redis-backed work-sets (see cmd/spider,
// cmd/downloader, cmd/textextractor, cmd/dateextractor).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ecrawler/harvester/internal/dateextractor"
	"github.com/ecrawler/harvester/internal/downloader"
	"github.com/ecrawler/harvester/internal/logging"
	"github.com/ecrawler/harvester/internal/pdftext"
	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/seeds"
	"github.com/ecrawler/harvester/internal/spider"
	"github.com/ecrawler/harvester/internal/textextractor"
	"github.com/ecrawler/harvester/internal/visited"
	"github.com/ecrawler/harvester/internal/workset"
)

func main() {
	var (
		seedsPath    = flag.String("seeds_path", "seeds.json", "path to the seeds JSON file")
		downloadPath = flag.String("download_path", "./downloads", "directory to write downloaded PDFs")
		savedPath    = flag.String("saved_path", "./documents", "directory to persist finished JSON documents")
		depth        = flag.Int("depth", 3, "max crawl depth")
		attempt      = flag.Int("attempt", 3, "max attempts before a link is dropped")
		threads      = flag.Int("threads", 4, "max concurrent host-workers")
		limitPerHost = flag.Int("limit_per_host", 2, "max concurrent connections to one host")
	)
	flag.Parse()

	logger, logPath, closeLog, err := logging.New(".", "harvester")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info().Str("log_path", logPath).Msg("harvester (dev mode) starting")

	pages := workset.NewMemorySet()
	pdfs := workset.NewMemorySet()
	texts := workset.NewMemorySet()
	dates := workset.NewMemorySet()
	visitedSet := visited.NewMemorySet()

	ctx := context.Background()

	links, err := seeds.Load(*seedsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := seedPages(ctx, pages, visitedSet, links); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	spiderCfg := spider.Config{MaxDepth: *depth, MaxAttempt: *attempt, MaxThreads: *threads, LimitPerHost: *limitPerHost}
	if err := spider.Run(ctx, spiderCfg, spider.Deps{
		Pages: pages, PDFs: pdfs, Visited: visitedSet, Client: client, Logger: logger,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	downloaderCfg := downloader.Config{MaxAttempt: *attempt, MaxThreads: *threads, LimitPerHost: *limitPerHost, DownloadPath: *downloadPath}
	if err := downloader.Run(ctx, downloaderCfg, downloader.Deps{
		PDFs: pdfs, Texts: texts, Client: client, Logger: logger,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	textCfg := textextractor.Config{MaxProcessors: 1, MaxThreads: *threads, DownloadPath: *downloadPath}
	if err := textextractor.Run(ctx, textCfg, textextractor.Deps{
		Texts: texts, Dates: dates, Extractor: pdftext.New(), Logger: logger,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	dateCfg := dateextractor.Config{MaxProcessors: 1, MaxThreads: *threads, SavedPath: *savedPath}
	if err := dateextractor.Run(ctx, dateCfg, dateextractor.Deps{Dates: dates, Logger: logger}); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger.Info().Msg("harvester (dev mode) finished")
}

func seedPages(ctx context.Context, pages workset.Set, visitedSet visited.Set, links []pipeline.Link) error {
	entries := make([][]byte, 0, len(links))
	docIDs := make([]string, 0, len(links))
	for _, l := range links {
		b, err := json.Marshal(l)
		if err != nil {
			continue
		}
		entries = append(entries, b)
		docIDs = append(docIDs, pipeline.DocID(l.URL))
	}
	if err := visitedSet.MarkMany(ctx, docIDs); err != nil {
		return err
	}
	return pages.AddMany(ctx, entries)
}
