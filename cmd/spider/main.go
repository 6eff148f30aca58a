package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecrawler/harvester/internal/config"
	"github.com/ecrawler/harvester/internal/logging"
	"github.com/ecrawler/harvester/internal/pipeline"
	"github.com/ecrawler/harvester/internal/seeds"
	"github.com/ecrawler/harvester/internal/spider"
	"github.com/ecrawler/harvester/internal/visited"
	"github.com/ecrawler/harvester/internal/workset"
)

func main() {
	var (
		timeout      = flag.Int("timeout", 0, "wall-clock budget in minutes (0 = infinite)")
		threads      = flag.Int("threads", 8, "max concurrent host-workers")
		limitPerHost = flag.Int("limit_per_host", 2, "max concurrent connections to one host")
		attempt      = flag.Int("attempt", 3, "max attempts before a link is dropped")
		depth        = flag.Int("depth", 3, "max crawl depth")
		seedsPath    = flag.String("seeds_path", "seeds.json", "path to the seeds JSON file")
		reset        = flag.Bool("reset", false, "flush the visited-set and every file under ./logs before starting")
	)
	flag.Parse()

	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	client := redis.NewClient(&redis.Options{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
	defer client.Close()

	ctx := context.Background()

	visitedSet := visited.NewRedisSet(client)
	if *reset {
		if err := visitedSet.Reset(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		if err := logging.ResetLogs("."); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}

	logger, logPath, closeLog, err := logging.New(".", "spider")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info().Str("log_path", logPath).Msg("spider starting")

	pages := workset.NewRedisSet(client, "pool_pages")
	pdfs := workset.NewRedisSet(client, "pool_pdf")

	links, err := seeds.Load(*seedsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := seedPages(ctx, pages, visitedSet, links); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	cfg := spider.Config{
		MaxDepth:     *depth,
		MaxAttempt:   *attempt,
		MaxThreads:   *threads,
		LimitPerHost: *limitPerHost,
		MaxTimeout:   time.Duration(*timeout) * time.Minute,
	}
	deps := spider.Deps{
		Pages:   pages,
		PDFs:    pdfs,
		Visited: visitedSet,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Logger:  logger,
	}

	if err := spider.Run(ctx, cfg, deps); err != nil {
		logger.Error().Err(err).Msg("spider exited with error")
		os.Exit(1)
	}
}

// seedPages inserts each seed Link into pages-pool and marks it visited,
// skipping any that fail to marshal (should never happen for a
// well-formed Link). Marking seeds as visited up front mirrors
// load_seeds()'s update_visited_pages call and stops a seed's own
// root-relative self-links from being rediscovered as fresh children.
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
