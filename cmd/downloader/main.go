package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecrawler/harvester/internal/config"
	"github.com/ecrawler/harvester/internal/downloader"
	"github.com/ecrawler/harvester/internal/logging"
	"github.com/ecrawler/harvester/internal/workset"
)

func main() {
	var (
		timeout      = flag.Int("timeout", 0, "wall-clock budget in minutes (0 = infinite)")
		threads      = flag.Int("threads", 8, "max concurrent host-workers")
		limitPerHost = flag.Int("limit_per_host", 2, "max concurrent connections to one host")
		attempt      = flag.Int("attempt", 3, "max attempts before a link is dropped")
		downloadPath = flag.String("download_path", "./downloads", "directory to write downloaded PDFs")
	)
	flag.Parse()

	logger, logPath, closeLog, err := logging.New(".", "downloader")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info().Str("log_path", logPath).Msg("downloader starting")

	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	client := redis.NewClient(&redis.Options{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
	defer client.Close()

	cfg := downloader.Config{
		MaxAttempt:   *attempt,
		MaxThreads:   *threads,
		LimitPerHost: *limitPerHost,
		MaxTimeout:   time.Duration(*timeout) * time.Minute,
		DownloadPath: *downloadPath,
	}
	deps := downloader.Deps{
		PDFs:   workset.NewRedisSet(client, "pool_pdf"),
		Texts:  workset.NewRedisSet(client, "pool_text_extractor"),
		Client: &http.Client{Timeout: 60 * time.Second},
		Logger: logger,
	}

	if err := downloader.Run(context.Background(), cfg, deps); err != nil {
		logger.Error().Err(err).Msg("downloader exited with error")
		os.Exit(1)
	}
}
