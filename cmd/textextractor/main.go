package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecrawler/harvester/internal/config"
	"github.com/ecrawler/harvester/internal/logging"
	"github.com/ecrawler/harvester/internal/pdftext"
	"github.com/ecrawler/harvester/internal/textextractor"
	"github.com/ecrawler/harvester/internal/workset"
)

func main() {
	var (
		timeout      = flag.Int("timeout", 0, "wall-clock budget in minutes (0 = infinite)")
		threads      = flag.Int("threads", 4, "concurrent workers per processor slot")
		downloadPath = flag.String("download_path", "./downloads", "directory holding downloaded PDFs")
		processors   = flag.Int("processors", 1, "processor slots; this process runs processors*threads concurrent workers")
	)
	flag.Parse()

	logger, logPath, closeLog, err := logging.New(".", "text_extractor")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info().Str("log_path", logPath).Msg("text extractor starting")

	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	client := redis.NewClient(&redis.Options{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
	defer client.Close()

	cfg := textextractor.Config{
		MaxProcessors: *processors,
		MaxThreads:    *threads,
		MaxTimeout:    time.Duration(*timeout) * time.Minute,
		DownloadPath:  *downloadPath,
	}
	deps := textextractor.Deps{
		Texts:     workset.NewRedisSet(client, "pool_text_extractor"),
		Dates:     workset.NewRedisSet(client, "pool_date_extractor"),
		Extractor: pdftext.New(),
		Logger:    logger,
	}

	if err := textextractor.Run(context.Background(), cfg, deps); err != nil {
		logger.Error().Err(err).Msg("text extractor exited with error")
		os.Exit(1)
	}
}
