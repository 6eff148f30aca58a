package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ecrawler/harvester/internal/config"
	"github.com/ecrawler/harvester/internal/dateextractor"
	"github.com/ecrawler/harvester/internal/logging"
	"github.com/ecrawler/harvester/internal/workset"
)

func main() {
	var (
		timeout    = flag.Int("timeout", 0, "wall-clock budget in minutes (0 = infinite)")
		threads    = flag.Int("threads", 4, "concurrent workers per processor slot")
		savedPath  = flag.String("saved_path", "./documents", "directory to persist finished JSON documents")
		processors = flag.Int("processors", 1, "processor slots; this process runs processors*threads concurrent workers")
	)
	flag.Parse()

	logger, logPath, closeLog, err := logging.New(".", "date_extractor")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Info().Str("log_path", logPath).Msg("date extractor starting")

	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	client := redis.NewClient(&redis.Options{Addr: redisCfg.Addr, Password: redisCfg.Password, DB: redisCfg.DB})
	defer client.Close()

	cfg := dateextractor.Config{
		MaxProcessors: *processors,
		MaxThreads:    *threads,
		MaxTimeout:    time.Duration(*timeout) * time.Minute,
		SavedPath:     *savedPath,
	}
	deps := dateextractor.Deps{
		Dates:  workset.NewRedisSet(client, "pool_date_extractor"),
		Logger: logger,
	}

	if err := dateextractor.Run(context.Background(), cfg, deps); err != nil {
		logger.Error().Err(err).Msg("date extractor exited with error")
		os.Exit(1)
	}
}
