package cmd

import (
	"log"

	"ChromaFM/cache"
	"ChromaFM/config"
	"ChromaFM/core/artwork"
	"ChromaFM/core/color"
	"ChromaFM/core/lyrics"
	"ChromaFM/core/objects"
	"ChromaFM/core/playlist"
	"ChromaFM/db"
	"ChromaFM/logger"
	"ChromaFM/repository"
)

// pipeline bundles the analysis stack for the CLI commands.
type pipeline struct {
	cfg         *config.Config
	repo        repository.LibraryRepository
	analyzer    *playlist.Analyzer
	partitioner *playlist.Partitioner
}

// buildPipeline wires config, storage and the analysis stack the same way
// the server does. The returned cleanup closes the connections.
func buildPipeline() (*pipeline, func()) {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.InitDB(); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.ConnectRedis(cfg); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}

	featureCache := cache.New(cache.NewRedisStore(db.RedisClient))
	fetcher := artwork.NewFetcher(nil)

	var detector objects.Detector
	if cfg.DetectorAPIURL != "" {
		detector = objects.NewHTTPDetector(cfg.DetectorAPIURL)
	}
	objectExtractor := objects.NewExtractor(detector, cfg.ObjectMinConfidence)

	var sentiment lyrics.SentimentProvider
	if cfg.SentimentAPIURL != "" {
		sentiment = lyrics.NewHTTPProvider(cfg.SentimentAPIURL)
	}

	analyzer := playlist.NewAnalyzer(featureCache, fetcher, color.NewExtractor(),
		objectExtractor, sentiment, cfg.AnalysisWorkers)

	p := &pipeline{
		cfg:         cfg,
		repo:        repository.NewMySQLLibraryRepository(db.DB),
		analyzer:    analyzer,
		partitioner: playlist.NewPartitioner(analyzer, cfg.MinPlaylistTracks),
	}
	cleanup := func() {
		db.CloseRedis()
		db.DB.Close()
	}
	return p, cleanup
}
