package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"ChromaFM/spotify"
	"ChromaFM/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until SIGINT or
// SIGTERM.
func Start() {
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
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()
	logger.Info("connected to Redis")

	// The artwork mirror is optional; analysis works from URLs without it.
	var artworkStore *storage.ArtworkStore
	if cfg.MinioAccessKey != "" {
		store, err := storage.NewArtworkStore(cfg)
		if err != nil {
			logger.Warn("artwork store unavailable, continuing without mirror", logger.ErrorField(err))
		} else {
			artworkStore = store
		}
	}

	featureCache := cache.New(cache.NewRedisStore(db.RedisClient))
	fetcher := artwork.NewFetcher(artworkStore)

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
	partitioner := playlist.NewPartitioner(analyzer, cfg.MinPlaylistTracks)

	libraryRepo := repository.NewMySQLLibraryRepository(db.DB)
	spotifyClient := spotify.NewClient(cfg)

	handler := NewAPIHandler(libraryRepo, analyzer, partitioner, spotifyClient)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // batch analysis can be slow on a cold cache
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", logger.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", logger.ErrorField(err))
	}
}

// corsMiddleware allows the web UI to call the API from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
