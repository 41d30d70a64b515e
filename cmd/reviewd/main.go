package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/media-review/pkg/validator"

	"github.com/johnquangdev/media-review/internal/adapter/handler"
	"github.com/johnquangdev/media-review/internal/adapter/presenter"
	"github.com/johnquangdev/media-review/internal/adapter/repository"
	"github.com/johnquangdev/media-review/internal/domain/repositories"
	"github.com/johnquangdev/media-review/internal/eventbus"
	"github.com/johnquangdev/media-review/internal/infrastructure/cache"
	"github.com/johnquangdev/media-review/internal/infrastructure/database"
	"github.com/johnquangdev/media-review/internal/infrastructure/external/reviewapi"
	httpmw "github.com/johnquangdev/media-review/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/media-review/internal/infrastructure/storage"
	"github.com/johnquangdev/media-review/internal/realtime"
	"github.com/johnquangdev/media-review/internal/usecase/assistant"
	"github.com/johnquangdev/media-review/internal/usecase/bridge"
	"github.com/johnquangdev/media-review/internal/usecase/comments"
	"github.com/johnquangdev/media-review/internal/usecase/identity"
	"github.com/johnquangdev/media-review/internal/usecase/timeline"
	"github.com/johnquangdev/media-review/pkg/config"
	"github.com/johnquangdev/media-review/pkg/jwt"
)

// @title           Media Review API
// @version         1.0
// @description     Review host for videos, storyboards, voiceovers and documents: asset identity, comment sync, viewer bridge and timeline correlation

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Review API token, sent as is or prefixed with "Bearer".
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	validator := pkgvalidator.New()
	e.Validator = validator

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/v1/timeline/position"
		},
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, httpmw.HeaderRequestID, "Cookie"},
		ExposeHeaders:    []string{httpmw.HeaderRequestID},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	reviewer := cfg.Reviewer.Username
	if reviewer == "" {
		reviewer = jwt.ReviewerFromToken(cfg.ReviewAPI.Token, cfg.Reviewer.Profile)
	}
	e.Use(httpmw.Session(reviewer, logger))
	log.Printf("👤 Reviewing as %s (profile %s)", reviewer, cfg.Reviewer.Profile)

	// Reviewer state store
	log.Printf("📦 Opening %s state store...", cfg.Store.Backend)
	store, closeStore, err := openStateStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	defer closeStore()

	// Review API
	log.Printf("🌐 Review API at %s", cfg.ReviewAPI.BaseURL)
	api := reviewapi.NewClient(cfg.ReviewAPI, logger)
	commentRepo := repository.NewCommentRepository(api)
	transcriptRepo := repository.NewTranscriptRepository(api)

	// Asset catalog
	catalog, bucket, err := openCatalog(cfg, api)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}

	// Event bus and realtime push
	log.Println("📡 Initializing event bus...")
	bus := eventbus.New(logger)
	hub := realtime.NewHub(logger)
	forwarder := realtime.NewForwarder(hub)
	forwarder.Attach(bus)

	// Use cases
	log.Println("⚙️  Initializing review components...")
	engine := comments.NewEngine(commentRepo, bus, validator, logger, comments.Options{
		PollInterval: cfg.Sync.PollInterval,
		QuietAfter:   cfg.Sync.QuietAfter,
		FetchTimeout: cfg.ReviewAPI.Timeout,
	})
	engine.Attach(bus)
	engine.OnPoll(func(s comments.LiveStatus) {
		logger.Debug("comments.poll", zap.Bool("live", s.Live), zap.Bool("quiet", s.Quiet), zap.Int("count", s.Count))
	})

	viewerBridge := bridge.New(forwarder, bus, logger, cfg.Media.ViewerPath)
	viewerBridge.Attach(bus)

	tracker := timeline.NewTracker(bus, logger, cfg.Sync.ProximityWindow, cfg.Sync.ScrollDelay)
	tracker.Attach(bus)

	captions := timeline.NewCaptions(transcriptRepo, bus, logger, cfg.Sync.CaptionRate)
	captions.Attach(bus, cfg.ReviewAPI.Timeout)

	resolver := identity.NewResolver(store, catalog, bus, logger, identity.Options{
		Profile:      cfg.Reviewer.Profile,
		MediaBaseURL: cfg.Media.BaseURL,
	})
	history := comments.NewHistory(commentRepo, logger)
	assistantService := assistant.NewService(api, api, validator, logger, cfg.Server.PublicOrigin)

	log.Println("🔁 Restoring last selection...")
	restoreCtx, cancelRestore := context.WithTimeout(ctx, cfg.ReviewAPI.Timeout)
	if asset, err := resolver.Restore(restoreCtx); err != nil {
		log.Printf("⚠️  Could not restore selection: %v", err)
	} else if !asset.IsZero() {
		log.Printf("✅ Restored %s", asset.ID)
	}
	cancelRestore()

	// Background loops stop when ctx is cancelled at shutdown
	workers, workerCtx := errgroup.WithContext(ctx)
	workers.Go(func() error {
		engine.Run(workerCtx)
		return nil
	})
	workers.Go(func() error {
		captions.Run(workerCtx, tracker.Position)
		return nil
	})

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	links := presenter.Links{
		PublicOrigin: cfg.Server.PublicOrigin,
		ExportURL:    api.ExportURL,
		ViewerURL:    viewerBridge.ViewerURL,
	}
	router := handler.NewRouter(cfg,
		handler.NewSessionHandler(resolver, links, bucket, logger),
		handler.NewCommentsHandler(engine, history, tracker, viewerBridge, logger),
		handler.NewViewerHandler(viewerBridge, logger),
		handler.NewTimelineHandler(tracker, captions, engine, logger),
		handler.NewAssistantHandler(assistantService, engine, logger),
		handler.NewEventsHandler(hub, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stop()
	workers.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	stats := bus.Stats()
	logger.Info("eventbus.stats",
		zap.Uint64("published", stats.Published),
		zap.Uint64("delivered", stats.Delivered),
		zap.Uint64("sse_dropped", hub.Dropped()),
	)
	log.Println("✅ Server stopped gracefully")
}

// openStateStore selects the durable reviewer state backend
func openStateStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.StateStore, func(), error) {
	switch cfg.Store.Backend {
	case "", "memory":
		store := cache.NewMemoryStore(0)
		return store, func() { store.Close() }, nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("✅ Redis connected at %s", cfg.GetRedisAddr())
		return store, func() { store.Close() }, nil
	case "postgres", "sqlite":
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		n, err := database.Migrate(db, cfg.Store.Backend)
		if err != nil {
			database.CloseDB(db)
			return nil, nil, err
		}
		log.Printf("🔄 Applied %d migration(s)", n)
		return repository.NewStateRepository(db), func() { database.CloseDB(db) }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// openCatalog selects where the asset list comes from. The bucket catalog
// also serves the storage inspection endpoint.
func openCatalog(cfg *config.Config, api *reviewapi.Client) (repositories.MediaCatalog, handler.BucketInspector, error) {
	switch cfg.Catalog.Source {
	case "", "api":
		log.Println("🗂️  Catalog from review API")
		return repository.NewAPICatalog(api), nil, nil
	case "bucket":
		minioCatalog, err := storage.NewMinIOCatalog(&cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("🗂️  Catalog from bucket %s", cfg.Storage.BucketName)
		return minioCatalog, minioCatalog, nil
	}
	return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
}
