package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/auth"
	"github.com/libraryhub/libraryhub/internal/config"
	"github.com/libraryhub/libraryhub/internal/database"
	"github.com/libraryhub/libraryhub/internal/database/books"
	"github.com/libraryhub/libraryhub/internal/database/bookshelves"
	"github.com/libraryhub/libraryhub/internal/database/favorites"
	"github.com/libraryhub/libraryhub/internal/database/readinglist"
	"github.com/libraryhub/libraryhub/internal/database/reviews"
	"github.com/libraryhub/libraryhub/internal/database/tokens"
	"github.com/libraryhub/libraryhub/internal/database/users"
	http_controllers "github.com/libraryhub/libraryhub/internal/http"
	"github.com/libraryhub/libraryhub/internal/metadata"
	"github.com/libraryhub/libraryhub/internal/openlibrary"
	"github.com/libraryhub/libraryhub/internal/scheduler"
	"github.com/libraryhub/libraryhub/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until interrupted, then shuts down gracefully.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires up all dependencies and starts the service.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting LibraryHub v%s", version)

	// Tokens signed with a generated secret won't survive restarts
	if cfg.Auth.JWTSecret == "" {
		secret, err := auth.GenerateJWTSecret()
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		cfg.Auth.JWTSecret = secret
		log.Printf("WARNING: AUTH_JWT_SECRET is not set; generated an ephemeral secret. " +
			"Issued tokens will be invalidated on restart.")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	favoriteRepo := favorites.NewRepository(db.DB)
	shelfRepo := bookshelves.NewRepository(db.DB)
	readingRepo := readinglist.NewRepository(db.DB)
	tokenRepo := tokens.NewRepository(db.DB)

	// Catalog client and local book cache
	catalog := openlibrary.NewClient(cfg.OpenLibrary)
	enricher := metadata.NewEnricher(catalog, bookRepo)

	// Authentication
	authService := auth.NewService(userRepo, tokenRepo, cfg.Auth)
	authMiddleware := auth.NewMiddleware(authService)

	// Task queue
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefreshBookQueue(enricher),
			tasks.NewRefreshStaleBooksQueue(bookRepo, taskClient),
			tasks.NewCleanupRefreshTokensQueue(tokenRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Maintenance scheduler
	var maintenance *scheduler.MaintenanceScheduler
	if taskClient != nil && cfg.Maintenance.Enabled {
		maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance)
		if err := maintenance.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start maintenance scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		Users:          userRepo,
		Books:          bookRepo,
		Reviews:        reviewRepo,
		Bookshelves:    shelfRepo,
		ReadingList:    readingRepo,
		FavoritesStore: favoriteRepo,
		Catalog:        catalog,
		Enricher:       enricher,
		TaskClient:     taskClient,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
