package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"car_catalog/internal/captcha"
	"car_catalog/internal/config"
	"car_catalog/internal/handler"
	"car_catalog/internal/logger"
	"car_catalog/internal/metrics"
	"car_catalog/internal/middleware"
	"car_catalog/internal/news"
	"car_catalog/internal/repository"
	"car_catalog/internal/service"
	"car_catalog/internal/storage"
	"car_catalog/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	appLog := logger.New(cfg.LogLevel)

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, appLog.Logger)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		appLog.Fatal("failed to migrate database", "error", err)
	}

	// --- Image Storage ---
	store, err := newImageStore(ctx, cfg)
	if err != nil {
		appLog.Fatal("failed to initialize image storage", "backend", cfg.Storage.Backend, "error", err)
	}
	uploader := storage.NewUploader(store, cfg.Storage.MaxSize)
	appLog.Info("image storage ready", "backend", cfg.Storage.Backend)

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)
	verifier := captcha.NewRecaptcha(cfg.Recaptcha.SecretKey, cfg.Recaptcha.VerifyURL, cfg.Recaptcha.Timeout)
	metricsSvc := metrics.New(cfg.MetricsEnabled)
	aggregator := news.NewAggregator(news.NewHTTPFetcher(cfg.News.FetchTimeout), appLog.Logger, news.Options{
		Feeds:        cfg.News.Feeds,
		SearchURL:    cfg.News.SearchURL,
		ItemsPerFeed: cfg.News.ItemsPerFeed,
		CacheTTL:     cfg.News.CacheTTL,
	})

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	carRepo := repository.NewCarRepository(dbPool)
	opinionRepo := repository.NewOpinionRepository(dbPool)
	announcementRepo := repository.NewAnnouncementRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, verifier, jwtUtil, cfg.DB.QueryTimeout, appLog.Logger)
	userService := service.NewUserService(userRepo, appLog.Logger)
	moderationService := service.NewModerationService(userRepo, opinionRepo, appLog.Logger)
	carService := service.NewCarService(carRepo, uploader, appLog.Logger)
	opinionService := service.NewOpinionService(opinionRepo, uploader, appLog.Logger)
	announcementService := service.NewAnnouncementService(announcementRepo, uploader, appLog.Logger)

	// --- Setup Gin Router ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(appLog.Logger), middleware.CORS(cfg.Server.CORSOrigin))
	if metricsSvc.Enabled() {
		router.Use(metricsSvc.GinMiddleware())
	}

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()
	editorRoleMW := middleware.EditorMiddleware()

	// --- Register Routes ---
	handler.NewAuthHandler(authService, metricsSvc, appLog.Logger).RegisterAuthRoutes(router, jwtAuthMW, adminRoleMW)
	handler.NewUserHandler(userService, appLog.Logger).RegisterUserRoutes(router, jwtAuthMW, adminRoleMW)
	handler.NewEditorHandler(moderationService, appLog.Logger).RegisterEditorRoutes(router, jwtAuthMW, editorRoleMW)
	handler.NewCarHandler(carService, appLog.Logger).RegisterCarRoutes(router, jwtAuthMW, editorRoleMW)
	handler.NewOpinionHandler(opinionService, appLog.Logger).RegisterOpinionRoutes(router, jwtAuthMW, editorRoleMW)
	handler.NewAnnouncementHandler(announcementService, appLog.Logger).RegisterAnnouncementRoutes(router, jwtAuthMW, editorRoleMW)
	handler.NewNewsHandler(aggregator, appLog.Logger).RegisterNewsRoutes(router)
	handler.NewUploadHandler(store, appLog.Logger).RegisterUploadRoutes(router)

	router.GET("/health", healthHandler(dbPool))
	router.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	// --- Start Servers ---
	servers := []*http.Server{{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	tlsEnabled := fileExists(cfg.Server.CertFile) && fileExists(cfg.Server.KeyFile)
	if tlsEnabled {
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.Server.HTTPSPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		})
	} else {
		appLog.Warn("TLS certificates not found, serving HTTP only",
			"cert", cfg.Server.CertFile, "key", cfg.Server.KeyFile)
	}

	var wg sync.WaitGroup
	for i, srv := range servers {
		wg.Add(1)
		go func(srv *http.Server, useTLS bool) {
			defer wg.Done()
			appLog.Info("server starting", "addr", srv.Addr, "tls", useTLS)
			var err error
			if useTLS {
				err = srv.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			} else {
				err = srv.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLog.Error("server failed", "addr", srv.Addr, "error", err)
				stop()
			}
		}(srv, i > 0)
	}

	// --- Graceful Shutdown ---
	<-ctx.Done()
	appLog.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLog.Error("server forced to shutdown", "addr", srv.Addr, "error", err)
		}
	}
	wg.Wait()
	appLog.Info("server exiting")
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	if cfg.Storage.Backend == "minio" {
		return storage.NewMinioStore(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.UseSSL)
	}
	return storage.NewLocalStore(cfg.Storage.UploadsDir)
}

func healthHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
