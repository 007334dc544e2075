package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hbnb/docs"
	"hbnb/internal/auth"
	"hbnb/internal/config"
	handlers "hbnb/internal/http/handler"
	"hbnb/internal/http/middleware"
	"hbnb/internal/logger"
	"hbnb/internal/otel"
	"hbnb/internal/repository"
	"hbnb/internal/repository/file"
	"hbnb/internal/repository/selector"
	"hbnb/internal/service"
	"hbnb/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title HBnB API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	var archiver storage.Archiver
	if cfg.Archive.Enabled() {
		store, err := storage.NewMinIO(cfg.Archive)
		if err != nil {
			log.Fatal("failed to initialize snapshot archive", zap.Error(err))
		}
		archiver = storage.WithBreaker(store, 3, 30*time.Second, log)
	}

	repo, err := selector.Open(ctx, cfg, selector.Deps{Logger: log, Archiver: archiver})
	if err != nil {
		log.Fatal("failed to open repository", zap.Error(err))
	}

	issuer, err := auth.NewIssuer(jwtSecret(cfg.Auth.JWTSecret, log), cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("failed to configure token issuer", zap.Error(err))
	}

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(otelfiber.Middleware())
	app.Use(metrics.Handler())

	// The in-process backends are not safe for concurrent use; the watcher
	// takes the same lock when it reloads.
	var mu sync.Mutex
	if repository.ParseKind(cfg.Repository.Kind) != repository.KindDatabase {
		app.Use(middleware.Serialize(&mu))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, repo, service.New(repo), issuer)

	if fr, ok := repo.(*file.Repository); ok && cfg.Repository.Watch {
		go func() {
			if err := fr.Watch(ctx, &mu); err != nil {
				log.Error("document watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", zap.String("addr", addr), zap.String("repository", cfg.Repository.Kind))
	if err := app.Listen(addr); err != nil {
		log.Error("failed to start server", zap.Error(err))
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := repo.Close(); err != nil {
		log.Error("failed to close repository", zap.Error(err))
	}
	if err := shutdownTracing(sctx); err != nil {
		log.Error("failed to flush traces", zap.Error(err))
	}
	log.Info("server_stopped")
}

// jwtSecret falls back to a random per-process key; tokens then do not
// survive a restart.
func jwtSecret(configured string, log *zap.Logger) string {
	if configured != "" {
		return configured
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal("failed to generate signing key", zap.Error(err))
	}
	log.Warn("JWT_SECRET_KEY is not set, using an ephemeral signing key")
	return hex.EncodeToString(b)
}
