// Flow Config API
//
// Web-managed configuration store for Amazon Connect contact flows.
// Serves the editor UI API and the runtime lookup endpoint flows call.
//
//	@title			Flow Config API
//	@version		1.0
//	@description	Configuration store for contact flow prompts, variables and settings.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Cognito JWT. Format: "Bearer {token}"
//
//	@securityDefinitions.apikey	RuntimeKeyAuth
//	@in							header
//	@name						Authorization
//	@description				Shared runtime key. Format: "Bearer {key}"

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/CXBuilder/flow-config/docs" // Swagger docs

	"github.com/CXBuilder/flow-config/internal/common/alert"
	"github.com/CXBuilder/flow-config/internal/common/health"
	"github.com/CXBuilder/flow-config/internal/common/lifecycle"
	"github.com/CXBuilder/flow-config/internal/common/metrics"
	commonmongo "github.com/CXBuilder/flow-config/internal/common/mongo"
	"github.com/CXBuilder/flow-config/internal/common/secrets"
	"github.com/CXBuilder/flow-config/internal/platform/access"
	"github.com/CXBuilder/flow-config/internal/platform/api"
	"github.com/CXBuilder/flow-config/internal/platform/auth"
	"github.com/CXBuilder/flow-config/internal/platform/speech"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	setupLogging()

	slog.Info("Starting Flow Config API",
		"version", version,
		"build_time", buildTime)

	ctx := context.Background()

	// ========================================
	// 1. INFRASTRUCTURE INITIALIZATION
	// ========================================
	app, cleanup, err := lifecycle.Initialize(ctx, lifecycle.AppOptions{
		NeedsMongoDB: true,
	})
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	cfg := app.Config

	// Resolve secret-backed settings before anything uses them
	resolveSecrets(ctx, app)

	// Collection indexes
	indexInit := commonmongo.NewIndexInitializer(app.MongoClient)
	if err := indexInit.Initialize(ctx); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// ========================================
	// 2. COMPONENT WIRING
	// ========================================

	// AWS clients
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		slog.Error("Failed to load AWS config", "error", err)
		os.Exit(1)
	}
	synthesizer := speech.NewPollySynthesizer(polly.NewFromConfig(awsCfg))

	var notifier alert.Notifier = alert.NopNotifier{}
	if cfg.AWS.AlertTopicARN != "" {
		notifier = alert.NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.AWS.AlertTopicARN)
		slog.Info("Alert notifications enabled", "topic", cfg.AWS.AlertTopicARN)
	}

	// Health checker
	healthChecker := health.NewChecker()
	healthChecker.AddReadinessCheck(health.MongoDBCheck(func() error {
		return app.MongoClient.Ping(ctx)
	}))

	// Token verification
	verifier := auth.NewVerifier(cfg.Auth.Issuer, cfg.Auth.ClientID, cfg.DevMode)
	groups := access.Groups{
		Admin: cfg.Auth.AdminGroup,
		Edit:  cfg.Auth.EditGroup,
		Read:  cfg.Auth.ReadGroup,
	}
	authMiddleware := api.NewAuthMiddleware(verifier, groups)

	// API handlers
	apiHandlers := api.NewHandlers(app.DB, cfg, synthesizer)

	// HTTP Router
	httpRouter := setupHTTPRouter(app, healthChecker, apiHandlers, authMiddleware, notifier)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ========================================
	// 3. RUN UNTIL SHUTDOWN
	// ========================================
	httpService := lifecycle.NewHTTPService("flow-config-api", httpServer)

	slog.Info("Flow Config API ready", "port", cfg.HTTP.Port)

	if err := lifecycle.Run(ctx, httpService); err != nil {
		slog.Error("Service error", "error", err)
		os.Exit(1)
	}

	slog.Info("Flow Config API stopped")
}

// setupLogging configures the slog default logger.
func setupLogging() {
	logLevel := slog.LevelInfo
	if os.Getenv("FLOWCONFIG_DEV") == "true" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// resolveSecrets overlays secret-backed values onto the loaded configuration.
// Values set directly via environment or config file win; the secrets provider
// only fills what is missing.
func resolveSecrets(ctx context.Context, app *lifecycle.App) {
	provider, err := secrets.NewProvider(nil)
	if err != nil {
		slog.Warn("Secrets provider unavailable", "error", err)
		return
	}

	if app.Config.Runtime.APIKey == "" {
		key, err := provider.Get(ctx, "runtime-api-key")
		switch {
		case err == nil:
			app.Config.Runtime.APIKey = key
			slog.Info("Runtime API key loaded from secrets", "provider", provider.Name())
		case !errors.Is(err, secrets.ErrSecretNotFound):
			slog.Warn("Failed to read runtime API key secret", "error", err)
		}
	}
}

// setupHTTPRouter creates the HTTP router with all routes and middleware.
func setupHTTPRouter(
	app *lifecycle.App,
	healthChecker *health.Checker,
	apiHandlers *api.Handlers,
	authMiddleware *api.AuthMiddleware,
	notifier alert.Notifier,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(metrics.HTTPMiddleware)
	r.Use(api.Recoverer(notifier))
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.Config.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/q/health", healthChecker.HandleHealth)
	r.Get("/q/health/live", healthChecker.HandleLive)
	r.Get("/q/health/ready", healthChecker.HandleReady)

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/q/metrics", promhttp.Handler())

	mountAPIRoutes(r, app, apiHandlers, authMiddleware)

	return r
}

// mountAPIRoutes mounts the editor API and the runtime lookup endpoint.
func mountAPIRoutes(r chi.Router, app *lifecycle.App, apiHandlers *api.Handlers, authMiddleware *api.AuthMiddleware) {
	// Bootstrap metadata for the editor UI, served before login
	r.Get("/api/init", apiHandlers.Init)

	// Editor API, Cognito JWT required
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Route("/flow-configs", func(r chi.Router) {
			r.Get("/", apiHandlers.ListFlowConfigs)
			r.Post("/preview", apiHandlers.PreviewFlowConfig)
			r.Get("/{id}", apiHandlers.GetFlowConfig)
			r.Post("/{id}", apiHandlers.SaveFlowConfig)
			r.Delete("/{id}", apiHandlers.DeleteFlowConfig)
			r.Get("/{id}/audit", apiHandlers.FlowConfigAudit)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", apiHandlers.GetSettings)
			r.Post("/", apiHandlers.UpdateSettings)
		})

		r.Post("/preview-speech", apiHandlers.PreviewSpeech)
	})

	// Runtime API, shared key required. Contact flows hit this path.
	r.Route("/runtime", func(r chi.Router) {
		r.Use(api.RequireRuntimeKey(app.Config.Runtime.APIKey))

		r.Get("/get-config", apiHandlers.RuntimeGetConfig)
	})
}
