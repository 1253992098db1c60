package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/plataa/platform/pkg/common/config"
	"github.com/plataa/platform/pkg/common/database"
	"github.com/plataa/platform/pkg/common/kafka"
	"github.com/plataa/platform/pkg/common/logger"
	"github.com/plataa/platform/pkg/contact"
	"github.com/plataa/platform/pkg/gateway/auth"
	"github.com/plataa/platform/pkg/gateway/middleware"
	"github.com/plataa/platform/pkg/identity"
	"github.com/plataa/platform/pkg/observability/metrics"
	"github.com/plataa/platform/pkg/platform"
	"github.com/plataa/platform/pkg/screening"
	"github.com/plataa/platform/pkg/screening/instrument"
)

const eventTopic = "plataa-events"

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	registry, err := instrument.Load(cfg.InstrumentCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load instrument catalog")
	}

	advisor, err := screening.LoadAdvisor(cfg.OrientationCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load orientation catalog")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	identityRepo := identity.NewRepository(db)
	screeningRepo := screening.NewRepository(db)
	contactRepo := contact.NewRepository(db)
	for name, migrate := range map[string]func() error{
		"identity":  identityRepo.AutoMigrate,
		"screening": screeningRepo.AutoMigrate,
		"contact":   contactRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).WithField("tables", name).Fatal("failed to migrate tables")
		}
	}

	producer := kafka.NewProducer(eventTopic)
	defer producer.Close()

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid jwt configuration")
	}

	identityService := identity.NewService(identityRepo)
	screeningService := screening.NewService(screeningRepo, screening.NewEngine(registry), advisor, producer)
	contactService := contact.NewService(contactRepo, producer)
	platformService := platform.NewService(platform.NewRepository(db), database.GetRedis(), cfg.StatsCacheTTL)

	identityHandler := identity.NewHandler(identityService, tokens)
	screeningHandler := screening.NewHandler(screeningService)
	contactHandler := contact.NewHandler(contactService)
	platformHandler := platform.NewHandler(platformService)

	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	identityHandler.RegisterPublic(router.PathPrefix("/api/v1/auth").Subrouter())
	platformHandler.Register(router.PathPrefix("/api/v1/platform").Subrouter())
	screeningHandler.RegisterPublic(router.PathPrefix("/api/v1/tests").Subrouter())

	// Contact intake is public but attributes the message when a valid
	// token happens to be present.
	intake := router.PathPrefix("/api/v1").Subrouter()
	intake.Use(middleware.AuthenticateOptional(tokens))
	contactHandler.RegisterPublic(intake)

	account := router.PathPrefix("/api/v1/auth").Subrouter()
	account.Use(middleware.Authenticate(tokens))
	identityHandler.RegisterProtected(account)

	protected := router.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Authenticate(tokens))
	contactHandler.RegisterProtected(protected)

	tests := router.PathPrefix("/api/v1/tests").Subrouter()
	tests.Use(middleware.Authenticate(tokens))
	screeningHandler.Register(tests)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Screening service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start screening service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down screening service...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Screening service forced to shutdown")
	}
	logger.Log.Info("Screening service stopped")
}
