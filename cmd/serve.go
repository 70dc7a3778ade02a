package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	restctx "github.com/dtroode/blog-server/internal/api/rest/context"
	"github.com/dtroode/blog-server/internal/api/rest/handler"
	"github.com/dtroode/blog-server/internal/api/rest/router"
	restServer "github.com/dtroode/blog-server/internal/api/rest/server"
	"github.com/dtroode/blog-server/internal/config"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/oauth"
	"github.com/dtroode/blog-server/internal/password"
	"github.com/dtroode/blog-server/internal/repository/postgres"
	"github.com/dtroode/blog-server/internal/server"
	"github.com/dtroode/blog-server/internal/service"
	storage "github.com/dtroode/blog-server/internal/storage/minio"
	"github.com/dtroode/blog-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	hasher, err := password.NewHasher(cfg.Password.Cost, cfg.Password.MaxConcurrent)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}
	tokenManager, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		logger.Fatal("failed to initialize token manager", "error", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	authorRepo := postgres.NewAuthorRepository(db)
	postRepo := postgres.NewPostRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := router.Dependencies{
		AuthService:    service.NewAuth(authorRepo, hasher, tokenManager, logger),
		AuthorService:  service.NewAuthor(authorRepo, hasher, storageClient, logger),
		PostService:    service.NewPost(postRepo, logger),
		Pinger:         db,
		Metrics:        metrics.NewCollector(registry),
		Gatherer:       registry,
		ContextManager: restctx.NewManager(),
		OAuthProvider:  newGoogleProvider(ctx, cfg.Google, logger),
		Logger:         logger,
	}

	r := router.New(deps, router.Config{
		CORSOrigin:           cfg.HTTP.CORSOrigin,
		LegacyBasicAuth:      cfg.HTTP.LegacyBasicAuth,
		LoginRate:            rate.Limit(cfg.HTTP.LoginRate),
		LoginBurst:           cfg.HTTP.LoginBurst,
		OAuthSuccessRedirect: cfg.Google.SuccessRedirect,
		SecureCookies:        strings.HasPrefix(cfg.Google.RedirectURL, "https://"),
	})
	defer r.Stop()

	httpServer := restServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logger.Info("build info", "version", buildVersion, "date", buildDate, "commit", buildCommit)

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}

// newGoogleProvider returns nil when Google sign-in is not configured or the
// discovery document cannot be fetched. The rest of the API still starts.
func newGoogleProvider(ctx context.Context, cfg config.Google, logger *logger.Logger) handler.OAuthProvider {
	if !cfg.Enabled() {
		logger.Info("Google sign-in disabled")
		return nil
	}

	provider, err := oauth.NewGoogle(ctx, cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL)
	if err != nil {
		logger.Error("failed to initialize Google sign-in, continuing without it", "error", err)
		return nil
	}
	return provider
}
