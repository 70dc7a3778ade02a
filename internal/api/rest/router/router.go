package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/dtroode/blog-server/internal/api/rest/handler"
	"github.com/dtroode/blog-server/internal/api/rest/middleware"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/service"
)

// Config holds HTTP surface options.
type Config struct {
	CORSOrigin      string
	LegacyBasicAuth bool
	LoginRate       rate.Limit
	LoginBurst      int
	// OAuthSuccessRedirect receives the token after Google sign-in when set.
	OAuthSuccessRedirect string
	// SecureCookies marks the OAuth flow cookies Secure.
	SecureCookies bool
}

// Dependencies are the services and infrastructure the routes call into.
type Dependencies struct {
	AuthService    *service.Auth
	AuthorService  *service.Author
	PostService    *service.Post
	OAuthProvider  handler.OAuthProvider // nil disables Google sign-in
	Pinger         handler.Pinger
	Metrics        *metrics.Collector
	Gatherer       prometheus.Gatherer
	ContextManager model.ContextManager
	Logger         *logger.Logger
}

// Router builds the REST API.
type Router struct {
	deps    Dependencies
	config  Config
	limiter *middleware.RateLimiter
}

// New creates new REST Router instance.
func New(deps Dependencies, config Config) *Router {
	return &Router{
		deps:   deps,
		config: config,
		limiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.LoginRate,
			Burst: config.LoginBurst,
		}, deps.Logger.With("component", "login_limiter")),
	}
}

// Stop releases background resources held by the middleware.
func (r *Router) Stop() {
	r.limiter.Stop()
}

// Register wires middleware and routes and returns the root handler.
func (r *Router) Register() http.Handler {
	d := r.deps

	bearer := middleware.NewAuthenticate(middleware.NewBearer(d.AuthService), d.ContextManager, d.Metrics, d.Logger)
	adminOnly := middleware.NewRequireRole(model.RoleAdmin, d.ContextManager, d.Metrics, d.Logger)

	authHandler := handler.NewAuth(d.AuthService, d.Metrics, d.Logger)
	authorHandler := handler.NewAuthor(d.AuthorService, d.ContextManager, d.Logger)
	postHandler := handler.NewPost(d.PostService, d.Logger)

	mux := chi.NewRouter()
	mux.Use(
		middleware.NewRecovery(d.Logger).Handle,
		chimw.RequestID,
		middleware.NewLogging(d.Logger).Handle,
		middleware.NewCORS(r.config.CORSOrigin),
		middleware.NewMetrics(d.Metrics).Handle,
	)
	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, d.Logger, model.ErrNotFound)
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.ErrorBody{Error: "method not allowed", Code: "method_not_allowed"})
	})

	mux.Get("/health", handler.NewHealth(d.Pinger, d.Logger).Check)
	mux.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))

	mux.Route("/authors", func(ar chi.Router) {
		ar.Post("/register", authHandler.Register)
		ar.With(r.limiter.Handle).Post("/login", authHandler.Login)
		ar.Post("/", authorHandler.Create)

		if d.OAuthProvider != nil {
			oauthHandler := handler.NewOAuth(d.OAuthProvider, d.AuthService, d.Metrics,
				r.config.OAuthSuccessRedirect, r.config.SecureCookies, d.Logger)
			ar.Get("/auth/google", oauthHandler.Start)
			ar.Get("/auth/google/callback", oauthHandler.Callback)
		}

		ar.Group(func(pr chi.Router) {
			pr.Use(bearer.Handle)

			pr.Get("/me", authorHandler.Me)
			pr.Put("/me", authorHandler.UpdateMe)
			pr.Delete("/me", authorHandler.DeleteMe)
			pr.Get("/{id}", authorHandler.Get)
			pr.Post("/{id}/avatar", authorHandler.UploadAvatar)
			pr.Post("/{id}/uploadAvatar", authorHandler.UploadAvatar)

			pr.Group(func(admin chi.Router) {
				admin.Use(adminOnly.Handle)

				admin.Get("/", authorHandler.List)
				admin.Put("/{id}", authorHandler.UpdateByID)
				admin.Delete("/{id}", authorHandler.DeleteByID)
			})
		})
	})

	if r.config.LegacyBasicAuth {
		basic := middleware.NewAuthenticate(middleware.NewBasic(d.AuthService), d.ContextManager, d.Metrics, d.Logger)
		mux.With(basic.Handle).Get("/legacy/authors/me", authorHandler.Me)
	}

	mux.Route("/blogPosts", func(br chi.Router) {
		br.Post("/", postHandler.Create)
		br.Get("/", postHandler.List)
		br.Get("/{id}", postHandler.Get)
	})

	return mux
}
