package server

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aulavid/aulavid/internal/auth"
	"github.com/aulavid/aulavid/internal/guard"
	"github.com/aulavid/aulavid/internal/httputil"
	"github.com/aulavid/aulavid/internal/pages"
	"github.com/aulavid/aulavid/internal/ratelimit"
	"github.com/aulavid/aulavid/internal/session"
	"github.com/aulavid/aulavid/internal/shell"
)

// RemoteAPI is everything the shell needs from the video API.
type RemoteAPI interface {
	pages.VideoAPI
	shell.Revoker
}

type Config struct {
	API            RemoteAPI
	SessionCodec   *session.Codec
	StaticFS       fs.FS
	BaseURL        string
	MediaOrigin    string
	MaxUploadBytes int64
	GuardTimeout   time.Duration
	// Registry receives the server's metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	Locator  CountryLocator
	// TrustProxy takes the client address from forwarding headers. Only set
	// it behind a reverse proxy that overwrites them.
	TrustProxy bool
}

type Server struct {
	router   chi.Router
	registry *prometheus.Registry
	guard    *guard.Guard
	pages    *pages.Handler
	revoker  shell.Revoker
	codec    *session.Codec
	secure   bool
	staticFS fs.FS
	limiter  *ratelimit.Limiter
	cancel   context.CancelFunc
}

func New(cfg Config) *Server {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := chi.NewRouter()
	s := &Server{
		router:   r,
		registry: registry,
		guard: guard.New(guard.Config{
			Timeout: cfg.GuardTimeout,
			Metrics: guard.NewMetrics(registry),
		}),
		pages:    pages.NewHandler(cfg.API, cfg.MaxUploadBytes),
		revoker:  cfg.API,
		codec:    cfg.SessionCodec,
		secure:   hasHTTPS(cfg.BaseURL),
		staticFS: cfg.StaticFS,
		cancel:   cancel,
	}
	s.limiter = ratelimit.NewLimiter(ctx, 0.5, 5).OnDenied(http.HandlerFunc(s.pages.TooManyAttempts))

	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:     cfg.BaseURL,
		MediaOrigin: cfg.MediaOrigin,
	}))
	r.Use(auth.Provider(session.CookieFactory(s.codec, s.secure)))
	r.Use(requestLogger(cfg.Locator))

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.cancel()
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/session", s.handleSession)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	if s.staticFS != nil {
		s.router.Handle("/static/*", newStaticFileServer(s.staticFS))
	}

	s.router.Get(s.guard.LoginPath(), s.pages.LoginPage)
	s.router.With(s.limiter.Middleware).Post(s.guard.LoginPath(), s.pages.Login)
	s.router.Post("/logout", shell.LogoutHandler(s.revoker, s.guard.LoginPath()))

	s.router.Group(func(r chi.Router) {
		r.Use(s.guard.Middleware)
		r.Get("/", s.pages.Dashboard)
		r.Get("/videos", s.pages.Videos)
		r.Get("/videos/{id}", s.pages.VideoDetail)
		r.Post("/videos/{id}/analyze", s.pages.Analyze)
		r.Post("/videos/{id}/reanalyze", s.pages.Reanalyze)
		r.Get("/upload", s.pages.UploadPage)
		r.Post("/upload", s.pages.Upload)
	})

	// Every other path is protected too.
	s.router.NotFound(s.guard.Middleware(http.HandlerFunc(s.pages.NotFound)).ServeHTTP)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sessionResponse struct {
	Authenticated bool `json:"authenticated"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	svc := auth.FromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: svc.IsAuthenticated()})
}
