package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	applog "salesdash/internal/log"
	"salesdash/internal/middleware/ratelimit"
	"salesdash/internal/middleware/security"
	"salesdash/internal/middleware/trace"
	"salesdash/internal/repo"
	"salesdash/internal/services"
	appweb "salesdash/web"
)

// Options configures the HTTP server.
type Options struct {
	Addr               string
	DefaultPerPage     int
	MaxPerPage         int
	CORSAllowedOrigins []string
	// SeedRateLimit is the number of /initialize calls allowed per client per minute.
	SeedRateLimit int
	// SeedTimeout bounds an inline seed. WriteTimeout is stretched to cover it.
	SeedTimeout time.Duration
	Logger      *applog.Logger
}

type Server struct {
	http.Server
	reports   *services.ReportService
	seeder    *services.SeedService
	store     repo.TransactionFinder
	templates *template.Template
	opts      Options

	logger          *applog.Logger
	detector        *security.Detector
	seedLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
// store is used for the readiness probe only.
func NewServer(opts Options, reports *services.ReportService, seeder *services.SeedService, store repo.TransactionFinder) *Server {
	if opts.DefaultPerPage <= 0 {
		opts.DefaultPerPage = 10
	}
	if opts.MaxPerPage < opts.DefaultPerPage {
		opts.MaxPerPage = opts.DefaultPerPage
	}
	if opts.SeedTimeout <= 0 {
		opts.SeedTimeout = defaultSeedTimeout
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.Config{Handler: slog.Default().Handler(), Component: applog.ComponentHTTP})
	}

	s := &Server{
		reports:     reports,
		seeder:      seeder,
		store:       store,
		opts:        opts,
		logger:      logger,
		detector:    security.NewDetector(),
		seedLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.SeedRateLimit}),
		startedAt:   time.Now(),
	}
	s.traceMiddleware = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
		t = nil
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(opts.SeedTimeout),
		IdleTimeout:       120 * time.Second,
	}
	return s
}

const (
	defaultSeedTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	// seedResponseMargin leaves time to write the response after a seed
	// that used its whole budget.
	seedResponseMargin = 10 * time.Second
)

func writeTimeout(seedTimeout time.Duration) time.Duration {
	return max(defaultWriteTimeout, seedTimeout+seedResponseMargin)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware.Middleware)
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", trace.RequestIDHeader},
		ExposedHeaders: []string{trace.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.Compress(5, "application/json", "text/html", "text/css"))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/", s.handleDashboard)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Get("/transactions", s.handleTransactions)
	r.Get("/statistics", s.handleStatistics)
	r.Get("/bar-chart", s.handleBarChart)
	r.Get("/pie-chart", s.handlePieChart)
	r.Get("/combined-statistics", s.handleCombinedStatistics)

	r.Group(func(r chi.Router) {
		r.Use(s.seedLimiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited))
		r.Get("/initialize", s.handleInitialize)
		r.Post("/initialize", s.handleInitialize)
	})

	return r
}

// Shutdown stops background helpers and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) stop() {
	s.shutdownOnce.Do(func() {
		s.seedLimiter.Stop()
	})
}
