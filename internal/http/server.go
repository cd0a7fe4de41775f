package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wealthway/internal/core"
	"wealthway/internal/insights"
	"wealthway/internal/log"
	"wealthway/internal/middleware/ratelimit"
	"wealthway/internal/middleware/security"
	"wealthway/internal/middleware/trace"
	appweb "wealthway/web"
)

// TransactionStore is the authoritative transaction list.
type TransactionStore interface {
	Add(ctx context.Context, in core.NewTransaction) (core.Transaction, error)
	Delete(ctx context.Context, id string) (bool, error)
	List() []core.Transaction
	Month(year, month int) []core.Transaction
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	Get(ctx context.Context) (core.Theme, bool)
	Toggle(ctx context.Context, fallback core.Theme) (core.Theme, error)
}

// InsightTracker owns the per-month insight state.
type InsightTracker interface {
	Observe(ctx context.Context, m core.MonthPointer, txs []core.Transaction) bool
	Refresh(ctx context.Context, m core.MonthPointer, txs []core.Transaction, force bool) <-chan insights.State
	Current(m core.MonthPointer) insights.State
}

// Pinger reports whether the durable store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Addr               string
	DefaultTheme       core.Theme
	RateLimitPerMinute int

	Transactions TransactionStore
	Themes       ThemeStore
	Insights     InsightTracker
	// Storage is optional; /readyz pings it when set.
	Storage Pinger

	Renderer *Renderer
	Hub      *Hub
	Logger   *log.Logger

	// Now defaults to time.Now; tests pin the current month with it.
	Now func() time.Time
}

type Server struct {
	http.Server

	transactions TransactionStore
	themes       ThemeStore
	insights     InsightTracker
	storage      Pinger
	renderer     *Renderer
	hub          *Hub
	logger       *log.Logger

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	defaultTheme core.Theme
	now          func() time.Time
	started      time.Time
}

// NewServer wires the routes. Transactions, Themes and Insights are
// required.
func NewServer(opts Options) (*Server, error) {
	if opts.Transactions == nil || opts.Themes == nil || opts.Insights == nil {
		return nil, errors.New("http: transactions, themes and insights are required")
	}
	if opts.Logger == nil {
		opts.Logger = log.FromContext(context.Background())
	}
	if opts.Renderer == nil {
		r, err := NewRenderer()
		if err != nil {
			return nil, err
		}
		opts.Renderer = r
	}
	if opts.Hub == nil {
		opts.Hub = NewHub(opts.Renderer, opts.Logger)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if _, ok := core.ParseTheme(string(opts.DefaultTheme)); !ok {
		opts.DefaultTheme = core.Light
	}

	s := &Server{
		transactions: opts.Transactions,
		themes:       opts.Themes,
		insights:     opts.Insights,
		storage:      opts.Storage,
		renderer:     opts.Renderer,
		hub:          opts.Hub,
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:     security.NewDetector(),
		defaultTheme: opts.DefaultTheme,
		now:          opts.Now,
		started:      opts.Now(),
	}

	handler, err := s.routes()
	if err != nil {
		return nil, err
	}
	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() (http.Handler, error) {
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(s.logger))
	r.Use(trace.Middleware(s.detector.ClientIP))
	r.Use(log.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.detector.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.With(security.StaticAssets(86400)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Get("/ui/month", s.handleMonth)
	r.Get("/ui/insights", s.handleInsights)
	r.Get("/ws", s.handleWebsocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleAPITransactions)
		r.Get("/summary", s.handleAPISummary)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ClientIP, s.handleRateLimited))
		r.Post("/transactions", s.handleCreateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)
		r.Post("/transactions/{id}/delete", s.handleDeleteTransaction)
		r.Post("/theme/toggle", s.handleToggleTheme)
		r.Post("/insights/refresh", s.handleRefreshInsights)
	})

	return r, nil
}

// Limiter exposes the mutation rate limiter so its sweeper can be run.
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Shutdown closes websocket sessions, then drains HTTP connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server",
		log.FieldOperation, log.OpShutdown,
		"websocket_sessions", s.hub.Sessions())
	if err := s.hub.Close(); err != nil {
		s.logger.WarnContext(ctx, "Failed to close websocket hub", log.FieldError, err.Error())
	}
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please slow down.").Write(w)
}

func (s *Server) month(get func(string) string) core.MonthPointer {
	return ParseMonthParams(get, s.now())
}

// theme resolves the stored preference, then the browser's color scheme
// hint, then the configured default.
func (s *Server) theme(r *http.Request) core.Theme {
	if t, ok := s.themes.Get(r.Context()); ok {
		return t
	}
	return s.fallbackTheme(r)
}

func (s *Server) fallbackTheme(r *http.Request) core.Theme {
	if hint, ok := themeHint(r); ok {
		if t, ok := core.ParseTheme(hint); ok {
			return t
		}
	}
	return s.defaultTheme
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) ([]byte, bool) {
	html, err := s.renderer.Render(name, data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Template render failed",
			log.FieldOperation, log.OpRender,
			log.FieldError, err.Error())
		InternalServerError("Something went wrong while rendering the page.").Write(w)
		return nil, false
	}
	return html, true
}
