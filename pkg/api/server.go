package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"suiworld-swap/pkg/metrics"
	"suiworld-swap/pkg/treasury"
	"suiworld-swap/pkg/wallet"
)

// Swapper quotes and executes pool swaps.
type Swapper interface {
	ComputeSwapQuote(ctx context.Context, pay, receive string, payAmount uint64) (wallet.SwapQuote, error)
	Execute(ctx context.Context, req wallet.SwapRequest) (wallet.SwapExecutionResult, error)
}

// Treasury reports balances and receiving addresses.
type Treasury interface {
	Summary(ctx context.Context) (treasury.Summary, error)
	Address(symbol string) (chain, address string, err error)
}

// Config captures the dependencies required to construct the server.
type Config struct {
	Swapper            Swapper
	Treasury           Treasury
	QuoteTTL           time.Duration
	DefaultSlippageBps uint64
	Logger             logrus.FieldLogger
}

// Server is the HTTP boundary of the wallet service.
type Server struct {
	swapper            Swapper
	treasury           Treasury
	quoteTTL           time.Duration
	defaultSlippageBps uint64
	logger             logrus.FieldLogger
	now                func() time.Time

	router http.Handler
}

// New constructs the router.
func New(cfg Config) *Server {
	if cfg.QuoteTTL <= 0 {
		cfg.QuoteTTL = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	s := &Server{
		swapper:            cfg.Swapper,
		treasury:           cfg.Treasury,
		quoteTTL:           cfg.QuoteTTL,
		defaultSlippageBps: cfg.DefaultSlippageBps,
		logger:             cfg.Logger.WithField("component", "api"),
		now:                time.Now,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the configured HTTP router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.instrument)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/wallet", func(api chi.Router) {
		api.Get("/summary", s.getSummary)
		api.Get("/address/{symbol}", s.getAddress)
		api.Post("/swap/quote", s.postQuote)
		api.Post("/swap/execute", s.postExecute)
	})
	return r
}

// instrument logs each request and counts it by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"route":      route,
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": chimw.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
