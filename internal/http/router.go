package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/bakery-api/docs"
	"github.com/rogerio-castellano/bakery-api/internal/http/ban"
	"github.com/rogerio-castellano/bakery-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/bakery-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/bakery-api/internal/metrics"
)

type routerOptions struct {
	logger  zerolog.Logger
	limiter *rl.Limiter
	tracker *ban.Tracker
}

type Option func(*routerOptions)

func WithLogger(l zerolog.Logger) Option {
	return func(o *routerOptions) { o.logger = l }
}

// WithRateLimiter throttles every request per client IP. tracker may be nil,
// in which case throttled clients are never banned.
func WithRateLimiter(limiter *rl.Limiter, tracker *ban.Tracker) Option {
	return func(o *routerOptions) {
		o.limiter = limiter
		o.tracker = tracker
	}
}

func NewRouter(opts ...Option) http.Handler {
	o := routerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(o.logger))
	r.Use(RequestID)
	r.Use(AccessLog())
	r.Use(Recoverer)
	r.Use(metrics.Middleware)
	if o.limiter != nil {
		r.Use(RateLimit(o.limiter, o.tracker))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/", handlers.HomeHandler)

	r.Get("/bakeries", handlers.GetBakeriesHandler)
	r.Get("/bakeries/{id:[0-9]+}", handlers.GetBakeryByIDHandler)
	r.Patch("/bakeries/{id:[0-9]+}", handlers.UpdateBakeryHandler)

	r.Get("/baked_goods", handlers.GetBakedGoodsHandler)
	r.Post("/baked_goods", handlers.CreateBakedGoodHandler)
	r.Get("/baked_goods/by_price", handlers.GetBakedGoodsByPriceHandler)
	r.Get("/baked_goods/most_expensive", handlers.GetMostExpensiveBakedGoodHandler)
	r.Post("/baked_goods/import", handlers.ImportBakedGoodsHandler)
	r.Get("/baked_goods/{id:[0-9]+}", handlers.GetBakedGoodByIDHandler)
	r.Delete("/baked_goods/{id:[0-9]+}", handlers.DeleteBakedGoodHandler)

	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: message}); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to write error response")
	}
}
