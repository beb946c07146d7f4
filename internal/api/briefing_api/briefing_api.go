package briefing_api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/BearBump/VesselBrief/internal/auth"
	"github.com/BearBump/VesselBrief/internal/cache"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/BearBump/VesselBrief/internal/services/accounts"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type ReportBuilder interface {
	BuildReport(ctx context.Context, imo, displayName string) models.Report
}

type PortWeather interface {
	ForCountry(ctx context.Context, country string) ([]models.PortWeather, error)
}

type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, in accounts.LoginInput) (*models.Account, error)
}

type AuditPublisher interface {
	ReportGenerated(ctx context.Context, imo string, accountID *uint64, requestID string, rep models.Report)
}

// Pinger is used by /readyz. Nil dependencies are skipped.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Reports  ReportBuilder
	Ports    PortWeather
	Accounts AccountService
	Sessions *auth.Sessions
	Audit    AuditPublisher
	// Limiter backs the per-caller report quota. Nil disables it.
	Limiter cache.RateLimiter
	Ready   []Pinger
}

type Options struct {
	CORSOrigins     []string
	ReportPerMinute int
	AuthPerMinute   int
	SwaggerPath     string
	RequestTimeout  time.Duration
}

type API struct {
	deps Deps
	opts Options
	now  func() time.Time
}

func New(deps Deps, opts Options) *API {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 90 * time.Second
	}
	return &API{deps: deps, opts: opts, now: time.Now}
}

func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", a.readyz)
	r.Handle("/metrics", promhttp.Handler())

	if a.opts.SwaggerPath != "" {
		r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFile(w, r, a.opts.SwaggerPath)
		})
		swaggerURL := "/swagger.json"
		if fi, err := os.Stat(a.opts.SwaggerPath); err == nil {
			swaggerURL = "/swagger.json?v=" + fi.ModTime().UTC().Format("20060102150405")
		}
		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(chimiddleware.Timeout(a.opts.RequestTimeout)).Post("/generar-informe", a.generateReport)
		r.Get("/clima/{pais}", a.portWeather)

		r.Group(func(r chi.Router) {
			if a.opts.AuthPerMinute > 0 {
				r.Use(httprate.Limit(a.opts.AuthPerMinute, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						writeJSON(w, http.StatusTooManyRequests, messageBody{Message: msgTooManyRequests})
					}),
				))
			}
			r.Post("/register", a.register)
			r.Post("/login", a.login)
		})
		r.Post("/logout", a.logout)
		r.Get("/session", a.session)
	})

	return r
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	for _, p := range a.deps.Ready {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
