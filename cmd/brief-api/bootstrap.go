package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/VesselBrief/config"
	briefingapi "github.com/BearBump/VesselBrief/internal/api/briefing_api"
	"github.com/BearBump/VesselBrief/internal/auth"
	"github.com/BearBump/VesselBrief/internal/broker/kafka"
	"github.com/BearBump/VesselBrief/internal/cache/rediscache"
	"github.com/BearBump/VesselBrief/internal/integrations/activity/gfw"
	"github.com/BearBump/VesselBrief/internal/integrations/position/myshiptracking"
	"github.com/BearBump/VesselBrief/internal/integrations/textgen/openai"
	"github.com/BearBump/VesselBrief/internal/integrations/weather/weatherapi"
	"github.com/BearBump/VesselBrief/internal/logging"
	"github.com/BearBump/VesselBrief/internal/services/accounts"
	"github.com/BearBump/VesselBrief/internal/services/audit"
	"github.com/BearBump/VesselBrief/internal/services/briefing"
	"github.com/BearBump/VesselBrief/internal/storage/pgstore"
)

type briefAPIApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    briefAPIOpts
	handler *briefingapi.API
	closers []func()
}

func mustBootstrapBriefAPI() *briefAPIApp {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	logging.Setup(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	app := &briefAPIApp{opts: briefAPIOpts{httpAddr: cfg.HTTP.Addr}}

	dsn := cfg.Database.DSN()
	if dsn == "" {
		panic("database is not configured (DATABASE_URL or database.host)")
	}
	st := mustOpenPostgresWithRetry(dsn, 60*time.Second)
	app.closers = append(app.closers, st.Close)

	deps := briefingapi.Deps{
		Accounts: accounts.New(st, cfg.Session.BcryptCost),
		Ready:    []briefingapi.Pinger{st},
	}

	var rc *rediscache.RedisCache
	if cfg.Redis.Addr != "" {
		rc = rediscache.New(cfg.Redis.Addr)
		app.closers = append(app.closers, func() { _ = rc.Close() })
		deps.Limiter = rediscache.NewRateLimiter(cfg.Redis.Addr)
		deps.Ready = append(deps.Ready, rc)
	} else {
		slog.Warn("redis is not configured: sessions cannot be revoked, quota and port weather cache are off")
	}

	secret := cfg.Session.Secret
	if secret == "" {
		panic("SESSION_SECRET is required")
	}
	sessions, err := newSessions(secret, cfg, rc)
	if err != nil {
		panic(fmt.Sprintf("sessions: %v", err))
	}
	deps.Sessions = sessions

	reports, ports := newPipeline(cfg, rc)
	deps.Reports = reports
	deps.Ports = ports

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		app.closers = append(app.closers, func() { _ = producer.Close() })
		deps.Audit = audit.NewPublisher(producer, cfg.Kafka.ReportTopic)
	} else {
		slog.Warn("kafka is not configured: report audit is off")
	}

	app.handler = briefingapi.New(deps, briefingapi.Options{
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		ReportPerMinute: cfg.Report.PerMinuteLimit,
		AuthPerMinute:   cfg.Report.AuthPerMinuteLimit,
		SwaggerPath:     os.Getenv("swaggerPath"),
	})

	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return app
}

// newSessions keeps a nil *RedisCache from turning into a non-nil interface.
func newSessions(secret string, cfg *config.Config, rc *rediscache.RedisCache) (*auth.Sessions, error) {
	if rc == nil {
		return auth.NewSessions(secret, cfg.Session.TTL(), cfg.HTTP.SecureCookies, nil)
	}
	return auth.NewSessions(secret, cfg.Session.TTL(), cfg.HTTP.SecureCookies, rc)
}

func newPipeline(cfg *config.Config, rc *rediscache.RedisCache) (*briefing.Orchestrator, *briefing.PortWeatherService) {
	p := cfg.Providers
	position := myshiptracking.New(p.MyShipTracking.BaseURL, p.MyShipTracking.APIKey, p.MyShipTracking.Timeout())
	weather := weatherapi.New(p.WeatherAPI.BaseURL, p.WeatherAPI.APIKey, p.WeatherAPI.Timeout())
	activity := gfw.New(p.GFW.BaseURL, p.GFW.APIKey, p.GFW.Timeout())
	textgen := openai.New(p.OpenAI.BaseURL, p.OpenAI.APIKey, p.OpenAI.Timeout(), openai.Options{
		Model:       p.OpenAI.Model,
		Temperature: p.OpenAI.Temperature,
		MaxTokens:   p.OpenAI.MaxTokens,
	})

	orch := briefing.NewOrchestrator(position, weather, activity, briefing.NewSynthesizer(textgen))

	var ports *briefing.PortWeatherService
	if rc != nil {
		ports = briefing.NewPortWeatherService(weather, briefing.DefaultPorts, rc, cfg.Report.PortWeatherCacheTTL())
	} else {
		ports = briefing.NewPortWeatherService(weather, briefing.DefaultPorts, nil, 0)
	}
	return orch, ports
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgstore.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		st, err := pgstore.New(ctx, connString)
		cancel()
		if err == nil {
			return st
		}
		lastErr = err
		slog.Warn("postgres not ready, retrying", "error", err)
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *briefAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *briefAPIApp) Run() error {
	return runBriefAPI(a.ctx, a.opts, a.handler.Routes())
}
