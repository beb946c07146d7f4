package briefing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/VesselBrief/internal/cache"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var ErrCountryNotFound = errors.New("country not found")

// DefaultPorts lists the monitored ports per country, in display order.
var DefaultPorts = map[string][]string{
	"peru":      {"Callao", "Paita", "Matarani"},
	"chile":     {"Valparaiso", "San Antonio"},
	"ecuador":   {"Guayaquil", "Manta"},
	"colombia":  {"Buenaventura", "Cartagena"},
	"argentina": {"Buenos Aires", "Bahia Blanca"},
	"brasil":    {"Santos", "Rio de Janeiro"},
}

type PortWeatherService struct {
	weather WeatherSource
	ports   map[string][]string
	cache   cache.BytesCache
	ttl     time.Duration
}

func NewPortWeatherService(w WeatherSource, ports map[string][]string, c cache.BytesCache, ttl time.Duration) *PortWeatherService {
	if ports == nil {
		ports = DefaultPorts
	}
	return &PortWeatherService{weather: w, ports: ports, cache: c, ttl: ttl}
}

// ForCountry returns current conditions for every port of country that has
// them. Ports without weather are left out.
func (s *PortWeatherService) ForCountry(ctx context.Context, country string) ([]models.PortWeather, error) {
	country = strings.ToLower(strings.TrimSpace(country))
	ports, ok := s.ports[country]
	if !ok || len(ports) == 0 {
		return nil, ErrCountryNotFound
	}

	if out, ok := s.fromCache(ctx, country); ok {
		return out, nil
	}

	snaps := make([]*models.WeatherSnapshot, len(ports))
	g, gctx := errgroup.WithContext(ctx)
	for i, port := range ports {
		g.Go(func() error {
			snaps[i] = s.weather.FetchWeather(gctx, port+","+country)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.PortWeather, 0, len(ports))
	for i, snap := range snaps {
		if snap == nil {
			continue
		}
		out = append(out, models.PortWeather{
			Port:      ports[i],
			Condition: snap.ConditionText,
			WindKph:   snap.WindKph,
		})
	}

	s.toCache(ctx, country, out)
	return out, nil
}

func (s *PortWeatherService) fromCache(ctx context.Context, country string) ([]models.PortWeather, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, portsKey(country))
	if err != nil {
		slog.WarnContext(ctx, "port weather cache read failed", "country", country, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out []models.PortWeather
	if json.Unmarshal(b, &out) != nil {
		return nil, false
	}
	return out, true
}

func (s *PortWeatherService) toCache(ctx context.Context, country string, out []models.PortWeather) {
	if s.cache == nil || s.ttl <= 0 || len(out) == 0 {
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, portsKey(country), b, s.ttl); err != nil {
		slog.WarnContext(ctx, "port weather cache write failed", "country", country, "error", err)
	}
}

func portsKey(country string) string {
	return "ports:" + country + ":weather"
}
