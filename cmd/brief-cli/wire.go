package main

import (
	"context"
	"os"

	"github.com/BearBump/VesselBrief/config"
	"github.com/BearBump/VesselBrief/internal/integrations/activity/gfw"
	"github.com/BearBump/VesselBrief/internal/integrations/position/myshiptracking"
	"github.com/BearBump/VesselBrief/internal/integrations/textgen/openai"
	"github.com/BearBump/VesselBrief/internal/integrations/weather/weatherapi"
	"github.com/BearBump/VesselBrief/internal/logging"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/BearBump/VesselBrief/internal/services/briefing"
	"github.com/pkg/errors"
)

type reportBuilder interface {
	BuildReport(ctx context.Context, imo, displayName string) models.Report
}

type portWeather interface {
	ForCountry(ctx context.Context, country string) ([]models.PortWeather, error)
}

type app struct {
	reports reportBuilder
	ports   portWeather
}

// wireApp builds the pipeline straight from config. The CLI keeps no cache
// and publishes no audit events.
func wireApp() (*app, error) {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	level := cfg.Logging.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logging.Setup(logging.Config{Level: level, Format: "console", Output: os.Stderr})

	p := cfg.Providers
	weather := weatherapi.New(p.WeatherAPI.BaseURL, p.WeatherAPI.APIKey, p.WeatherAPI.Timeout())
	textgen := openai.New(p.OpenAI.BaseURL, p.OpenAI.APIKey, p.OpenAI.Timeout(), openai.Options{
		Model:       p.OpenAI.Model,
		Temperature: p.OpenAI.Temperature,
		MaxTokens:   p.OpenAI.MaxTokens,
	})

	return &app{
		reports: briefing.NewOrchestrator(
			myshiptracking.New(p.MyShipTracking.BaseURL, p.MyShipTracking.APIKey, p.MyShipTracking.Timeout()),
			weather,
			gfw.New(p.GFW.BaseURL, p.GFW.APIKey, p.GFW.Timeout()),
			briefing.NewSynthesizer(textgen),
		),
		ports: briefing.NewPortWeatherService(weather, briefing.DefaultPorts, nil, 0),
	}, nil
}
