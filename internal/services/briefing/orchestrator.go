package briefing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BearBump/VesselBrief/internal/metrics"
	"github.com/BearBump/VesselBrief/internal/models"
	"golang.org/x/sync/errgroup"
)

type PositionSource interface {
	FetchPosition(ctx context.Context, imo string) models.Outcome[models.PositionReport]
}

// WeatherSource returns nil whenever conditions are unavailable.
type WeatherSource interface {
	FetchWeather(ctx context.Context, query string) *models.WeatherSnapshot
}

type ActivitySource interface {
	FetchActivity(ctx context.Context, imo string) models.Outcome[models.ActivityProfile]
}

type Narrator interface {
	Synthesize(
		ctx context.Context,
		displayName string,
		position models.Outcome[models.PositionReport],
		weather *models.WeatherSnapshot,
		activity models.Outcome[models.ActivityProfile],
	) string
}

type Orchestrator struct {
	position PositionSource
	weather  WeatherSource
	activity ActivitySource
	narrator Narrator
}

func NewOrchestrator(p PositionSource, w WeatherSource, a ActivitySource, n Narrator) *Orchestrator {
	return &Orchestrator{position: p, weather: w, activity: a, narrator: n}
}

// BuildReport runs the pipeline once. A failed position lookup ends it
// immediately with the failure message as narrative and no coordinates.
func (o *Orchestrator) BuildReport(ctx context.Context, imo, displayName string) models.Report {
	log := slog.With("imo", imo)

	pos := o.position.FetchPosition(ctx, imo)
	if pos.Failed() {
		log.InfoContext(ctx, "report short-circuited", "reason", string(pos.Reason))
		metrics.ReportsTotal.WithLabelValues(string(models.ReportShortCircuit)).Inc()
		return models.Report{
			Narrative: pos.Message,
			Outcome:   models.ReportShortCircuit,
		}
	}

	coords, hasCoords := pos.Value.Coordinates()

	var (
		weather  *models.WeatherSnapshot
		activity models.Outcome[models.ActivityProfile]
		g        errgroup.Group
	)
	if hasCoords {
		g.Go(func() error {
			weather = o.weather.FetchWeather(ctx, WeatherQuery(*coords))
			return nil
		})
	}
	g.Go(func() error {
		activity = o.activity.FetchActivity(ctx, imo)
		return nil
	})
	_ = g.Wait()

	narrative := o.narrator.Synthesize(ctx, displayName, pos, weather, activity)

	rep := models.Report{
		Narrative:   narrative,
		Coordinates: coords,
		Outcome:     models.ReportComplete,
	}
	if IsFallback(narrative) || weather == nil || !activity.OK() {
		rep.Degraded = true
		rep.Outcome = models.ReportDegraded
	}

	log.InfoContext(ctx, "report built",
		"outcome", string(rep.Outcome),
		"has_coordinates", hasCoords,
		"weather", weather != nil,
		"activity", string(activity.Kind),
	)
	metrics.ReportsTotal.WithLabelValues(string(rep.Outcome)).Inc()

	return rep
}

// WeatherQuery formats coordinates the way the weather provider expects.
func WeatherQuery(c models.Coordinates) string {
	return fmt.Sprintf("%v,%v", c.Lat(), c.Lon())
}
