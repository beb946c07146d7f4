// Package gfw queries the public vessel identity registry and its event history.
package gfw

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/BearBump/VesselBrief/internal/integrations/breaker"
	"github.com/BearBump/VesselBrief/internal/metrics"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const providerName = "gfw"

const (
	MsgNotConfigured = "La consulta de registros públicos de actividad marítima no está configurada."
	MsgUnavailable   = "No fue posible consultar las bases de datos de actividad marítima en este momento."
	MsgUnreachable   = "No fue posible acceder a los registros públicos de actividad marítima en este momento."
	MsgNoRecords     = "No se encontraron registros públicos para este buque."
	MsgNoAIS         = "El buque existe en el registro público pero no tiene información AIS reportada."
)

const (
	identityDataset = "public-global-vessel-identity:latest"

	// EventWindow is the trailing window for event history.
	EventWindow = 90 * 24 * time.Hour
	// EventLimit caps both the per-category request and the merged list.
	EventLimit = 5
)

// EventCategory is one independently queried event dataset.
type EventCategory struct {
	Name    string
	Dataset string
}

var DefaultCategories = []EventCategory{
	{Name: "fishing", Dataset: "public-global-fishing-events:latest"},
	{Name: "port", Dataset: "public-global-port-visits-events:latest"},
}

type Client struct {
	baseURL    string
	apiKey     string
	httpc      *http.Client
	categories []EventCategory
	now        func() time.Time
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://gateway.api.globalfishingwatch.org"
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpc:      breaker.NewClient(providerName, timeout, breaker.DefaultSettings()),
		categories: DefaultCategories,
		now:        time.Now,
	}
}

// WithClock overrides the processing time used for the event window.
func (c *Client) WithClock(now func() time.Time) *Client {
	if now != nil {
		c.now = now
	}
	return c
}

type searchResp struct {
	Entries []struct {
		SelfReportedInfo []struct {
			ID string `json:"id"`
		} `json:"selfReportedInfo"`
		RegistryInfo []registryInfo `json:"registryInfo"`
	} `json:"entries"`
}

type registryInfo struct {
	ShipName string `json:"shipname"`
	Flag     string `json:"flag"`
	GearType []struct {
		Name string `json:"name"`
	} `json:"geartype"`
	SourceCode []string `json:"sourceCode"`
}

type eventsResp struct {
	Entries []rawEvent `json:"entries"`
}

type rawEvent struct {
	Type  string `json:"type"`
	Start string `json:"start"`
}

type statusError struct {
	code int
}

func (e *statusError) Error() string { return "gfw http " + http.StatusText(e.code) }

func (c *Client) FetchActivity(ctx context.Context, imo string) models.Outcome[models.ActivityProfile] {
	started := time.Now()
	out := c.fetch(ctx, imo)
	metrics.ObserveProviderCall(providerName, string(out.Kind), started)
	return out
}

func (c *Client) fetch(ctx context.Context, imo string) models.Outcome[models.ActivityProfile] {
	if c.apiKey == "" {
		return models.SoftFailure[models.ActivityProfile](models.ReasonNotConfigured, MsgNotConfigured)
	}

	slog.InfoContext(ctx, "activity lookup", "provider", providerName, "imo", imo)

	var sr searchResp
	if err := c.getJSON(ctx, "/v3/vessels/search", url.Values{
		"query":       {imo},
		"datasets[0]": {identityDataset},
	}, &sr); err != nil {
		slog.ErrorContext(ctx, "identity search failed", "provider", providerName, "imo", imo, "error", err)
		var se *statusError
		if errors.As(err, &se) {
			return models.HardFailure[models.ActivityProfile](models.ReasonUnavailable, MsgUnavailable)
		}
		return models.SoftFailure[models.ActivityProfile](models.ReasonUnreachable, MsgUnreachable)
	}

	if len(sr.Entries) == 0 {
		return models.Notice[models.ActivityProfile](MsgNoRecords)
	}
	entry := sr.Entries[0]
	if len(entry.SelfReportedInfo) == 0 {
		return models.Notice[models.ActivityProfile](MsgNoAIS)
	}
	vesselID := entry.SelfReportedInfo[0].ID

	var reg registryInfo
	if len(entry.RegistryInfo) > 0 {
		reg = entry.RegistryInfo[0]
	}

	profile := summarizeRegistry(reg)

	now := c.now().UTC()
	raw := c.fetchEvents(ctx, vesselID, now.Add(-EventWindow), now)
	profile.Events = MergeEvents(raw, EventLimit)
	profile.RecentEvents = FormatEvents(profile.Events)

	return models.Success(profile)
}

// fetchEvents queries every category concurrently. A failing category is
// skipped; the result keeps category order so merging stays deterministic.
func (c *Client) fetchEvents(ctx context.Context, vesselID string, from, to time.Time) [][]rawEvent {
	perCategory := make([][]rawEvent, len(c.categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range c.categories {
		g.Go(func() error {
			var er eventsResp
			err := c.getJSON(gctx, "/v3/events", url.Values{
				"vessels[0]":  {vesselID},
				"datasets[0]": {cat.Dataset},
				"start-date":  {from.Format(time.DateOnly)},
				"end-date":    {to.Format(time.DateOnly)},
				"limit":       {"5"},
			}, &er)
			if err != nil {
				slog.WarnContext(ctx, "event category skipped", "provider", providerName, "category", cat.Name, "error", err)
				return nil
			}
			perCategory[i] = er.Entries
			return nil
		})
	}
	_ = g.Wait()

	return perCategory
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return errors.Wrap(err, "parse base url")
	}
	u.Path = path
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}
