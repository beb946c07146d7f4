package weatherapi

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
)

const providerName = "weatherapi"

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://api.weatherapi.com"
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   breaker.NewClient(providerName, timeout, breaker.DefaultSettings()),
	}
}

type currentResp struct {
	Current *struct {
		Condition *struct {
			Text *string `json:"text"`
		} `json:"condition"`
		WindKph *float64 `json:"wind_kph"`
	} `json:"current"`
}

// FetchWeather is best effort: any failure yields nil.
// query is either "lat,lon" or "port,country".
func (c *Client) FetchWeather(ctx context.Context, query string) *models.WeatherSnapshot {
	started := time.Now()
	snap, err := c.fetch(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "weather lookup failed", "provider", providerName, "query", query, "error", err)
		metrics.ObserveProviderCall(providerName, "empty", started)
		return nil
	}
	metrics.ObserveProviderCall(providerName, string(models.OutcomeSuccess), started)
	return snap
}

func (c *Client) fetch(ctx context.Context, query string) (*models.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return nil, errors.New("api key not configured")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	u.Path = "/v1/current.json"
	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("q", query)
	q.Set("aqi", "no")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, errors.Errorf("weatherapi http %d", resp.StatusCode)
	}

	var r currentResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if r.Current == nil || r.Current.Condition == nil || r.Current.Condition.Text == nil || r.Current.WindKph == nil {
		return nil, errors.New("incomplete current conditions")
	}

	return &models.WeatherSnapshot{
		ConditionText: *r.Current.Condition.Text,
		WindKph:       *r.Current.WindKph,
	}, nil
}
