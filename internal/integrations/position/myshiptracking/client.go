package myshiptracking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BearBump/VesselBrief/internal/integrations/breaker"
	"github.com/BearBump/VesselBrief/internal/metrics"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/pkg/errors"
)

const providerName = "myshiptracking"

const (
	MsgNotConfigured = "El servicio de posicionamiento de buques no está configurado."
	MsgUnreachable   = "No fue posible obtener la posición del buque en este momento."
	msgNotFoundFmt   = "No se encontró ningún barco con el número IMO: %s."
)

const codeVesselNotFound = "ERR_VESSEL_NOT_FOUND"

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.myshiptracking.com"
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

type respBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		VesselName  *string  `json:"vessel_name"`
		Lat         *float64 `json:"lat"`
		Lng         *float64 `json:"lng"`
		Speed       *float64 `json:"speed"`
		Course      *float64 `json:"course"`
		Destination *string  `json:"destination"`
		ETA         *string  `json:"eta"`
		Received    *string  `json:"received"`
	} `json:"data"`
}

func NotFoundMessage(imo string) string {
	return fmt.Sprintf(msgNotFoundFmt, imo)
}

// FetchPosition never returns an error: every failure is folded into the outcome.
func (c *Client) FetchPosition(ctx context.Context, imo string) models.Outcome[models.PositionReport] {
	started := time.Now()
	out := c.fetch(ctx, imo)
	metrics.ObserveProviderCall(providerName, string(out.Kind), started)
	return out
}

func (c *Client) fetch(ctx context.Context, imo string) models.Outcome[models.PositionReport] {
	if c.apiKey == "" {
		return models.SoftFailure[models.PositionReport](models.ReasonNotConfigured, MsgNotConfigured)
	}

	slog.InfoContext(ctx, "position lookup", "provider", providerName, "imo", imo)

	rb, status, err := c.do(ctx, imo)
	if err != nil {
		slog.ErrorContext(ctx, "position provider request failed", "provider", providerName, "imo", imo, "http_status", status, "error", err)
		return models.SoftFailure[models.PositionReport](models.ReasonUnreachable, MsgUnreachable)
	}

	if rb.Status != "success" {
		if strings.Contains(rb.Code, codeVesselNotFound) {
			return models.SoftFailure[models.PositionReport](models.ReasonNotFound, NotFoundMessage(imo))
		}
		slog.WarnContext(ctx, "position provider reported failure", "provider", providerName, "imo", imo,
			"http_status", status, "code", rb.Code, "message", rb.Message)
		return models.SoftFailure[models.PositionReport](models.ReasonProvider, MsgUnreachable)
	}

	var p models.PositionReport
	if d := rb.Data; d != nil {
		p = models.PositionReport{
			VesselName:     d.VesselName,
			Latitude:       d.Lat,
			Longitude:      d.Lng,
			SpeedKnots:     d.Speed,
			Course:         d.Course,
			Destination:    d.Destination,
			ETA:            d.ETA,
			LastReportTime: d.Received,
		}
	}
	return models.Success(p)
}

// do returns a decoded body for any status that carries one. Non-2xx answers
// without a decodable body are reported as errors.
func (c *Client) do(ctx context.Context, imo string) (respBody, int, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return respBody{}, 0, errors.Wrap(err, "parse base url")
	}
	u.Path = "/api/v2/vessel"
	q := u.Query()
	q.Set("imo", imo)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return respBody{}, 0, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return respBody{}, 0, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	var rb respBody
	decErr := json.NewDecoder(resp.Body).Decode(&rb)
	if resp.StatusCode/100 != 2 {
		if decErr != nil || rb.Status == "" {
			return respBody{}, resp.StatusCode, fmt.Errorf("myshiptracking http %d", resp.StatusCode)
		}
		return rb, resp.StatusCode, nil
	}
	if decErr != nil {
		return respBody{}, resp.StatusCode, errors.Wrap(decErr, "decode")
	}
	return rb, resp.StatusCode, nil
}
