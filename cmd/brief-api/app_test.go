package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BearBump/VesselBrief/config"
	briefingapi "github.com/BearBump/VesselBrief/internal/api/briefing_api"
	"github.com/BearBump/VesselBrief/internal/integrations/position/myshiptracking"
	"github.com/stretchr/testify/require"
)

func TestRunBriefAPI_ServesAndStops(t *testing.T) {
	dir := t.TempDir()
	sw := filepath.Join(dir, "swagger.json")
	require.NoError(t, os.WriteFile(sw, []byte(`{"swagger":"2.0"}`), 0o600))

	cfg := config.Default()
	reports, ports := newPipeline(cfg, nil)
	api := briefingapi.New(briefingapi.Deps{Reports: reports, Ports: ports}, briefingapi.Options{SwaggerPath: sw})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runBriefAPI(ctx, briefAPIOpts{
			httpAddr: "127.0.0.1:0",
			onListen: func(addr string) { addrCh <- addr },
		}, api.Routes())
	}()
	base := "http://" + <-addrCh

	resp, err := http.Get(base + "/swagger.json")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"swagger"`)

	// Without provider keys the position lookup fails and the report short-circuits.
	resp, err = http.Post(base+"/api/generar-informe", "application/json", strings.NewReader(`{"imo":"9321483"}`))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"reporte":"`+myshiptracking.MsgNotConfigured+`","coordenadas":null}`, string(body))

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
}

func TestRunBriefAPI_ListenError(t *testing.T) {
	err := runBriefAPI(context.Background(), briefAPIOpts{httpAddr: "256.0.0.1:bad"}, http.NotFoundHandler())
	require.Error(t, err)
}

func TestNewPipeline_PortWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/current.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"current":{"condition":{"text":"Sunny"},"wind_kph":12.5}}`)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Providers.WeatherAPI.BaseURL = srv.URL
	cfg.Providers.WeatherAPI.APIKey = "k"

	_, ports := newPipeline(cfg, nil)
	out, err := ports.ForCountry(context.Background(), "Chile")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Valparaiso", out[0].Port)
	require.Equal(t, "Sunny", out[0].Condition)
	require.Equal(t, 12.5, out[0].WindKph)
}
