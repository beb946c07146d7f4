package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/BearBump/VesselBrief/internal/services/briefing"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct {
	imo, name string
	rep       models.Report
}

func (s *stubReports) BuildReport(_ context.Context, imo, displayName string) models.Report {
	s.imo, s.name = imo, displayName
	return s.rep
}

type stubPorts struct {
	out []models.PortWeather
	err error
}

func (s *stubPorts) ForCountry(context.Context, string) ([]models.PortWeather, error) {
	return s.out, s.err
}

func executeCLI(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func() (*app, error) { return a, nil })
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestReport_PlainText(t *testing.T) {
	reports := &stubReports{rep: models.Report{
		Narrative:   "Informe del buque.",
		Coordinates: &models.Coordinates{-12.05, -77.15},
	}}

	out, err := executeCLI(t, &app{reports: reports}, "report", "--imo", " 9321483 ")
	require.NoError(t, err)
	assert.Equal(t, "9321483", reports.imo)
	assert.Equal(t, anonymousName, reports.name)
	assert.Contains(t, out, "Informe del buque.")
	assert.Contains(t, out, "Coordenadas: -12.05, -77.15")
}

func TestReport_JSONWithName(t *testing.T) {
	reports := &stubReports{rep: models.Report{Narrative: "No se encontró ningún barco con el número IMO: 1."}}

	out, err := executeCLI(t, &app{reports: reports}, "report", "--imo", "1", "--name", "Ana", "--json")
	require.NoError(t, err)
	assert.Equal(t, "Ana", reports.name)
	assert.JSONEq(t, `{"reporte":"No se encontró ningún barco con el número IMO: 1.","coordenadas":null}`, out)
}

func TestReport_RequiresIMO(t *testing.T) {
	_, err := executeCLI(t, &app{reports: &stubReports{}}, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "imo" not set`)

	_, err = executeCLI(t, &app{reports: &stubReports{}}, "report", "--imo", "  ")
	require.Error(t, err)
}

func TestPorts(t *testing.T) {
	ports := &stubPorts{out: []models.PortWeather{
		{Port: "Callao", Condition: "Mist", WindKph: 9},
		{Port: "Paita", Condition: "Sunny", WindKph: 14.4},
	}}

	out, err := executeCLI(t, &app{ports: ports}, "ports", "peru")
	require.NoError(t, err)
	assert.Equal(t, "Callao: Mist, viento 9.0 kph\nPaita: Sunny, viento 14.4 kph\n", out)
}

func TestPorts_UnknownCountry(t *testing.T) {
	_, err := executeCLI(t, &app{ports: &stubPorts{err: briefing.ErrCountryNotFound}}, "ports", "narnia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "narnia")
}

func TestWireError(t *testing.T) {
	cmd := newRootCmd(func() (*app, error) { return nil, errors.New("bad config") })
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.ErrorContains(t, cmd.Execute(), "bad config")
}
