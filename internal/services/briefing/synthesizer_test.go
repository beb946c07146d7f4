package briefing

import (
	"strings"
	"testing"

	"github.com/BearBump/VesselBrief/internal/integrations/activity/gfw"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBuildBrief_AllSections(t *testing.T) {
	pos := models.Success(models.PositionReport{
		VesselName: ptr("OCEAN STAR"),
		Latitude:   ptr(-12.05),
		Longitude:  ptr(-77.03),
		SpeedKnots: ptr(11.2),
	})
	act := models.Success(models.ActivityProfile{
		RegisteredName:  "OCEAN STAR",
		Flag:            "PAN",
		GearType:        "CARGO",
		RegistrySources: "IMO",
		RecentEvents:    []string{"- Evento de 'Port Visit' iniciado el 2025-06-20"},
	})

	brief := BuildBrief(pos, &models.WeatherSnapshot{ConditionText: "Sunny", WindKph: 14.8}, act)

	require.Contains(t, brief, headerPosition)
	require.Contains(t, brief, "Latitud: -12.05")
	require.Contains(t, brief, "Velocidad (nudos): 11.2")
	require.Contains(t, brief, "ETA: no reportado")
	require.Contains(t, brief, headerWeather+"\nCondición: Sunny, Viento: 14.8 kph.")
	require.Contains(t, brief, headerActivity)
	require.Contains(t, brief, "Bandera: PAN")
	require.Contains(t, brief, "- Evento de 'Port Visit' iniciado el 2025-06-20")
}

func TestBuildBrief_MissingWeatherKeepsSection(t *testing.T) {
	brief := BuildBrief(
		models.Success(models.PositionReport{}),
		nil,
		models.HardFailure[models.ActivityProfile](models.ReasonUnavailable, gfw.MsgUnavailable),
	)

	require.Contains(t, brief, headerWeather+"\n"+WeatherUnavailable)
	require.Contains(t, brief, headerActivity+"\n"+gfw.MsgUnavailable)
	require.Equal(t, 0, strings.Count(brief, "<nil>"))
}

func TestSystemPrompt_Constraints(t *testing.T) {
	p := SystemPrompt("Mateo")
	require.Contains(t, p, "'Mateo'")
	require.Contains(t, p, "No fue posible verificar los registros públicos de actividad del buque en este momento")
	require.Contains(t, p, "riesgo")
}

func TestIsFallback(t *testing.T) {
	require.True(t, IsFallback(FallbackNarrative))
	require.False(t, IsFallback("Hola, Ana."))
}
