package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BearBump/VesselBrief/internal/models"
)

const (
	FallbackPrefix    = "Análisis no disponible:"
	FallbackNarrative = FallbackPrefix + " no fue posible redactar el informe narrativo en este momento."

	WeatherUnavailable = "Clima no disponible en la ubicación actual."

	headerPosition = "**DATOS DE POSICIÓN:**"
	headerWeather  = "**CLIMA EN LA UBICACIÓN ACTUAL:**"
	headerActivity = "**DATOS DE IDENTIDAD Y ACTIVIDAD:**"

	notReported = "no reportado"
)

// TextGenerator is a single-turn chat completion.
type TextGenerator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Synthesizer struct {
	gen TextGenerator
}

func NewSynthesizer(gen TextGenerator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// IsFallback reports whether text is the literal produced when generation failed.
func IsFallback(text string) bool {
	return strings.HasPrefix(text, FallbackPrefix)
}

// Synthesize never fails: a generation error yields FallbackNarrative.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	displayName string,
	position models.Outcome[models.PositionReport],
	weather *models.WeatherSnapshot,
	activity models.Outcome[models.ActivityProfile],
) string {
	brief := BuildBrief(position, weather, activity)

	text, err := s.gen.Complete(ctx, SystemPrompt(displayName), brief)
	if err != nil {
		slog.ErrorContext(ctx, "narrative generation failed", "error", err)
		return FallbackNarrative
	}
	return text
}

// SystemPrompt is the analyst instruction for one reader.
func SystemPrompt(displayName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Eres un analista experto en logística marítima. Tu tarea es redactar un informe ejecutivo personalizado para el usuario '%s'. ", displayName)
	b.WriteString("Escribe siempre en español. El informe debe ser fluido, integrado y en un tono narrativo. No enumeres los datos; en su lugar, úsalos para construir un análisis coherente.\n\n")
	b.WriteString("**Estructura del Informe:**\n")
	fmt.Fprintf(&b, "1. **Saludo y Resumen:** Comienza con un saludo personalizado dirigido a %s y presenta el estado general del buque en una o dos frases.\n", displayName)
	b.WriteString("2. **Análisis de la Situación:** Desarrolla el párrafo principal integrando todos los datos disponibles: posición, clima, identidad y actividad.\n")
	b.WriteString("3. **Evaluación y Recomendaciones:** Concluye con tu evaluación profesional. Si falta información (como el ETA, el clima o los registros de actividad), no digas que un campo falta: conviértelo en un punto de análisis de riesgo y basa tus recomendaciones en ello.\n\n")
	b.WriteString("**Instrucciones Especiales:**\n")
	b.WriteString("- **Datos no disponibles:** Si los registros de identidad y actividad no están disponibles, indícalo de forma sutil, como: 'No fue posible verificar los registros públicos de actividad del buque en este momento'. No menciones APIs, proveedores, servicios externos, tiempos de espera ni errores de conexión.\n")
	b.WriteString("- **Tono:** Profesional, directo y personalizado. Evita la redundancia.")
	return b.String()
}

// BuildBrief renders the three sources as one block of text. Every section is
// present even when its source failed.
func BuildBrief(
	position models.Outcome[models.PositionReport],
	weather *models.WeatherSnapshot,
	activity models.Outcome[models.ActivityProfile],
) string {
	var b strings.Builder

	b.WriteString(headerPosition)
	b.WriteString("\n")
	b.WriteString(positionBlock(position))
	b.WriteString("\n\n")

	b.WriteString(headerWeather)
	b.WriteString("\n")
	b.WriteString(weatherBlock(weather))
	b.WriteString("\n\n")

	b.WriteString(headerActivity)
	b.WriteString("\n")
	b.WriteString(activityBlock(activity))

	return b.String()
}

func positionBlock(o models.Outcome[models.PositionReport]) string {
	if !o.OK() {
		return o.Message
	}
	p := o.Value
	lines := []string{
		"Nombre del buque: " + str(p.VesselName),
		"Latitud: " + num(p.Latitude),
		"Longitud: " + num(p.Longitude),
		"Velocidad (nudos): " + num(p.SpeedKnots),
		"Rumbo: " + num(p.Course),
		"Destino: " + str(p.Destination),
		"ETA: " + str(p.ETA),
		"Último reporte: " + str(p.LastReportTime),
	}
	return strings.Join(lines, "\n")
}

func weatherBlock(w *models.WeatherSnapshot) string {
	if w == nil {
		return WeatherUnavailable
	}
	return fmt.Sprintf("Condición: %s, Viento: %s kph.", w.ConditionText, strconv.FormatFloat(w.WindKph, 'f', -1, 64))
}

func activityBlock(o models.Outcome[models.ActivityProfile]) string {
	if !o.OK() {
		return o.Message
	}
	a := o.Value
	lines := []string{
		"Nombre registrado: " + a.RegisteredName,
		"Bandera: " + a.Flag,
		"Tipo de equipo: " + a.GearType,
		"Fuentes de registro: " + a.RegistrySources,
		"Eventos recientes:",
	}
	lines = append(lines, a.RecentEvents...)
	return strings.Join(lines, "\n")
}

func str(s *string) string {
	if s == nil || *s == "" {
		return notReported
	}
	return *s
}

func num(f *float64) string {
	if f == nil {
		return notReported
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
