package gfw

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BearBump/VesselBrief/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	NoRecentActivityLine = "No se han registrado eventos notables en los últimos 90 días."

	notAvailable    = "No disponible"
	notSpecified    = "No especificado"
	unknownType     = "desconocido"
	unknownDateText = "fecha desconocida"
)

var titleCaser = cases.Title(language.Spanish)

func summarizeRegistry(reg registryInfo) models.ActivityProfile {
	p := models.ActivityProfile{
		RegisteredName:  orDefault(reg.ShipName, notAvailable),
		Flag:            orDefault(reg.Flag, notAvailable),
		GearType:        notSpecified,
		RegistrySources: notAvailable,
	}

	gear := make([]string, 0, len(reg.GearType))
	for _, g := range reg.GearType {
		gear = append(gear, g.Name)
	}
	if s := strings.Join(gear, ", "); strings.Trim(s, ", ") != "" {
		p.GearType = s
	}
	if s := strings.Join(reg.SourceCode, ", "); s != "" {
		p.RegistrySources = s
	}
	return p
}

// MergeEvents concatenates the categories in order, sorts by start descending
// (missing or unparseable starts sort last) and keeps the first limit entries.
func MergeEvents(perCategory [][]rawEvent, limit int) []models.EventSummary {
	var all []models.EventSummary
	for _, evs := range perCategory {
		for _, e := range evs {
			all = append(all, toSummary(e))
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Start.After(all[j].Start)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func toSummary(e rawEvent) models.EventSummary {
	s := models.EventSummary{Type: e.Type}
	if e.Start == "" {
		return s
	}
	t, err := time.Parse(time.RFC3339, e.Start)
	if err != nil {
		return s
	}
	s.Start = t.UTC()
	s.StartDate = s.Start.Format(time.DateOnly)
	return s
}

// FormatEvents renders one line per event, or the fixed no-activity line.
func FormatEvents(evs []models.EventSummary) []string {
	if len(evs) == 0 {
		return []string{NoRecentActivityLine}
	}
	lines := make([]string, 0, len(evs))
	for _, e := range evs {
		date := e.StartDate
		if date == "" {
			date = unknownDateText
		}
		lines = append(lines, fmt.Sprintf("- Evento de '%s' iniciado el %s", HumanizeType(e.Type), date))
	}
	return lines
}

// HumanizeType turns "port_visit" into "Port Visit".
func HumanizeType(t string) string {
	if t == "" {
		t = unknownType
	}
	return titleCaser.String(strings.ReplaceAll(t, "_", " "))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
