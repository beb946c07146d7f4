package main

import (
	"fmt"

	"github.com/BearBump/VesselBrief/internal/services/briefing"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPortsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ports <pais>",
		Short: "Print current weather at a country's main ports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.ports.ForCountry(cmd.Context(), args[0])
			if errors.Is(err, briefing.ErrCountryNotFound) {
				return fmt.Errorf("país no encontrado: %s", args[0])
			}
			if err != nil {
				return err
			}
			if len(out) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Clima no disponible para los puertos de este país.")
				return err
			}
			for _, p := range out {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, viento %.1f kph\n", p.Port, p.Condition, p.WindKph); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
