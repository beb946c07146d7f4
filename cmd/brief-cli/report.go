package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const anonymousName = "Estimado usuario"

func newReportCmd(a *app) *cobra.Command {
	var (
		imo    string
		name   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a report for one vessel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			imo = strings.TrimSpace(imo)
			if imo == "" {
				return fmt.Errorf("--imo must not be empty")
			}
			rep := a.reports.BuildReport(cmd.Context(), imo, name)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			if _, err := fmt.Fprintln(out, rep.Narrative); err != nil {
				return err
			}
			if rep.Coordinates != nil {
				_, err := fmt.Fprintf(out, "\nCoordenadas: %v, %v\n", rep.Coordinates.Lat(), rep.Coordinates.Lon())
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imo, "imo", "", "vessel IMO number")
	cmd.Flags().StringVar(&name, "name", anonymousName, "name used to address the reader")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the API response body instead of plain text")
	_ = cmd.MarkFlagRequired("imo")

	return cmd
}
