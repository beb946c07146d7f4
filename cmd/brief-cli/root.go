package main

import "github.com/spf13/cobra"

func newRootCmd(wire func() (*app, error)) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "brief-cli",
		Short:        "Vessel briefings from the terminal",
		Long:         "brief-cli runs the vessel report pipeline once for an IMO number, or prints current weather for a country's main ports.",
		SilenceUsage: true,
	}

	a, err := wire()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newReportCmd(a),
		newPortsCmd(a),
	)
	return rootCmd
}
