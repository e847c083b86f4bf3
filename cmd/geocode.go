package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(geocodeCmd)
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve a free-text address to coordinates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := strings.Join(args, " ")

		result, err := newGeocoder().Geocode(cmd.Context(), address)
		if err != nil {
			return eris.Wrap(err, "geocode")
		}

		if !result.Matched {
			fmt.Println("No match.")
			return nil
		}

		fmt.Printf("%s\n%.6f, %.6f\n", result.FormattedAddress, result.Lat, result.Lng)
		return nil
	},
}
