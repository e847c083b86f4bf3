package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tripdesk/berlin-cli/internal/model"
	"github.com/tripdesk/berlin-cli/internal/poi"
)

func init() {
	placesCmd.Flags().String("category", "tourist_attraction", "place category (restaurant, lodging, tourist_attraction, cafe, museum, park)")
	placesCmd.Flags().String("keyword", "", "optional free-text keyword")
	placesCmd.Flags().Float64("min-rating", 0, "drop places rated below this (0-5)")
	placesCmd.Flags().Int("radius", 0, "search radius in meters (default from config)")
	placesCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(placesCmd)
}

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Search points of interest around the city center",
	RunE: func(cmd *cobra.Command, _ []string) error {
		category, _ := cmd.Flags().GetString("category")
		keyword, _ := cmd.Flags().GetString("keyword")
		minRating, _ := cmd.Flags().GetFloat64("min-rating")
		radius, _ := cmd.Flags().GetInt("radius")
		asJSON, _ := cmd.Flags().GetBool("json")

		if radius == 0 {
			radius = cfg.Search.RadiusMeters
		}

		pipeline := newSearchPipeline()
		records, err := pipeline.Search(cmd.Context(), poi.SearchRequest{
			Category:     model.Category(category),
			Center:       model.LatLng{Lat: cfg.Search.CenterLat, Lng: cfg.Search.CenterLng},
			RadiusMeters: radius,
			MinRating:    minRating,
			Keyword:      keyword,
		})
		if err != nil {
			return eris.Wrap(err, "places")
		}

		if asJSON {
			return json.NewEncoder(os.Stdout).Encode(records)
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No places found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRATING\tADDRESS\tLAT\tLNG")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%.1f\t%s\t%.5f\t%.5f\n", r.Name, r.Rating, r.Address, r.Lat, r.Lng)
		}
		return w.Flush()
	},
}
