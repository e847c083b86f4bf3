package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripdesk/berlin-cli/internal/widgets"
)

func init() {
	rootCmd.AddCommand(widgetsCmd)
}

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "Print the dashboard's exchange-rate and temperature readings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		currency := widgets.NewCurrency(widgets.CurrencyConfig{
			BaseURL:  cfg.Currency.BaseURL,
			Base:     cfg.Currency.Base,
			Target:   cfg.Currency.Target,
			Fallback: cfg.Currency.Fallback,
		})
		weather := widgets.NewWeather(widgets.WeatherConfig{
			BaseURL:  cfg.Weather.BaseURL,
			Lat:      cfg.Search.CenterLat,
			Lng:      cfg.Search.CenterLng,
			Fallback: cfg.Weather.Fallback,
		})

		fmt.Printf("1 %s = %.2f %s\n", cfg.Currency.Base, currency.Rate(ctx), cfg.Currency.Target)
		fmt.Printf("Temperature: %.1f °C\n", weather.Temperature(ctx))
		return nil
	},
}
