package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripdesk/berlin-cli/internal/routes"
	"github.com/tripdesk/berlin-cli/internal/server"
	"github.com/tripdesk/berlin-cli/internal/widgets"
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		routeData, err := routes.LoadFile(cfg.Routes.File)
		if err != nil {
			return eris.Wrap(err, "serve")
		}

		srv := server.New(server.Deps{
			Search:    newSearchPipeline(),
			SearchCfg: cfg.Search,
			LoadCrime: loadCrimeTable,
			Reviews:   st,
			Currency: widgets.NewCurrency(widgets.CurrencyConfig{
				BaseURL:  cfg.Currency.BaseURL,
				Base:     cfg.Currency.Base,
				Target:   cfg.Currency.Target,
				Fallback: cfg.Currency.Fallback,
			}),
			Weather: widgets.NewWeather(widgets.WeatherConfig{
				BaseURL:  cfg.Weather.BaseURL,
				Lat:      cfg.Search.CenterLat,
				Lng:      cfg.Search.CenterLng,
				Fallback: cfg.Weather.Fallback,
			}),
			Concierge: newConcierge(),
			Routes:    routeData,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("shutdown failed", zap.Error(err))
			}
		}()

		zap.L().Info("serving dashboard API", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}
