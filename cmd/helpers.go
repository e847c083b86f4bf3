package main

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/tripdesk/berlin-cli/internal/crime"
	"github.com/tripdesk/berlin-cli/internal/fetcher"
	"github.com/tripdesk/berlin-cli/internal/poi"
	"github.com/tripdesk/berlin-cli/internal/store"
	"github.com/tripdesk/berlin-cli/internal/widgets"
	"github.com/tripdesk/berlin-cli/pkg/genai"
	"github.com/tripdesk/berlin-cli/pkg/geocode"
	"github.com/tripdesk/berlin-cli/pkg/places"
)

// newSearchPipeline wires the places client into the POI pipeline.
func newSearchPipeline() *poi.Pipeline {
	opts := []places.Option{
		places.WithTimeout(time.Duration(cfg.Search.TimeoutSecs) * time.Second),
	}
	if cfg.Google.PlacesBaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Google.PlacesBaseURL))
	}
	client := places.NewClient(cfg.Google.APIKey, opts...)
	return poi.New(client, cfg.Search.Verbose)
}

// newGeocoder builds the geocoding client from config.
func newGeocoder() geocode.Client {
	var opts []geocode.Option
	if cfg.Google.GeocodeBaseURL != "" {
		opts = append(opts, geocode.WithBaseURL(cfg.Google.GeocodeBaseURL))
	}
	return geocode.NewClient(cfg.Google.APIKey, opts...)
}

// newConcierge builds the generative-text widget from config.
func newConcierge() *widgets.Concierge {
	client := genai.NewClient(cfg.Anthropic.Key, genai.Options{
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		System:    cfg.Anthropic.System,
	})
	return widgets.NewConcierge(client, cfg.Anthropic.Apology)
}

// loadCrimeTable reads the configured crime dataset from disk. The file is
// re-read on every call; it is the source of truth.
func loadCrimeTable() (crime.Table, error) {
	csvOpts := fetcher.CSVOptions{
		TrimSpace: true,
		Encoding:  cfg.Crime.Encoding,
	}
	if cfg.Crime.Delimiter != "" {
		delim, _ := utf8.DecodeRuneInString(cfg.Crime.Delimiter)
		if delim == utf8.RuneError {
			return crime.Table{}, eris.Errorf("invalid crime delimiter %q", cfg.Crime.Delimiter)
		}
		csvOpts.Delimiter = delim
	}
	xlsxOpts := fetcher.XLSXOptions{
		SheetName: cfg.Crime.Sheet,
		SkipRows:  cfg.Crime.SkipRows,
	}
	return crime.LoadFile(cfg.Crime.File, csvOpts, xlsxOpts)
}

// initStore opens the review-board store selected by config.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		s, err := store.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
