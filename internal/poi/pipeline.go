// Package poi retrieves and normalizes points of interest from the places
// search source.
package poi

import (
	"context"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tripdesk/berlin-cli/internal/model"
	"github.com/tripdesk/berlin-cli/pkg/places"
)

// SearchRequest describes one place search.
type SearchRequest struct {
	Category     model.Category
	Center       model.LatLng
	RadiusMeters int
	MinRating    float64
	Keyword      string
}

// key is the canonical cache key for a request.
func (r SearchRequest) key() string {
	return fmt.Sprintf("%s|%.6f|%.6f|%d|%.2f|%s",
		r.Category, r.Center.Lat, r.Center.Lng, r.RadiusMeters, r.MinRating, r.Keyword)
}

// Pipeline turns raw places-search payloads into normalized PlaceRecords.
//
// Error visibility is configurable: in verbose mode a failed search surfaces
// its cause (including the API's denied/quota statuses) to the caller; in
// quiet mode the failure is logged and the search degrades to zero results.
// Validation errors are always surfaced.
type Pipeline struct {
	client  places.Client
	cache   *Cache
	verbose bool
}

// New creates a search pipeline. verbose selects the error-visibility
// policy.
func New(client places.Client, verbose bool) *Pipeline {
	return &Pipeline{
		client:  client,
		cache:   NewCache(),
		verbose: verbose,
	}
}

// Cache exposes the pipeline's memoization cache for inspection.
func (p *Pipeline) Cache() *Cache {
	return p.cache
}

// Search issues one search to the places source and normalizes the result.
// Items missing geometry are skipped; items below MinRating are dropped.
// Source order is preserved. Results are memoized per request.
func (p *Pipeline) Search(ctx context.Context, req SearchRequest) ([]model.PlaceRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	records, err := p.cache.Do(req.key(), func() ([]model.PlaceRecord, error) {
		resp, err := p.client.NearbySearch(ctx, places.NearbySearchRequest{
			Lat:          req.Center.Lat,
			Lng:          req.Center.Lng,
			RadiusMeters: req.RadiusMeters,
			Type:         string(req.Category),
			Keyword:      req.Keyword,
		})
		if err != nil {
			return nil, err
		}
		return normalize(resp.Results, req), nil
	})
	// Visibility policy applies outside the cached compute so a degraded
	// empty result is never memoized; the next search retries the source.
	if err != nil {
		return p.degrade(req, err)
	}
	return records, nil
}

// degrade applies the error-visibility policy to a failed search.
func (p *Pipeline) degrade(req SearchRequest, err error) ([]model.PlaceRecord, error) {
	var statusErr *places.StatusError
	if errors.As(err, &statusErr) {
		zap.L().Warn("places search rejected",
			zap.String("category", string(req.Category)),
			zap.String("status", statusErr.Status),
			zap.String("message", statusErr.Message),
		)
	} else {
		zap.L().Warn("places search failed",
			zap.String("category", string(req.Category)),
			zap.Error(err),
		)
	}

	if p.verbose {
		return nil, err
	}
	return []model.PlaceRecord{}, nil
}

func validate(req SearchRequest) error {
	if !req.Category.Valid() {
		return eris.Errorf("poi: unsupported category %q", req.Category)
	}
	if req.RadiusMeters <= 0 {
		return eris.Errorf("poi: radius must be positive, got %d", req.RadiusMeters)
	}
	if req.MinRating < 0 || req.MinRating > 5 {
		return eris.Errorf("poi: min rating must be in [0,5], got %g", req.MinRating)
	}
	return nil
}

// normalize converts raw items to PlaceRecords, in source order. Missing
// geometry drops the item without affecting its neighbors; an absent rating
// counts as 0 and is then subject to the threshold like any other.
func normalize(items []places.Place, req SearchRequest) []model.PlaceRecord {
	records := make([]model.PlaceRecord, 0, len(items))
	for _, item := range items {
		if item.Geometry == nil {
			zap.L().Debug("skipping place without geometry", zap.String("name", item.Name))
			continue
		}
		if item.Rating < req.MinRating {
			continue
		}
		records = append(records, model.PlaceRecord{
			Name:       item.Name,
			Lat:        item.Geometry.Location.Lat,
			Lng:        item.Geometry.Location.Lng,
			Rating:     item.Rating,
			Address:    item.Vicinity,
			Category:   req.Category,
			DetailLink: model.DetailLink(item.Name),
		})
	}
	return records
}
