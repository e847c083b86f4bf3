package poi

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/berlin-cli/internal/model"
	"github.com/tripdesk/berlin-cli/pkg/places"
)

// fakeClient serves a canned response and counts calls.
type fakeClient struct {
	resp  *places.NearbySearchResponse
	err   error
	calls atomic.Int64
}

func (f *fakeClient) NearbySearch(_ context.Context, _ places.NearbySearchRequest) (*places.NearbySearchResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func berlinRequest(minRating float64) SearchRequest {
	return SearchRequest{
		Category:     model.CategoryRestaurant,
		Center:       model.LatLng{Lat: 52.5200, Lng: 13.4050},
		RadiusMeters: 3000,
		MinRating:    minRating,
	}
}

func geom(lat, lng float64) *places.Geometry {
	return &places.Geometry{Location: places.Location{Lat: lat, Lng: lng}}
}

func TestSearch_RatingThresholdAndOrder(t *testing.T) {
	client := &fakeClient{resp: &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "Kopps", Geometry: geom(52.529, 13.401), Rating: 4.8},
			{Name: "Lokal", Geometry: geom(52.526, 13.396), Rating: 4.2},
			{Name: "Imbiss", Geometry: geom(52.521, 13.410), Rating: 3.9},
		},
	}}

	p := New(client, true)
	records, err := p.Search(context.Background(), berlinRequest(4.0))

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Kopps", records[0].Name)
	assert.Equal(t, "Lokal", records[1].Name)
	for _, r := range records {
		assert.GreaterOrEqual(t, r.Rating, 4.0)
	}
}

func TestSearch_SkipsMissingGeometry(t *testing.T) {
	client := &fakeClient{resp: &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "NoGeom", Rating: 4.9},
			{Name: "HasGeom", Geometry: geom(52.5, 13.4), Rating: 4.5},
		},
	}}

	p := New(client, true)
	records, err := p.Search(context.Background(), berlinRequest(0))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "HasGeom", records[0].Name)
}

func TestSearch_AbsentRatingTreatedAsZero(t *testing.T) {
	client := &fakeClient{resp: &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "Unrated", Geometry: geom(52.5, 13.4)},
		},
	}}

	p := New(client, true)

	records, err := p.Search(context.Background(), berlinRequest(0))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].Rating)

	// With a threshold the unrated place is dropped.
	records, err = p.Search(context.Background(), berlinRequest(3.5))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_RecordFields(t *testing.T) {
	client := &fakeClient{resp: &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "Pergamon Museum", Geometry: geom(52.5212, 13.3966), Rating: 4.7, Vicinity: "Bodestraße 1-3"},
		},
	}}

	p := New(client, true)
	records, err := p.Search(context.Background(), SearchRequest{
		Category:     model.CategoryMuseum,
		Center:       model.LatLng{Lat: 52.52, Lng: 13.405},
		RadiusMeters: 3000,
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, model.CategoryMuseum, r.Category)
	assert.Equal(t, "Bodestraße 1-3", r.Address)
	assert.Equal(t, "https://www.google.com/search?q=Pergamon+Museum+Berlin", r.DetailLink)
}

func TestSearch_DeniedVerbose(t *testing.T) {
	client := &fakeClient{err: &places.StatusError{Status: places.StatusRequestDenied, Message: "billing"}}

	p := New(client, true)
	records, err := p.Search(context.Background(), berlinRequest(0))

	require.Error(t, err)
	assert.Empty(t, records)

	var statusErr *places.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, places.StatusRequestDenied, statusErr.Status)
}

func TestSearch_DeniedQuiet(t *testing.T) {
	client := &fakeClient{err: &places.StatusError{Status: places.StatusRequestDenied}}

	p := New(client, false)
	records, err := p.Search(context.Background(), berlinRequest(0))

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_NetworkErrorQuiet(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}

	p := New(client, false)
	records, err := p.Search(context.Background(), berlinRequest(0))

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearch_Validation(t *testing.T) {
	p := New(&fakeClient{}, false)

	_, err := p.Search(context.Background(), SearchRequest{
		Category: "nightclub", RadiusMeters: 100,
	})
	assert.Error(t, err)

	_, err = p.Search(context.Background(), SearchRequest{
		Category: model.CategoryRestaurant, RadiusMeters: 0,
	})
	assert.Error(t, err)

	_, err = p.Search(context.Background(), SearchRequest{
		Category: model.CategoryRestaurant, RadiusMeters: 100, MinRating: 5.5,
	})
	assert.Error(t, err)
}

func TestSearch_Memoized(t *testing.T) {
	client := &fakeClient{resp: &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "Kopps", Geometry: geom(52.529, 13.401), Rating: 4.8},
		},
	}}

	p := New(client, true)
	req := berlinRequest(4.0)

	first, err := p.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), client.calls.Load())
	assert.Equal(t, 1, p.Cache().Len())

	// A different threshold is a different key.
	_, err = p.Search(context.Background(), berlinRequest(3.0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.calls.Load())
	assert.Equal(t, 2, p.Cache().Len())
}

func TestSearch_QuietFailureNotCached(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}

	p := New(client, false)
	req := berlinRequest(0)

	records, err := p.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, p.Cache().Len())

	// The source recovers; the next search reaches it again instead of
	// replaying the degraded empty result.
	client.err = nil
	client.resp = &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "Kopps", Geometry: geom(52.529, 13.401), Rating: 4.8},
		},
	}
	records, err = p.Search(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), client.calls.Load())
	assert.Equal(t, 1, p.Cache().Len())
}

func TestSearch_ErrorsNotCached(t *testing.T) {
	client := &fakeClient{err: &places.StatusError{Status: places.StatusOverQueryLimit}}

	p := New(client, true)
	req := berlinRequest(0)

	_, err := p.Search(context.Background(), req)
	require.Error(t, err)
	assert.Zero(t, p.Cache().Len())

	// Quota recovers; the next call goes back to the source.
	client.err = nil
	client.resp = &places.NearbySearchResponse{Status: places.StatusOK}
	_, err = p.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.calls.Load())
}
