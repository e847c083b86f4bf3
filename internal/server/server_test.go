package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/berlin-cli/internal/config"
	"github.com/tripdesk/berlin-cli/internal/crime"
	"github.com/tripdesk/berlin-cli/internal/model"
	"github.com/tripdesk/berlin-cli/internal/poi"
	"github.com/tripdesk/berlin-cli/internal/routes"
	"github.com/tripdesk/berlin-cli/internal/store"
	"github.com/tripdesk/berlin-cli/internal/widgets"
	"github.com/tripdesk/berlin-cli/pkg/places"
)

type stubPlaces struct {
	resp *places.NearbySearchResponse
	err  error
}

func (s *stubPlaces) NearbySearch(_ context.Context, _ places.NearbySearchRequest) (*places.NearbySearchResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubGenAI struct {
	answer string
	err    error
}

func (s *stubGenAI) Complete(_ context.Context, _ string) (string, error) {
	return s.answer, s.err
}

func newTestServer(t *testing.T, placesClient places.Client, loadCrime func() (crime.Table, error)) *Server {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "reviews.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	// Widget sources pointed at closed servers so fallbacks kick in.
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	return New(Deps{
		Search: poi.New(placesClient, true),
		SearchCfg: config.SearchConfig{
			CenterLat:    52.5200,
			CenterLng:    13.4050,
			RadiusMeters: 3000,
		},
		LoadCrime: loadCrime,
		Reviews:   st,
		Currency:  widgets.NewCurrency(widgets.CurrencyConfig{BaseURL: down.URL, Base: "EUR", Target: "KRW", Fallback: 1450}),
		Weather:   widgets.NewWeather(widgets.WeatherConfig{BaseURL: down.URL, Fallback: 15}),
		Concierge: widgets.NewConcierge(&stubGenAI{answer: "Try the Pergamon."}, ""),
		Routes:    routes.Defaults(),
	})
}

func crimeFixture() (crime.Table, error) {
	return crime.Table{
		Header: []string{"District", "Year", "Robbery", "Theft"},
		Rows: [][]string{
			{"Mitte", "2020", "10", "5"},
			{"Pankow", "2020", "3", "2"},
			{"Mitte", "2019", "100", "100"},
		},
	}, nil
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubPlaces{resp: &places.NearbySearchResponse{Status: places.StatusOK}}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestPlacesEndpoint(t *testing.T) {
	client := &stubPlaces{resp: &places.NearbySearchResponse{
		Status: places.StatusOK,
		Results: []places.Place{
			{Name: "Kopps", Geometry: &places.Geometry{Location: places.Location{Lat: 52.529, Lng: 13.401}}, Rating: 4.8},
			{Name: "Imbiss", Geometry: &places.Geometry{Location: places.Location{Lat: 52.521, Lng: 13.410}}, Rating: 3.2},
		},
	}}
	s := newTestServer(t, client, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/places?category=restaurant&min_rating=4.0", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp placesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Places, 1)
	assert.Equal(t, "Kopps", resp.Places[0].Name)
	assert.Empty(t, resp.Error)
}

func TestPlacesEndpoint_BadCategory(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/places?category=nightclub", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlacesEndpoint_DegradedWithCause(t *testing.T) {
	client := &stubPlaces{err: &places.StatusError{Status: places.StatusRequestDenied, Message: "billing"}}
	s := newTestServer(t, client, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/places?category=restaurant", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp placesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Places)
	assert.Contains(t, resp.Error, "REQUEST_DENIED")
}

func TestCrimeEndpoint(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/crime", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp crimeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Totals, 2)
	assert.Equal(t, 20, resp.TotalCrime)
	assert.Equal(t, "Mitte", resp.TopDistrict)
	assert.Equal(t, 2020, resp.Year)
	assert.Empty(t, resp.Error)
}

func TestCrimeEndpoint_LoadFailure(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, func() (crime.Table, error) {
		return crime.Table{}, eris.New("file unreadable")
	})

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/crime", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp crimeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Totals)
	assert.Contains(t, resp.Error, "file unreadable")
}

func TestWidgetsEndpoint_Fallbacks(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/widgets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 1450, resp["exchange_rate"], 0.001)
	assert.InDelta(t, 15, resp["temperature"], 0.001)
}

func TestRoutesEndpoint(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]model.Route
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["routes"])
}

func TestReviewsRoundTrip(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)
	router := s.Router()

	rec := doRequest(t, router, http.MethodPost, "/api/reviews/Kopps", `{"author":"mina","comment":"great brunch"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/reviews/Kopps", `{"comment":"book ahead"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/reviews/Kopps", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]model.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["reviews"], 2)
	assert.Equal(t, "great brunch", resp["reviews"][0].Comment)
}

func TestReviews_EmptyBoard(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodGet, "/api/reviews/Nowhere", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reviews":[]`)
}

func TestReviews_MissingComment(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodPost, "/api/reviews/Kopps", `{"author":"mina"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEndpoint(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodPost, "/api/ask", `{"prompt":"what should I see?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Try the Pergamon.")
}

func TestAskEndpoint_ApologyOnFailure(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)
	s.concierge = widgets.NewConcierge(&stubGenAI{err: eris.New("overloaded")}, "")

	rec := doRequest(t, s.Router(), http.MethodPost, "/api/ask", `{"prompt":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), widgets.DefaultApology)
}

func TestAskEndpoint_BadBody(t *testing.T) {
	s := newTestServer(t, &stubPlaces{}, crimeFixture)

	rec := doRequest(t, s.Router(), http.MethodPost, "/api/ask", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
