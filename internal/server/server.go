// Package server exposes the pipelines and widgets as the dashboard's JSON
// feed.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tripdesk/berlin-cli/internal/config"
	"github.com/tripdesk/berlin-cli/internal/crime"
	"github.com/tripdesk/berlin-cli/internal/model"
	"github.com/tripdesk/berlin-cli/internal/poi"
	"github.com/tripdesk/berlin-cli/internal/store"
	"github.com/tripdesk/berlin-cli/internal/widgets"
)

// Server bundles the handlers' collaborators.
type Server struct {
	search    *poi.Pipeline
	searchCfg config.SearchConfig
	loadCrime func() (crime.Table, error)
	reviews   store.Store
	currency  *widgets.Currency
	weather   *widgets.Weather
	concierge *widgets.Concierge
	routes    []model.Route
}

// Deps lists what the server needs; all fields are required except Routes.
type Deps struct {
	Search    *poi.Pipeline
	SearchCfg config.SearchConfig
	LoadCrime func() (crime.Table, error)
	Reviews   store.Store
	Currency  *widgets.Currency
	Weather   *widgets.Weather
	Concierge *widgets.Concierge
	Routes    []model.Route
}

// New creates a Server.
func New(deps Deps) *Server {
	return &Server{
		search:    deps.Search,
		searchCfg: deps.SearchCfg,
		loadCrime: deps.LoadCrime,
		reviews:   deps.Reviews,
		currency:  deps.Currency,
		weather:   deps.Weather,
		concierge: deps.Concierge,
		routes:    deps.Routes,
	}
}

// Router builds the chi router for the dashboard API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/places", s.handlePlaces)
	r.Get("/api/crime", s.handleCrime)
	r.Get("/api/widgets", s.handleWidgets)
	r.Get("/api/routes", s.handleRoutes)
	r.Get("/api/reviews/{place}", s.handleListReviews)
	r.Post("/api/reviews/{place}", s.handleAddReview)
	r.Post("/api/ask", s.handleAsk)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// placesResponse carries the normalized records plus a degraded-search cause
// when the source rejected the call.
type placesResponse struct {
	Places []model.PlaceRecord `json:"places"`
	Error  string              `json:"error,omitempty"`
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := model.Category(q.Get("category"))
	if category == "" {
		category = model.CategoryTouristAttraction
	}
	if !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported category"})
		return
	}

	req := poi.SearchRequest{
		Category:     category,
		Center:       model.LatLng{Lat: s.searchCfg.CenterLat, Lng: s.searchCfg.CenterLng},
		RadiusMeters: s.searchCfg.RadiusMeters,
		MinRating:    s.searchCfg.MinRating,
		Keyword:      q.Get("keyword"),
	}
	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "min_rating must be a number"})
			return
		}
		req.MinRating = rating
	}
	if v := q.Get("radius"); v != "" {
		radius, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "radius must be an integer"})
			return
		}
		req.RadiusMeters = radius
	}

	records, err := s.search.Search(r.Context(), req)
	resp := placesResponse{Places: records}
	if resp.Places == nil {
		resp.Places = []model.PlaceRecord{}
	}
	if err != nil {
		// Degraded, not fatal: the map renders empty with a visible cause.
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type crimeResponse struct {
	model.CrimeSummary
	Error string `json:"error,omitempty"`
}

func (s *Server) handleCrime(w http.ResponseWriter, r *http.Request) {
	resp := crimeResponse{}
	resp.Totals = []model.DistrictCrimeTotal{}

	table, err := s.loadCrime()
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	summary, err := crime.Summarize(table)
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.CrimeSummary = summary
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWidgets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	writeJSON(w, http.StatusOK, map[string]float64{
		"exchange_rate": s.currency.Rate(ctx),
		"temperature":   s.weather.Temperature(ctx),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]model.Route{"routes": s.routes})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	place := chi.URLParam(r, "place")

	reviews, err := s.reviews.ListReviews(r.Context(), place)
	if err != nil {
		zap.L().Error("list reviews failed", zap.String("place", place), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "review board unavailable"})
		return
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	writeJSON(w, http.StatusOK, map[string][]model.Review{"reviews": reviews})
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	place := chi.URLParam(r, "place")

	var body struct {
		Author  string `json:"author"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if body.Comment == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "comment is required"})
		return
	}

	review, err := s.reviews.AddReview(r.Context(), model.Review{
		Place:   place,
		Author:  body.Author,
		Comment: body.Comment,
	})
	if err != nil {
		zap.L().Error("add review failed", zap.String("place", place), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "review board unavailable"})
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// The concierge degrades to its apology internally; this never fails.
	answer := s.concierge.Ask(r.Context(), body.Prompt)
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}
