// Package model defines the record shapes shared by the pipelines and the
// presentation surface.
package model

import "strings"

// Category is the point-of-interest type tag understood by the places source.
type Category string

// Supported place categories.
const (
	CategoryRestaurant        Category = "restaurant"
	CategoryLodging           Category = "lodging"
	CategoryTouristAttraction Category = "tourist_attraction"
	CategoryCafe              Category = "cafe"
	CategoryMuseum            Category = "museum"
	CategoryPark              Category = "park"
)

// Valid reports whether c is one of the supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryLodging, CategoryTouristAttraction,
		CategoryCafe, CategoryMuseum, CategoryPark:
		return true
	}
	return false
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceRecord is one normalized point of interest. Records are constructed
// fresh per pipeline invocation and never mutated.
type PlaceRecord struct {
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Rating     float64  `json:"rating"`
	Address    string   `json:"address,omitempty"`
	Category   Category `json:"category"`
	DetailLink string   `json:"detail_link"`
}

// DetailLink synthesizes a web-search URL for a place name. It is a display
// convenience, not authoritative data: the name is suffixed with "Berlin"
// and spaces become plus signs.
func DetailLink(name string) string {
	query := strings.ReplaceAll(name+" Berlin", " ", "+")
	return "https://www.google.com/search?q=" + query
}
