package model

// Stop is one waypoint on a sightseeing route.
type Stop struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lng  float64 `json:"lng" yaml:"lng"`
}

// Route is a curated sightseeing itinerary. Routes are static data shipped
// with the deployment, not computed.
type Route struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Stops       []Stop `json:"stops" yaml:"stops"`
}
