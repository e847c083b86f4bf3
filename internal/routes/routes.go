// Package routes serves the curated sightseeing itineraries the dashboard
// renders as polylines. The data is static; operators may override the
// built-in set with a YAML file.
package routes

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/tripdesk/berlin-cli/internal/model"
)

// Defaults returns the built-in Berlin sightseeing routes.
func Defaults() []model.Route {
	return []model.Route{
		{
			Name:        "Classic Mitte",
			Description: "The essential first-day walk through the historic center.",
			Stops: []model.Stop{
				{Name: "Brandenburger Tor", Lat: 52.5163, Lng: 13.3777},
				{Name: "Denkmal für die ermordeten Juden Europas", Lat: 52.5139, Lng: 13.3787},
				{Name: "Unter den Linden", Lat: 52.5170, Lng: 13.3889},
				{Name: "Museumsinsel", Lat: 52.5169, Lng: 13.4010},
				{Name: "Berliner Dom", Lat: 52.5190, Lng: 13.4010},
				{Name: "Alexanderplatz", Lat: 52.5219, Lng: 13.4132},
			},
		},
		{
			Name:        "Wall and East Side",
			Description: "Cold-war Berlin from Checkpoint Charlie to the East Side Gallery.",
			Stops: []model.Stop{
				{Name: "Checkpoint Charlie", Lat: 52.5076, Lng: 13.3904},
				{Name: "Topographie des Terrors", Lat: 52.5065, Lng: 13.3836},
				{Name: "Potsdamer Platz", Lat: 52.5096, Lng: 13.3759},
				{Name: "East Side Gallery", Lat: 52.5050, Lng: 13.4399},
				{Name: "Oberbaumbrücke", Lat: 52.5019, Lng: 13.4455},
			},
		},
		{
			Name:        "Kreuzberg Afternoon",
			Description: "Markets, canal walks and street food west of the Spree.",
			Stops: []model.Stop{
				{Name: "Markthalle Neun", Lat: 52.5021, Lng: 13.4314},
				{Name: "Landwehrkanal", Lat: 52.4965, Lng: 13.4252},
				{Name: "Bergmannstraße", Lat: 52.4883, Lng: 13.3947},
				{Name: "Tempelhofer Feld", Lat: 52.4733, Lng: 13.4036},
			},
		},
	}
}

// LoadFile reads routes from a YAML file. An empty path returns the
// built-in defaults.
func LoadFile(path string) ([]model.Route, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "routes: read %s", path)
	}

	var doc struct {
		Routes []model.Route `yaml:"routes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "routes: parse %s", path)
	}
	if len(doc.Routes) == 0 {
		return nil, eris.Errorf("routes: %s contains no routes", path)
	}
	return doc.Routes, nil
}
