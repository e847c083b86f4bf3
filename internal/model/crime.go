package model

// DistrictCrimeTotal is the aggregation output for one district: the sum of
// all crime-count columns for the most recent year in the source dataset.
type DistrictCrimeTotal struct {
	District   string `json:"district"`
	TotalCrime int    `json:"total_crime"`
}

// CrimeSummary bundles the derived dashboard figures computed from an
// aggregation result and its filtered cohort.
type CrimeSummary struct {
	Totals       []DistrictCrimeTotal `json:"totals"`
	TotalCrime   int                  `json:"total_crime"`
	TopDistrict  string               `json:"top_district,omitempty"`
	TopCrimeType string               `json:"top_crime_type,omitempty"`
	Year         int                  `json:"year,omitempty"`
}
