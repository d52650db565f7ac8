// Package types holds the canonical records exchanged between the gateway, the
// normalization pipeline and the presentation layers.
package types

// HistoricalRecord is one observed year for a country after alias resolution.
// Nil attributes are gaps and render as the unavailable marker.
type HistoricalRecord struct {
	Year           int      `json:"year"`
	CO2            *float64 `json:"co2,omitempty"`
	AvgTemperature *float64 `json:"avg_temperature,omitempty"`
	EnergyUse      *float64 `json:"energy_use,omitempty"`
	GDP            *float64 `json:"gdp,omitempty"`
	Population     *float64 `json:"population,omitempty"`
}

// PredictionResult is the scalar part of a prediction response.
// A nil PredictedValue means the service did not provide a forecast.
type PredictionResult struct {
	PredictedValue *float64 `json:"predicted_value,omitempty"`
	PredictedYear  *int     `json:"predicted_year,omitempty"`
	LastYearValue  *float64 `json:"last_year_value,omitempty"`
	ChangePercent  *float64 `json:"change_percent,omitempty"`
	TrendLabel     *string  `json:"trend_label,omitempty"`
	// Passed through when the country endpoint sends them.
	Country *string `json:"country,omitempty"`
	Unit    *string `json:"unit,omitempty"`
}

// CountryRequest asks the service for a forecast of a supported reference country.
type CountryRequest struct {
	Country string `json:"country"`
}

// FeatureRequest is the manual feature vector accepted by the prediction endpoint.
type FeatureRequest struct {
	Year           int     `json:"Year"`
	AvgTemperature float64 `json:"Avg_Temperature"`
	EnergyUse      float64 `json:"Energy_Use"`
	GDP            float64 `json:"GDP"`
	Population     float64 `json:"Population"`
	CountryCode    int     `json:"Country_Code"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
