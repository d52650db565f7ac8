package pipeline

// Accepted source keys per canonical attribute, probed in order; the first
// key holding a non-null value wins.
var (
	historyKeys = []string{"historical", "history"}

	predictedValueKeys = []string{"predicted_emission", "Predicted_CO2_Emission", "prediction"}
	predictedYearKeys  = []string{"year"}
	lastYearKeys       = []string{"last_year_emission"}
	changePercentKeys  = []string{"change_percent"}
	trendKeys          = []string{"trend"}
	countryKeys        = []string{"country"}
	unitKeys           = []string{"unit"}
	errorKeys          = []string{"error"}
)

// recordAliases maps each canonical record attribute to its accepted keys.
var recordAliases = struct {
	Year, CO2, Temperature, Energy, GDP, Population []string
}{
	Year:        []string{"Year", "year"},
	CO2:         []string{"CO2_Emissions", "CO2", "co2", "value"},
	Temperature: []string{"Avg_Temperature", "Temp", "temp"},
	Energy:      []string{"Energy_Use", "Energy", "energy"},
	GDP:         []string{"GDP", "gdp"},
	Population:  []string{"Population", "population", "Pop"},
}

// lookup returns the first non-null value among keys.
func lookup(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
