package footprint

// AverageBaseline is the reference total footprint (kg CO2) used to
// express a submission as a percentage of the average.
const AverageBaseline = 20.0

// categories is the authoritative submission schema: every submission
// must carry exactly these keys. Order is stable so validation messages
// and seeded tip selection are reproducible.
var categories = []string{
	"car",
	"bus",
	"train",
	"plane",
	"electricity",
	"natural_gas",
	"waste",
	"water",
	"meat",
	"vegetables",
}

// emissionFactors maps each category to kg CO2 per reported unit.
var emissionFactors = map[string]float64{
	"car":         0.2,
	"bus":         0.1,
	"train":       0.05,
	"plane":       0.25,
	"electricity": 0.5,
	"natural_gas": 0.2,
	"waste":       0.1,
	"water":       0.001,
	"meat":        0.015,
	"vegetables":  0.002,
}

// Categories returns the required category names in schema order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Factor returns the emission factor for a category name.
func Factor(name string) (float64, bool) {
	f, ok := emissionFactors[name]
	return f, ok
}
