// Package scoring turns a guessed position into a round score.
package scoring

import "math"

const (
	EarthRadiusMeters = 6371000.0

	MaxScore = 100
	MinScore = 0

	// Stored historical scores depend on these exact values.
	decayScale = 10.0
	multiplier = 200.0
)

// Distance returns the great-circle distance in meters between two points given in
// degrees, using the haversine formula on a spherical earth.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// rounding can push a slightly above 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	return 2 * math.Asin(math.Sqrt(a)) * EarthRadiusMeters
}

// FromDistance maps a distance in meters to a score in [0,100]:
// floor(200 * (1 - 1/(1 + e^(-d/10)))). A perfect guess scores 100 and anything
// beyond roughly 55 meters scores 0. A NaN distance scores 0.
func FromDistance(meters float64) int {
	if math.IsNaN(meters) {
		return MinScore
	}
	if meters <= 0 {
		return MaxScore
	}
	score := int(math.Floor(multiplier * (1 - 1/(1+math.Exp(-meters/decayScale)))))
	if score > MaxScore {
		return MaxScore
	}
	if score < MinScore {
		return MinScore
	}
	return score
}

// Score grades a guess against the true location of a map.
func Score(guessLat, guessLon, trueLat, trueLon float64) int {
	return FromDistance(Distance(guessLat, guessLon, trueLat, trueLon))
}
