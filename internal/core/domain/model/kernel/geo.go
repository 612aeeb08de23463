package kernel

import "math"

// EarthRadiusKm is the mean earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the haversine distance between a and b in kilometres.
// A missing endpoint yields 0.
func Distance(a, b Location) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}

	lat1 := toRadians(a.latitude)
	lat2 := toRadians(b.latitude)
	dLat := lat2 - lat1
	dLng := toRadians(b.longitude - a.longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DetourFraction is (withInsertion - direct) / direct, or 0 when direct is not positive.
func DetourFraction(direct, withInsertion float64) float64 {
	if direct <= 0 {
		return 0
	}
	return (withInsertion - direct) / direct
}

// InsertionCost returns the smallest extra distance caused by splicing p into route,
// over every position including before the first stop and after the last one.
func InsertionCost(route []Location, p Location) float64 {
	if len(route) == 0 {
		return 0
	}

	best := Distance(p, route[0])
	for i := 1; i < len(route); i++ {
		prev, next := route[i-1], route[i]
		extra := Distance(prev, p) + Distance(p, next) - Distance(prev, next)
		best = math.Min(best, extra)
	}
	return math.Min(best, Distance(route[len(route)-1], p))
}

// TotalRouteDistance sums the legs between consecutive stops.
func TotalRouteDistance(stops []Location) float64 {
	total := 0.0
	for i := 1; i < len(stops); i++ {
		total += Distance(stops[i-1], stops[i])
	}
	return total
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
