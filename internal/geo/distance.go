package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// Precision tells how a distance was resolved.
type Precision int

const (
	// PrecisionUnknown means neither coordinates nor known cities were available.
	PrecisionUnknown Precision = iota
	// PrecisionExact distances come from coordinates on both sides, rounded to 0.1 km.
	PrecisionExact
	// PrecisionApproximate distances come from city centroids, rounded to 1 km.
	PrecisionApproximate
)

func (p Precision) String() string {
	switch p {
	case PrecisionExact:
		return "exact"
	case PrecisionApproximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// Calculator resolves great-circle distances between two locations,
// falling back to the centroid table when coordinates are missing.
type Calculator struct {
	centroids *CentroidTable
}

// NewCalculator returns a Calculator backed by the given centroid table.
// A nil table disables the city fallback.
func NewCalculator(centroids *CentroidTable) *Calculator {
	return &Calculator{centroids: centroids}
}

// Distance returns the distance in kilometers between a and b.
// ok is false when either side cannot be resolved; that is not an error.
func (c *Calculator) Distance(a, b LocationRef) (km float64, ok bool) {
	km, precision := c.Resolve(a, b)
	return km, precision != PrecisionUnknown
}

// Resolve is Distance plus the precision the result was computed with.
func (c *Calculator) Resolve(a, b LocationRef) (float64, Precision) {
	ca, okA := a.coordinates()
	cb, okB := b.coordinates()
	if okA && okB {
		return roundTo(Haversine(ca, cb), 1), PrecisionExact
	}

	// Each side falls back to its city centroid independently.
	pa, okA := c.resolveSide(a)
	pb, okB := c.resolveSide(b)
	if !okA || !okB {
		return 0, PrecisionUnknown
	}

	return math.Round(Haversine(pa, pb)), PrecisionApproximate
}

func (c *Calculator) resolveSide(l LocationRef) (Coordinates, bool) {
	if point, ok := l.coordinates(); ok {
		return point, true
	}
	if c == nil || l.City == "" {
		return Coordinates{}, false
	}
	return c.centroids.Lookup(l.City)
}

// Haversine returns the unrounded great-circle distance in kilometers.
func Haversine(a, b Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h just past 1 for near-antipodal points.
	h = min(1, max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
