// Package jitter anonymizes coordinates with a bounded random spatial offset.
package jitter

import (
	"math"
	"math/rand"

	"github.com/golang/geo/s2"
	"go.uber.org/zap"

	"github.com/npidgeon/Heatmap/internal/points"
)

// WGS84 equatorial radius in meters.
const earthRadiusMeters = 6378137.0

// maxAttempts bounds the redraw loop when a bounds predicate is set. On
// exhaustion the original coordinate is kept, which trivially satisfies the
// radius guarantee.
const maxAttempts = 100

// Jitterer displaces coordinates by at most Radius meters. The offset
// distance is drawn as sqrt of a uniform draw times the radius, so point
// density stays uniform over the disk, and the bearing uniform over [0, 2π).
// The
// destination is computed with the spherical great-circle formula, so the
// guarantee holds at any latitude. A zero radius disables jitter entirely.
type Jitterer struct {
	// Radius is the privacy radius in meters.
	Radius float64

	// Bounds, when non-nil, constrains output points: draws landing outside
	// are retried.
	Bounds func(lat, lng float64) bool

	rng *rand.Rand
}

// New builds a Jitterer over the given random source. The source is
// injectable so callers can fix a seed for reproducible output.
func New(radiusMeters float64, rng *rand.Rand) *Jitterer {
	return &Jitterer{Radius: radiusMeters, rng: rng}
}

// Point returns the jittered coordinate. With a zero radius the input is
// returned unchanged and no randomness is consumed.
func (j *Jitterer) Point(c points.Coordinate) points.Coordinate {
	if j.Radius == 0 {
		return c
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		dist := math.Sqrt(j.rng.Float64()) * j.Radius
		bearing := j.rng.Float64() * 2 * math.Pi

		lat, lng := destination(c.Lat, c.Lng, bearing, dist)
		if j.Bounds == nil || j.Bounds(lat, lng) {
			return points.Coordinate{Lat: lat, Lng: lng}
		}
	}

	return c
}

// Apply jitters the whole point set in order.
func (j *Jitterer) Apply(pts []points.Coordinate) []points.Coordinate {
	zap.L().Info("applying anonymizing jitter",
		zap.Int("records", len(pts)),
		zap.Float64("radius_meters", j.Radius),
	)

	out := make([]points.Coordinate, len(pts))
	for i, p := range pts {
		out[i] = j.Point(p)
	}
	return out
}

// destination computes the point reached by traveling dist meters from
// (lat, lng) along the given bearing (radians, clockwise from north) over a
// spherical Earth.
func destination(lat, lng, bearing, dist float64) (float64, float64) {
	p := s2.LatLngFromDegrees(lat, lng)
	angular := dist / earthRadiusMeters

	latRad := p.Lat.Radians()
	lngRad := p.Lng.Radians()

	lat2 := math.Asin(math.Sin(latRad)*math.Cos(angular) +
		math.Cos(latRad)*math.Sin(angular)*math.Cos(bearing))

	lng2 := lngRad + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(latRad),
		math.Cos(angular)-math.Sin(latRad)*math.Sin(lat2))

	return lat2 * 180 / math.Pi, normalizeLng(lng2 * 180 / math.Pi)
}

// normalizeLng wraps a longitude into [-180, 180).
func normalizeLng(lng float64) float64 {
	return math.Mod(lng+540, 360) - 180
}

// Distance returns the great-circle distance between two coordinates in
// meters, on the same sphere the offset uses.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}
