package boundary

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// WGS84 equatorial radius, matching the jitter offset math.
const earthRadiusMeters = 6378137.0

// Boundary is the national outline with an optional margin band. Points
// inside any polygon part, or within margin meters of a part's outer edge,
// count as inside.
type Boundary struct {
	mp        *geom.MultiPolygon
	marginDeg float64
}

// Load reads the nation shapefile and builds a Boundary with the given
// margin in meters.
func Load(shpPath string, marginMeters float64) (*Boundary, error) {
	log := zap.L().With(zap.String("component", "boundary"))
	log.Info("loading US boundary shapefile", zap.String("path", shpPath))

	mp, err := readNationGeometry(shpPath)
	if err != nil {
		return nil, err
	}
	if marginMeters < 0 {
		return nil, eris.Errorf("boundary: negative margin %f", marginMeters)
	}

	log.Info("boundary loaded",
		zap.Int("parts", mp.NumPolygons()),
		zap.Float64("margin_meters", marginMeters),
	)

	return &Boundary{
		mp:        mp,
		marginDeg: marginMeters / earthRadiusMeters * (180 / math.Pi),
	}, nil
}

// MultiPolygon exposes the full multi-part outline.
func (b *Boundary) MultiPolygon() *geom.MultiPolygon { return b.mp }

// Largest returns the largest part by area: the continental US in the Census
// nation file.
func (b *Boundary) Largest() *geom.Polygon {
	var largest *geom.Polygon
	var largestArea float64
	for i := 0; i < b.mp.NumPolygons(); i++ {
		p := b.mp.Polygon(i)
		// Shapefile outer rings wind clockwise, so compare magnitudes.
		if a := math.Abs(p.Area()); largest == nil || a > largestArea {
			largest = p
			largestArea = a
		}
	}
	return largest
}

// Contains reports whether the point lies inside the boundary, allowing the
// configured margin band outside polygon edges.
func (b *Boundary) Contains(lat, lng float64) bool {
	p := geom.Coord{lng, lat}

	for i := 0; i < b.mp.NumPolygons(); i++ {
		poly := b.mp.Polygon(i)
		if poly.NumLinearRings() == 0 {
			continue
		}
		if xy.IsPointInRing(geom.XY, p, poly.LinearRing(0).FlatCoords()) {
			inHole := false
			for r := 1; r < poly.NumLinearRings(); r++ {
				if xy.IsPointInRing(geom.XY, p, poly.LinearRing(r).FlatCoords()) {
					inHole = true
					break
				}
			}
			if !inHole {
				return true
			}
		}
	}

	if b.marginDeg > 0 {
		for i := 0; i < b.mp.NumPolygons(); i++ {
			poly := b.mp.Polygon(i)
			if poly.NumLinearRings() == 0 {
				continue
			}
			if withinRingMargin(p, poly.LinearRing(0).FlatCoords(), b.marginDeg) {
				return true
			}
		}
	}

	return false
}

// withinRingMargin reports whether the point lies within marginDeg of any ring
// segment. Longitude deltas are scaled by cos(lat) so the margin is roughly
// metric at the point's latitude.
func withinRingMargin(p geom.Coord, ring []float64, marginDeg float64) bool {
	cosLat := math.Cos(p[1] * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}

	for i := 0; i+3 < len(ring); i += 2 {
		d := pointSegmentDistance(
			p[0]*cosLat, p[1],
			ring[i]*cosLat, ring[i+1],
			ring[i+2]*cosLat, ring[i+3],
		)
		if d <= marginDeg {
			return true
		}
	}
	return false
}

// pointSegmentDistance returns the planar distance from (px,py) to the
// segment (ax,ay)-(bx,by).
func pointSegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
