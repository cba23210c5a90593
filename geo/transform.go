// Package geo converts feature ring coordinates out of the projected
// reference system the wildfire exports use and measures geodesic
// distances against them.
package geo

import (
	"fmt"
	"math"
)

// Transformer converts a list of coordinate pairs from one reference
// system to another. Implementations define the pair convention on both
// sides.
type Transformer interface {
	Transform(pairs [][2]float64) ([][2]float64, error)
}

// AlbersToWGS84 inverts the ESRI:102008 projection (North America Albers
// Equal Area Conic on NAD83/GRS80) that the USGS exports are published in.
// Input pairs are projected [easting, northing] meters; output pairs are
// [lat, lon] degrees.
type AlbersToWGS84 struct {
	a  float64 // semi-major axis
	e  float64 // eccentricity
	e2 float64 // eccentricity squared

	n    float64 // cone constant
	c    float64
	rho0 float64
	lon0 float64 // central meridian, radians
}

// ESRI:102008 parameters: GRS80 ellipsoid, central meridian -96, latitude
// of origin 40, standard parallels 20 and 60.
const (
	grs80A    = 6378137.0
	grs80InvF = 298.257222101

	albersLat0 = 40.0
	albersLon0 = -96.0
	albersSP1  = 20.0
	albersSP2  = 60.0
)

func NewAlbersToWGS84() *AlbersToWGS84 {
	f := 1 / grs80InvF
	e2 := f * (2 - f)

	t := &AlbersToWGS84{
		a:    grs80A,
		e:    math.Sqrt(e2),
		e2:   e2,
		lon0: albersLon0 * math.Pi / 180,
	}

	phi0 := albersLat0 * math.Pi / 180
	phi1 := albersSP1 * math.Pi / 180
	phi2 := albersSP2 * math.Pi / 180

	m1 := t.m(phi1)
	m2 := t.m(phi2)
	q0 := t.q(phi0)
	q1 := t.q(phi1)
	q2 := t.q(phi2)

	t.n = (m1*m1 - m2*m2) / (q2 - q1)
	t.c = m1*m1 + t.n*q1
	t.rho0 = t.a * math.Sqrt(t.c-t.n*q0) / t.n
	return t
}

// Transform inverts every pair. The whole batch fails if any point does,
// since a ring with missing vertices is useless for distance work.
func (t *AlbersToWGS84) Transform(pairs [][2]float64) ([][2]float64, error) {
	out := make([][2]float64, len(pairs))
	for i, p := range pairs {
		lat, lon, err := t.Inverse(p[0], p[1])
		if err != nil {
			return nil, fmt.Errorf("geo: point %d (%g, %g): %w", i, p[0], p[1], err)
		}
		out[i] = [2]float64{lat, lon}
	}
	return out, nil
}

// Inverse converts one projected point to geographic degrees. The
// iteration is Snyder's series-free inverse for the ellipsoidal Albers.
func (t *AlbersToWGS84) Inverse(x, y float64) (lat, lon float64, err error) {
	rho := math.Hypot(x, t.rho0-y)
	theta := math.Atan2(x, t.rho0-y)

	q := (t.c - rho*rho*t.n*t.n/(t.a*t.a)) / t.n

	// q at the pole; anything beyond it is off the ellipsoid.
	qPole := t.q(math.Pi / 2)
	if math.Abs(q) > qPole+1e-9 {
		return 0, 0, fmt.Errorf("point outside projection domain")
	}

	phi := math.Asin(clamp(q/2, -1, 1))
	for i := 0; i < 15; i++ {
		sin := math.Sin(phi)
		cos := math.Cos(phi)
		if math.Abs(cos) < 1e-12 {
			break
		}
		es2 := 1 - t.e2*sin*sin
		delta := es2 * es2 / (2 * cos) *
			(q/(1-t.e2) - sin/es2 + math.Log((1-t.e*sin)/(1+t.e*sin))/(2*t.e))
		phi += delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}

	lat = phi * 180 / math.Pi
	lon = (t.lon0 + theta/t.n) * 180 / math.Pi
	return lat, lon, nil
}

// m is Snyder's cos(phi)/sqrt(1 - e^2 sin^2(phi)).
func (t *AlbersToWGS84) m(phi float64) float64 {
	sin := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-t.e2*sin*sin)
}

// q is Snyder's equal-area latitude function.
func (t *AlbersToWGS84) q(phi float64) float64 {
	sin := math.Sin(phi)
	return (1 - t.e2) * (sin/(1-t.e2*sin*sin) -
		math.Log((1-t.e*sin)/(1+t.e*sin))/(2*t.e))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
