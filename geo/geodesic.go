package geo

import (
	"errors"
	"math"
)

// WGS84 ellipsoid.
const (
	wgs84A    = 6378137.0
	wgs84InvF = 298.257223563
)

// ErrNoConvergence is returned by Distance for nearly antipodal points,
// where the Vincenty iteration does not settle.
var ErrNoConvergence = errors.New("geo: geodesic iteration did not converge")

// Distance returns the geodesic distance in meters between two geographic
// points on the WGS84 ellipsoid, by Vincenty's inverse formula.
func Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	const rad = math.Pi / 180
	f := 1 / wgs84InvF
	b := wgs84A * (1 - f)

	u1 := math.Atan((1 - f) * math.Tan(lat1*rad))
	u2 := math.Atan((1 - f) * math.Tan(lat2*rad))
	l := (lon2 - lon1) * rad

	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	converged := false
	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			return 0, nil // coincident points
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			cos2SigmaM = 0 // equatorial line
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < 1e-12 {
			converged = true
			break
		}
	}
	if !converged {
		return 0, ErrNoConvergence
	}

	uSq := cosSqAlpha * (wgs84A*wgs84A - b*b) / (b * b)
	ca := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	cb := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := cb * sinSigma * (cos2SigmaM + cb/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			cb/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return b * ca * (sigma - deltaSigma), nil
}

// DistanceToRing returns the shortest geodesic distance in meters from a
// geographic point to the vertices of a ring given as [lat, lon] pairs,
// e.g. a fire perimeter after reprojection.
func DistanceToRing(lat, lon float64, ring [][2]float64) (float64, error) {
	if len(ring) == 0 {
		return 0, errors.New("geo: empty ring")
	}
	best := math.Inf(1)
	for _, p := range ring {
		d, err := Distance(lat, lon, p[0], p[1])
		if err != nil {
			return 0, err
		}
		if d < best {
			best = d
		}
	}
	return best, nil
}
