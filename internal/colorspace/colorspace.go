// Package colorspace converts between gamma-encoded sRGB and the CIE L*a*b*
// perceptual color space, and provides the distance and averaging primitives
// the clustering engine is built on.
//
// L*a*b* is used because Euclidean distance there approximates perceived
// color difference, which raw RGB distance does not.
package colorspace

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput marks malformed caller input: mismatched point lengths,
// empty collections, and similar precondition violations. Check with
// errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Point is an ordered triple of coordinates in some color space,
// either normalized RGB or L*a*b* depending on context.
type Point []float64

// D65 reference white, 2° observer.
const (
	refX = 95.047
	refY = 100.0
	refZ = 108.883
)

// RGBToLab converts a gamma-encoded sRGB color, each component in [0, 1],
// to CIE L*a*b* under D65. Out-of-range inputs are not rejected; they
// propagate through the arithmetic.
func RGBToLab(r, g, b float64) Point {
	r = invGamma(r) * 100
	g = invGamma(g) * 100
	b = invGamma(b) * 100

	x := r*0.4124 + g*0.3576 + b*0.1805
	y := r*0.2126 + g*0.7152 + b*0.0722
	z := r*0.0193 + g*0.1192 + b*0.9505

	fx := labF(x / refX)
	fy := labF(y / refY)
	fz := labF(z / refZ)

	return Point{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}

// LabToRGB converts a CIE L*a*b* point back to gamma-encoded sRGB components
// in [0, 1]. It is the algebraic inverse of RGBToLab to within floating-point
// precision. Used for presenting converged centers; not on the clustering
// hot path.
func LabToRGB(p Point) (r, g, b float64) {
	fy := (p[0] + 16) / 116
	fx := p[1]/500 + fy
	fz := fy - p[2]/200

	x := labFInv(fx) * refX
	y := labFInv(fy) * refY
	z := labFInv(fz) * refZ

	x /= 100
	y /= 100
	z /= 100

	// Inverse of the forward sRGB matrix above, carried to enough digits
	// that a round trip stays well inside float tolerance.
	r = x*3.2406255 + y*-1.5372080 + z*-0.4986286
	g = x*-0.9689307 + y*1.8757561 + z*0.0415175
	b = x*0.0557101 + y*-0.2040211 + z*1.0569959

	return gamma(r), gamma(g), gamma(b)
}

// invGamma removes the sRGB transfer curve from one channel.
func invGamma(c float64) float64 {
	if c > 0.04045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

// gamma re-applies the sRGB transfer curve to one linear channel.
func gamma(c float64) float64 {
	if c > 0.0031308 {
		return 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	return 12.92 * c
}

// labF is the L*a*b* nonlinearity; the linear branch below 0.008856 avoids
// the infinite slope of the cube root near zero.
func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 0.13793
}

// labFInv inverts labF, branching on the same point: f(0.008856)^3 is the
// cube of the branch value, so the cube test mirrors the forward branch.
func labFInv(t float64) float64 {
	if cube := t * t * t; cube > 0.008856 {
		return cube
	}
	return (t - 0.13793) / 7.787
}

// DistanceSq returns the squared Euclidean distance between two points.
// The points must have the same length.
func DistanceSq(a, b Point) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("point lengths differ (%d vs %d): %w", len(a), len(b), ErrInvalidInput)
	}
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d, nil
}

// Mean returns the coordinate-wise mean of the given points.
// The collection must be non-empty and the points must share one length.
func Mean(points []Point) (Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("mean of empty point set: %w", ErrInvalidInput)
	}
	sum := make(Point, len(points[0]))
	for _, p := range points {
		if len(p) != len(sum) {
			return nil, fmt.Errorf("point lengths differ (%d vs %d): %w", len(p), len(sum), ErrInvalidInput)
		}
		floats.Add(sum, p)
	}
	floats.Scale(1/float64(len(points)), sum)
	return sum, nil
}
