// Package field builds signed-distance scenes from sphere primitives and
// CSG operators. A Field is a pure function from a point to the nearest
// signed distance and the surface of the closest feature, so composed
// scenes are safe to query from any number of goroutines.
package field

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Surface describes the material response at a field sample.
type Surface struct {
	Color        ms3.Vec // RGB, components nominally in [0,1].
	Reflectivity float32 // In [0,1]; 0 means no secondary ray is ever spawned.
}

// Sample pairs a signed distance estimate with the surface of the closest
// feature. Negative distance means the point is inside a solid. The
// estimate must never overstate the true distance; underestimating is
// tolerated (Displace produces it on purpose).
type Sample struct {
	Distance float32
	Surface  Surface
}

// Field maps a point to a Sample. Fields are pure and deterministic.
type Field func(p ms3.Vec) Sample

// Sphere returns the field of a solid sphere.
func Sphere(center ms3.Vec, radius float32, surf Surface) Field {
	return func(p ms3.Vec) Sample {
		return Sample{
			Distance: ms3.Norm(ms3.Sub(p, center)) - radius,
			Surface:  surf,
		}
	}
}

// Union merges two fields; the closer surface wins. Ties keep a.
func Union(a, b Field) Field {
	return func(p ms3.Vec) Sample {
		sa, sb := a(p), b(p)
		if sb.Distance < sa.Distance {
			return sb
		}
		return sa
	}
}

// Intersect keeps the region inside both fields; the farther surface wins.
// Intersecting with an inverted field carves that shape out.
func Intersect(a, b Field) Field {
	return func(p ms3.Vec) Sample {
		sa, sb := a(p), b(p)
		if sb.Distance > sa.Distance {
			return sb
		}
		return sa
	}
}

// Invert turns a solid into its complement, keeping the surface.
func Invert(f Field) Field {
	return func(p ms3.Vec) Sample {
		s := f(p)
		s.Distance = -s.Distance
		return s
	}
}

// Warp evaluates f through a smooth sinusoidal coordinate distortion,
// each axis shifted by the sine of another, which gives the underlying
// shape an organic silhouette.
func Warp(f Field) Field {
	return func(p ms3.Vec) Sample {
		return f(ms3.Add(p, ms3.Vec{
			X: math32.Sin(0.4 * p.Y),
			Y: math32.Sin(0.6 * p.Z),
			Z: math32.Sin(0.8 * p.X),
		}))
	}
}

// Displace adds a periodic perturbation bounded by scale to f's distance,
// producing a bumpy surface. detail sets the ripple frequency. The result
// can dip below the true distance, so marching code must clamp its step
// size from below to avoid stalling.
func Displace(scale, detail float32, f Field) Field {
	return func(p ms3.Vec) Sample {
		s := f(p)
		s.Distance += scale *
			math32.Sin(detail*p.X) *
			math32.Sin(detail*p.Y) *
			math32.Sin(detail*p.Z)
		return s
	}
}
