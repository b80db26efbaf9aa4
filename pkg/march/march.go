// Package march walks rays through a signed-distance field to find surface
// crossings, and estimates surface normals by central differences.
package march

import (
	"github.com/soypat/geometry/ms3"

	"github.com/kmoroz/go-sphere-marcher/pkg/field"
)

// MinStep and NormalDelta are coupled to the demo scene scale (sphere
// radii 30-65, view-plane scale 250). MinStep keeps the march from
// stalling when the field underestimates distance, at the price of being
// able to step over features thinner than it; NormalDelta is the offset
// used for gradient estimation. Change them together if the scene scale
// changes.
const (
	MinStep     float32 = 0.01
	NormalDelta float32 = 0.01
)

// March steps from origin along the unit direction dir until the field
// reports a non-positive distance, returning that sample and the crossing
// point. keepGoing is evaluated before every field query: once it returns
// false the ray is declared escaped and ok is false. It is the only bound
// on the loop, so every caller must supply one.
//
// Each step advances by the sampled distance clamped to at least MinStep.
// Over a displaced field this is not strict sphere tracing and may
// overshoot thin ridges; that is the accepted trade for never stalling.
func March(f field.Field, origin, dir ms3.Vec, keepGoing func(ms3.Vec) bool) (field.Sample, ms3.Vec, bool) {
	p := origin
	for keepGoing(p) {
		s := f(p)
		if s.Distance <= 0 {
			return s, p, true
		}
		p = ms3.Add(p, ms3.Scale(max(s.Distance, MinStep), dir))
	}
	return field.Sample{}, ms3.Vec{}, false
}

// MarchOut walks from origin along dir while still inside a solid (the
// negated field value is non-negative) and returns the first point
// outside. It is used to nudge secondary rays off the surface they were
// spawned on, so they cannot immediately re-hit it. A point already in
// free space is returned unchanged.
func MarchOut(f field.Field, origin, dir ms3.Vec) ms3.Vec {
	p := origin
	for {
		depth := -f(p).Distance
		if depth < 0 {
			return p
		}
		p = ms3.Add(p, ms3.Scale(max(depth, MinStep), dir))
	}
}

// Normal estimates the unit surface normal at p as the central-difference
// gradient of the field, sampled NormalDelta away along each axis.
func Normal(f field.Field, p ms3.Vec) ms3.Vec {
	dx := ms3.Vec{X: NormalDelta}
	dy := ms3.Vec{Y: NormalDelta}
	dz := ms3.Vec{Z: NormalDelta}
	grad := ms3.Vec{
		X: f(ms3.Add(p, dx)).Distance - f(ms3.Sub(p, dx)).Distance,
		Y: f(ms3.Add(p, dy)).Distance - f(ms3.Sub(p, dy)).Distance,
		Z: f(ms3.Add(p, dz)).Distance - f(ms3.Sub(p, dz)).Distance,
	}
	return ms3.Unit(ms3.Scale(1/(2*NormalDelta), grad))
}
