// Package trace computes outgoing color for rays cast into a distance
// field: direct diffuse lighting with shadow tests per light, plus
// recursive mirror reflection bounded by a bounce budget.
package trace

import (
	"github.com/soypat/geometry/ms3"

	"github.com/kmoroz/go-sphere-marcher/pkg/field"
	"github.com/kmoroz/go-sphere-marcher/pkg/march"
)

// missColor stands in for the environment when a reflected ray escapes.
var missColor = ms3.Vec{X: 0.3, Y: 0.3, Z: 0.3}

// Light is a point light. The light list is read-only for the lifetime of
// a render.
type Light struct {
	Position ms3.Vec
	Color    ms3.Vec
}

// Tracer casts rays into a fixed field lit by a fixed set of lights.
// Methods are safe for concurrent use.
type Tracer struct {
	Field  field.Field
	Lights []Light

	// EscapeRadius bounds every march: a ray farther than this from its
	// own origin is declared a miss. It must comfortably exceed the
	// scene's extent as seen from any ray origin.
	EscapeRadius float32
}

// Trace marches from origin along the unit direction dir and shades the
// first surface it crosses. ok is false if the ray escapes. bounces is
// the remaining reflection budget: recursion stops unconditionally when
// it reaches zero, which is the only termination guarantee for the
// reflection chain.
//
// Color channels are unclamped sums and may exceed 1; mapping to a
// displayable range is the caller's concern.
func (t *Tracer) Trace(origin, dir ms3.Vec, bounces int) (ms3.Vec, bool) {
	escapeSq := t.EscapeRadius * t.EscapeRadius
	s, p, ok := march.March(t.Field, origin, dir, func(q ms3.Vec) bool {
		d := ms3.Sub(q, origin)
		return ms3.Dot(d, d) < escapeSq
	})
	if !ok {
		return ms3.Vec{}, false
	}

	n := march.Normal(t.Field, p)
	rgb := t.shade(p, s.Surface, n)

	if refl := s.Surface.Reflectivity; refl > 0 && bounces > 0 {
		r := reflect(dir, n)
		reflected, hit := t.Trace(march.MarchOut(t.Field, p, r), r, bounces-1)
		if !hit {
			reflected = missColor
		}
		rgb = ms3.InterpElem(rgb, reflected, ms3.Vec{X: refl, Y: refl, Z: refl})
	}
	return rgb, true
}

// Shadowed reports whether p receives no light from l: a ray nudged out
// of the surface and marched toward the light hits something before it
// stops moving toward the light's position.
func (t *Tracer) Shadowed(p ms3.Vec, l Light) bool {
	dir := ms3.Unit(ms3.Sub(l.Position, p))
	start := march.MarchOut(t.Field, p, dir)
	_, _, hit := march.March(t.Field, start, dir, func(q ms3.Vec) bool {
		return ms3.Dot(ms3.Sub(l.Position, q), dir) > 0
	})
	return hit
}

// shade sums the direct diffuse contribution of every unshadowed light.
func (t *Tracer) shade(p ms3.Vec, surf field.Surface, n ms3.Vec) ms3.Vec {
	var rgb ms3.Vec
	for _, l := range t.Lights {
		if t.Shadowed(p, l) {
			continue
		}
		lambert := diffuse(p, n, l)
		rgb = ms3.Add(rgb, ms3.Scale(lambert, ms3.MulElem(l.Color, surf.Color)))
	}
	return rgb
}

// diffuse is the Lambert term for l at p, clamped to [0,1].
func diffuse(p, n ms3.Vec, l Light) float32 {
	dir := ms3.Unit(ms3.Sub(l.Position, p))
	d := ms3.Dot(n, dir)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// reflect mirrors the incoming direction d about the unit normal n.
func reflect(d, n ms3.Vec) ms3.Vec {
	return ms3.Sub(d, ms3.Scale(2*ms3.Dot(d, n), n))
}
