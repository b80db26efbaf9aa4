package field

import (
	"fmt"
	"sort"

	"github.com/soypat/geometry/ms3"
)

// scenes maps registry names to scene constructors.
var scenes = map[string]func() Field{
	"carved": Carved,
	"twin":   Twin,
	"simple": Simple,
}

// Scenes returns the names of all registered scenes, sorted.
func Scenes() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named scene, or reports an error for unknown names.
func New(name string) (Field, error) {
	build, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return build(), nil
}

// Carved is the showcase scene: a warped sphere merged with a plain one,
// with a rippled cavity carved out by intersecting against the inverse of
// a displaced third sphere.
func Carved() Field {
	gold := Surface{Color: ms3.Vec{X: 1.0, Y: 0.8, Z: 0.4}, Reflectivity: 0.4}
	ice := Surface{Color: ms3.Vec{X: 0.4, Y: 0.8, Z: 1.0}, Reflectivity: 0.2}
	rose := Surface{Color: ms3.Vec{X: 1.0, Y: 0.4, Z: 0.8}}

	return Intersect(
		Union(
			Warp(Sphere(ms3.Vec{X: -30}, 65, gold)),
			Sphere(ms3.Vec{X: 30, Y: 10, Z: -10}, 50, ice),
		),
		Invert(Displace(10, 0.2,
			Sphere(ms3.Vec{X: 10, Y: -20, Z: -60}, 30, rose),
		)),
	)
}

// Twin places two mirror-like spheres side by side so reflections of
// reflections stay visible for several bounces.
func Twin() Field {
	copper := Surface{Color: ms3.Vec{X: 0.9, Y: 0.5, Z: 0.3}, Reflectivity: 0.7}
	steel := Surface{Color: ms3.Vec{X: 0.6, Y: 0.7, Z: 0.8}, Reflectivity: 0.7}

	return Union(
		Sphere(ms3.Vec{X: -45, Y: 0, Z: 10}, 40, copper),
		Sphere(ms3.Vec{X: 45, Y: 0, Z: 10}, 40, steel),
	)
}

// Simple is a single matte sphere at the origin, handy for sanity checks.
func Simple() Field {
	chalk := Surface{Color: ms3.Vec{X: 0.8, Y: 0.8, Z: 0.8}}
	return Sphere(ms3.Vec{}, 50, chalk)
}
