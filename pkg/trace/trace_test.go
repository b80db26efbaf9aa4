package trace

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"github.com/kmoroz/go-sphere-marcher/pkg/field"
)

const escape = 1000

func vecNear(a, b ms3.Vec, tolerance float32) bool {
	d := ms3.Sub(a, b)
	return ms3.Norm(d) <= tolerance
}

func TestTraceDirectLighting(t *testing.T) {
	// Head-on view of a matte sphere with the light straight behind the
	// eye: full Lambert term, no shadow, no reflection.
	surf := field.Surface{Color: ms3.Vec{X: 0.8, Y: 0.6, Z: 0.4}}
	tr := &Tracer{
		Field:        field.Sphere(ms3.Vec{}, 50, surf),
		Lights:       []Light{{Position: ms3.Vec{Z: -1000}, Color: ms3.Vec{X: 1, Y: 1, Z: 1}}},
		EscapeRadius: escape,
	}

	rgb, ok := tr.Trace(ms3.Vec{Z: -100}, ms3.Vec{Z: 1}, 0)
	if !ok {
		t.Fatal("ray aimed at sphere center reported a miss")
	}
	if !vecNear(rgb, surf.Color, 0.02) {
		t.Errorf("color = %v, want ~%v (light.color * surface.color * 1)", rgb, surf.Color)
	}
}

func TestTraceMissReportsNoHit(t *testing.T) {
	tr := &Tracer{
		Field:        field.Sphere(ms3.Vec{}, 50, field.Surface{}),
		Lights:       nil,
		EscapeRadius: escape,
	}
	if _, ok := tr.Trace(ms3.Vec{Z: -100}, ms3.Vec{Y: 1}, 5); ok {
		t.Error("ray passing far above the sphere reported a hit")
	}
}

func TestShadowed(t *testing.T) {
	light := Light{Position: ms3.Vec{Z: -1000}, Color: ms3.Vec{X: 1, Y: 1, Z: 1}}
	subject := field.Sphere(ms3.Vec{}, 50, field.Surface{})
	occluder := field.Sphere(ms3.Vec{Z: -200}, 20, field.Surface{})
	p := ms3.Vec{Z: -50} // lit face of the subject sphere

	clear := &Tracer{Field: subject, EscapeRadius: escape}
	if clear.Shadowed(p, light) {
		t.Error("point with a clear line to the light reported shadowed")
	}

	blocked := &Tracer{Field: field.Union(subject, occluder), EscapeRadius: escape}
	if !blocked.Shadowed(p, light) {
		t.Error("point behind an occluder reported lit")
	}
}

func TestZeroBouncesSpawnsNoSecondaryRay(t *testing.T) {
	// A perfect mirror with no lights: direct shading is black, so any
	// non-black output can only come from a secondary ray.
	mirror := field.Surface{Color: ms3.Vec{X: 1, Y: 1, Z: 1}, Reflectivity: 1}
	tr := &Tracer{
		Field:        field.Sphere(ms3.Vec{}, 50, mirror),
		Lights:       nil,
		EscapeRadius: escape,
	}

	rgb, ok := tr.Trace(ms3.Vec{Z: -100}, ms3.Vec{Z: 1}, 0)
	if !ok {
		t.Fatal("mirror sphere reported a miss")
	}
	if rgb != (ms3.Vec{}) {
		t.Errorf("zero-bounce trace produced %v, want black (no secondary ray)", rgb)
	}
}

func TestReflectionBlendsMissFallback(t *testing.T) {
	// With one bounce the reflected ray escapes and the fixed ambient
	// fallback is blended in by reflectivity.
	tests := []struct {
		name         string
		reflectivity float32
		want         float32 // per channel: lerp(0, 0.3, reflectivity)
	}{
		{"full mirror", 1.0, 0.3},
		{"half mirror", 0.5, 0.15},
		{"matte", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surf := field.Surface{Color: ms3.Vec{X: 1, Y: 1, Z: 1}, Reflectivity: tt.reflectivity}
			tr := &Tracer{
				Field:        field.Sphere(ms3.Vec{}, 50, surf),
				Lights:       nil,
				EscapeRadius: escape,
			}
			rgb, ok := tr.Trace(ms3.Vec{Z: -100}, ms3.Vec{Z: 1}, 1)
			if !ok {
				t.Fatal("sphere reported a miss")
			}
			want := ms3.Vec{X: tt.want, Y: tt.want, Z: tt.want}
			if !vecNear(rgb, want, 1e-3) {
				t.Errorf("color = %v, want %v", rgb, want)
			}
		})
	}
}

func TestReflectionSeesOtherGeometry(t *testing.T) {
	// Eye ray hits a mirror; the reflected ray must pick up the lit matte
	// sphere sitting behind the eye ray's path.
	mirror := field.Surface{Color: ms3.Vec{X: 1, Y: 1, Z: 1}, Reflectivity: 1}
	matteColor := ms3.Vec{X: 0, Y: 1, Z: 0}
	scene := field.Union(
		field.Sphere(ms3.Vec{}, 50, mirror),
		field.Sphere(ms3.Vec{Z: -300}, 50, field.Surface{Color: matteColor}),
	)
	// The light sits high and behind the eye so the matte face struck by
	// the reflected ray is lit and neither sphere occludes it.
	tr := &Tracer{
		Field:        scene,
		Lights:       []Light{{Position: ms3.Vec{Y: 800, Z: 600}, Color: ms3.Vec{X: 1, Y: 1, Z: 1}}},
		EscapeRadius: escape,
	}

	// Start between the two spheres so the reflection off the mirror's
	// front face travels straight back into the matte sphere.
	rgb, ok := tr.Trace(ms3.Vec{Z: -120}, ms3.Vec{Z: 1}, 1)
	if !ok {
		t.Fatal("ray aimed at mirror reported a miss")
	}
	// Full reflectivity replaces the mirror's own shading entirely, so
	// the result is the matte sphere's green face times its Lambert term.
	if rgb.Y < 0.5 || rgb.X > 0.01 || rgb.Z > 0.01 {
		t.Errorf("reflected color = %v, want predominantly green", rgb)
	}
}

func TestReflectHelper(t *testing.T) {
	got := reflect(ms3.Vec{Z: 1}, ms3.Vec{Z: -1})
	if !vecNear(got, ms3.Vec{Z: -1}, 1e-6) {
		t.Errorf("reflect((0,0,1), (0,0,-1)) = %v, want (0,0,-1)", got)
	}

	d := ms3.Unit(ms3.Vec{X: 1, Z: 1})
	got = reflect(d, ms3.Vec{Z: -1})
	want := ms3.Unit(ms3.Vec{X: 1, Z: -1})
	if !vecNear(got, want, 1e-6) {
		t.Errorf("reflect(%v, (0,0,-1)) = %v, want %v", d, got, want)
	}
	if math32.Abs(ms3.Norm(got)-1) > 1e-5 {
		t.Errorf("reflection of a unit vector is not unit length: %v", ms3.Norm(got))
	}
}
