package render

import (
	"github.com/soypat/geometry/ms3"
)

// Camera is an eye position plus a view-plane mapping from pixel
// coordinates to world space. It is fixed for the duration of a render.
type Camera struct {
	Eye ms3.Vec
	// PlaneScale sizes the virtual view plane in world units; the plane
	// is centered on the image and scaled by the smaller image dimension,
	// so aspect ratio is preserved and the implied field of view is fixed.
	PlaneScale float32
}

// DefaultCamera looks at the demo scenes from in front of the origin.
func DefaultCamera() Camera {
	return Camera{
		Eye:        ms3.Vec{Z: -100},
		PlaneScale: 250,
	}
}

// Ray returns the unit direction from the eye through pixel (x, y) of a
// width-by-height image. Pixel y grows downward; world Y grows upward.
func (c Camera) Ray(x, y, width, height int) ms3.Vec {
	short := float32(min(width, height))
	plane := ms3.Vec{
		X: (float32(x) - float32(width)/2) / short * c.PlaneScale,
		Y: (float32(height-y) - float32(height)/2) / short * c.PlaneScale,
	}
	return ms3.Unit(ms3.Sub(plane, c.Eye))
}
