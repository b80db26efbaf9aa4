// Package render maps output pixels to camera rays, traces them in
// parallel, and assembles the results into an RGBA image. Pixels are
// independent: each worker traces its pixel to completion, including
// shadow and reflection sub-rays, before taking the next one.
package render

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soypat/geometry/ms3"

	"github.com/kmoroz/go-sphere-marcher/pkg/field"
	"github.com/kmoroz/go-sphere-marcher/pkg/trace"
)

// progressBatch is how many pixels a worker completes between progress
// updates, keeping the shared counter off the hot path.
const progressBatch = 1024

// Config contains rendering configuration.
type Config struct {
	Width      int     // Output width in pixels
	Height     int     // Output height in pixels
	MaxBounces int     // Reflection recursion budget per camera ray
	Workers    int     // Parallel workers (0 = use CPU count)
	Escape     float32 // Max distance a ray may travel from its origin
	Camera     Camera
}

// DefaultConfig returns sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		MaxBounces: 5,
		Workers:    0,
		Escape:     1000,
		Camera:     DefaultCamera(),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image dimensions must be positive, got %dx%d", c.Width, c.Height)
	case c.MaxBounces < 0:
		return fmt.Errorf("max bounces must be non-negative, got %d", c.MaxBounces)
	case c.Escape <= 0:
		return fmt.Errorf("escape distance must be positive, got %v", c.Escape)
	default:
		return nil
	}
}

// Stats summarizes a finished render.
type Stats struct {
	Pixels  int           // Total pixels rendered
	Hits    int           // Pixels whose camera ray hit a surface
	Elapsed time.Duration // Wall time for the parallel phase
}

// Renderer renders one fixed scene with one fixed configuration.
type Renderer struct {
	config Config
	tracer *trace.Tracer
	img    *image.RGBA
}

// NewRenderer validates the config and prepares an output buffer.
func NewRenderer(f field.Field, lights []trace.Light, config Config) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		config: config,
		tracer: &trace.Tracer{
			Field:        f,
			Lights:       lights,
			EscapeRadius: config.Escape,
		},
		img: image.NewRGBA(image.Rect(0, 0, config.Width, config.Height)),
	}, nil
}

// Image returns the output buffer. During Render it is being filled in
// pixel by pixel, so a concurrent reader (the live preview) may see a
// partially drawn frame; each pixel is written exactly once.
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

// Render traces every pixel and returns when the image is complete. Rows
// are fanned out to workers over a channel; each color lands at its own
// coordinate, so completion order never matters. progress may be nil.
func (r *Renderer) Render(progress Progress) Stats {
	if progress == nil {
		progress = NopProgress{}
	}
	workers := r.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	start := time.Now()
	rows := make(chan int, r.config.Height)
	var wg sync.WaitGroup
	var hits atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				hits.Add(r.renderRow(y, progress))
			}
		}()
	}
	for y := 0; y < r.config.Height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()

	return Stats{
		Pixels:  r.config.Width * r.config.Height,
		Hits:    int(hits.Load()),
		Elapsed: time.Since(start),
	}
}

// renderRow traces one scanline and returns how many rays hit geometry.
// Missed pixels stay at the zero value, i.e. fully transparent.
func (r *Renderer) renderRow(y int, progress Progress) int64 {
	var hits int64
	pending := 0
	for x := 0; x < r.config.Width; x++ {
		dir := r.config.Camera.Ray(x, y, r.config.Width, r.config.Height)
		if rgb, ok := r.tracer.Trace(r.config.Camera.Eye, dir, r.config.MaxBounces); ok {
			r.img.SetRGBA(x, y, vecToColor(rgb))
			hits++
		}
		if pending++; pending == progressBatch {
			progress.Add(pending)
			pending = 0
		}
	}
	progress.Add(pending)
	return hits
}

// vecToColor maps an unclamped shading result into displayable RGBA8 with
// full opacity.
func vecToColor(rgb ms3.Vec) color.RGBA {
	return color.RGBA{
		R: channel(rgb.X),
		G: channel(rgb.Y),
		B: channel(rgb.Z),
		A: 255,
	}
}

// channel scales a [0,inf) component to [0,255], truncating.
func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
