package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/soypat/geometry/ms3"

	"github.com/kmoroz/go-sphere-marcher/pkg/field"
	"github.com/kmoroz/go-sphere-marcher/pkg/preview"
	"github.com/kmoroz/go-sphere-marcher/pkg/render"
	"github.com/kmoroz/go-sphere-marcher/pkg/trace"
	"github.com/kmoroz/go-sphere-marcher/pkg/upload"
)

func main() {
	sceneName := flag.String("scene", "carved", "Scene to render: "+strings.Join(field.Scenes(), ", "))
	width := flag.Int("width", 640, "Output width in pixels")
	height := flag.Int("height", 480, "Output height in pixels")
	bounces := flag.Int("bounces", 5, "Maximum reflection bounces per ray")
	workers := flag.Int("workers", 0, "Parallel workers (0 = CPU count)")
	out := flag.String("out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	thumb := flag.Uint("thumb", 0, "Also write a thumbnail scaled to this width")
	doUpload := flag.Bool("upload", false, "Upload the finished PNG to S3 (S3_* environment variables)")
	showPreview := flag.Bool("preview", false, "Show a live preview window while rendering")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Sphere-marching renderer")
		fmt.Println("Usage: go-sphere-marcher [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	scene, err := field.New(*sceneName)
	if err != nil {
		log.Fatalf("%v (available: %s)", err, strings.Join(field.Scenes(), ", "))
	}

	config := render.DefaultConfig()
	config.Width = *width
	config.Height = *height
	config.MaxBounces = *bounces
	config.Workers = *workers

	renderer, err := render.NewRenderer(scene, defaultLights(), config)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := render.NewDefaultLogger()
	progress := render.NewLogProgress(config.Width*config.Height, 10, logger)
	outPath := *out
	if outPath == "" {
		outPath = defaultOutputPath(*sceneName, time.Now())
	}

	run := func() {
		stats := renderer.Render(progress)
		logger.Printf("Render completed in %v (%d/%d rays hit geometry)\n",
			stats.Elapsed, stats.Hits, stats.Pixels)
		if err := writeOutputs(renderer.Image(), outPath, *thumb, *doUpload); err != nil {
			log.Fatalf("Error writing output: %v", err)
		}
		logger.Printf("Render saved as %s\n", outPath)
	}

	if *showPreview {
		go run()
		if err := preview.Run("go-sphere-marcher", config.Width, config.Height, renderer.Image); err != nil {
			log.Fatalf("Preview window: %v", err)
		}
		return
	}
	run()
}

// defaultLights is the fixed four-light rig used by all bundled scenes.
func defaultLights() []trace.Light {
	return []trace.Light{
		{Position: ms3.Vec{X: 500, Y: 1000, Z: -300}, Color: ms3.Vec{X: 1.0, Y: 0.5}},
		{Position: ms3.Vec{X: -700, Y: -500, Z: -10}, Color: ms3.Vec{Y: 0.5, Z: 1.0}},
		{Position: ms3.Vec{X: -700, Y: 1500, Z: 10}, Color: ms3.Vec{X: 0.5, Z: 1.0}},
		{Position: ms3.Vec{X: 10, Y: -20, Z: -50}, Color: ms3.Vec{X: 0.3, Y: 0.2, Z: 0.2}},
	}
}

// defaultOutputPath builds output/<scene>/render_<timestamp>.png.
func defaultOutputPath(scene string, now time.Time) string {
	return filepath.Join("output", scene, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// writeOutputs encodes the image once and fans it out to the requested
// sinks: the output file, an optional thumbnail, and an optional S3 put.
func writeOutputs(img *image.RGBA, outPath string, thumbWidth uint, doUpload bool) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	if thumbWidth > 0 {
		small := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
		thumbPath := strings.TrimSuffix(outPath, ".png") + "_thumb.png"
		f, err := os.Create(thumbPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", thumbPath, err)
		}
		defer f.Close()
		if err := png.Encode(f, small); err != nil {
			return fmt.Errorf("encode thumbnail: %w", err)
		}
	}

	if doUpload {
		cfg, err := upload.FromEnv(filepath.Base(outPath))
		if err != nil {
			return err
		}
		if err := upload.Upload(context.Background(), cfg, buf.Bytes()); err != nil {
			return err
		}
		log.Printf("Uploaded %s to s3://%s (%d bytes)", cfg.Key, cfg.Bucket, buf.Len())
	}
	return nil
}
