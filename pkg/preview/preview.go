// Package preview shows a render in a desktop window while it is being
// filled in.
package preview

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window that redraws from frame until the user closes it.
// It blocks, so start the render in another goroutine. frame is polled on
// the display tick; the buffer it returns is written pixel-at-a-time by
// render workers, so a torn frame can appear for a single tick at most.
func Run(title string, width, height int, frame func() *image.RGBA) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetTPS(30)
	return ebiten.RunGame(&viewer{frame: frame, width: width, height: height})
}

type viewer struct {
	frame         func() *image.RGBA
	fbImg         *ebiten.Image
	width, height int
}

func (v *viewer) Update() error {
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	src := v.frame()
	if src == nil {
		return
	}
	if v.fbImg == nil {
		v.fbImg = ebiten.NewImage(v.width, v.height)
	}
	v.fbImg.WritePixels(src.Pix)
	screen.DrawImage(v.fbImg, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}
