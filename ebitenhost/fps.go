package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows FPS, TPS and the live visual count in the top-left
// corner. The text is re-rendered about twice a second.
type fpsOverlay struct {
	img    *ebiten.Image
	frames int
}

func newFPSOverlay() *fpsOverlay {
	// 120x48 fits three short lines of the debug font.
	return &fpsOverlay{img: ebiten.NewImage(120, 48)}
}

func (o *fpsOverlay) draw(dst *ebiten.Image, visuals int) {
	if o.frames%30 == 0 {
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nVisuals: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), visuals))
	}
	o.frames++
	dst.DrawImage(o.img, nil)
}
