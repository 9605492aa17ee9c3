package ebitenhost

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to Game.ScreenshotDir with a timestamped name.
func (g *Game) Screenshot(label string) {
	g.shots = append(g.shots, label)
}

// flushScreenshots captures screen once for every queued label.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.shots) == 0 {
		return
	}
	defer func() { g.shots = g.shots[:0] }()

	if err := os.MkdirAll(g.ScreenshotDir, 0o755); err != nil {
		g.log.Warn("screenshot dir", zap.String("dir", g.ScreenshotDir), zap.Error(err))
		return
	}
	img := capture(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range g.shots {
		path := filepath.Join(g.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			g.log.Warn("screenshot", zap.Error(err))
			continue
		}
		g.log.Info("screenshot", zap.String("path", path))
	}
}

// capture reads screen back as straight-alpha NRGBA.
func capture(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	unpremultiply(img.Pix, pixels)
	return img
}

// unpremultiply converts premultiplied RGBA bytes in src into dst.
func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, a
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps letters, digits, '-' and '.', replacing the rest with
// underscores. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
