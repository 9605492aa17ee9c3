package ebitenhost

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/bloom"
)

// mesh is an untextured triangle fan in local space. Vertex 0 is the hub at
// the origin; the rest trace the outline.
type mesh struct {
	verts []ebiten.Vertex
	inds  []uint16
}

// fan triangulates outline around the origin. The outline must be
// star-shaped about the origin. Outlines shorter than three points yield an
// empty mesh.
func fan(outline []bloom.Point) mesh {
	n := len(outline)
	if n < 3 {
		return mesh{}
	}
	verts := make([]ebiten.Vertex, n+1)
	inds := make([]uint16, 0, n*3)
	verts[0] = whiteVertex(0, 0)
	for i, p := range outline {
		verts[i+1] = whiteVertex(p.X, p.Y)
	}
	for i := 1; i <= n; i++ {
		next := i + 1
		if next > n {
			next = 1
		}
		inds = append(inds, 0, uint16(i), uint16(next))
	}
	return mesh{verts: verts, inds: inds}
}

func whiteVertex(x, y float64) ebiten.Vertex {
	// Untextured: sample the center of the white pixel.
	return ebiten.Vertex{
		DstX: float32(x), DstY: float32(y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	}
}

// heartMesh is a unit-width heart centered on the origin.
func heartMesh() mesh {
	var pts []bloom.Point
	for p := range bloom.HeartPoints(1.0/32, 0.1) {
		pts = append(pts, p)
	}
	// The last point repeats the first.
	return fan(pts[:len(pts)-1])
}

// starMesh is a four-pointed twinkle of unit width.
func starMesh() mesh {
	const points = 4
	pts := make([]bloom.Point, 0, points*2)
	for i := 0; i < points*2; i++ {
		r := 0.5
		if i%2 == 1 {
			r = 0.15
		}
		a := float64(i)*math.Pi/points - math.Pi/2
		pts = append(pts, bloom.Pt(math.Cos(a)*r, math.Sin(a)*r))
	}
	return fan(pts)
}

// ellipseMesh is a unit circle outline of segs points, scaled per draw into
// ellipses.
func ellipseMesh(segs int) mesh {
	pts := make([]bloom.Point, segs)
	for i := range pts {
		a := float64(i) / float64(segs) * 2 * math.Pi
		pts[i] = bloom.Pt(math.Cos(a)*0.5, math.Sin(a)*0.5)
	}
	return fan(pts)
}

// rectMesh is a unit square centered on the origin.
func rectMesh() mesh {
	return fan([]bloom.Point{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}})
}

// transformVertices applies an affine transform and a premultiplied tint to
// src, writing into dst, which must be at least len(src) long.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
func transformVertices(src, dst []ebiten.Vertex, m [6]float64, tint bloom.Color, alpha float64) {
	a, b, c, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]
	ca := float32(alpha)
	cr := float32(tint.R) * ca
	cg := float32(tint.G) * ca
	cb := float32(tint.B) * ca
	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR * cr,
			ColorG: s.ColorG * cg,
			ColorB: s.ColorB * cb,
			ColorA: s.ColorA * ca,
		}
	}
}

// affine returns the matrix for Scale(sx, sy) -> Rotate(rot) -> Translate(x, y).
func affine(x, y, rot, sx, sy float64) [6]float64 {
	sin, cos := math.Sincos(rot)
	return [6]float64{cos * sx, sin * sx, -sin * sy, cos * sy, x, y}
}

// White pixel singleton. Drawing happens on ebiten's goroutine only.
var whitePixelImage *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
