package pdf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/fredrik-forsberg/PanZoomRotate/pkg/transform"
)

const maxRenderDim = 10000

// RenderPage rasterizes page n (zero-based) at the given resolution and
// returns it as an RGBA image on a white background.
func (d *Document) RenderPage(n int, dpi float64) (image.Image, error) {
	if n < 0 || n >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range (%d pages)", n, len(d.pages))
	}
	if dpi <= 0 {
		dpi = 72
	}
	pg := d.pages[n]
	scale := dpi / 72
	x1, y1, x2, y2 := pg.mediaBox[0], pg.mediaBox[1], pg.mediaBox[2], pg.mediaBox[3]
	w := int(math.Ceil((x2 - x1) * scale))
	h := int(math.Ceil((y2 - y1) * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("page %d has an empty media box", n)
	}
	if w > maxRenderDim || h > maxRenderDim {
		shrink := float64(maxRenderDim) / math.Max(float64(w), float64(h))
		scale *= shrink
		w = int(math.Ceil((x2 - x1) * scale))
		h = int(math.Ceil((y2 - y1) * scale))
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	content, err := d.pageContent(pg)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	if len(content) == 0 {
		return img, nil
	}

	// PDF user space has y growing upward from the media box origin; the
	// image has y growing downward from the top left.
	dev := transform.Matrix{scale, 0, 0, -scale, -x1 * scale, y2 * scale}

	c := &canvas{img: img}
	err = runContent(content, dev, paintOps{
		fill:   c.fill,
		stroke: c.stroke,
	})
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	return img, nil
}

type canvas struct {
	img *image.RGBA
}

func (c *canvas) fill(p *devicePath, col rgb) {
	r := vector.NewRasterizer(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	open := false
	for _, seg := range p.segs {
		switch seg.kind {
		case segMove:
			if open {
				r.ClosePath()
			}
			r.MoveTo(float32(seg.pts[0].X), float32(seg.pts[0].Y))
			open = true
		case segLine:
			if open {
				r.LineTo(float32(seg.pts[0].X), float32(seg.pts[0].Y))
			}
		case segCube:
			if open {
				r.CubeTo(
					float32(seg.pts[0].X), float32(seg.pts[0].Y),
					float32(seg.pts[1].X), float32(seg.pts[1].Y),
					float32(seg.pts[2].X), float32(seg.pts[2].Y))
			}
		case segClose:
			if open {
				r.ClosePath()
				open = false
			}
		}
	}
	if open {
		r.ClosePath()
	}
	r.Draw(c.img, c.img.Bounds(), image.NewUniform(toColor(col)), image.Point{})
}

// stroke paints each segment as a filled quad of the line width. Joins and
// caps are butted, which is close enough for previewing.
func (c *canvas) stroke(p *devicePath, col rgb, width float64) {
	if width < 1 {
		width = 1
	}
	half := width / 2
	src := image.NewUniform(toColor(col))

	var start, cur transform.Point
	quad := func(a, b transform.Point) {
		d := b.Sub(a)
		l := d.Length()
		if l == 0 {
			return
		}
		n := transform.Pt(-d.Y/l*half, d.X/l*half)
		r := vector.NewRasterizer(c.img.Bounds().Dx(), c.img.Bounds().Dy())
		r.MoveTo(float32(a.X+n.X), float32(a.Y+n.Y))
		r.LineTo(float32(b.X+n.X), float32(b.Y+n.Y))
		r.LineTo(float32(b.X-n.X), float32(b.Y-n.Y))
		r.LineTo(float32(a.X-n.X), float32(a.Y-n.Y))
		r.ClosePath()
		r.Draw(c.img, c.img.Bounds(), src, image.Point{})
	}

	for _, seg := range p.segs {
		switch seg.kind {
		case segMove:
			start, cur = seg.pts[0], seg.pts[0]
		case segLine:
			quad(cur, seg.pts[0])
			cur = seg.pts[0]
		case segCube:
			prev := cur
			for i := 1; i <= 16; i++ {
				t := float64(i) / 16
				pt := cubeAt(cur, seg.pts[0], seg.pts[1], seg.pts[2], t)
				quad(prev, pt)
				prev = pt
			}
			cur = seg.pts[2]
		case segClose:
			quad(cur, start)
			cur = start
		}
	}
}

func cubeAt(p0, c1, c2, p1 transform.Point, t float64) transform.Point {
	u := 1 - t
	return transform.Point{
		X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
		Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
	}
}

func toColor(c rgb) color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: clamp(c.r), G: clamp(c.g), B: clamp(c.b), A: 255}
}
