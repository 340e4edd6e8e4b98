// Package term draws calorimeter meshes into a terminal.
//
// Each character cell holds two square pixels stacked vertically, drawn with
// an upper half block whose foreground is the top pixel and background the
// bottom one. Quads are filled with additive blending into a float
// framebuffer and there is no depth test: the draw order chosen by the
// calorimeters is what makes the result read correctly.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/display"
)

const (
	halfBlock = '▀'

	// fieldOfView is the vertical field of view in radians.
	fieldOfView = 40 * math.Pi / 180
	nearPlane   = 0.1
)

type pixel struct{ r, g, b float64 }

type projected struct {
	x, y float64
	c    calorimeter.RGBA
}

// Rasteriser is a Canvas and display.TrailCanvas backed by a tcell screen.
type Rasteriser struct {
	screen tcell.Screen

	cols, rows int
	w, h       int // framebuffer size in pixels
	fb         []pixel

	eye   r3.Vec
	yaw   r3.Rotation
	pitch r3.Rotation
	focal float64

	// Background is added to every pixel before drawing.
	Background calorimeter.RGB
}

var _ display.TrailCanvas = (*Rasteriser)(nil)

// New returns a rasteriser drawing to screen.
func New(screen tcell.Screen) *Rasteriser {
	return &Rasteriser{screen: screen}
}

// Size returns the framebuffer size in pixels.
func (r *Rasteriser) Size() (w, h int) { return r.w, r.h }

// Begin starts a frame seen through cam: it follows screen resizes, clears
// the framebuffer and sets up the projection.
func (r *Rasteriser) Begin(cam *display.Camera) {
	cols, rows := r.screen.Size()
	if cols != r.cols || rows != r.rows {
		r.cols, r.rows = cols, rows
		r.w, r.h = cols, 2*rows
		r.fb = make([]pixel, r.w*r.h)
	}
	bg := pixel{r.Background.R, r.Background.G, r.Background.B}
	for i := range r.fb {
		r.fb[i] = bg
	}

	r.eye = cam.Position()
	r.yaw = r3.NewRotation(-cam.Yaw*math.Pi/180, r3.Vec{Y: 1})
	r.pitch = r3.NewRotation(-cam.Pitch*math.Pi/180, r3.Vec{X: 1})
	r.focal = float64(r.h) / 2 / math.Tan(fieldOfView/2)
}

// toCamera moves p into camera space: looking along +z, y up.
func (r *Rasteriser) toCamera(p r3.Vec) r3.Vec {
	return r.pitch.Rotate(r.yaw.Rotate(r3.Sub(p, r.eye)))
}

// project maps p to pixel coordinates. ok is false behind the near plane.
func (r *Rasteriser) project(p r3.Vec) (x, y float64, ok bool) {
	q := r.toCamera(p)
	if q.Z < nearPlane {
		return 0, 0, false
	}
	x = float64(r.w)/2 - r.focal*q.X/q.Z
	y = float64(r.h)/2 - r.focal*q.Y/q.Z
	return x, y, true
}

// Pixel returns the accumulated, unclamped colour at pixel (x, y).
func (r *Rasteriser) Pixel(x, y int) calorimeter.RGB {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return calorimeter.RGB{}
	}
	p := r.fb[y*r.w+x]
	return calorimeter.RGB{R: p.r, G: p.g, B: p.b}
}

func (r *Rasteriser) add(x, y int, c calorimeter.RGBA) {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	p := &r.fb[y*r.w+x]
	p.r += c.R * c.A
	p.g += c.G * c.A
	p.b += c.B * c.A
}

// DrawMesh fills every quad of m, translated by offset.
func (r *Rasteriser) DrawMesh(m *calorimeter.Mesh, offset r3.Vec) {
	for _, q := range m.Quads {
		var pts [4]projected
		visible := true
		for i, v := range q {
			x, y, ok := r.project(r3.Add(v.Pos, offset))
			if !ok {
				visible = false
				break
			}
			pts[i] = projected{x: x, y: y, c: v.Color}
		}
		if !visible {
			continue
		}
		r.fillTriangle(pts[0], pts[1], pts[2])
		r.fillTriangle(pts[0], pts[2], pts[3])
	}
}

func edge(a, b projected, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// fillTriangle blends a colour-interpolated triangle into the framebuffer,
// sampling at pixel centres. Pixels on the shared diagonal of a quad are
// claimed by one triangle only.
func (r *Rasteriser) fillTriangle(a, b, c projected) {
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	minX := max(0, int(math.Floor(math.Min(a.x, math.Min(b.x, c.x)))))
	maxX := min(r.w-1, int(math.Ceil(math.Max(a.x, math.Max(b.x, c.x)))))
	minY := max(0, int(math.Floor(math.Min(a.y, math.Min(b.y, c.y)))))
	maxY := min(r.h-1, int(math.Ceil(math.Max(a.y, math.Max(b.y, c.y)))))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			x, y := float64(px)+0.5, float64(py)+0.5
			w0 := edge(b, c, x, y) / area
			w1 := edge(c, a, x, y) / area
			w2 := edge(a, b, x, y) / area
			if w0 < 0 || w1 < 0 || w2 <= 0 {
				continue
			}
			r.add(px, py, calorimeter.RGBA{
				R: w0*a.c.R + w1*b.c.R + w2*c.c.R,
				G: w0*a.c.G + w1*b.c.G + w2*c.c.G,
				B: w0*a.c.B + w1*b.c.B + w2*c.c.B,
				A: w0*a.c.A + w1*b.c.A + w2*c.c.A,
			})
		}
	}
}

// DrawTrail draws a straight trajectory. Wide trails are three pixels thick.
func (r *Rasteriser) DrawTrail(from, to r3.Vec, color calorimeter.RGBA, wide bool) {
	x0, y0, ok0 := r.project(from)
	x1, y1, ok1 := r.project(to)
	if !ok0 || !ok1 {
		return
	}

	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := int(math.Floor(x0 + t*(x1-x0)))
		py := int(math.Floor(y0 + t*(y1-y0)))
		r.add(px, py, color)
		if wide {
			r.add(px+1, py, color)
			r.add(px-1, py, color)
			r.add(px, py+1, color)
			r.add(px, py-1, color)
		}
	}
}

func channel(v float64) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func (p pixel) color() tcell.Color {
	return tcell.NewRGBColor(channel(p.r), channel(p.g), channel(p.b))
}

// Flush copies the framebuffer to the screen, saturating each channel.
func (r *Rasteriser) Flush() {
	for y := 0; y < r.rows; y++ {
		for x := 0; x < r.cols; x++ {
			top := r.fb[(2*y)*r.w+x]
			bottom := r.fb[(2*y+1)*r.w+x]
			style := tcell.StyleDefault.Foreground(top.color()).Background(bottom.color())
			r.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

// Print writes s at cell (x, y) over whatever Flush left there, keeping the
// background of each cell.
func (r *Rasteriser) Print(x, y int, s string, fg calorimeter.RGB) {
	if y < 0 || y >= r.rows {
		return
	}
	fgc := tcell.NewRGBColor(channel(fg.R), channel(fg.G), channel(fg.B))
	for _, ch := range s {
		if x >= r.cols {
			return
		}
		if x >= 0 {
			bg := r.fb[(2*y)*r.w+x]
			style := tcell.StyleDefault.Foreground(fgc).Background(bg.color())
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}

// Show makes the flushed frame visible.
func (r *Rasteriser) Show() {
	r.screen.Show()
}
