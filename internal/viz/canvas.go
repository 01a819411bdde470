// Package viz renders worlds into the terminal with braille pixels.
package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/particle"
)

// Braille patterns pack 2x4 dots per character cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille pixel buffer. Pixel coordinates run from the top
// left; the canvas holds Width*2 by Height*4 pixels.
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		grid:   make([][]rune, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth is the canvas width in pixels.
func (c *Canvas) SubWidth() int { return c.Width * 2 }

// SubHeight is the canvas height in pixels.
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a pixel line with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Dots counts the lit pixels.
func (c *Canvas) Dots() int {
	total := 0
	for _, row := range c.grid {
		for _, r := range row {
			bits := r - 0x2800
			for bits != 0 {
				total += int(bits & 1)
				bits >>= 1
			}
		}
	}
	return total
}

// Viewport maps world coordinates (y up) to canvas pixels (y down).
type Viewport struct {
	Center mgl64.Vec2

	// Scale is in pixels per world unit
	Scale float64
}

// FitViewport frames the world region between min and max on the
// canvas, with a small margin.
func FitViewport(min, max mgl64.Vec2, c *Canvas) Viewport {
	span := max.Sub(min)
	scale := math.Inf(1)
	if span.X() > 0 {
		scale = float64(c.SubWidth()) * 0.9 / span.X()
	}
	if span.Y() > 0 {
		scale = math.Min(scale, float64(c.SubHeight())*0.9/span.Y())
	}
	if math.IsInf(scale, 1) {
		scale = 10
	}
	return Viewport{
		Center: min.Add(span.Mul(0.5)),
		Scale:  scale,
	}
}

func (v Viewport) toPixel(c *Canvas, p mgl64.Vec2) (int, int) {
	x := (p.X()-v.Center.X())*v.Scale + float64(c.SubWidth())/2
	y := float64(c.SubHeight())/2 - (p.Y()-v.Center.Y())*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// DrawWorld rasterizes every body. Awake bodies are filled, sleeping
// ones are drawn as outlines.
func DrawWorld(c *Canvas, v Viewport, w *quill.World) {
	for snap := range w.Snapshots() {
		switch shape := snap.Shape.(type) {
		case actor.Circle:
			drawCircle(c, v, snap.Position, shape.Radius, !snap.IsSleeping)
		case actor.Box:
			drawBox(c, v, snap.Position, shape.HalfWidth, shape.HalfHeight, !snap.IsSleeping)
		}
	}
}

// DrawParticles plots each particle as a single pixel.
func DrawParticles(c *Canvas, v Viewport, particles []particle.Particle) {
	for _, p := range particles {
		x, y := v.toPixel(c, p.Position)
		c.Set(x, y)
	}
}

func drawCircle(c *Canvas, v Viewport, center mgl64.Vec2, radius float64, fill bool) {
	cx, cy := v.toPixel(c, center)
	r := radius * v.Scale

	if fill {
		ri := int(math.Round(r))
		for dy := -ri; dy <= ri; dy++ {
			for dx := -ri; dx <= ri; dx++ {
				if dx*dx+dy*dy <= ri*ri {
					c.Set(cx+dx, cy+dy)
				}
			}
		}
		return
	}

	// Enough segments to keep the outline closed at this size
	steps := max(8, int(r*4))
	for i := range steps {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		c.Set(cx+int(math.Round(r*math.Cos(angle))), cy+int(math.Round(r*math.Sin(angle))))
	}
}

func drawBox(c *Canvas, v Viewport, center mgl64.Vec2, halfW, halfH float64, fill bool) {
	x0, y0 := v.toPixel(c, center.Sub(mgl64.Vec2{halfW, -halfH}))
	x1, y1 := v.toPixel(c, center.Add(mgl64.Vec2{halfW, -halfH}))

	if fill {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c.Set(x, y)
			}
		}
		return
	}

	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
