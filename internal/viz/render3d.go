package viz

import (
	"math"
	"sort"

	"github.com/hariganeshs/money-explained/internal/sim"
)

// Camera projects model space onto the braille canvas.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(8, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.2, c.Zoom/1.2) }

func (c *Camera) rotate(p sim.Vec3) sim.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project returns sub-pixel canvas coordinates, depth, and visibility.
func (c *Camera) Project(p sim.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	scale := minDim / 3.0
	sx := int(rot.X*persp*scale) + sw/2
	sy := int(-rot.Y*persp*scale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type edge struct {
	start, end sim.Vec3
}

// Wireframe is a bag of edges; a zero-length edge renders as a point.
type Wireframe struct {
	edges []edge
}

func NewWireframe() *Wireframe          { return &Wireframe{edges: make([]edge, 0)} }
func (w *Wireframe) AddEdge(s, e sim.Vec3) { w.edges = append(w.edges, edge{s, e}) }
func (w *Wireframe) AddPoint(p sim.Vec3)   { w.edges = append(w.edges, edge{p, p}) }
func (w *Wireframe) Clear()                { w.edges = w.edges[:0] }

// SphereWireframe builds latitude/longitude circles for the balloon shell.
func SphereWireframe(radius float64, lats, lons, segments int) *Wireframe {
	w := NewWireframe()
	for i := 1; i < lats; i++ {
		phi := math.Pi * float64(i) / float64(lats)
		r := radius * math.Sin(phi)
		y := radius * math.Cos(phi)
		w.addRing(func(a float64) sim.Vec3 {
			return sim.Vec3{X: r * math.Cos(a), Y: y, Z: r * math.Sin(a)}
		}, segments)
	}
	for i := 0; i < lons; i++ {
		theta := math.Pi * float64(i) / float64(lons)
		ct, st := math.Cos(theta), math.Sin(theta)
		w.addRing(func(a float64) sim.Vec3 {
			return sim.Vec3{
				X: radius * math.Sin(a) * ct,
				Y: radius * math.Cos(a),
				Z: radius * math.Sin(a) * st,
			}
		}, segments)
	}
	return w
}

func (w *Wireframe) addRing(point func(angle float64) sim.Vec3, segments int) {
	prev := point(0)
	for s := 1; s <= segments; s++ {
		cur := point(2 * math.Pi * float64(s) / float64(segments))
		w.AddEdge(prev, cur)
		prev = cur
	}
}

type projected struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws back-to-front with a painter's sort.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	proj := make([]projected, 0, len(w.edges))
	for _, e := range w.edges {
		x1, y1, d1, v1 := cam.Project(e.start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.end, sw, sh)
		if v1 || v2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
