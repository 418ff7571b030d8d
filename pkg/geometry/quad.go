package geometry

import (
	"fmt"
	"math"

	"github.com/lumen-render/lumen/pkg/core"
)

// Quad represents a planar parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3 // One corner of the quad
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Unit normal (computed from U × V)
	Material core.Material
	d        float64   // Plane equation constant: normal · p = d
	w        core.Vec3 // Cached vector for planar coordinate decomposition
}

// NewQuad creates a new quad from a corner point and two edge vectors.
// Degenerate edge vectors (parallel or zero) are a configuration error.
func NewQuad(corner, u, v core.Vec3, material core.Material) (*Quad, error) {
	cross := u.Cross(v)
	if cross.NearZero() {
		return nil, fmt.Errorf("quad edge vectors are degenerate: u=%v v=%v", u, v)
	}
	if material == nil {
		return nil, fmt.Errorf("quad requires a material")
	}

	normal := cross.Normalize()
	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		d:        normal.Dot(corner),
		w:        normal.Multiply(1.0 / normal.Dot(cross)),
	}, nil
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.d - ray.Origin.Dot(q.Normal)) / denominator
	if t <= tMin || t >= tMax {
		return nil, false
	}

	hitPoint := ray.At(t)

	// Decompose the hit point into planar coordinates and check bounds
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
	}
	hitRecord.SetFaceNormal(ray, q.Normal)

	return hitRecord, true
}
