package scene

import (
	"github.com/lumen-render/lumen/pkg/core"
)

// Scene is an insertion-ordered collection of hittable objects with a
// background gradient. It is built once before rendering and is read-only
// while a render is in flight, so it may be shared across workers freely.
type Scene struct {
	Objects     []core.Hittable
	TopColor    core.Vec3 // Background gradient color at the top of the sky
	BottomColor core.Vec3 // Background gradient color at the horizon
}

// NewScene creates an empty scene with the given background gradient
func NewScene(topColor, bottomColor core.Vec3) *Scene {
	return &Scene{
		Objects:     make([]core.Hittable, 0),
		TopColor:    topColor,
		BottomColor: bottomColor,
	}
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...core.Hittable) {
	s.Objects = append(s.Objects, objects...)
}

// Hit scans all objects linearly and returns the closest hit with t in
// (tMin, tMax). The running tMax shrinks to each accepted hit so later
// objects cannot report a farther "closest" hit. Cost is O(n) per ray by
// design; there is no acceleration structure.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, object := range s.Objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BackgroundColors returns the background gradient colors
func (s *Scene) BackgroundColors() (top, bottom core.Vec3) {
	return s.TopColor, s.BottomColor
}
