package integrator

import (
	"math"

	"github.com/lumen-render/lumen/pkg/core"
)

// Scene is the minimal view of a scene the integrator needs.
// Implemented by scene.Scene; declared here to avoid a circular import.
type Scene interface {
	Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool)
	BackgroundColors() (top, bottom core.Vec3)
}

// PathTracer resolves the color seen along a ray by stochastically
// following scattered bounces through the scene.
type PathTracer struct {
	tMin float64 // lower intersection bound, avoids shadow acne at bounce origins
	tMax float64
}

// NewPathTracer creates a new path tracer
func NewPathTracer() *PathTracer {
	return &PathTracer{
		tMin: 0.001,
		tMax: math.Inf(1),
	}
}

// RayColor computes the color for a single ray, following up to depth bounces.
// The recursion of the estimator is flattened into a loop carrying the
// accumulated attenuation product, so path length never grows the stack.
func (pt *PathTracer) RayColor(ray core.Ray, scene Scene, sampler core.Sampler, depth int) core.Vec3 {
	color := core.NewVec3(0, 0, 0)
	throughput := core.NewVec3(1, 1, 1)

	for bounce := 0; bounce < depth; bounce++ {
		hit, isHit := scene.Hit(ray, pt.tMin, pt.tMax)
		if !isHit {
			color = color.Add(throughput.MultiplyVec(pt.backgroundGradient(ray, scene)))
			break
		}

		// Emitted light from the hit surface
		if emitter, isEmissive := hit.Material.(core.Emitter); isEmissive {
			color = color.Add(throughput.MultiplyVec(emitter.Emit()))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			// Material absorbed the ray
			break
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Paths that exhaust the bounce budget contribute nothing further
	return color
}

// backgroundGradient returns a gradient color based on ray direction
func (pt *PathTracer) backgroundGradient(r core.Ray, scene Scene) core.Vec3 {
	topColor, bottomColor := scene.BackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Map the vertical direction component from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}
