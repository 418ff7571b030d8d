package material

import (
	"fmt"

	"github.com/lumen-render/lumen/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzz outside [0, 1] is a
// configuration error and is rejected rather than clamped.
func NewMetal(albedo core.Vec3, fuzz float64) (*Metal, error) {
	if fuzz < 0 || fuzz > 1 {
		return nil, fmt.Errorf("metal fuzz must be in [0, 1], got %g", fuzz)
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}, nil
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)

	// Perturb the mirror direction for rough metals
	if m.Fuzz > 0 {
		perturbation := core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(m.Fuzz)
		reflected = reflected.Add(perturbation)
	}

	scattered := core.NewRay(hit.Point, reflected)

	// A perturbed reflection that points into the surface is absorbed,
	// which keeps rough metals energy conserving
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return core.ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, scatters
}
