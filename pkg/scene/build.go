package scene

import (
	"fmt"

	"github.com/lumen-render/lumen/pkg/config"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
)

// FromSettings builds a scene from configuration. A named preset wins over
// an explicit object list. All descriptor errors surface here, before any
// rendering work starts.
func FromSettings(settings config.SceneSettings) (*Scene, error) {
	if settings.Preset != "" {
		preset, err := NewPreset(settings.Preset)
		if err != nil {
			return nil, err
		}
		return preset.Scene, nil
	}

	s := NewScene(vec3(settings.BackgroundTop), vec3(settings.BackgroundBottom))

	for i, obj := range settings.Objects {
		mat, err := materialFromSettings(obj.Material)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}

		var shape core.Hittable
		switch obj.Shape {
		case "sphere":
			shape, err = geometry.NewSphere(vec3(obj.Center), obj.Radius, mat)
		case "quad":
			shape, err = geometry.NewQuad(vec3(obj.Corner), vec3(obj.U), vec3(obj.V), mat)
		default:
			err = fmt.Errorf("unknown shape %q", obj.Shape)
		}
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		s.Add(shape)
	}

	return s, nil
}

// materialFromSettings builds a material from its descriptor
func materialFromSettings(settings config.MaterialSettings) (core.Material, error) {
	switch settings.Type {
	case "lambertian":
		return material.NewLambertian(vec3(settings.Albedo)), nil
	case "metal":
		return material.NewMetal(vec3(settings.Albedo), settings.Fuzz)
	case "dielectric":
		return material.NewDielectric(settings.RefractiveIndex)
	case "emissive":
		return material.NewEmissive(vec3(settings.Emission)), nil
	default:
		return nil, fmt.Errorf("unknown material %q", settings.Type)
	}
}

func vec3(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}
