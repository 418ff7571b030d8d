package scene

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/lumen-render/lumen/pkg/config"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
)

// Preset couples a built-in scene with the camera it was designed for
type Preset struct {
	Name   string
	Scene  *Scene
	Camera config.CameraSettings
}

var presetBuilders = map[string]func() (*Preset, error){
	"one-sphere":    newOneSphereScene,
	"metal-spheres": newMetalSpheresScene,
	"glass-spheres": newGlassSpheresScene,
	"hollow-glass":  newHollowGlassScene,
	"three-spheres": newThreeSpheresScene,
	"many-spheres":  newManySpheresScene,
	"quads":         newQuadsScene,
	"simple-light":  newSimpleLightScene,
	"cornell":       newCornellScene,
}

// PresetNames returns the available preset names, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presetBuilders))
	for name := range presetBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPreset builds a named preset scene
func NewPreset(name string) (*Preset, error) {
	build, ok := presetBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene preset %q", name)
	}
	return build()
}

// builder accumulates scene objects and remembers the first construction
// error, so presets read as straight-line code
type builder struct {
	scene *Scene
	err   error
}

func newBuilder(top, bottom core.Vec3) *builder {
	return &builder{scene: NewScene(top, bottom)}
}

func skyBuilder() *builder {
	return newBuilder(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))
}

func darkBuilder() *builder {
	return newBuilder(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0))
}

func (b *builder) add(obj core.Hittable, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.scene.Add(obj)
}

func (b *builder) sphere(center core.Vec3, radius float64, mat core.Material) {
	b.add(geometry.NewSphere(center, radius, mat))
}

func (b *builder) quad(corner, u, v core.Vec3, mat core.Material) {
	b.add(geometry.NewQuad(corner, u, v, mat))
}

func (b *builder) metal(albedo core.Vec3, fuzz float64) core.Material {
	m, err := material.NewMetal(albedo, fuzz)
	if err != nil && b.err == nil {
		b.err = err
	}
	return m
}

func (b *builder) glass(refractiveIndex float64) core.Material {
	m, err := material.NewDielectric(refractiveIndex)
	if err != nil && b.err == nil {
		b.err = err
	}
	return m
}

func (b *builder) build(name string, camera config.CameraSettings) (*Preset, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building %s scene: %w", name, b.err)
	}
	return &Preset{Name: name, Scene: b.scene, Camera: camera}, nil
}

func frontCamera() config.CameraSettings {
	return config.CameraSettings{
		LookFrom: [3]float64{0, 0, 0},
		LookAt:   [3]float64{0, 0, -1},
		Up:       [3]float64{0, 1, 0},
		VFov:     90.0,
	}
}

func newOneSphereScene() (*Preset, error) {
	b := skyBuilder()

	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))

	b.sphere(core.NewVec3(0, 0, -1), 0.5, gray)
	b.sphere(core.NewVec3(0, -100.5, -1), 100, ground)

	return b.build("one-sphere", frontCamera())
}

func newMetalSpheresScene() (*Preset, error) {
	b := skyBuilder()

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	silver := b.metal(core.NewVec3(0.8, 0.8, 0.8), 0.3)
	gold := b.metal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	b.sphere(core.NewVec3(0, -100.5, -1), 100, ground)
	b.sphere(core.NewVec3(0, 0, -1), 0.5, center)
	b.sphere(core.NewVec3(-1, 0, -1), 0.5, silver)
	b.sphere(core.NewVec3(1, 0, -1), 0.5, gold)

	return b.build("metal-spheres", frontCamera())
}

func newGlassSpheresScene() (*Preset, error) {
	b := skyBuilder()

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := b.glass(1.5)
	gold := b.metal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	b.sphere(core.NewVec3(0, -100.5, -1), 100, ground)
	b.sphere(core.NewVec3(0, 0, -1), 0.5, center)
	b.sphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	b.sphere(core.NewVec3(1, 0, -1), 0.5, gold)

	return b.build("glass-spheres", frontCamera())
}

func newHollowGlassScene() (*Preset, error) {
	b := skyBuilder()

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	blue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := b.glass(1.5)

	b.sphere(core.NewVec3(0, -100.5, -1), 100, ground)
	// Glass shell with a diffuse core
	b.sphere(core.NewVec3(0, 0, -1), 0.5, glass)
	b.sphere(core.NewVec3(0, 0, -1), 0.25, blue)

	return b.build("hollow-glass", frontCamera())
}

func newThreeSpheresScene() (*Preset, error) {
	b := skyBuilder()

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := b.glass(1.5)
	gold := b.metal(core.NewVec3(0.8, 0.6, 0.2), 0.2)

	b.sphere(core.NewVec3(0, -100.5, -1), 100, ground)
	b.sphere(core.NewVec3(0, 0, -1), 0.5, center)
	b.sphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	b.sphere(core.NewVec3(1, 0, -1), 0.5, gold)

	// Off-axis camera with a shallow depth of field focused on the center sphere
	return b.build("three-spheres", config.CameraSettings{
		LookFrom:      [3]float64{3, 3, 2},
		LookAt:        [3]float64{0, 0, -1},
		Up:            [3]float64{0, 1, 0},
		VFov:          20.0,
		Aperture:      0.3,
		FocusDistance: 0.0,
	})
}

func newManySpheresScene() (*Preset, error) {
	b := skyBuilder()

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	b.sphere(core.NewVec3(0, -1000, 0), 1000, ground)

	// Deterministic marble field so the preset renders identically everywhere
	random := rand.New(rand.NewSource(7))
	for a := -7; a < 7; a++ {
		for c := -7; c < 7; c++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(c)+0.9*random.Float64(),
			)
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			var mat core.Material
			switch choice := random.Float64(); {
			case choice < 0.8:
				albedo := core.NewVec3(random.Float64(), random.Float64(), random.Float64())
				mat = material.NewLambertian(albedo.MultiplyVec(albedo))
			case choice < 0.95:
				albedo := core.NewVec3(
					0.5+0.5*random.Float64(),
					0.5+0.5*random.Float64(),
					0.5+0.5*random.Float64(),
				)
				mat = b.metal(albedo, 0.5*random.Float64())
			default:
				mat = b.glass(1.5)
			}
			b.sphere(center, 0.2, mat)
		}
	}

	b.sphere(core.NewVec3(0, 1, 0), 1.0, b.glass(1.5))
	b.sphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	b.sphere(core.NewVec3(4, 1, 0), 1.0, b.metal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return b.build("many-spheres", config.CameraSettings{
		LookFrom:      [3]float64{13, 2, 3},
		LookAt:        [3]float64{0, 0, 0},
		Up:            [3]float64{0, 1, 0},
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	})
}

func newQuadsScene() (*Preset, error) {
	b := skyBuilder()

	red := material.NewLambertian(core.NewVec3(1.0, 0.2, 0.2))
	green := material.NewLambertian(core.NewVec3(0.2, 1.0, 0.2))
	blue := material.NewLambertian(core.NewVec3(0.2, 0.2, 1.0))
	orange := material.NewLambertian(core.NewVec3(1.0, 0.5, 0.0))
	teal := material.NewLambertian(core.NewVec3(0.2, 0.8, 0.8))

	b.quad(core.NewVec3(-3, -2, 5), core.NewVec3(0, 0, -4), core.NewVec3(0, 4, 0), red)
	b.quad(core.NewVec3(-2, -2, 0), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), green)
	b.quad(core.NewVec3(3, -2, 1), core.NewVec3(0, 0, 4), core.NewVec3(0, 4, 0), blue)
	b.quad(core.NewVec3(-2, 3, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), orange)
	b.quad(core.NewVec3(-2, -3, 5), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, -4), teal)

	return b.build("quads", config.CameraSettings{
		LookFrom: [3]float64{0, 0, 9},
		LookAt:   [3]float64{0, 0, 0},
		Up:       [3]float64{0, 1, 0},
		VFov:     80.0,
	})
}

func newSimpleLightScene() (*Preset, error) {
	b := darkBuilder()

	ground := material.NewLambertian(core.NewVec3(0.48, 0.42, 0.36))
	gray := material.NewLambertian(core.NewVec3(0.4, 0.4, 0.4))
	light := material.NewEmissive(core.NewVec3(4, 4, 4))

	b.sphere(core.NewVec3(0, -1000, 0), 1000, ground)
	b.sphere(core.NewVec3(0, 2, 0), 2, gray)
	b.quad(core.NewVec3(3, 1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), light)
	b.sphere(core.NewVec3(0, 7, 0), 2, material.NewEmissive(core.NewVec3(4, 4, 4)))

	return b.build("simple-light", config.CameraSettings{
		LookFrom: [3]float64{26, 3, 6},
		LookAt:   [3]float64{0, 2, 0},
		Up:       [3]float64{0, 1, 0},
		VFov:     20.0,
	})
}

func newCornellScene() (*Preset, error) {
	b := darkBuilder()

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewEmissive(core.NewVec3(15, 15, 15))

	const boxSize = 555.0

	// Floor, ceiling, back wall (white)
	b.quad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	b.quad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	b.quad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white)

	// Left wall (green), right wall (red)
	b.quad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), green)
	b.quad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red)

	// Ceiling light
	b.quad(core.NewVec3(213, 554, 227), core.NewVec3(130, 0, 0), core.NewVec3(0, 0, 105), light)

	// A glass ball and a mirrored ball inside the box
	b.sphere(core.NewVec3(190, 90, 190), 90, b.glass(1.5))
	b.sphere(core.NewVec3(370, 90, 350), 90, b.metal(core.NewVec3(0.8, 0.85, 0.88), 0.0))

	return b.build("cornell", config.CameraSettings{
		LookFrom: [3]float64{278, 278, -800},
		LookAt:   [3]float64{278, 278, 0},
		Up:       [3]float64{0, 1, 0},
		VFov:     40.0,
	})
}
