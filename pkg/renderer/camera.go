package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/lumen-render/lumen/pkg/config"
	"github.com/lumen-render/lumen/pkg/core"
)

// CameraConfig holds the parameters for camera setup
type CameraConfig struct {
	LookFrom      core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	VFov          float64 // Vertical field of view in degrees
	AspectRatio   float64 // Width / height
	Aperture      float64 // Lens diameter, 0 means a perfect pinhole
	FocusDistance float64 // 0 means focus at the look-at point
}

// CameraConfigFromSettings converts persisted camera settings into a camera
// config for the given output aspect ratio
func CameraConfigFromSettings(settings config.CameraSettings, aspectRatio float64) CameraConfig {
	return CameraConfig{
		LookFrom:      core.NewVec3(settings.LookFrom[0], settings.LookFrom[1], settings.LookFrom[2]),
		LookAt:        core.NewVec3(settings.LookAt[0], settings.LookAt[1], settings.LookAt[2]),
		Up:            core.NewVec3(settings.Up[0], settings.Up[1], settings.Up[2]),
		VFov:          settings.VFov,
		AspectRatio:   aspectRatio,
		Aperture:      settings.Aperture,
		FocusDistance: settings.FocusDistance,
	}
}

// Camera generates rays for rendering, with optional thin-lens defocus blur
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v            core.Vec3 // Camera basis vectors spanning the lens plane
	lensRadius      float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(cfg CameraConfig) (*Camera, error) {
	if cfg.VFov <= 0 || cfg.VFov >= 180 {
		return nil, fmt.Errorf("vfov must be in (0, 180) degrees, got %g", cfg.VFov)
	}
	if cfg.AspectRatio <= 0 {
		return nil, fmt.Errorf("aspect ratio must be positive, got %g", cfg.AspectRatio)
	}
	if cfg.Aperture < 0 {
		return nil, fmt.Errorf("aperture must be non-negative, got %g", cfg.Aperture)
	}

	viewDirection := cfg.LookAt.Subtract(cfg.LookFrom)
	if viewDirection.NearZero() {
		return nil, errors.New("look_from and look_at must differ")
	}

	focusDistance := cfg.FocusDistance
	if focusDistance <= 0 {
		focusDistance = viewDirection.Length()
	}

	w := viewDirection.Negate().Normalize()
	u := cfg.Up.Cross(w)
	if u.NearZero() {
		return nil, errors.New("up vector must not be parallel to the view direction")
	}
	u = u.Normalize()
	v := w.Cross(u)

	theta := cfg.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2)
	viewportHeight := 2.0 * halfHeight
	viewportWidth := cfg.AspectRatio * viewportHeight

	origin := cfg.LookFrom
	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      cfg.Aperture / 2,
	}, nil
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// With a non-zero aperture the ray origin is jittered across the lens disk,
// producing defocus blur away from the focus plane.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		lensPoint := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(lensPoint.X)).Add(c.v.Multiply(lensPoint.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}
