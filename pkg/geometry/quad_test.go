package geometry

import (
	"math"
	"testing"

	"github.com/lumen-render/lumen/pkg/core"
)

func TestNewQuad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		u, v    core.Vec3
		wantErr bool
	}{
		{
			name: "Valid edges",
			u:    core.NewVec3(1, 0, 0),
			v:    core.NewVec3(0, 1, 0),
		},
		{
			name:    "Zero edge",
			u:       core.NewVec3(0, 0, 0),
			v:       core.NewVec3(0, 1, 0),
			wantErr: true,
		},
		{
			name:    "Parallel edges",
			u:       core.NewVec3(1, 0, 0),
			v:       core.NewVec3(2, 0, 0),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuad(core.NewVec3(0, 0, 0), tt.u, tt.v, testMaterial())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewQuad error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil); err == nil {
		t.Error("Expected error for nil material")
	}
}

func TestQuad_Hit(t *testing.T) {
	// Unit quad in the z=-2 plane spanning [0,1]x[0,1]
	quad, err := NewQuad(core.NewVec3(0, 0, -2), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial())
	if err != nil {
		t.Fatalf("NewQuad failed: %v", err)
	}

	tests := []struct {
		name    string
		origin  core.Vec3
		wantHit bool
	}{
		{name: "Center of quad", origin: core.NewVec3(0.5, 0.5, 0), wantHit: true},
		{name: "At corner", origin: core.NewVec3(0, 0, 0), wantHit: true},
		{name: "Outside in u", origin: core.NewVec3(1.5, 0.5, 0), wantHit: false},
		{name: "Outside in v", origin: core.NewVec3(0.5, -0.5, 0), wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, core.NewVec3(0, 0, -1))
			hit, isHit := quad.Hit(ray, 0.001, math.Inf(1))
			if isHit != tt.wantHit {
				t.Fatalf("Hit = %v, want %v", isHit, tt.wantHit)
			}
			if isHit && math.Abs(hit.T-2.0) > 1e-9 {
				t.Errorf("Expected t=2, got %v", hit.T)
			}
		})
	}
}

func TestQuad_Hit_ParallelRay(t *testing.T) {
	quad, err := NewQuad(core.NewVec3(0, 0, -2), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial())
	if err != nil {
		t.Fatalf("NewQuad failed: %v", err)
	}

	// Ray lies in a plane parallel to the quad
	ray := core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(1, 0, 0))
	if _, isHit := quad.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected parallel ray to miss")
	}
}

func TestQuad_Hit_FaceNormal(t *testing.T) {
	quad, err := NewQuad(core.NewVec3(0, 0, -2), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), testMaterial())
	if err != nil {
		t.Fatalf("NewQuad failed: %v", err)
	}

	// From the front: the u×v normal is +z and opposes the ray
	front := core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(0, 0, -1))
	hit, isHit := quad.Hit(front, 0.001, math.Inf(1))
	if !isHit || !hit.FrontFace {
		t.Fatalf("Expected front face hit, got hit=%v record=%+v", isHit, hit)
	}

	// From behind: same surface, flipped stored normal
	back := core.NewRay(core.NewVec3(0.5, 0.5, -4), core.NewVec3(0, 0, 1))
	hit, isHit = quad.Hit(back, 0.001, math.Inf(1))
	if !isHit || hit.FrontFace {
		t.Fatalf("Expected back face hit, got hit=%v record=%+v", isHit, hit)
	}
	if hit.Normal.Dot(back.Direction) >= 0 {
		t.Errorf("Stored normal should oppose the ray, got %v", hit.Normal)
	}
}
