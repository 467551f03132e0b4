package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinScale is the smallest scale component a transform may carry.
const MinScale = 0.01

// Transform places a furniture instance in world space. Rotation is Euler XYZ in radians.
type Transform struct {
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"`
	Scale    mgl64.Vec3 `json:"scale"`
}

// Delta is an additive change to a Transform.
type Delta struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// AxisMask selects which axes of a Delta are applied.
type AxisMask uint8

const (
	AxisX AxisMask = 1 << iota
	AxisY
	AxisZ

	AxisNone AxisMask = 0
	AxisXZ            = AxisX | AxisZ
	AxisAll           = AxisX | AxisY | AxisZ
)

// Has reports whether axis i (0=X, 1=Y, 2=Z) is selected.
func (m AxisMask) Has(i int) bool {
	return i >= 0 && i < 3 && m&(1<<uint(i)) != 0
}

func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// At returns an identity transform translated to p.
func At(p mgl64.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// Apply returns t with delta added on the masked axes. Scale is clamped to MinScale.
func Apply(t Transform, delta Delta, mask AxisMask) Transform {
	out := t
	for i := 0; i < 3; i++ {
		if !mask.Has(i) {
			continue
		}
		out.Position[i] += delta.Position[i]
		out.Rotation[i] += delta.Rotation[i]
		out.Scale[i] = clampScale(out.Scale[i] + delta.Scale[i])
	}
	return out
}

// Translate is shorthand for Apply with only a position delta.
func Translate(t Transform, by mgl64.Vec3, mask AxisMask) Transform {
	return Apply(t, Delta{Position: by}, mask)
}

// Normalize clamps every scale component to MinScale.
func (t Transform) Normalize() Transform {
	for i := 0; i < 3; i++ {
		t.Scale[i] = clampScale(t.Scale[i])
	}
	return t
}

// Valid reports finite components and a strictly positive scale.
func (t Transform) Valid() bool {
	for i := 0; i < 3; i++ {
		if !finite(t.Position[i]) || !finite(t.Rotation[i]) || !finite(t.Scale[i]) {
			return false
		}
		if t.Scale[i] <= 0 {
			return false
		}
	}
	return true
}

// Matrix returns the model matrix T * Rz * Ry * Rx * S.
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z()))
	m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation.Y()))
	m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation.X()))
	return m.Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// MaxScale returns the largest scale component.
func (t Transform) MaxScale() float64 {
	return math.Max(t.Scale.X(), math.Max(t.Scale.Y(), t.Scale.Z()))
}

func clampScale(v float64) float64 {
	if math.IsNaN(v) || v < MinScale {
		return MinScale
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
