package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Camera struct {
	Position   mgl64.Vec3 // Camera position in world space
	Front      mgl64.Vec3 // Forward direction vector
	Up         mgl64.Vec3 // Up direction vector
	Right      mgl64.Vec3 // Right direction vector
	Projection mgl64.Mat4 // Projection matrix
	Pitch      float64    // Pitch angle in degrees
	Yaw        float64    // Yaw angle in degrees

	WorldUp     mgl64.Vec3 // World up vector (usually (0,1,0))
	Fov         float64    // Vertical field of view in degrees
	Near        float64    // Near clipping plane
	Far         float64    // Far clipping plane
	AspectRatio float64    // Width / height of the render surface
}

type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

type Frustum struct {
	Planes [6]Plane
}

// NewDefaultCamera looks down at the room origin from above and behind, the
// usual starting view of the room editor.
func NewDefaultCamera(width, height int) *Camera {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	camera := Camera{
		Position:    mgl64.Vec3{0, 8, 12},
		WorldUp:     mgl64.Vec3{0, 1, 0},
		Fov:         45.0,
		Near:        0.1,
		Far:         1000.0,
		AspectRatio: aspect,
	}
	camera.LookAt(mgl64.Vec3{0, 0, 0})
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl64.Perspective(mgl64.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) SetFov(fov float64) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float64) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

// SetViewport updates the aspect ratio from the render surface size.
func (c *Camera) SetViewport(width, height float64) {
	if width > 0 && height > 0 {
		c.SetAspectRatio(width / height)
	}
}

// Initialized reports whether the camera can produce an invertible view-projection.
func (c *Camera) Initialized() bool {
	if c == nil {
		return false
	}
	if c.Fov <= 0 || c.Fov >= 180 || c.Near <= 0 || c.Far <= c.Near || c.AspectRatio <= 0 {
		return false
	}
	if c.Front.Len() == 0 || c.Up.Len() == 0 {
		return false
	}
	return c.GetViewProjection().Det() != 0
}

func (c *Camera) GetViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl64.Mat4 {
	return c.Projection
}

func (c *Camera) GetViewProjection() mgl64.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

// Orbit rotates the view direction by yaw and pitch offsets in degrees.
func (c *Camera) Orbit(yawOffset, pitchOffset float64) {
	c.Yaw += yawOffset
	c.Pitch = mgl64.Clamp(c.Pitch+pitchOffset, -89.0, 89.0)
	c.updateCameraVectors()
}

// LookAt points the camera at target without moving it.
func (c *Camera) LookAt(target mgl64.Vec3) {
	direction := target.Sub(c.Position)
	if direction.Len() == 0 {
		return
	}
	direction = direction.Normalize()
	c.Yaw = mgl64.RadToDeg(math.Atan2(direction.Z(), direction.X()))
	c.Pitch = mgl64.RadToDeg(math.Asin(mgl64.Clamp(direction.Y(), -1, 1)))
	c.Pitch = mgl64.Clamp(c.Pitch, -89.0, 89.0)
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := mgl64.DegToRad(c.Yaw)
	pitchRad := mgl64.DegToRad(c.Pitch)

	front := mgl64.Vec3{
		math.Cos(yawRad) * math.Cos(pitchRad),
		math.Sin(pitchRad),
		math.Sin(yawRad) * math.Cos(pitchRad),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

func (c *Camera) CalculateFrustum() Frustum {
	var frustum Frustum
	vp := c.GetViewProjection()

	// Left Plane
	frustum.Planes[0] = Plane{
		Normal:   mgl64.Vec3{vp[3] + vp[0], vp[7] + vp[4], vp[11] + vp[8]},
		Distance: vp[15] + vp[12],
	}

	// Right Plane
	frustum.Planes[1] = Plane{
		Normal:   mgl64.Vec3{vp[3] - vp[0], vp[7] - vp[4], vp[11] - vp[8]},
		Distance: vp[15] - vp[12],
	}

	// Bottom Plane
	frustum.Planes[2] = Plane{
		Normal:   mgl64.Vec3{vp[3] + vp[1], vp[7] + vp[5], vp[11] + vp[9]},
		Distance: vp[15] + vp[13],
	}

	// Top Plane
	frustum.Planes[3] = Plane{
		Normal:   mgl64.Vec3{vp[3] - vp[1], vp[7] - vp[5], vp[11] - vp[9]},
		Distance: vp[15] - vp[13],
	}

	// Near Plane
	frustum.Planes[4] = Plane{
		Normal:   mgl64.Vec3{vp[3] + vp[2], vp[7] + vp[6], vp[11] + vp[10]},
		Distance: vp[15] + vp[14],
	}

	// Far Plane
	frustum.Planes[5] = Plane{
		Normal:   mgl64.Vec3{vp[3] - vp[2], vp[7] - vp[6], vp[11] - vp[10]},
		Distance: vp[15] - vp[14],
	}

	for i := 0; i < 6; i++ {
		length := frustum.Planes[i].Normal.Len()
		if length == 0 {
			continue
		}
		frustum.Planes[i].Normal = frustum.Planes[i].Normal.Mul(1.0 / length)
		frustum.Planes[i].Distance /= length
	}

	return frustum
}

func (p *Plane) DistanceToPoint(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

func (f *Frustum) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
