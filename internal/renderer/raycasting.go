package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const rayEpsilon = 1e-9

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray through an affine matrix. The direction is not
// renormalized, so ray parameters stay comparable across spaces.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	return Ray{
		Origin:    m.Mul4x1(r.Origin.Vec4(1)).Vec3(),
		Direction: m.Mul4x1(r.Direction.Vec4(0)).Vec3(),
	}
}

// Rect is the bounding rectangle of the render surface in client coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// NormalizePointer converts client coordinates into normalized device
// coordinates in [-1,1] with +Y up. It fails for an empty rectangle.
func NormalizePointer(x, y float64, rect Rect) (mgl64.Vec2, bool) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return mgl64.Vec2{}, false
	}
	ndcX := 2.0*(x-rect.Left)/rect.Width - 1.0
	ndcY := 1.0 - 2.0*(y-rect.Top)/rect.Height
	return mgl64.Vec2{ndcX, ndcY}, true
}

// ScreenToRay converts a normalized pointer position into a world space ray
// starting at the camera.
func ScreenToRay(camera *Camera, ndc mgl64.Vec2) (Ray, bool) {
	if !camera.Initialized() {
		return Ray{}, false
	}
	inv := camera.GetViewProjection().Inv()

	near := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), -1, 1})
	far := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return Ray{}, false
	}
	nearPoint := near.Vec3().Mul(1 / near.W())
	farPoint := far.Vec3().Mul(1 / far.W())

	dir := farPoint.Sub(nearPoint)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: camera.Position, Direction: dir.Normalize()}, true
}

// RayIntersectSphere tests if a ray intersects a sphere
// Returns: (intersected, distance, intersection point)
func RayIntersectSphere(ray Ray, sphereCenter mgl64.Vec3, radius float64) (bool, float64, mgl64.Vec3) {
	t1, t2, ok := sphereRoots(ray, sphereCenter, radius)
	if !ok {
		return false, 0, mgl64.Vec3{}
	}

	// Return the closest intersection (smallest positive t)
	var t float64
	if t1 > 0 {
		t = t1
	} else if t2 > 0 {
		t = t2
	} else {
		// Both intersections are behind the ray origin
		return false, 0, mgl64.Vec3{}
	}

	return true, t, ray.At(t)
}

// sphereRoots returns the ordered entry and exit parameters of the ray against the sphere.
func sphereRoots(ray Ray, center mgl64.Vec3, radius float64) (float64, float64, bool) {
	oc := ray.Origin.Sub(center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	if a == 0 {
		return 0, 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, 0, false
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)
	return t1, t2, true
}

// RayIntersectAABB tests a ray against an axis aligned box using the slab method.
// A ray starting inside the box reports distance 0.
func RayIntersectAABB(ray Ray, min, max mgl64.Vec3) (bool, float64, mgl64.Vec3) {
	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	for i := 0; i < 3; i++ {
		o := ray.Origin[i]
		d := ray.Direction[i]
		if math.Abs(d) < rayEpsilon {
			if o < min[i] || o > max[i] {
				return false, 0, mgl64.Vec3{}
			}
			continue
		}
		t1 := (min[i] - o) / d
		t2 := (max[i] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return false, 0, mgl64.Vec3{}
		}
	}

	if tFar < 0 {
		return false, 0, mgl64.Vec3{}
	}
	t := math.Max(tNear, 0)
	return true, t, ray.At(t)
}

// RayIntersectOBB tests a ray against a local space box placed by model.
// The returned distance is a parameter of the world ray.
func RayIntersectOBB(ray Ray, min, max mgl64.Vec3, model mgl64.Mat4) (bool, float64, mgl64.Vec3) {
	if model.Det() == 0 {
		return false, 0, mgl64.Vec3{}
	}
	local := ray.Transform(model.Inv())
	hit, t, _ := RayIntersectAABB(local, min, max)
	if !hit {
		return false, 0, mgl64.Vec3{}
	}
	return true, t, ray.At(t)
}

// RayIntersectTriangle tests if a ray intersects a triangle
// Returns: (intersected, distance, intersection point)
// Uses Möller-Trumbore algorithm
func RayIntersectTriangle(ray Ray, v0, v1, v2 mgl64.Vec3) (bool, float64, mgl64.Vec3) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -rayEpsilon && a < rayEpsilon {
		return false, 0, mgl64.Vec3{} // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return false, 0, mgl64.Vec3{}
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return false, 0, mgl64.Vec3{}
	}

	t := f * edge2.Dot(q)

	if t > rayEpsilon {
		return true, t, ray.At(t)
	}

	return false, 0, mgl64.Vec3{} // Line intersection but not ray intersection
}

// RayIntersectPlane intersects the ray with the plane through point with the given normal.
func RayIntersectPlane(ray Ray, point, normal mgl64.Vec3) (bool, float64, mgl64.Vec3) {
	denom := normal.Dot(ray.Direction)
	if math.Abs(denom) < rayEpsilon {
		return false, 0, mgl64.Vec3{}
	}
	t := point.Sub(ray.Origin).Dot(normal) / denom
	if t < 0 {
		return false, 0, mgl64.Vec3{}
	}
	return true, t, ray.At(t)
}
