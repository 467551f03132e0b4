package renderer

import (
	"math"
	"sort"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Triangle is a local space triangle of a pickable mesh.
type Triangle [3]mgl64.Vec3

// Mesh is the pick geometry of a model in its local space.
type Mesh struct {
	Min, Max  mgl64.Vec3
	Triangles []Triangle
}

// DefaultMesh is used for models without registered geometry: a unit box
// standing on the floor plane.
var DefaultMesh = Mesh{
	Min: mgl64.Vec3{-0.5, 0, -0.5},
	Max: mgl64.Vec3{0.5, 1, 0.5},
}

// GeometrySource supplies pick geometry by model reference.
type GeometrySource interface {
	Mesh(modelRef string) (Mesh, bool)
}

// StaticGeometry is a fixed model reference to mesh table.
type StaticGeometry map[string]Mesh

func (g StaticGeometry) Mesh(modelRef string) (Mesh, bool) {
	m, ok := g[modelRef]
	return m, ok
}

// Scope limits picking to one floor or room. Empty ids match everything.
type Scope struct {
	FloorID string
	RoomID  string
}

func (s Scope) matches(ref scene.SelectionRef) bool {
	if s.FloorID != "" && ref.FloorID != s.FloorID {
		return false
	}
	if s.RoomID != "" && ref.RoomID != s.RoomID {
		return false
	}
	return true
}

// Query is one pointer pick. Pointer is in client coordinates of Rect.
type Query struct {
	Pointer     mgl64.Vec2
	Rect        Rect
	Camera      *Camera
	Scene       *scene.Scene
	Scope       Scope
	FloorHeight float64
}

// Result of a pick. When Hit is false, OnPlane reports whether the ray
// reached the floor plane at PlanePoint.
type Result struct {
	Hit      bool
	Ref      scene.SelectionRef
	Point    mgl64.Vec3
	Distance float64

	Ray        Ray
	OnPlane    bool
	PlanePoint mgl64.Vec3
}

// Resolver turns pointer positions into scene selections.
type Resolver struct {
	geometry GeometrySource
}

func NewResolver(geometry GeometrySource) *Resolver {
	return &Resolver{geometry: geometry}
}

type candidate struct {
	ref   scene.SelectionRef
	entry float64
	mesh  Mesh
	model mgl64.Mat4
}

// Resolve casts the pointer ray into the scene. Missing camera or scene
// data yields a miss rather than an error.
func (r *Resolver) Resolve(q Query) Result {
	ndc, ok := NormalizePointer(q.Pointer.X(), q.Pointer.Y(), q.Rect)
	if !ok || q.Camera == nil || q.Scene == nil {
		logger.Log.Debug("Pick skipped, editor surface not ready")
		return Result{}
	}
	ray, ok := ScreenToRay(q.Camera, ndc)
	if !ok {
		logger.Log.Debug("Pick skipped, camera not initialized")
		return Result{}
	}
	return r.Cast(ray, q.Camera, q.Scene, q.Scope, q.FloorHeight)
}

// Cast resolves an already built world ray. camera may be nil, in which case
// no frustum culling is applied.
func (r *Resolver) Cast(ray Ray, camera *Camera, s *scene.Scene, scope Scope, floorHeight float64) Result {
	res := Result{Ray: ray}
	if hit, _, p := RayIntersectPlane(ray, mgl64.Vec3{0, floorHeight, 0}, mgl64.Vec3{0, 1, 0}); hit {
		res.OnPlane = true
		res.PlanePoint = p
	}
	if s == nil {
		return res
	}

	var frustum *Frustum
	if camera.Initialized() {
		f := camera.CalculateFrustum()
		frustum = &f
	}

	cands := r.broadPhase(ray, frustum, s, scope)
	if len(cands) == 0 {
		return res
	}

	best, found := narrowPhase(ray, cands)
	if !found {
		return res
	}
	res.Hit = true
	res.Ref = best.ref
	res.Distance = best.entry
	res.Point = ray.At(best.entry)

	logger.Log.Debug("Pick resolved",
		zap.String("ref", best.ref.String()),
		zap.Float64("distance", best.entry),
		zap.Int("candidates", len(cands)))
	return res
}

// broadPhase keeps furniture whose world bounding sphere the ray enters,
// ordered by entry distance then id.
func (r *Resolver) broadPhase(ray Ray, frustum *Frustum, s *scene.Scene, scope Scope) []candidate {
	var cands []candidate
	s.EachFurniture(func(ref scene.SelectionRef, item scene.Furniture) bool {
		if !scope.matches(ref) {
			return true
		}
		mesh := r.meshFor(item.ModelRef)
		model := item.Transform.Matrix()

		localCenter := mesh.Min.Add(mesh.Max).Mul(0.5)
		center := model.Mul4x1(localCenter.Vec4(1)).Vec3()
		radius := mesh.Max.Sub(mesh.Min).Len() * 0.5 * item.Transform.MaxScale()

		if frustum != nil && !frustum.IntersectsSphere(center, radius) {
			return true
		}
		t1, t2, ok := sphereRoots(ray, center, radius)
		if !ok || t2 < 0 {
			return true
		}
		cands = append(cands, candidate{ref: ref, entry: math.Max(t1, 0), mesh: mesh, model: model})
		return true
	})

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].entry != cands[j].entry {
			return cands[i].entry < cands[j].entry
		}
		return cands[i].ref.FurnitureID < cands[j].ref.FurnitureID
	})
	return cands
}

// narrowPhase runs precise tests nearest first and stops once no remaining
// bounding sphere can beat the best hit.
func narrowPhase(ray Ray, cands []candidate) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range cands {
		if found && c.entry > best.entry+rayEpsilon {
			break
		}
		hit, t := preciseHit(ray, c)
		if !hit {
			continue
		}
		if !found || closer(t, c.ref.FurnitureID, best.entry, best.ref.FurnitureID) {
			best = c
			best.entry = t
			found = true
		}
	}
	return best, found
}

func closer(t float64, id string, bestT float64, bestID string) bool {
	if math.Abs(t-bestT) <= rayEpsilon {
		return id < bestID
	}
	return t < bestT
}

func preciseHit(ray Ray, c candidate) (bool, float64) {
	if len(c.mesh.Triangles) == 0 {
		hit, t, _ := RayIntersectOBB(ray, c.mesh.Min, c.mesh.Max, c.model)
		return hit, t
	}
	if c.model.Det() == 0 {
		return false, 0
	}
	local := ray.Transform(c.model.Inv())
	bestT := math.Inf(1)
	for _, tri := range c.mesh.Triangles {
		if hit, t, _ := RayIntersectTriangle(local, tri[0], tri[1], tri[2]); hit && t < bestT {
			bestT = t
		}
	}
	if math.IsInf(bestT, 1) {
		return false, 0
	}
	return true, bestT
}

func (r *Resolver) meshFor(modelRef string) Mesh {
	if r != nil && r.geometry != nil {
		if m, ok := r.geometry.Mesh(modelRef); ok {
			return m
		}
	}
	return DefaultMesh
}
