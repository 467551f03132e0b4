package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"RoomEditor/internal/renderer"
	"RoomEditor/internal/scene"
	"RoomEditor/internal/transform"

	"github.com/go-gl/mathgl/mgl64"
)

const quadOBJ = `# table top
v -1 0 -1
v 1 0 -1
v 1 0.5 1
v -1 0.5 1
vt 0 0
vn 0 1 0
f 1/1/1 2/1/1 3/1/1 4/1/1
`

func TestParseOBJQuad(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(mesh.Triangles) != 2 {
		t.Errorf("Expected 2 triangles, got %d", len(mesh.Triangles))
	}
	if mesh.Min != (mgl64.Vec3{-1, 0, -1}) || mesh.Max != (mgl64.Vec3{1, 0.5, 1}) {
		t.Errorf("Unexpected bounds %v %v", mesh.Min, mesh.Max)
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if mesh.Triangles[0][2] != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected last vertex, got %v", mesh.Triangles[0][2])
	}
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"bad vertex":   "v 0 x 0\n",
		"out of range": "v 0 0 0\nf 1 2 3\n",
		"zero index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
	}
	for name, src := range cases {
		if _, err := ParseOBJ(strings.NewReader(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := ParseOBJ(strings.NewReader("v 0 0 0\n")); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("Expected ErrEmptyMesh, got %v", err)
	}
}

func TestCatalogLoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "table-01.obj"), []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	cat := NewCatalog(dir)

	if _, ok := cat.Mesh("table-01"); !ok {
		t.Fatal("Expected table-01 geometry")
	}
	os.Remove(filepath.Join(dir, "table-01.obj"))
	if _, ok := cat.Mesh("table-01"); !ok {
		t.Error("Expected cached geometry after the file is gone")
	}
	if _, ok := cat.Mesh("sofa-02"); ok {
		t.Error("Missing model should report no geometry")
	}
	if _, ok := cat.Mesh("../table-01"); ok {
		t.Error("Model references must not escape the directory")
	}
}

func TestCatalogPreload(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.obj"), []byte(quadOBJ), 0o644)
	os.WriteFile(filepath.Join(dir, "b.OBJ"), []byte("v 0 0 0\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	n, err := NewCatalog(dir).Preload()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected 1 loadable model, got %d", n)
	}
}

func TestCatalogDrivesPicking(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "table-01.obj"), []byte(quadOBJ), 0o644)

	s := scene.Scene{Floors: []scene.Floor{{ID: "f", Name: "Ground", Rooms: []scene.Room{{
		ID: "r", Name: "Lounge",
		Furniture: []scene.Furniture{{ID: "t", ModelRef: "table-01", Quantity: 1, Transform: transform.Identity()}},
	}}}}}
	ray := renderer.Ray{Origin: mgl64.Vec3{0.2, 5, 0}, Direction: mgl64.Vec3{0, -1, 0}}

	res := renderer.NewResolver(NewCatalog(dir)).Cast(ray, nil, &s, renderer.Scope{}, 0)
	if !res.Hit || res.Ref.FurnitureID != "t" {
		t.Fatalf("Expected a hit on the table, got %+v", res)
	}
	if res.Distance < 4.7 || res.Distance > 4.8 {
		t.Errorf("Expected the sloped top near t=4.75, got %f", res.Distance)
	}
}

func TestCatalogInvalidate(t *testing.T) {
	dir := t.TempDir()
	cat := NewCatalog(dir)
	if _, ok := cat.Mesh("lamp"); ok {
		t.Fatal("Expected a miss before the file exists")
	}
	os.WriteFile(filepath.Join(dir, "lamp.obj"), []byte(quadOBJ), 0o644)
	if _, ok := cat.Mesh("lamp"); ok {
		t.Error("Misses are cached until invalidated")
	}
	cat.Invalidate("lamp")
	if _, ok := cat.Mesh("lamp"); !ok {
		t.Error("Expected the new file to load after Invalidate")
	}
}

func TestCatalogWatch(t *testing.T) {
	dir := t.TempDir()
	cat := NewCatalog(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := cat.Watch(ctx); err != nil {
		t.Fatal(err)
	}

	cat.Mesh("lamp")
	os.WriteFile(filepath.Join(dir, "lamp.obj"), []byte(quadOBJ), 0o644)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := cat.Mesh("lamp"); ok {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Watcher did not pick up the new model file")
}
