package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"RoomEditor/internal/logger"
	"RoomEditor/internal/renderer"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

var ErrEmptyMesh = errors.New("mesh has no faces")

// LoadMesh reads the pick geometry of a Wavefront OBJ file.
func LoadMesh(path string) (renderer.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return renderer.Mesh{}, err
	}
	defer file.Close()

	mesh, err := ParseOBJ(file)
	if err != nil {
		return renderer.Mesh{}, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ reads vertex positions and faces. Texture coordinates, normals
// and materials are ignored. Polygons are fan triangulated.
func ParseOBJ(r io.Reader) (renderer.Mesh, error) {
	var vertices []mgl64.Vec3
	var triangles []renderer.Triangle

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			v, err := parseVertex(parts[1:])
			if err != nil {
				return renderer.Mesh{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vertices = append(vertices, v)
		case "f":
			idx, err := parseFace(parts[1:], len(vertices))
			if err != nil {
				return renderer.Mesh{}, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if len(idx) > 4 {
				logger.Log.Debug("Face with more than 4 vertices, using fan triangulation", zap.Int("vertexCount", len(idx)))
			}
			for i := 1; i < len(idx)-1; i++ {
				triangles = append(triangles, renderer.Triangle{vertices[idx[0]], vertices[idx[i]], vertices[idx[i+1]]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return renderer.Mesh{}, err
	}
	if len(triangles) == 0 {
		return renderer.Mesh{}, ErrEmptyMesh
	}
	return withBounds(triangles), nil
}

func withBounds(triangles []renderer.Triangle) renderer.Mesh {
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, tri := range triangles {
		for _, v := range tri {
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], v[i])
				max[i] = math.Max(max[i], v[i])
			}
		}
	}
	return renderer.Mesh{Min: min, Max: max, Triangles: triangles}
}

func parseVertex(parts []string) (mgl64.Vec3, error) {
	if len(parts) < 3 {
		return mgl64.Vec3{}, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("invalid vertex value %v: %v", parts[i], err)
		}
		v[i] = val
	}
	return v, nil
}

// parseFace returns zero based vertex indices. Negative OBJ indices count
// back from the last vertex read.
func parseFace(parts []string, vertexCount int) ([]int, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(parts))
	}
	idx := make([]int, 0, len(parts))
	for _, part := range parts {
		ref, _, _ := strings.Cut(part, "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %v: %v", ref, err)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += vertexCount
		default:
			return nil, errors.New("vertex index 0 is not valid")
		}
		if n < 0 || n >= vertexCount {
			return nil, fmt.Errorf("vertex index %s out of range", ref)
		}
		idx = append(idx, n)
	}
	return idx, nil
}
