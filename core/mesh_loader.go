// core/mesh_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/geo/r3"

	"github.com/signalsfoundry/bodygeom/model"
)

// MeshSummary is a small summary of what was loaded from JSON. It's mainly
// useful for logging from main().
type MeshSummary struct {
	Name      string
	Vertices  int
	Triangles int
}

// internal JSON shapes - kept unexported so we're free to evolve them.
type meshJSON struct {
	Name      string       `json:"name"`
	Vertices  [][3]float64 `json:"vertices"`  // km, body-fixed frame
	Triangles [][3]int     `json:"triangles"` // vertex indices, outward winding
}

// LoadMesh reads a JSON triangle mesh from r and builds the immutable
// vertex/triangle set. It fails on structural errors (bad indices, degenerate
// facets) at load time, so a returned mesh is internally consistent and never
// re-validated during queries.
func LoadMesh(r io.Reader) ([]*model.Vertex, []*model.Triangle, *MeshSummary, error) {
	var payload meshJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, nil, nil, fmt.Errorf("LoadMesh: decode failed: %w", err)
	}
	if len(payload.Triangles) == 0 {
		return nil, nil, nil, fmt.Errorf("LoadMesh: mesh %q has no triangles", payload.Name)
	}

	vertices := make([]*model.Vertex, len(payload.Vertices))
	for i, p := range payload.Vertices {
		vertices[i] = model.NewVertex(i, r3.Vector{X: p[0], Y: p[1], Z: p[2]})
	}

	triangles := make([]*model.Triangle, 0, len(payload.Triangles))
	for i, idx := range payload.Triangles {
		for _, j := range idx {
			if j < 0 || j >= len(vertices) {
				return nil, nil, nil, fmt.Errorf("LoadMesh: triangle %d references vertex %d of %d", i, j, len(vertices))
			}
		}
		t, err := model.NewTriangle(i, vertices[idx[0]], vertices[idx[1]], vertices[idx[2]])
		if err != nil {
			return nil, nil, nil, fmt.Errorf("LoadMesh: %w", err)
		}
		triangles = append(triangles, t)
	}

	return vertices, triangles, &MeshSummary{
		Name:      payload.Name,
		Vertices:  len(vertices),
		Triangles: len(triangles),
	}, nil
}
