package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2})),
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}),
				gltf.COLOR_0:  modeler.WriteColor(doc, [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}),
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func TestGLTFLoaderLoad(t *testing.T) {
	m, err := NewGLTFLoader().Load(triangleDoc(), "tri")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d faces", m.VertexCount(), m.TriangleCount())
	}
	if m.Faces[0] != [3]int{0, 1, 2} {
		t.Errorf("face = %v", m.Faces[0])
	}
	if m.Vertices[1].Position != math3d.V3(2, 0, 0) {
		t.Errorf("position = %v", m.Vertices[1].Position)
	}
	if c := m.Vertices[0].Color; m.Vertices[0].Attrs&render.AttrColor == 0 || c.R != 1 || c.G != 0 {
		t.Errorf("color = %+v", c)
	}
	// No normals in the file, so smooth ones are generated.
	if !m.HasNormals() || !near(m.Vertices[0].Normal, math3d.V3(0, 0, 1)) {
		t.Errorf("normal = %v", m.Vertices[0].Normal)
	}
	if !near(m.BoundsMax, math3d.V3(2, 2, 0)) {
		t.Errorf("bounds max = %v", m.BoundsMax)
	}
}

func TestLoadGLBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(triangleDoc(), path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "tri.glb" || m.TriangleCount() != 1 {
		t.Errorf("mesh %q with %d faces", m.Name, m.TriangleCount())
	}
	if m.Texture != nil {
		t.Error("document has no images")
	}
}

func TestLoadGLBInvalidPath(t *testing.T) {
	if _, err := LoadGLB("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
	if _, err := LoadGLBWithTexture("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestNewGLTFLoaderDefaults(t *testing.T) {
	l := NewGLTFLoader()
	if !l.CalculateNormals || !l.SmoothNormals {
		t.Errorf("defaults = %+v", l)
	}
}
