package models

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// GLTFLoader loads GLTF/GLB files into Mesh format. Node transforms are
// ignored; every primitive is read in its mesh's local space.
type GLTFLoader struct {
	CalculateNormals bool // Generate normals when the file has none
	SmoothNormals    bool // Average generated normals across faces
}

// NewGLTFLoader creates a loader that generates smooth normals.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads the geometry of a .glb or .gltf file.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return NewGLTFLoader().Load(doc, filepath.Base(path))
}

// LoadGLBWithTexture loads a .glb or .gltf file and attaches the first
// image that decodes, embedded or next to the file. A missing or broken
// image is logged and the mesh returned untextured.
func LoadGLBWithTexture(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := NewGLTFLoader().Load(doc, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	mesh.Texture = firstImage(doc, filepath.Dir(path))
	return mesh, nil
}

// Load converts every triangle primitive in doc into one mesh.
func (l *GLTFLoader) Load(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := l.appendMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func (l *GLTFLoader) appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			render.Logger().Warn("skipping non-triangle primitive", "mesh", m.Name, "mode", prim.Mode)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}
		var colors [][4]uint8
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			if colors, err = modeler.ReadColor(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}
		base, hasBase := baseColor(doc, prim)

		first := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2])).Normalize()
				v.Attrs |= render.AttrNormal
			}
			if i < len(uvs) {
				// GLTF puts V=0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
				v.Attrs |= render.AttrUV
			}
			switch {
			case i < len(colors):
				c := colors[i]
				v.Color = render.FromRGBA(color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
				v.Attrs |= render.AttrColor
			case hasBase:
				v.Color = base
				v.Attrs |= render.AttrColor
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices == nil {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{first + i, first + i + 1, first + i + 2})
			}
			continue
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, [3]int{
				first + int(indices[i]),
				first + int(indices[i+1]),
				first + int(indices[i+2]),
			})
		}
	}
	return mesh.Validate()
}

func baseColor(doc *gltf.Document, prim *gltf.Primitive) (render.Color, bool) {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return render.Color{}, false
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return render.Color{}, false
	}
	f := *pbr.BaseColorFactor
	return render.Color{R: float64(f[0]), G: float64(f[1]), B: float64(f[2]), A: float64(f[3])}, true
}

// firstImage decodes the first usable image of doc. External images are
// resolved against dir.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for i, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer].Data
			if bv.ByteOffset+bv.ByteLength <= len(buf) {
				data = buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
			}
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				render.Logger().Warn("texture unavailable", "image", i, "uri", img.URI, "error", err)
				continue
			}
			data = b
		}
		if len(data) == 0 {
			continue
		}

		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			render.Logger().Warn("texture decode failed", "image", i, "error", err)
			continue
		}
		return decoded
	}
	return nil
}
