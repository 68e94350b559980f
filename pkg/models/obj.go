package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/udhos/gwob"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// ErrMalformedOBJ wraps every OBJ syntax error.
var ErrMalformedOBJ = errors.New("models: malformed obj")

// LoadOBJ reads a Wavefront OBJ file. See ParseOBJ.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads v, vt, vn and f statements through gwob. Faces may be
// triangles, quads or larger polygons, which are fan-triangulated. Indices
// are 1-based; negative indices count back from the latest element. A
// single-component "vt u" has v = 0. UVs or normals given on only some
// face corners are dropped for the whole mesh. Every vertex is white.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	src, err := readOBJSource(r)
	if err != nil {
		return nil, err
	}

	var parseErr error
	opts := &gwob.ObjParserOptions{
		IgnoreNormals: !src.normals,
		Logger: func(msg string) {
			msg = strings.TrimSpace(msg)
			for _, prefix := range []string{"readLines: ", "scanLines: "} {
				if rest, ok := strings.CutPrefix(msg, prefix); ok {
					if parseErr == nil {
						parseErr = fmt.Errorf("%w: %s", ErrMalformedOBJ, rest)
					}
					return
				}
			}
			render.Logger().Debug("obj", "message", msg)
		},
	}
	o, err := gwob.NewObjFromBuf("obj", src.buf, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return meshFromObj(o)
}

// meshFromObj unpacks gwob's interleaved strides into mesh vertices.
func meshFromObj(o *gwob.Obj) (*Mesh, error) {
	mesh := NewMesh("obj")
	if len(o.Indices) == 0 {
		return mesh, nil
	}
	if len(o.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices do not form triangles", ErrMalformedOBJ, len(o.Indices))
	}

	stride := o.StrideSize / 4
	uvAt, normalAt := o.StrideOffsetTexture/4, o.StrideOffsetNormal/4
	count := o.NumberOfElements()
	mesh.Vertices = make([]MeshVertex, count)
	for i := range count {
		base := i * stride
		p := o.StrideOffsetPosition/4 + base
		v := MeshVertex{
			Position: math3d.V3(o.Coord64(p), o.Coord64(p+1), o.Coord64(p+2)),
			Color:    render.White,
			Attrs:    render.AttrColor,
		}
		if o.TextCoordFound {
			v.UV = math3d.V2(o.Coord64(base+uvAt), o.Coord64(base+uvAt+1))
			v.Attrs |= render.AttrUV
		}
		if o.NormCoordFound {
			n := base + normalAt
			v.Normal = math3d.V3(o.Coord64(n), o.Coord64(n+1), o.Coord64(n+2)).Normalize()
			v.Attrs |= render.AttrNormal
		}
		mesh.Vertices[i] = v
	}

	mesh.Faces = make([][3]int, 0, len(o.Indices)/3)
	for i := 0; i < len(o.Indices); i += 3 {
		mesh.Faces = append(mesh.Faces, [3]int{o.Indices[i], o.Indices[i+1], o.Indices[i+2]})
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// objCorner holds absolute 1-based indices of one face corner; 0 means
// absent.
type objCorner struct {
	v, vt, vn int
}

// objSource is an OBJ file rewritten into the subset gwob reads strictly:
// whitespace normalized, two-component texture coordinates, absolute face
// indices, faces of three or four corners, unknown statements commented out.
type objSource struct {
	buf     []byte
	normals bool
}

// readOBJSource checks face indices against the elements declared so far,
// since gwob trusts them, and rewrites the file for gwob.
func readOBJSource(r io.Reader) (objSource, error) {
	type entry struct {
		text  string
		faces [][]objCorner
	}
	var (
		lines                []entry
		nv, nvt, nvn         int
		withUV, withoutUV    bool
		withNorm, withoutNrm bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			lines = append(lines, entry{text: "#"})
			continue
		}
		kind, args := fields[0], fields[1:]
		switch kind {
		case "v":
			nv++
		case "vn":
			// gwob indexes normals without a bounds check.
			if err := checkFloats(args, 3); err != nil {
				return objSource{}, fmt.Errorf("%w: line %d: normal: %v", ErrMalformedOBJ, line, err)
			}
			nvn++
		case "vt":
			nvt++
			if len(args) == 1 {
				args = append(args, "0")
			}
		case "o", "g", "s", "usemtl", "mtllib":
			if len(args) == 0 {
				lines = append(lines, entry{text: "#"})
				continue
			}
		case "f":
			if len(args) < 3 {
				return objSource{}, fmt.Errorf("%w: line %d: face needs at least 3 vertices, got %d", ErrMalformedOBJ, line, len(args))
			}
			corners := make([]objCorner, len(args))
			for i, a := range args {
				c, err := parseCorner(a, nv, nvt, nvn)
				if err != nil {
					return objSource{}, fmt.Errorf("%w: line %d: face vertex %q: %v", ErrMalformedOBJ, line, a, err)
				}
				withUV = withUV || c.vt != 0
				withoutUV = withoutUV || c.vt == 0
				withNorm = withNorm || c.vn != 0
				withoutNrm = withoutNrm || c.vn == 0
				corners[i] = c
			}
			lines = append(lines, entry{faces: splitFace(corners)})
			continue
		default:
			lines = append(lines, entry{text: "#"})
			continue
		}
		lines = append(lines, entry{text: kind + " " + strings.Join(args, " ")})
	}
	if err := sc.Err(); err != nil {
		return objSource{}, err
	}

	keepUV := withUV && !withoutUV
	src := objSource{normals: withNorm && !withoutNrm}
	var b strings.Builder
	for _, e := range lines {
		if e.faces == nil {
			b.WriteString(e.text)
			b.WriteByte('\n')
			continue
		}
		for _, face := range e.faces {
			b.WriteString("f")
			for _, c := range face {
				b.WriteByte(' ')
				b.WriteString(c.format(keepUV, src.normals))
			}
			b.WriteByte('\n')
		}
	}
	src.buf = []byte(b.String())
	return src, nil
}

// splitFace fans polygons of five or more corners into triangles.
func splitFace(c []objCorner) [][]objCorner {
	if len(c) <= 4 {
		return [][]objCorner{c}
	}
	out := make([][]objCorner, 0, len(c)-2)
	for i := 1; i+1 < len(c); i++ {
		out = append(out, []objCorner{c[0], c[i], c[i+1]})
	}
	return out
}

func (c objCorner) format(uv, normal bool) string {
	v := strconv.Itoa(c.v)
	switch {
	case uv && normal:
		return v + "/" + strconv.Itoa(c.vt) + "/" + strconv.Itoa(c.vn)
	case uv:
		return v + "/" + strconv.Itoa(c.vt)
	case normal:
		return v + "//" + strconv.Itoa(c.vn)
	default:
		return v
	}
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn" given the element
// counts declared so far.
func parseCorner(s string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("too many components")
	}

	var c objCorner
	var err error
	if c.v, err = resolveIndex(parts[0], nv); err != nil {
		return objCorner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objCorner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return objCorner{}, err
		}
	}
	return c, nil
}

func checkFloats(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("want %d values, got %d", n, len(args))
	}
	for _, a := range args {
		if _, err := strconv.ParseFloat(a, 64); err != nil {
			return fmt.Errorf("bad number %q", a)
		}
	}
	return nil
}

// resolveIndex converts a 1-based or negative OBJ index into an absolute
// 1-based one.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i, nil
	case i < 0 && -i <= n:
		return n + i + 1, nil
	default:
		return 0, fmt.Errorf("index %d out of range (have %d)", i, n)
	}
}
