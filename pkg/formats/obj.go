// Wavefront OBJ reader and writer for polygon meshes.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// OBJ format errors.
var (
	ErrInvalidOBJ    = errors.New("invalid OBJ data")
	ErrOBJFaceIndex  = errors.New("OBJ face index out of range")
	ErrOBJEmptyFaces = errors.New("OBJ face needs at least 3 vertices")
)

// OBJFace is a polygon referencing zero-based indices into the OBJ arrays.
// TexCoords and Normals are nil when the face does not reference them.
type OBJFace struct {
	Vertices  []int
	TexCoords []int
	Normals   []int
	Group     string
	Material  string
}

// OBJ is a parsed Wavefront OBJ mesh.
//
// A parsed mesh remembers its statement order. As long as the element
// counts are unchanged, Write reproduces the source line for line with only
// the v, vt, vn and f statements regenerated from the struct; everything
// else (objects, smoothing groups, lines, points, comments) passes through.
type OBJ struct {
	Name         string
	Objects      []string
	MaterialLibs []string
	Vertices     []r3.Vec
	TexCoords    [][2]float64
	Normals      []r3.Vec
	Faces        []OBJFace

	elements []objElement
}

type elementKind uint8

const (
	elemRaw elementKind = iota
	elemVertex
	elemTexCoord
	elemNormal
	elemFace
)

// objElement is one source statement.
type objElement struct {
	kind  elementKind
	index int      // into Vertices, TexCoords, Normals or Faces
	width int      // coordinates written for vt
	extra []string // trailing fields, e.g. vertex colours or a w weight
	raw   string
}

// ParseOBJ parses OBJ data from a reader.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	var group, material string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			obj.elements = append(obj.elements, objElement{kind: elemRaw, raw: line})
			continue
		}

		fields := strings.Fields(line)
		elem := objElement{kind: elemRaw, raw: line}
		var err error
		switch fields[0] {
		case "v":
			var v r3.Vec
			v, err = parseVec(fields[1:])
			elem = objElement{kind: elemVertex, index: len(obj.Vertices), extra: trailing(fields[1:], 3)}
			obj.Vertices = append(obj.Vertices, v)
		case "vn":
			var n r3.Vec
			n, err = parseVec(fields[1:])
			elem = objElement{kind: elemNormal, index: len(obj.Normals), extra: trailing(fields[1:], 3)}
			obj.Normals = append(obj.Normals, n)
		case "vt":
			var uv [2]float64
			uv, err = parseTexCoord(fields[1:])
			elem = objElement{
				kind:  elemTexCoord,
				index: len(obj.TexCoords),
				width: min(len(fields)-1, 2),
				extra: trailing(fields[1:], 2),
			}
			obj.TexCoords = append(obj.TexCoords, uv)
		case "f":
			var face OBJFace
			face, err = obj.parseFace(fields[1:])
			face.Group = group
			face.Material = material
			elem = objElement{kind: elemFace, index: len(obj.Faces)}
			obj.Faces = append(obj.Faces, face)
		case "o":
			name := strings.Join(fields[1:], " ")
			if obj.Name == "" {
				obj.Name = name
			}
			obj.Objects = append(obj.Objects, name)
		case "g":
			group = strings.Join(fields[1:], " ")
		case "usemtl":
			material = strings.Join(fields[1:], " ")
		case "mtllib":
			obj.MaterialLibs = append(obj.MaterialLibs, fields[1:]...)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		obj.elements = append(obj.elements, elem)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// trailing returns a copy of fields past the first n, or nil.
func trailing(fields []string, n int) []string {
	if len(fields) <= n {
		return nil
	}
	return append([]string(nil), fields[n:]...)
}

func parseVec(fields []string) (r3.Vec, error) {
	if len(fields) < 3 {
		return r3.Vec{}, fmt.Errorf("%w: expected 3 coordinates, got %d", ErrInvalidOBJ, len(fields))
	}
	var c [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
		}
		c[i] = f
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func parseTexCoord(fields []string) ([2]float64, error) {
	var uv [2]float64
	if len(fields) < 1 {
		return uv, fmt.Errorf("%w: vt without coordinates", ErrInvalidOBJ)
	}
	for i := 0; i < len(fields) && i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return uv, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
		}
		uv[i] = f
	}
	return uv, nil
}

// parseFace parses "v", "v/vt", "v//vn" and "v/vt/vn" references.
func (obj *OBJ) parseFace(fields []string) (OBJFace, error) {
	var face OBJFace
	if len(fields) < 3 {
		return face, ErrOBJEmptyFaces
	}

	for i, ref := range fields {
		parts := strings.Split(ref, "/")
		if len(parts) > 3 {
			return face, fmt.Errorf("%w: bad face reference %q", ErrInvalidOBJ, ref)
		}

		v, err := resolveIndex(parts[0], len(obj.Vertices))
		if err != nil {
			return face, err
		}
		face.Vertices = append(face.Vertices, v)

		hasTex := len(parts) > 1 && parts[1] != ""
		hasNorm := len(parts) > 2 && parts[2] != ""
		if i == 0 {
			if hasTex {
				face.TexCoords = make([]int, 0, len(fields))
			}
			if hasNorm {
				face.Normals = make([]int, 0, len(fields))
			}
		} else if hasTex != (face.TexCoords != nil) || hasNorm != (face.Normals != nil) {
			return face, fmt.Errorf("%w: mixed face reference forms", ErrInvalidOBJ)
		}

		if hasTex {
			vt, err := resolveIndex(parts[1], len(obj.TexCoords))
			if err != nil {
				return face, err
			}
			face.TexCoords = append(face.TexCoords, vt)
		}
		if hasNorm {
			vn, err := resolveIndex(parts[2], len(obj.Normals))
			if err != nil {
				return face, err
			}
			face.Normals = append(face.Normals, vn)
		}
	}
	return face, nil
}

// resolveIndex converts a one-based or negative relative OBJ index.
func resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}
	switch {
	case idx > 0 && idx <= count:
		return idx - 1, nil
	case idx < 0 && -idx <= count:
		return count + idx, nil
	default:
		return 0, fmt.Errorf("%w: %d (have %d)", ErrOBJFaceIndex, idx, count)
	}
}

// Write encodes the mesh in OBJ text form. A parsed mesh keeps its source
// layout; a mesh built in code, or one whose element counts changed since
// parsing, is written in a canonical layout instead.
func (obj *OBJ) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if obj.layoutMatches() {
		obj.writeOrdered(bw)
	} else {
		obj.writeCanonical(bw)
	}
	return bw.Flush()
}

// layoutMatches reports whether the recorded statements still index the
// element slices one to one.
func (obj *OBJ) layoutMatches() bool {
	if len(obj.elements) == 0 {
		return false
	}
	var counts [elemFace + 1]int
	for _, e := range obj.elements {
		counts[e.kind]++
	}
	return counts[elemVertex] == len(obj.Vertices) &&
		counts[elemTexCoord] == len(obj.TexCoords) &&
		counts[elemNormal] == len(obj.Normals) &&
		counts[elemFace] == len(obj.Faces)
}

func (obj *OBJ) writeOrdered(bw *bufio.Writer) {
	for _, e := range obj.elements {
		switch e.kind {
		case elemVertex:
			v := obj.Vertices[e.index]
			fmt.Fprintf(bw, "v %s %s %s", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
		case elemNormal:
			n := obj.Normals[e.index]
			fmt.Fprintf(bw, "vn %s %s %s", ftoa(n.X), ftoa(n.Y), ftoa(n.Z))
		case elemTexCoord:
			uv := obj.TexCoords[e.index]
			bw.WriteString("vt")
			for i := 0; i < e.width; i++ {
				bw.WriteByte(' ')
				bw.WriteString(ftoa(uv[i]))
			}
		case elemFace:
			writeFace(bw, obj.Faces[e.index])
		default:
			bw.WriteString(e.raw)
		}
		for _, f := range e.extra {
			bw.WriteByte(' ')
			bw.WriteString(f)
		}
		bw.WriteByte('\n')
	}
}

func (obj *OBJ) writeCanonical(bw *bufio.Writer) {
	fmt.Fprintln(bw, "# srmesh")
	for _, lib := range obj.MaterialLibs {
		fmt.Fprintf(bw, "mtllib %s\n", lib)
	}
	if obj.Name != "" {
		fmt.Fprintf(bw, "o %s\n", obj.Name)
	}
	for _, v := range obj.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", ftoa(v.X), ftoa(v.Y), ftoa(v.Z))
	}
	for _, uv := range obj.TexCoords {
		fmt.Fprintf(bw, "vt %s %s\n", ftoa(uv[0]), ftoa(uv[1]))
	}
	for _, n := range obj.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ftoa(n.X), ftoa(n.Y), ftoa(n.Z))
	}

	var group, material string
	for _, face := range obj.Faces {
		if face.Group != group {
			group = face.Group
			fmt.Fprintf(bw, "g %s\n", group)
		}
		if face.Material != material {
			material = face.Material
			fmt.Fprintf(bw, "usemtl %s\n", material)
		}
		writeFace(bw, face)
		bw.WriteByte('\n')
	}
}

func writeFace(bw *bufio.Writer, face OBJFace) {
	bw.WriteString("f")
	for i, v := range face.Vertices {
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(v + 1))
		switch {
		case face.TexCoords != nil && face.Normals != nil:
			fmt.Fprintf(bw, "/%d/%d", face.TexCoords[i]+1, face.Normals[i]+1)
		case face.TexCoords != nil:
			fmt.Fprintf(bw, "/%d", face.TexCoords[i]+1)
		case face.Normals != nil:
			fmt.Fprintf(bw, "//%d", face.Normals[i]+1)
		}
	}
}

// Bytes returns the OBJ text encoding.
func (obj *OBJ) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := obj.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteOBJFile writes the mesh to path, creating parent directories.
func WriteOBJFile(path string, obj *OBJ) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := obj.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
