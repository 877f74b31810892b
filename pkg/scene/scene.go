// Package scene models the host environment the transform runs in: named
// objects with world locations, an active camera and a selection.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/srmesh/pkg/formats"
)

// Scene errors.
var (
	ErrUnknownObject = errors.New("unknown object")
	ErrDuplicateName = errors.New("duplicate object name")
	ErrInvalidType   = errors.New("invalid object type")
	ErrNoCamera      = errors.New("scene has no active camera")
	ErrMissingMesh   = errors.New("mesh object has no mesh data")
	ErrVertexCount   = errors.New("vertex count mismatch")
	ErrMeshFormat    = errors.New("unsupported mesh format")
)

// ObjectType is the kind of a scene object.
type ObjectType string

const (
	TypeMesh   ObjectType = "mesh"
	TypeCamera ObjectType = "camera"
	TypeEmpty  ObjectType = "empty"
)

// Object is a named scene object.
type Object struct {
	Name     string     `yaml:"name"`
	Type     ObjectType `yaml:"type"`
	Location [3]float64 `yaml:"location,flow"`

	// Mesh data, either a path to an OBJ file relative to the scene file
	// or inline vertices and zero-based faces.
	MeshPath string       `yaml:"mesh,omitempty"`
	Vertices [][3]float64 `yaml:"vertices,omitempty,flow"`
	Faces    [][]int      `yaml:"faces,omitempty,flow"`

	Mesh *formats.OBJ `yaml:"-"`
}

// Position returns the object's world location.
func (o *Object) Position() r3.Vec {
	return r3.Vec{X: o.Location[0], Y: o.Location[1], Z: o.Location[2]}
}

// IsMesh reports whether the object carries mesh data.
func (o *Object) IsMesh() bool {
	return o.Type == TypeMesh
}

// MeshVertices returns the vertex positions in local space. The slice
// aliases the object's mesh, so writes go straight into the scene.
func (o *Object) MeshVertices() []r3.Vec {
	if o.Mesh == nil {
		return nil
	}
	return o.Mesh.Vertices
}

// SnapshotVertices returns a copy of the vertex positions.
func (o *Object) SnapshotVertices() []r3.Vec {
	return append([]r3.Vec(nil), o.MeshVertices()...)
}

// SetVertices overwrites the vertex positions. The topology is fixed, so
// the count must match.
func (o *Object) SetVertices(vs []r3.Vec) error {
	cur := o.MeshVertices()
	if len(vs) != len(cur) {
		return fmt.Errorf("%w: object %q has %d, got %d", ErrVertexCount, o.Name, len(cur), len(vs))
	}
	copy(cur, vs)
	return nil
}

// Scene is the full host scene.
type Scene struct {
	Camera   string    `yaml:"camera"`
	Objects  []*Object `yaml:"objects"`
	Selected []string  `yaml:"selected,flow"`

	baseDir string
}

// Load reads a scene file and the meshes it references.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes scene YAML. Mesh paths resolve against baseDir.
func Parse(data []byte, baseDir string) (*Scene, error) {
	s := &Scene{baseDir: baseDir}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if err := s.loadMeshes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) validate() error {
	seen := make(map[string]bool, len(s.Objects))
	for _, o := range s.Objects {
		if seen[o.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, o.Name)
		}
		seen[o.Name] = true

		switch o.Type {
		case TypeMesh, TypeCamera, TypeEmpty:
		default:
			return fmt.Errorf("%w: %q on object %q", ErrInvalidType, o.Type, o.Name)
		}
	}

	if s.Camera != "" {
		cam, ok := s.Object(s.Camera)
		if !ok {
			return fmt.Errorf("camera: %w %q", ErrUnknownObject, s.Camera)
		}
		if cam.Type != TypeCamera {
			return fmt.Errorf("camera %q: %w: is %s", s.Camera, ErrInvalidType, cam.Type)
		}
	}

	for _, name := range s.Selected {
		if !seen[name] {
			return fmt.Errorf("selected: %w %q", ErrUnknownObject, name)
		}
	}
	return nil
}

func (s *Scene) loadMeshes() error {
	for _, o := range s.Objects {
		if !o.IsMesh() {
			continue
		}
		switch {
		case o.MeshPath != "":
			if !formats.IsMeshFile(o.MeshPath) {
				return fmt.Errorf("object %q: %w: %s", o.Name, ErrMeshFormat, o.MeshPath)
			}
			mesh, err := formats.ParseOBJFile(s.resolve(o.MeshPath))
			if err != nil {
				return fmt.Errorf("object %q: %w", o.Name, err)
			}
			o.Mesh = mesh
		case o.Vertices != nil:
			mesh, err := inlineMesh(o)
			if err != nil {
				return fmt.Errorf("object %q: %w", o.Name, err)
			}
			o.Mesh = mesh
		default:
			return fmt.Errorf("%w: %q", ErrMissingMesh, o.Name)
		}
	}
	return nil
}

func inlineMesh(o *Object) (*formats.OBJ, error) {
	mesh := &formats.OBJ{Name: o.Name, Vertices: make([]r3.Vec, len(o.Vertices))}
	for i, v := range o.Vertices {
		mesh.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, f := range o.Faces {
		if len(f) < 3 {
			return nil, fmt.Errorf("face %d: %w", i, formats.ErrOBJEmptyFaces)
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(mesh.Vertices) {
				return nil, fmt.Errorf("face %d: %w: %d", i, formats.ErrOBJFaceIndex, idx)
			}
		}
		mesh.Faces = append(mesh.Faces, formats.OBJFace{Vertices: append([]int(nil), f...)})
	}
	return mesh, nil
}

func (s *Scene) resolve(path string) string {
	if filepath.IsAbs(path) || s.baseDir == "" {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// Object looks up an object by name.
func (s *Scene) Object(name string) (*Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return nil, false
}

// Select replaces the selection.
func (s *Scene) Select(names ...string) error {
	for _, name := range names {
		if _, ok := s.Object(name); !ok {
			return fmt.Errorf("%w %q", ErrUnknownObject, name)
		}
	}
	s.Selected = append([]string(nil), names...)
	return nil
}

// ActiveCamera returns the scene camera.
func (s *Scene) ActiveCamera() (*Object, error) {
	if s.Camera == "" {
		return nil, ErrNoCamera
	}
	cam, ok := s.Object(s.Camera)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownObject, s.Camera)
	}
	return cam, nil
}

// Selection returns the single selected mesh object. Violations come back
// as *SelectionError.
func (s *Scene) Selection() (*Object, error) {
	switch len(s.Selected) {
	case 0:
		return nil, &SelectionError{Err: ErrNoSelection}
	case 1:
	default:
		return nil, &SelectionError{Err: ErrMultipleSelection, Selected: s.Selected}
	}

	o, ok := s.Object(s.Selected[0])
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownObject, s.Selected[0])
	}
	if !o.IsMesh() {
		return nil, &SelectionError{Err: ErrNotMesh, Selected: s.Selected}
	}
	return o, nil
}
