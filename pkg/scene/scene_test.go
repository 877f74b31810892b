package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/srmesh/pkg/formats"
)

const triOBJ = `o Tri
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

const sceneYAML = `
camera: Camera
objects:
  - name: Camera
    type: camera
    location: [0, 0, 10]
  - name: Lamp
    type: empty
    location: [4, 4, 4]
  - name: Tri
    type: mesh
    location: [2, 0, 0]
    mesh: tri.obj
  - name: Quad
    type: mesh
    location: [0, -3, 0]
    vertices: [[0, 0, 0], [1, 0, 0], [1, 1, 0], [0, 1, 0]]
    faces: [[0, 1, 2, 3]]
selected: [Tri]
`

func writeScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(triOBJ), 0644))
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0644))
	return path
}

func TestLoad(t *testing.T) {
	s, err := Load(writeScene(t))
	require.NoError(t, err)

	require.Len(t, s.Objects, 4)

	cam, err := s.ActiveCamera()
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{Z: 10}, cam.Position())

	tri, ok := s.Object("Tri")
	require.True(t, ok)
	assert.True(t, tri.IsMesh())
	assert.Equal(t, r3.Vec{X: 2}, tri.Position())
	assert.Equal(t, []r3.Vec{{}, {X: 1}, {Y: 1}}, tri.MeshVertices())

	quad, ok := s.Object("Quad")
	require.True(t, ok)
	require.NotNil(t, quad.Mesh)
	assert.Len(t, quad.MeshVertices(), 4)
	assert.Equal(t, []int{0, 1, 2, 3}, quad.Mesh.Faces[0].Vertices)

	lamp, _ := s.Object("Lamp")
	assert.Nil(t, lamp.MeshVertices())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "duplicate names",
			yaml:    "objects:\n  - {name: A, type: empty}\n  - {name: A, type: empty}\n",
			wantErr: ErrDuplicateName,
		},
		{
			name:    "bad type",
			yaml:    "objects:\n  - {name: A, type: light}\n",
			wantErr: ErrInvalidType,
		},
		{
			name:    "unknown camera",
			yaml:    "camera: Cam\nobjects: []\n",
			wantErr: ErrUnknownObject,
		},
		{
			name:    "camera is not a camera",
			yaml:    "camera: A\nobjects:\n  - {name: A, type: empty}\n",
			wantErr: ErrInvalidType,
		},
		{
			name:    "unknown selection",
			yaml:    "objects:\n  - {name: A, type: empty}\nselected: [B]\n",
			wantErr: ErrUnknownObject,
		},
		{
			name:    "mesh without data",
			yaml:    "objects:\n  - {name: A, type: mesh}\n",
			wantErr: ErrMissingMesh,
		},
		{
			name:    "unsupported mesh file",
			yaml:    "objects:\n  - {name: A, type: mesh, mesh: a.fbx}\n",
			wantErr: ErrMeshFormat,
		},
		{
			name:    "inline face out of range",
			yaml:    "objects:\n  - {name: A, type: mesh, vertices: [[0,0,0],[1,0,0],[0,1,0]], faces: [[0,1,5]]}\n",
			wantErr: formats.ErrOBJFaceIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), t.TempDir())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("objects: [unclosed\n"), "")
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/scene.yaml")
	assert.Error(t, err)
}

func TestSelection(t *testing.T) {
	s, err := Load(writeScene(t))
	require.NoError(t, err)

	o, err := s.Selection()
	require.NoError(t, err)
	assert.Equal(t, "Tri", o.Name)

	tests := []struct {
		name    string
		sel     []string
		wantErr error
		message string
	}{
		{"none", nil, ErrNoSelection, "One object has to be selected!"},
		{"two", []string{"Tri", "Quad"}, ErrMultipleSelection, "Select only one object!"},
		{"camera", []string{"Camera"}, ErrNotMesh, "Selected object has to be a mesh-object!"},
		{"empty", []string{"Lamp"}, ErrNotMesh, "Selected object has to be a mesh-object!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.Select(tt.sel...))
			_, err := s.Selection()
			require.ErrorIs(t, err, tt.wantErr)

			var selErr *SelectionError
			require.True(t, errors.As(err, &selErr))
			assert.Equal(t, tt.message, selErr.Message())
		})
	}
}

func TestSelectUnknown(t *testing.T) {
	s, err := Load(writeScene(t))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Select("Nope"), ErrUnknownObject)
	assert.Equal(t, []string{"Tri"}, s.Selected, "failed Select must not change the selection")
}

func TestActiveCameraMissing(t *testing.T) {
	s, err := Parse([]byte("objects:\n  - {name: A, type: empty}\n"), "")
	require.NoError(t, err)

	_, err = s.ActiveCamera()
	assert.ErrorIs(t, err, ErrNoCamera)
}

func TestSnapshotAndSetVertices(t *testing.T) {
	s, err := Load(writeScene(t))
	require.NoError(t, err)
	tri, _ := s.Object("Tri")

	snap := tri.SnapshotVertices()
	tri.MeshVertices()[0] = r3.Vec{X: 9}
	assert.Equal(t, r3.Vec{}, snap[0], "snapshot must not alias the mesh")

	require.NoError(t, tri.SetVertices(snap))
	assert.Equal(t, r3.Vec{}, tri.MeshVertices()[0])

	assert.ErrorIs(t, tri.SetVertices(snap[:2]), ErrVertexCount)
}

func TestSaveRoundTrip(t *testing.T) {
	s, err := Load(writeScene(t))
	require.NoError(t, err)

	tri, _ := s.Object("Tri")
	tri.MeshVertices()[1] = r3.Vec{X: 1.5, Y: 0.25}
	quad, _ := s.Object("Quad")
	quad.MeshVertices()[2] = r3.Vec{X: -1, Y: -1, Z: 2}

	out := filepath.Join(t.TempDir(), "nested", "out.yaml")
	require.NoError(t, s.Save(out))

	again, err := Load(out)
	require.NoError(t, err)

	tri2, _ := again.Object("Tri")
	assert.Equal(t, r3.Vec{X: 1.5, Y: 0.25}, tri2.MeshVertices()[1])
	quad2, _ := again.Object("Quad")
	assert.Equal(t, r3.Vec{X: -1, Y: -1, Z: 2}, quad2.MeshVertices()[2])
	assert.Equal(t, []string{"Tri"}, again.Selected)
	assert.Equal(t, "Camera", again.Camera)
}

func TestSaveInPlaceKeepsMeshStatements(t *testing.T) {
	const richOBJ = `o A
v 0 0 0
v 1 0 0
v 0 1 0
s 1
f 1 2 3
v 2 0 0
v 3 0 0
l 4 5
o B
v 0 0 1
f 1 2 6
`
	dir := t.TempDir()
	objPath := filepath.Join(dir, "rich.obj")
	require.NoError(t, os.WriteFile(objPath, []byte(richOBJ), 0644))
	scenePath := filepath.Join(dir, "scene.yaml")
	sceneData := "camera: Camera\nobjects:\n  - {name: Camera, type: camera}\n  - {name: Rich, type: mesh, mesh: rich.obj}\nselected: [Rich]\n"
	require.NoError(t, os.WriteFile(scenePath, []byte(sceneData), 0644))

	s, err := Load(scenePath)
	require.NoError(t, err)
	rich, _ := s.Object("Rich")
	rich.MeshVertices()[0] = r3.Vec{X: 0.5}
	require.NoError(t, s.Save(scenePath))

	data, err := os.ReadFile(objPath)
	require.NoError(t, err)
	text := string(data)
	for _, line := range []string{"o A", "s 1", "l 4 5", "o B", "f 1 2 3", "f 1 2 6", "v 0.5 0 0"} {
		assert.Contains(t, text, line+"\n")
	}

	again, err := Load(scenePath)
	require.NoError(t, err)
	rich2, _ := again.Object("Rich")
	assert.Equal(t, []string{"A", "B"}, rich2.Mesh.Objects)
	assert.Len(t, rich2.MeshVertices(), 6)
	assert.Len(t, rich2.Mesh.Faces, 2)
}
