package preview

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/plotter"
)

var (
	before = []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}}
	after  = []r3.Vec{{X: 0.5, Y: 0.1}, {X: -0.2, Y: 1}, {X: -0.3, Z: 1}}
)

func TestParsePlane(t *testing.T) {
	tests := []struct {
		in      string
		want    Plane
		wantErr bool
	}{
		{"", PlaneXY, false},
		{"xy", PlaneXY, false},
		{"XZ", PlaneXZ, false},
		{"yz", PlaneYZ, false},
		{"zw", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePlane(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownPlane, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestProject(t *testing.T) {
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	tests := []struct {
		plane Plane
		x, y  float64
	}{
		{PlaneXY, 1, 2},
		{PlaneXZ, 1, 3},
		{PlaneYZ, 2, 3},
	}
	for _, tt := range tests {
		x, y := tt.plane.Project(v)
		assert.Equal(t, tt.x, x, string(tt.plane))
		assert.Equal(t, tt.y, y, string(tt.plane))
	}

	assert.Equal(t, plotter.XYs{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}}, project(before, PlaneXZ))
}

func TestPlotLabels(t *testing.T) {
	opts := DefaultOptions()
	opts.Plane = PlaneYZ

	p, err := Plot(before, after, opts)
	require.NoError(t, err)
	assert.Equal(t, "Y", p.X.Label.Text)
	assert.Equal(t, "Z", p.Y.Label.Text)
	assert.Equal(t, "Apparent shape", p.Title.Text)
}

func TestPlotErrors(t *testing.T) {
	_, err := Plot(before, after[:2], DefaultOptions())
	assert.ErrorIs(t, err, ErrLengthDiffers)

	_, err = Plot(nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoVertices)

	opts := DefaultOptions()
	opts.Plane = "xw"
	_, err = Plot(before, after, opts)
	assert.ErrorIs(t, err, ErrUnknownPlane)
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, Render(path, before, after, DefaultOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "not a PNG file")
}

func TestRenderSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.svg")
	require.NoError(t, Render(path, before, after, Options{Plane: PlaneXZ}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRenderUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.bmp")
	assert.Error(t, Render(path, before, after, DefaultOptions()))
}
