package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/srmesh/pkg/formats"
)

// Save writes the scene to path. Inline meshes are written back into the
// YAML; file meshes are written next to the new scene file.
func (s *Scene) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, o := range s.Objects {
		if !o.IsMesh() || o.Mesh == nil {
			continue
		}
		if o.MeshPath != "" {
			meshPath := o.MeshPath
			if !filepath.IsAbs(meshPath) {
				meshPath = filepath.Join(dir, meshPath)
			}
			if err := formats.WriteOBJFile(meshPath, o.Mesh); err != nil {
				return fmt.Errorf("object %q: %w", o.Name, err)
			}
			continue
		}
		o.Vertices = make([][3]float64, len(o.Mesh.Vertices))
		for i, v := range o.Mesh.Vertices {
			o.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	s.baseDir = dir
	return nil
}
