// Package formats provides readers and writers for mesh file formats.
package formats

import (
	"path/filepath"
	"strings"
)

// Supported mesh file extensions.
const (
	ExtOBJ = ".obj"
)

// IsMeshFile reports whether path has a supported mesh extension.
func IsMeshFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtOBJ:
		return true
	}
	return false
}
