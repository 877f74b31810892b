package scene

import (
	"errors"
	"fmt"
	"strings"
)

// Selection errors.
var (
	ErrNoSelection       = errors.New("no object selected")
	ErrMultipleSelection = errors.New("more than one object selected")
	ErrNotMesh           = errors.New("selected object is not a mesh")
)

// SelectionError reports a selection that the transform cannot run on.
// It is informational: the operation finishes without changing anything.
type SelectionError struct {
	Err      error
	Selected []string
}

func (e *SelectionError) Error() string {
	if len(e.Selected) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.Selected, ", "))
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user.
func (e *SelectionError) Message() string {
	switch e.Err {
	case ErrNoSelection:
		return "One object has to be selected!"
	case ErrMultipleSelection:
		return "Select only one object!"
	case ErrNotMesh:
		return "Selected object has to be a mesh-object!"
	default:
		return e.Error()
	}
}
