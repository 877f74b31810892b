package operator

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/srmesh/pkg/scene"
)

// History errors.
var (
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
	ErrNothingToRepeat = errors.New("nothing to repeat")
)

// Entry records one successful invocation.
type Entry struct {
	ID       uuid.UUID
	Object   string
	Settings Settings
	At       time.Time

	// Vertex positions before and after the transform.
	Before []r3.Vec
	After  []r3.Vec
}

// History is the session undo stack. It is not persisted.
type History struct {
	mu     sync.Mutex
	done   []Entry
	undone []Entry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// push records e and drops the redo stack.
func (h *History) push(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = append(h.done, e)
	h.undone = nil
}

// Len returns the number of entries that can be undone.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.done)
}

// Last returns the most recent entry still applied.
func (h *History) Last() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.done) == 0 {
		return Entry{}, false
	}
	return h.done[len(h.done)-1], true
}

// Undo restores the vertices the last entry overwrote.
func (h *History) Undo(s *scene.Scene) (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.done) == 0 {
		return Entry{}, ErrNothingToUndo
	}
	e := h.done[len(h.done)-1]
	if err := restore(s, e.Object, e.Before); err != nil {
		return Entry{}, fmt.Errorf("undo %s: %w", e.ID, err)
	}
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, e)
	return e, nil
}

// Redo reapplies the last undone entry.
func (h *History) Redo(s *scene.Scene) (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undone) == 0 {
		return Entry{}, ErrNothingToRedo
	}
	e := h.undone[len(h.undone)-1]
	if err := restore(s, e.Object, e.After); err != nil {
		return Entry{}, fmt.Errorf("redo %s: %w", e.ID, err)
	}
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, e)
	return e, nil
}

func restore(s *scene.Scene, name string, vs []r3.Vec) error {
	o, ok := s.Object(name)
	if !ok {
		return fmt.Errorf("%w %q", scene.ErrUnknownObject, name)
	}
	return o.SetVertices(vs)
}
