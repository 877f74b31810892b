package operator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/srmesh/internal/logger"
	"github.com/Faultbox/srmesh/pkg/aberration"
	"github.com/Faultbox/srmesh/pkg/lorentz"
	"github.com/Faultbox/srmesh/pkg/scene"
)

// Status is the outcome of an invocation.
type Status string

const (
	StatusFinished  Status = "FINISHED"
	StatusCancelled Status = "CANCELLED"
)

// Report levels.
const (
	LevelInfo = "INFO"
)

// Report is what the user sees after an invocation.
type Report struct {
	ID       uuid.UUID
	Status   Status
	Level    string
	Message  string
	Object   string
	Vertices int
	Gamma    float64
	Duration time.Duration
}

func (r Report) String() string {
	if r.Status != StatusFinished {
		return fmt.Sprintf("%s: %s", r.Level, r.Message)
	}
	return fmt.Sprintf("transformed %q: %d vertices, gamma %.6g (%s)", r.Object, r.Vertices, r.Gamma, r.Duration)
}

// Operator applies the transform to a scene selection.
type Operator struct {
	history *History
}

// New creates an operator with an empty session history.
func New() *Operator {
	return &Operator{history: NewHistory()}
}

// History returns the session history.
func (o *Operator) History() *History {
	return o.history
}

// Execute transforms the single selected mesh. An unusable selection is
// reported at INFO level and leaves the scene untouched; it is not an error.
// Configuration errors come back before any vertex is written.
func (o *Operator) Execute(s *scene.Scene, settings Settings) (Report, error) {
	obj, err := s.Selection()
	if err != nil {
		var selErr *scene.SelectionError
		if errors.As(err, &selErr) {
			logger.Info("transform skipped", zap.String("reason", selErr.Message()))
			return Report{Status: StatusCancelled, Level: LevelInfo, Message: selErr.Message()}, nil
		}
		return Report{}, err
	}

	cam, err := s.ActiveCamera()
	if err != nil {
		return Report{}, err
	}

	p, err := aberration.NewPipeline(settings.pipelineConfig())
	if err != nil {
		if errors.Is(err, lorentz.ErrSingularMatrix) {
			logger.Error("boost inversion failed", zap.Error(err), zap.Stringer("velocity", settings.Velocity))
		}
		return Report{}, err
	}

	id := uuid.New()
	before := obj.SnapshotVertices()
	start := time.Now()

	if err := p.Apply(cam.Position(), obj.Position(), obj.MeshVertices()); err != nil {
		return Report{}, fmt.Errorf("transforming %q: %w", obj.Name, err)
	}
	elapsed := time.Since(start)

	o.history.push(Entry{
		ID:       id,
		Object:   obj.Name,
		Settings: settings,
		At:       start,
		Before:   before,
		After:    obj.SnapshotVertices(),
	})

	cfg := p.Config()
	logger.Info("transform applied",
		zap.String("id", id.String()),
		zap.String("object", obj.Name),
		zap.Stringer("velocity", cfg.Velocity),
		zap.Float64("gamma", p.Boost().Gamma),
		zap.Float64("tobs", cfg.ObservationTime),
		zap.Int("workers", cfg.Workers),
		zap.String("inverse", string(cfg.Inverse)),
		zap.Bool("world_output", cfg.WorldOutput),
		zap.Int("vertices", len(before)),
		zap.Duration("duration", elapsed))

	return Report{
		ID:       id,
		Status:   StatusFinished,
		Level:    LevelInfo,
		Object:   obj.Name,
		Vertices: len(before),
		Gamma:    p.Boost().Gamma,
		Duration: elapsed,
	}, nil
}

// Repeat runs the last applied settings again on the current selection.
func (o *Operator) Repeat(s *scene.Scene) (Report, error) {
	last, ok := o.history.Last()
	if !ok {
		return Report{}, ErrNothingToRepeat
	}
	return o.Execute(s, last.Settings)
}
