package loader

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/runsight/crossover/internal/domain/model"
)

// segmentSpec mirrors one course plan entry. Window validity
// (to_km > from_km) is deliberately not enforced here: malformed
// windows are a per-segment skip for the orchestrator, not a load
// failure.
type segmentSpec struct {
	SegmentID string  `koanf:"segment_id" validate:"required"`
	Label     string  `koanf:"label"`
	EventA    string  `koanf:"event_a" validate:"required"`
	EventB    string  `koanf:"event_b" validate:"required"`
	FromKMA   float64 `koanf:"from_km_a" validate:"gte=0"`
	ToKMA     float64 `koanf:"to_km_a" validate:"gte=0"`
	FromKMB   float64 `koanf:"from_km_b" validate:"gte=0"`
	ToKMB     float64 `koanf:"to_km_b" validate:"gte=0"`
	Flow      string  `koanf:"flow" validate:"required,oneof=overtake merge diverge"`
	Overtake  bool    `koanf:"overtake"`
}

// courseDoc is the YAML course plan: event start times plus the
// segment pair specs.
type courseDoc struct {
	StartTimes map[string]float64 `koanf:"start_times" validate:"required,min=1"`
	Segments   []segmentSpec      `koanf:"segments" validate:"required,min=1,dive"`
}

// LoadCourse reads the YAML course plan.
func (l *Loader) LoadCourse(_ context.Context, path string) (model.StartTimes, []model.SegmentPairSpec, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLoadCourse, err)
	}

	var doc courseDoc
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLoadCourse, err)
	}
	if err := l.validate.Struct(doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrLoadCourse, err)
	}

	starts := make(model.StartTimes, len(doc.StartTimes))
	for event, minutes := range doc.StartTimes {
		starts[event] = minutes
	}

	segments := make([]model.SegmentPairSpec, len(doc.Segments))
	for i, s := range doc.Segments {
		segments[i] = model.SegmentPairSpec{
			SegmentID: s.SegmentID,
			Label:     s.Label,
			EventA:    s.EventA,
			EventB:    s.EventB,
			FromKMA:   s.FromKMA,
			ToKMA:     s.ToKMA,
			FromKMB:   s.FromKMB,
			ToKMB:     s.ToKMB,
			Flow:      model.FlowType(s.Flow),
			Overtake:  s.Overtake,
		}
	}
	return starts, segments, nil
}

// LoadDataset reads both inputs and bundles them for one analysis run.
func (l *Loader) LoadDataset(ctx context.Context, runnersPath, coursePath string) (model.Dataset, error) {
	runners, err := l.LoadRunners(ctx, runnersPath)
	if err != nil {
		return model.Dataset{}, err
	}
	starts, segments, err := l.LoadCourse(ctx, coursePath)
	if err != nil {
		return model.Dataset{}, err
	}
	return model.Dataset{
		Runners:  runners,
		Starts:   starts,
		Segments: segments,
	}, nil
}
