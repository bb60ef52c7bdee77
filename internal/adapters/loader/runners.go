// Package loader reads and validates analysis inputs once at the
// boundary, so the core engine works on explicit typed records and
// never needs optional-field guards.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/runsight/crossover/internal/domain/dedupe"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/pkg/logger"
)

// secondsPerMinute converts pace from min/km (the roster unit) to the
// engine's sec/km.
const secondsPerMinute = 60.0

// runnerRow mirrors one roster CSV record before conversion.
type runnerRow struct {
	Event          string  `validate:"required"`
	RunnerID       string  `validate:"required"`
	PaceMinPerKM   float64 `validate:"gt=0"`
	StartOffsetSec float64 `validate:"gte=0"`
}

// runnersHeader is the required CSV header, in order.
var runnersHeader = []string{"event", "runner_id", "pace_min_per_km", "start_offset_sec"}

// Loader reads roster and course files.
type Loader struct {
	validate *validator.Validate
	deduper  dedupe.Deduper
	logger   logger.Logger
}

// New creates a loader. The deduper drops duplicate (event, runner_id)
// roster rows; pass nil to keep every row.
func New(deduper dedupe.Deduper) *Loader {
	return &Loader{
		validate: validator.New(),
		deduper:  deduper,
		logger:   logger.Get().Named("loader"),
	}
}

// LoadRunners reads the roster CSV and groups runners by event. Rows
// that fail validation abort the load: a bad roster is a configuration
// problem for the whole run, unlike per-segment issues which the engine
// degrades around.
func (l *Loader) LoadRunners(ctx context.Context, path string) (map[string][]model.RunnerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadRunners, err)
	}
	defer f.Close()

	return l.parseRunners(ctx, f)
}

func (l *Loader) parseRunners(ctx context.Context, r io.Reader) (map[string][]model.RunnerRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrLoadRunners, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	cohorts := make(map[string][]model.RunnerRecord)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrLoadRunners, line, err)
		}

		row, err := parseRunnerRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrLoadRunners, line, err)
		}
		if err := l.validate.Struct(row); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrLoadRunners, line, err)
		}

		if l.deduper != nil && l.deduper.SeenAndRecord(ctx, row.Event+"/"+row.RunnerID) {
			l.logger.Warn(ctx, "dropping duplicate roster row",
				logger.String("event", row.Event),
				logger.String("runner_id", row.RunnerID),
			)
			continue
		}

		cohorts[row.Event] = append(cohorts[row.Event], model.RunnerRecord{
			Event:          row.Event,
			RunnerID:       row.RunnerID,
			PaceSecPerKM:   row.PaceMinPerKM * secondsPerMinute,
			StartOffsetSec: row.StartOffsetSec,
		})
	}
	return cohorts, nil
}

func checkHeader(header []string) error {
	if len(header) != len(runnersHeader) {
		return fmt.Errorf("%w: want header %v, got %v", ErrLoadRunners, runnersHeader, header)
	}
	for i, col := range runnersHeader {
		if header[i] != col {
			return fmt.Errorf("%w: want header %v, got %v", ErrLoadRunners, runnersHeader, header)
		}
	}
	return nil
}

func parseRunnerRow(record []string) (runnerRow, error) {
	if len(record) != len(runnersHeader) {
		return runnerRow{}, fmt.Errorf("want %d fields, got %d", len(runnersHeader), len(record))
	}
	pace, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return runnerRow{}, fmt.Errorf("pace_min_per_km: %w", err)
	}
	offset, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return runnerRow{}, fmt.Errorf("start_offset_sec: %w", err)
	}
	return runnerRow{
		Event:          record[0],
		RunnerID:       record[1],
		PaceMinPerKM:   pace,
		StartOffsetSec: offset,
	}, nil
}
