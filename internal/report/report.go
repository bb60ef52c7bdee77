// Package report renders analysis runs as Markdown and CSV for race
// operations review.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/runsight/crossover/internal/domain/model"
)

// WriteMarkdown renders a run as a Markdown report: run totals, cohort
// pace statistics, and a per-segment table.
func WriteMarkdown(w io.Writer, run model.RunResult, ds model.Dataset) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Convergence report %s\n\n", run.RunID)
	fmt.Fprintf(&b, "Run window: %s — %s\n\n",
		run.StartedAt.Format("15:04:05"), run.FinishedAt.Format("15:04:05"))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Segments processed | With convergence | Skipped |\n")
	fmt.Fprintf(&b, "|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d |\n\n",
		run.Summary.SegmentsProcessed,
		run.Summary.SegmentsWithConvergence,
		run.Summary.SegmentsSkipped)

	writeCohortStats(&b, ds)
	writeSegments(&b, run)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeCohortStats renders per-event pace statistics in min/km.
func writeCohortStats(b *strings.Builder, ds model.Dataset) {
	if len(ds.Runners) == 0 {
		return
	}

	events := make([]string, 0, len(ds.Runners))
	for event := range ds.Runners {
		events = append(events, event)
	}
	sort.Strings(events)

	fmt.Fprintf(b, "## Cohorts\n\n")
	fmt.Fprintf(b, "| Event | Runners | Mean pace (min/km) | Stddev |\n")
	fmt.Fprintf(b, "|---|---|---|---|\n")
	for _, event := range events {
		cohort := ds.Runners[event]
		paces := make([]float64, len(cohort))
		for i, r := range cohort {
			paces[i] = r.PaceSecPerKM / 60
		}
		mean := stat.Mean(paces, nil)
		sd := stat.StdDev(paces, nil)
		fmt.Fprintf(b, "| %s | %d | %.2f | %.2f |\n", event, len(cohort), mean, sd)
	}
	fmt.Fprintf(b, "\n")
}

func writeSegments(b *strings.Builder, run model.RunResult) {
	fmt.Fprintf(b, "## Segments\n\n")
	fmt.Fprintf(b, "| Segment | Convergence | Point (km A) | Passes A/B | Co-presence A/B | Encounters |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|\n")
	for _, seg := range run.Segments {
		point := "—"
		conv := "no"
		if seg.SkipReason != model.SkipNone {
			conv = "skipped (" + string(seg.SkipReason) + ")"
		} else if seg.HasConvergence {
			conv = "yes"
			point = fmt.Sprintf("%.2f", seg.Convergence.KMA)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %d/%d | %d/%d | %d |\n",
			seg.SegmentID, conv, point,
			seg.Overlap.OvertakingA, seg.Overlap.OvertakingB,
			seg.Overlap.CopresenceA, seg.Overlap.CopresenceB,
			seg.Overlap.UniqueEncounters)
	}
	fmt.Fprintf(b, "\n")
}

// csvHeader is the per-segment CSV export header.
var csvHeader = []string{
	"segment_id", "label", "event_a", "event_b",
	"has_convergence", "skip_reason", "convergence_km_a", "convergence_km_b",
	"overtaking_a", "overtaking_b", "copresence_a", "copresence_b",
	"unique_encounters", "participants_involved",
}

// WriteCSV exports per-segment results as CSV.
func WriteCSV(w io.Writer, run model.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, seg := range run.Segments {
		kmA, kmB := "", ""
		if seg.Convergence != nil {
			kmA = strconv.FormatFloat(seg.Convergence.KMA, 'f', 2, 64)
			kmB = strconv.FormatFloat(seg.Convergence.KMB, 'f', 2, 64)
		}
		row := []string{
			seg.SegmentID, seg.Label, seg.EventA, seg.EventB,
			strconv.FormatBool(seg.HasConvergence), string(seg.SkipReason), kmA, kmB,
			strconv.Itoa(seg.Overlap.OvertakingA), strconv.Itoa(seg.Overlap.OvertakingB),
			strconv.Itoa(seg.Overlap.CopresenceA), strconv.Itoa(seg.Overlap.CopresenceB),
			strconv.Itoa(seg.Overlap.UniqueEncounters), strconv.Itoa(seg.Overlap.ParticipantsInvolved),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing segment %s: %w", seg.SegmentID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
