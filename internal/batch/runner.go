// Package batch renders every corpus sample that has a reference image
// and collects the outcome of each.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"usdshot/internal/corpus"
	"usdshot/internal/model"
)

// Capturer renders one entry to a PNG. capture.Session satisfies it.
type Capturer interface {
	Capture(ctx context.Context, entryPath, outPath string) error
}

type Status int

const (
	OK Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome is the final state of one mapping. Err is set for failures and
// for skips caused by missing files.
type Outcome struct {
	Mapping model.SampleMapping
	Status  Status
	Err     string
}

type Runner struct {
	SampleRoot string
	Capturer   Capturer
	// Out receives progress lines. Nil means stdout.
	Out io.Writer
}

// Run processes mappings strictly in order, one capture at a time. Item
// failures never abort the run; only a cancelled ctx stops it early.
func (r *Runner) Run(ctx context.Context, mappings []model.SampleMapping) (model.RunReport, error) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	outcomes := make([]Outcome, 0, len(mappings))
	ok := 0
	for _, m := range mappings {
		if err := ctx.Err(); err != nil {
			return Reduce(len(mappings), outcomes), err
		}

		o := r.process(ctx, m)
		outcomes = append(outcomes, o)

		switch {
		case o.Status == OK:
			ok++
			fmt.Fprintf(out, "OK %d/%d: %s\n", ok, len(mappings), m.SampleRel)
		case o.Status == Skipped && o.Err == "":
			fmt.Fprintf(out, "SKIP (unsupported %s): %s\n", strings.ToLower(filepath.Ext(m.SampleRel)), m.SampleRel)
		}
	}
	return Reduce(len(mappings), outcomes), nil
}

func (r *Runner) process(ctx context.Context, m model.SampleMapping) Outcome {
	sampleAbs := filepath.Join(r.SampleRoot, filepath.FromSlash(m.SampleRel))
	refAbs := filepath.Join(r.SampleRoot, filepath.FromSlash(m.RefImageRel))

	if !exists(sampleAbs) {
		return Outcome{Mapping: m, Status: Skipped, Err: "missing sample file: " + sampleAbs}
	}
	if !exists(refAbs) {
		return Outcome{Mapping: m, Status: Skipped, Err: "missing reference image: " + refAbs}
	}
	if !corpus.IsTextLayer(sampleAbs) {
		return Outcome{Mapping: m, Status: Skipped}
	}

	outAbs := OutputPath(r.SampleRoot, m)
	if err := r.Capturer.Capture(ctx, m.SampleRel, outAbs); err != nil {
		slog.Debug("capture failed", "sample", m.SampleRel, "kind", model.Classify(err), "err", err)
		return Outcome{Mapping: m, Status: Failed, Err: err.Error()}
	}
	return Outcome{Mapping: m, Status: OK}
}

// OutputPath places the capture beside the reference image.
func OutputPath(sampleRoot string, m model.SampleMapping) string {
	refAbs := filepath.Join(sampleRoot, filepath.FromSlash(m.RefImageRel))
	return filepath.Join(filepath.Dir(refAbs), corpus.CaptureName(m.SampleRel))
}

// Reduce folds outcomes into a report. Skips with a reason are listed as
// failures too, so a missing file is never silently dropped.
func Reduce(total int, outcomes []Outcome) model.RunReport {
	report := model.RunReport{Total: total, Failures: []model.Failure{}}
	for _, o := range outcomes {
		switch o.Status {
		case OK:
			report.OK++
		case Skipped:
			report.Skipped++
		}
		if o.Err != "" {
			report.Failures = append(report.Failures, model.Failure{SampleRel: o.Mapping.SampleRel, Error: o.Err})
		}
	}
	return report
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
