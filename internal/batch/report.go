package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gowebpki/jcs"

	"usdshot/internal/model"
)

// MaxPrintedFailures caps the failure list in the printed summary.
const MaxPrintedFailures = 50

// PrintSummary writes the end-of-run summary.
func PrintSummary(w io.Writer, report model.RunReport) {
	if report.Skipped > 0 {
		fmt.Fprintf(w, "Skipped: %d\n", report.Skipped)
	}
	if len(report.Failures) == 0 {
		return
	}

	fmt.Fprintf(w, "Failures: %d\n", len(report.Failures))
	for i, f := range report.Failures {
		if i == MaxPrintedFailures {
			fmt.Fprintf(w, "...and %d more\n", len(report.Failures)-MaxPrintedFailures)
			break
		}
		fmt.Fprintf(w, "- %s: %s\n", f.SampleRel, f.Error)
	}
}

// WriteReport stores the full report as canonical JSON (RFC 8785), so
// reports from identical runs are byte-identical.
func WriteReport(path string, report model.RunReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return fmt.Errorf("canonicalize report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, append(canonical, '\n'), 0644)
}
