// Package roots locates the usdjs engine checkout and the built viewer bundle.
package roots

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"usdshot/internal/model"
)

const (
	EngineEnv = "USDJS_ROOT"
	ViewerEnv = "USDJS_VIEWER_DIST"
)

// sampleRootRel is where the ft-lab sample_usd checkout lives inside the engine repo.
const sampleRootRel = "test/corpus/external/ft-lab-sample-usd/sample_usd-main"

// RootNotFoundError is returned when every candidate was rejected.
type RootNotFoundError struct {
	What       string
	Hint       string
	Candidates []string
}

func (e *RootNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not locate %s\n%s", e.What, e.Hint)
	if len(e.Candidates) > 0 {
		b.WriteString("\nTried:")
		for _, c := range e.Candidates {
			b.WriteString("\n- " + c)
		}
	}
	return b.String()
}

func (e *RootNotFoundError) Unwrap() error { return model.ErrRootNotFound }

// Resolver probes explicit arguments, environment overrides, config
// values and conventional layouts relative to Dir, in that order.
type Resolver struct {
	// Dir anchors the conventional locations. Empty means the working directory.
	Dir string

	ConfigEngine string
	ConfigViewer string
}

func (r Resolver) base() string {
	if r.Dir != "" {
		return r.Dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Engine returns the absolute path of the @cinevva/usdjs repo root.
func (r Resolver) Engine(arg string) (string, error) {
	base := r.base()
	candidates := nonEmpty(
		arg,
		os.Getenv(EngineEnv),
		r.ConfigEngine,
		filepath.Join(base, "packages", "usdjs"),
		filepath.Join(base, "..", "cinevva-usdjs"),
		filepath.Join(base, "..", "usdjs"),
	)

	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		slog.Debug("probing engine root", "path", abs)
		if isDir(abs) && exists(filepath.Join(abs, "package.json")) && isDir(filepath.Join(abs, "test", "corpus")) {
			return abs, nil
		}
	}

	return "", &RootNotFoundError{
		What: "the @cinevva/usdjs repo root (needed for corpus-based commands)",
		Hint: "Provide one of:\n" +
			"- --usdjs-root /abs/path/to/cinevva-usdjs\n" +
			"- " + EngineEnv + "=/abs/path/to/cinevva-usdjs\n" +
			"Searched common defaults relative to the working directory.",
		Candidates: candidates,
	}
}

// ViewerDist returns the absolute path of the built usdjs-viewer bundle.
func (r Resolver) ViewerDist(arg string) (string, error) {
	base := r.base()
	candidates := nonEmpty(
		arg,
		os.Getenv(ViewerEnv),
		r.ConfigViewer,
		filepath.Join(base, "packages", "usdjs-viewer", "dist"),
		filepath.Join(base, "..", "cinevva-usdjs-viewer", "dist"),
		filepath.Join(base, "..", "usdjs-viewer", "dist"),
	)

	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		slog.Debug("probing viewer dist", "path", abs)
		if isFile(filepath.Join(abs, "index.html")) {
			return abs, nil
		}
	}

	return "", &RootNotFoundError{
		What: "usdjs-viewer dist",
		Hint: "Provide one of:\n" +
			"- --viewer-dist /abs/path/to/usdjs-viewer/dist\n" +
			"- " + ViewerEnv + "=/abs/path/to/usdjs-viewer/dist\n" +
			"Searched common defaults relative to the working directory.",
		Candidates: candidates,
	}
}

// SampleRoot returns the sample_usd checkout inside an engine root.
func SampleRoot(engineRoot string) string {
	return filepath.Join(engineRoot, filepath.FromSlash(sampleRootRel))
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
