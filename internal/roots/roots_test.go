package roots

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"usdshot/internal/model"
)

func makeEngine(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "test", "corpus"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func makeViewer(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<!doctype html>"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestEngineExplicitArgWins(t *testing.T) {
	tmp := t.TempDir()
	explicit := makeEngine(t, filepath.Join(tmp, "explicit"))
	fromEnv := makeEngine(t, filepath.Join(tmp, "env"))
	t.Setenv(EngineEnv, fromEnv)

	got, err := Resolver{Dir: tmp}.Engine(explicit)
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	if got != explicit {
		t.Errorf("got %q; want %q", got, explicit)
	}
}

func TestEngineEnvBeforeFallbacks(t *testing.T) {
	tmp := t.TempDir()
	work := filepath.Join(tmp, "work")
	makeEngine(t, filepath.Join(work, "packages", "usdjs"))
	fromEnv := makeEngine(t, filepath.Join(tmp, "env"))
	t.Setenv(EngineEnv, fromEnv)

	got, err := Resolver{Dir: work}.Engine("")
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	if got != fromEnv {
		t.Errorf("got %q; want %q", got, fromEnv)
	}
}

func TestEngineRejectsIncompleteCandidates(t *testing.T) {
	tmp := t.TempDir()
	work := filepath.Join(tmp, "work")
	t.Setenv(EngineEnv, "")

	// package.json without test/corpus
	noCorpus := filepath.Join(work, "packages", "usdjs")
	if err := os.MkdirAll(noCorpus, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(noCorpus, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	sibling := makeEngine(t, filepath.Join(tmp, "usdjs"))

	got, err := Resolver{Dir: work}.Engine("")
	if err != nil {
		t.Fatalf("Engine failed: %v", err)
	}
	if got != sibling {
		t.Errorf("got %q; want %q", got, sibling)
	}
}

func TestEngineNotFound(t *testing.T) {
	t.Setenv(EngineEnv, "")
	dir := t.TempDir()
	_, err := Resolver{Dir: dir}.Engine("")
	if !errors.Is(err, model.ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
	tried := "- " + filepath.Join(dir, "packages", "usdjs")
	for _, hint := range []string{"--usdjs-root", EngineEnv, "Tried:", tried} {
		if !strings.Contains(err.Error(), hint) {
			t.Errorf("error should mention %s: %v", hint, err)
		}
	}
}

func TestViewerDistConfigBeforeFallbacks(t *testing.T) {
	tmp := t.TempDir()
	work := filepath.Join(tmp, "work")
	t.Setenv(ViewerEnv, "")
	makeViewer(t, filepath.Join(work, "packages", "usdjs-viewer", "dist"))
	configured := makeViewer(t, filepath.Join(tmp, "configured"))

	got, err := Resolver{Dir: work, ConfigViewer: configured}.ViewerDist("")
	if err != nil {
		t.Fatalf("ViewerDist failed: %v", err)
	}
	if got != configured {
		t.Errorf("got %q; want %q", got, configured)
	}
}

func TestViewerDistRequiresIndexFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(ViewerEnv, "")
	// index.html as a directory must not qualify
	if err := os.MkdirAll(filepath.Join(tmp, "dist", "index.html"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Resolver{Dir: tmp}.ViewerDist(filepath.Join(tmp, "dist"))
	if !errors.Is(err, model.ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "--viewer-dist") {
		t.Errorf("hint missing: %v", err)
	}
}

func TestSampleRoot(t *testing.T) {
	got := SampleRoot("/work/usdjs")
	want := filepath.Join("/work/usdjs", "test", "corpus", "external", "ft-lab-sample-usd", "sample_usd-main")
	if got != want {
		t.Errorf("got %q; want %q", got, want)
	}
}
