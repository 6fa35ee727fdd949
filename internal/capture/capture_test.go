package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"usdshot/internal/browser"
	"usdshot/internal/model"
	"usdshot/internal/router"
)

func TestWritePNGCreatesParents(t *testing.T) {
	out := filepath.Join(t.TempDir(), "samples", "light", "images", "spot_light__cinevva.png")
	if err := WritePNG(out, []byte("png")); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestIdleWaitTracksImages(t *testing.T) {
	if idleExcludeTypes == nil {
		t.Fatal("a nil exclude list makes rod ignore image requests")
	}
	for _, ignored := range []proto.NetworkResourceType{
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeMedia,
		proto.NetworkResourceTypeFont,
	} {
		if slices.Contains(idleExcludeTypes, ignored) {
			t.Errorf("idle wait should track %s requests", ignored)
		}
	}
}

func TestEntryURL(t *testing.T) {
	if EntryURL != "http://usdjs.local/index.html?headless=1" {
		t.Errorf("EntryURL = %q", EntryURL)
	}
}

// fakeViewer mimics the viewer bundle's headless contract: it installs the
// globals, fetches the entry through the corpus endpoint and paints the
// canvas.
const fakeViewer = `<!doctype html>
<html><body style="margin:0">
<canvas data-testid="usdjs-canvas" width="64" height="48"></canvas>
<script src="/assets/viewer.js"></script>
</body></html>`

const fakeViewerJS = `
const layers = new Map();
globalThis.__usdjsViewerCore = {
  loadTextFiles(files) { for (const f of files) layers.set(f.path, f.text); },
};
globalThis.__usdjsRender = async ({ entryPath, textFiles, compose }) => {
  for (const f of textFiles || []) layers.set(f.path, f.text);
  if (!layers.has(entryPath)) throw new Error('unknown entry ' + entryPath);
  const res = await fetch('/__usdjs_corpus?file=' + encodeURIComponent(entryPath));
  if (!res.ok) throw new Error('corpus ' + res.status);
  const ctx = document.querySelector('canvas').getContext('2d');
  ctx.fillStyle = compose ? '#00ff00' : '#ff0000';
  ctx.fillRect(0, 0, 64, 48);
};
`

func TestCaptureEndToEnd(t *testing.T) {
	if os.Getenv("USDSHOT_E2E") == "" {
		t.Skip("set USDSHOT_E2E=1 to drive a real browser")
	}
	if _, err := browser.Find(browser.Options{}); err != nil {
		t.Skip(err)
	}

	tmp := t.TempDir()
	dist := filepath.Join(tmp, "dist")
	corpus := filepath.Join(tmp, "corpus")
	for path, content := range map[string]string{
		filepath.Join(dist, "index.html"):          fakeViewer,
		filepath.Join(dist, "assets", "viewer.js"): fakeViewerJS,
		filepath.Join(corpus, "scene.usda"):        "#usda 1.0\n",
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	b, err := browser.Launch(ctx, browser.Options{Headless: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = b.Close() }()

	rt := router.New(router.Config{IndexHTML: []byte(fakeViewer), ViewerDist: dist, CorpusRoot: corpus})
	files := []model.TextFile{{Path: "scene.usda", Text: "#usda 1.0\n"}}

	for _, mode := range []Mode{Inline, Preload} {
		s, err := NewSession(b, rt, Options{Width: 320, Height: 240, Compose: true, Mode: mode, TextFiles: files})
		if err != nil {
			t.Fatal(err)
		}

		out := filepath.Join(tmp, "out", "scene.png")
		if err := s.Capture(ctx, "scene.usda", out); err != nil {
			t.Fatalf("mode %d: Capture failed: %v", mode, err)
		}
		_ = s.Close()

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("mode %d: output is not a PNG: %v", mode, err)
		}
		r, g, _, _ := img.At(img.Bounds().Dx()/2, img.Bounds().Dy()/2).RGBA()
		if g>>8 < 200 || r>>8 > 50 {
			t.Errorf("mode %d: expected a green canvas, got r=%d g=%d", mode, r>>8, g>>8)
		}
	}
}

// recorder keeps the messages and request URLs logged during a capture.
type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *recorder) WithAttrs([]slog.Attr) slog.Handler        { return r }
func (r *recorder) WithGroup(string) slog.Handler             { return r }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	entry := rec.Message
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == "url" {
			entry += " " + a.Value.String()
		}
		return true
	})
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	return nil
}

func (r *recorder) index(entry string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Index(r.entries, entry)
}

// The texture load is not awaited by render, so only the idle wait keeps
// the screenshot from racing it.
const texturedViewerJS = `
globalThis.__usdjsViewerCore = { loadTextFiles() {} };
globalThis.__usdjsRender = async () => {
  const ctx = document.querySelector('canvas').getContext('2d');
  ctx.fillStyle = '#ff0000';
  ctx.fillRect(0, 0, 64, 48);
  const img = new Image();
  img.onload = () => { ctx.fillStyle = '#0000ff'; ctx.fillRect(0, 0, 64, 48); };
  img.src = '/__usdjs_corpus?file=tex.png';
};
`

func launchForTest(t *testing.T) *browser.Browser {
	t.Helper()
	if os.Getenv("USDSHOT_E2E") == "" {
		t.Skip("set USDSHOT_E2E=1 to drive a real browser")
	}
	if _, err := browser.Find(browser.Options{}); err != nil {
		t.Skip(err)
	}
	b, err := browser.Launch(context.Background(), browser.Options{Headless: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func writeFiles(t *testing.T, files map[string][]byte) {
	t.Helper()
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCaptureWaitsForTextures(t *testing.T) {
	b := launchForTest(t)

	var tex bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	if err := png.Encode(&tex, img); err != nil {
		t.Fatal(err)
	}

	tmp := t.TempDir()
	dist := filepath.Join(tmp, "dist")
	corpus := filepath.Join(tmp, "corpus")
	writeFiles(t, map[string][]byte{
		filepath.Join(dist, "index.html"):          []byte(fakeViewer),
		filepath.Join(dist, "assets", "viewer.js"): []byte(texturedViewerJS),
		filepath.Join(corpus, "scene.usda"):        []byte("#usda 1.0\n"),
		filepath.Join(corpus, "tex.png"):           tex.Bytes(),
	})

	rec := &recorder{}
	prev := slog.Default()
	slog.SetDefault(slog.New(rec))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rt := router.New(router.Config{IndexHTML: []byte(fakeViewer), ViewerDist: dist, CorpusRoot: corpus})
	s, err := NewSession(b, rt, Options{Width: 320, Height: 240, Mode: Preload})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	out := filepath.Join(tmp, "out.png")
	if err := s.Capture(context.Background(), "scene.usda", out); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	served := rec.index("virtual request /__usdjs_corpus?file=tex.png")
	if served < 0 {
		t.Fatal("texture was never requested")
	}
	if captured := rec.index("captured"); captured < served {
		t.Errorf("screenshot (log %d) taken before the texture was served (log %d)", captured, served)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	shot, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	r, _, bl, _ := shot.At(shot.Bounds().Dx()/2, shot.Bounds().Dy()/2).RGBA()
	if bl>>8 < 200 || r>>8 > 50 {
		t.Errorf("expected the textured (blue) canvas, got r=%d b=%d", r>>8, bl>>8)
	}
}

func TestCaptureFailsWhenViewerNeverReady(t *testing.T) {
	b := launchForTest(t)

	prev := readyTimeout
	readyTimeout = 2 * time.Second
	t.Cleanup(func() { readyTimeout = prev })

	tmp := t.TempDir()
	dist := filepath.Join(tmp, "dist")
	index := []byte(`<!doctype html><canvas data-testid="usdjs-canvas"></canvas>`)
	writeFiles(t, map[string][]byte{filepath.Join(dist, "index.html"): index})

	rt := router.New(router.Config{IndexHTML: index, ViewerDist: dist, CorpusRoot: tmp})
	s, err := NewSession(b, rt, Options{Width: 320, Height: 240, Mode: Inline})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	start := time.Now()
	err = s.Capture(context.Background(), "scene.usda", filepath.Join(tmp, "out.png"))
	if !errors.Is(err, model.ErrRenderFailure) {
		t.Fatalf("error = %v, want ErrRenderFailure", err)
	}
	if elapsed := time.Since(start); elapsed > 20*time.Second {
		t.Errorf("capture took %s; the ready wait should be bounded", elapsed)
	}
}
