// Package capture runs one navigate → render → screenshot cycle against
// the virtual origin.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"usdshot/internal/browser"
	"usdshot/internal/model"
	"usdshot/internal/router"
	"usdshot/internal/viewer"
)

const (
	// CanvasTimeout bounds the wait for the canvas to become visible.
	CanvasTimeout = 10 * time.Second
	// SettleDelay gives async texture work a moment after the network quiets.
	SettleDelay = 100 * time.Millisecond

	// NavigationTimeout bounds loading the viewer document.
	NavigationTimeout = 30 * time.Second

	idleWindow  = 500 * time.Millisecond
	idleTimeout = 10 * time.Second
)

// readyTimeout bounds the wait for the render entry point.
var readyTimeout = 30 * time.Second

// idleExcludeTypes must stay non-nil. rod treats nil as "skip images, media
// and fonts", and textures load as images.
var idleExcludeTypes = []proto.NetworkResourceType{}

// EntryURL is the document every capture navigates to.
const EntryURL = router.Origin + "/index.html?headless=1"

// Mode selects how the text layers reach the viewer.
type Mode int

const (
	// Inline passes the layers with the render call and routes per page.
	Inline Mode = iota
	// Preload pushes the layers through the viewer core first and routes
	// once on the shared browser context.
	Preload
)

type Options struct {
	Width     int
	Height    int
	Compose   bool
	Mode      Mode
	TextFiles []model.TextFile
}

// Session owns one browser context with the virtual origin attached.
type Session struct {
	ctx    *rod.Browser
	router *router.Router
	hijack *rod.HijackRouter
	opts   Options
}

// NewSession opens an isolated browser context on b. In Preload mode the
// router is attached to the whole context so every tab opened from it is
// served.
func NewSession(b *browser.Browser, rt *router.Router, opts Options) (*Session, error) {
	ctx, err := b.Incognito()
	if err != nil {
		return nil, fmt.Errorf("open browser context: %w", err)
	}

	s := &Session{ctx: ctx, router: rt, opts: opts}
	if opts.Mode == Preload {
		if s.hijack, err = browser.Route(ctx.HijackRequests(), rt); err != nil {
			_ = ctx.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) Close() error {
	if s.hijack != nil {
		_ = s.hijack.Stop()
	}
	return s.ctx.Close()
}

// Capture renders entryPath and writes the canvas to outPath as PNG.
// Any failure is wrapped in model.ErrRenderFailure.
func (s *Session) Capture(ctx context.Context, entryPath, outPath string) error {
	if err := s.capture(ctx, entryPath, outPath); err != nil {
		return fmt.Errorf("%w: %w", model.ErrRenderFailure, err)
	}
	return nil
}

func (s *Session) capture(ctx context.Context, entryPath, outPath string) error {
	tab, err := s.ctx.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() { _ = tab.Close() }()
	page := tab.Context(ctx)

	if s.opts.Mode == Inline {
		hijack, err := browser.Route(page.HijackRequests(), s.router)
		if err != nil {
			return err
		}
		defer func() { _ = hijack.Stop() }()
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             s.opts.Width,
		Height:            s.opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	log := slog.With("entry", entryPath)

	nav := page.Timeout(NavigationTimeout)
	defer nav.CancelTimeout()
	waitDOM := nav.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := nav.Navigate(EntryURL); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	waitDOM()
	if err := nav.GetContext().Err(); err != nil {
		return fmt.Errorf("wait for document: %w", err)
	}
	log.Debug("document parsed")

	v := viewer.New(page)
	readyCtx, cancelReady := context.WithTimeout(ctx, readyTimeout)
	defer cancelReady()
	if err := v.WaitReady(readyCtx); err != nil {
		return fmt.Errorf("wait for viewer: %w", err)
	}

	req := viewer.RenderRequest{EntryPath: entryPath, Compose: s.opts.Compose}
	switch s.opts.Mode {
	case Preload:
		if err := v.LoadTextFiles(ctx, s.opts.TextFiles); err != nil {
			return fmt.Errorf("load text files: %w", err)
		}
	case Inline:
		req.TextFiles = s.opts.TextFiles
	}

	idle := page.Timeout(idleTimeout)
	defer idle.CancelTimeout()
	waitIdle := idle.WaitRequestIdle(idleWindow, nil, nil, idleExcludeTypes)
	if err := v.Render(ctx, req); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Debug("render resolved")

	// Best effort: a viewer that keeps polling never goes idle.
	_ = rod.Try(waitIdle)
	time.Sleep(SettleDelay)

	timed := page.Timeout(CanvasTimeout)
	defer timed.CancelTimeout()
	canvas, err := timed.Element(viewer.CanvasSelector)
	if err != nil {
		return fmt.Errorf("find canvas: %w", err)
	}
	if err := canvas.WaitVisible(); err != nil {
		return fmt.Errorf("wait for canvas: %w", err)
	}
	canvas = canvas.Context(ctx)

	png, err := canvas.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := WritePNG(outPath, png); err != nil {
		return err
	}
	log.Debug("captured", "out", outPath, "bytes", len(png))
	return nil
}

// WritePNG stores data at path, creating parent directories.
func WritePNG(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
