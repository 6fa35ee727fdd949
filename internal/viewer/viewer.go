// Package viewer is the typed boundary over the globals the usdjs viewer
// bundle installs on its page.
package viewer

import (
	"context"

	"github.com/go-rod/rod"

	"usdshot/internal/model"
)

// CanvasSelector locates the element the viewer renders into.
const CanvasSelector = `[data-testid="usdjs-canvas"]`

type RenderRequest struct {
	EntryPath string `json:"entryPath"`
	// TextFiles is omitted when the layers were preloaded with LoadTextFiles.
	TextFiles []model.TextFile `json:"textFiles,omitempty"`
	Compose   bool             `json:"compose"`
}

// Capability is what the harness needs from a loaded viewer.
type Capability interface {
	// WaitReady blocks until the render entry point is installed.
	WaitReady(ctx context.Context) error
	LoadTextFiles(ctx context.Context, files []model.TextFile) error
	Render(ctx context.Context, req RenderRequest) error
}

const (
	readyJS = `() => typeof globalThis.__usdjsRender === 'function'`

	loadJS = `(files) => {
	const core = globalThis.__usdjsViewerCore;
	if (!core) throw new Error('usdjs viewer core not initialized');
	core.loadTextFiles(files);
	return true;
}`

	renderJS = `async (req) => {
	await globalThis.__usdjsRender(req);
	return true;
}`
)

// Page drives the viewer loaded in a rod page.
type Page struct {
	page *rod.Page
}

func New(page *rod.Page) *Page {
	return &Page{page: page}
}

func (p *Page) WaitReady(ctx context.Context) error {
	return p.page.Context(ctx).Wait(rod.Eval(readyJS))
}

func (p *Page) LoadTextFiles(ctx context.Context, files []model.TextFile) error {
	if files == nil {
		files = []model.TextFile{}
	}
	_, err := p.page.Context(ctx).Evaluate(rod.Eval(loadJS, files))
	return err
}

func (p *Page) Render(ctx context.Context, req RenderRequest) error {
	_, err := p.page.Context(ctx).Evaluate(rod.Eval(renderJS, req).ByPromise())
	return err
}
