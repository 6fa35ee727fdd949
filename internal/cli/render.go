package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"usdshot/internal/browser"
	"usdshot/internal/capture"
	"usdshot/internal/corpus"
	"usdshot/internal/model"
	"usdshot/internal/roots"
	"usdshot/internal/router"
)

type renderArgs struct {
	shared     sharedFlags
	dims       dimensionFlags
	root       string
	entry      string
	out        string
	noCompose  bool
	viewerDist string
}

// NewRenderCmd renders one scene file from a local directory to a PNG.
func NewRenderCmd() *cobra.Command {
	a := &renderArgs{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a local USD scene to a PNG with the usdjs viewer",
		Long: `Serves --root through a virtual origin, opens the usdjs viewer in a
headless browser, renders --entry and writes a screenshot of the canvas.

Every text layer under --root is sent inline with the render request, so
sublayers and references resolve without a network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a)
		},
	}
	a.shared.register(cmd)
	a.dims.register(cmd)
	cmd.Flags().StringVar(&a.root, "root", ".", "Directory served as the corpus")
	cmd.Flags().StringVar(&a.entry, "entry", "scene.usda", "Scene path relative to --root")
	cmd.Flags().StringVar(&a.out, "out", "out.png", "Output PNG")
	cmd.Flags().BoolVar(&a.noCompose, "no-compose", false, "Render the entry layer without composition")
	cmd.Flags().StringVar(&a.viewerDist, "viewer-dist", "", "Built usdjs-viewer dist (or "+roots.ViewerEnv+")")
	return cmd
}

func runRender(cmd *cobra.Command, a *renderArgs) error {
	dims, err := ParseDimensions(a.dims.width, a.dims.height)
	if err != nil {
		return err
	}
	cfg, err := a.shared.setup()
	if err != nil {
		return err
	}
	if dims, err = dims.withConfig(cmd, cfg); err != nil {
		return err
	}

	root, err := filepath.Abs(a.root)
	if err != nil {
		return err
	}
	entryAbs, err := router.SafeResolve(root, a.entry)
	if err != nil {
		return fmt.Errorf("entry path escapes root: entry=%s root=%s: %w", a.entry, root, model.ErrEntryOutOfBounds)
	}
	if info, err := os.Stat(entryAbs); err != nil || info.IsDir() {
		return fmt.Errorf("entry not found: %s: %w", entryAbs, model.ErrNotFound)
	}
	entryRel, err := filepath.Rel(root, entryAbs)
	if err != nil {
		return err
	}

	opts := a.shared.browserOptions(cfg)
	if opts.Bin, err = browser.Find(opts); err != nil {
		return err
	}

	dist, err := roots.Resolver{ConfigViewer: cfg.ViewerDist}.ViewerDist(a.viewerDist)
	if err != nil {
		return err
	}
	index, err := os.ReadFile(filepath.Join(dist, "index.html"))
	if err != nil {
		return fmt.Errorf("read viewer index: %w", err)
	}

	files, err := corpus.ReadTextFiles(root)
	if err != nil {
		return err
	}

	out, err := filepath.Abs(a.out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := browser.Launch(ctx, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	rt := router.New(router.Config{IndexHTML: index, ViewerDist: dist, CorpusRoot: root})
	s, err := capture.NewSession(b, rt, capture.Options{
		Width:     dims.Width,
		Height:    dims.Height,
		Compose:   !a.noCompose,
		Mode:      capture.Inline,
		TextFiles: files,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Capture(ctx, strings.ReplaceAll(entryRel, `\`, "/"), out); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", out)
	return nil
}
