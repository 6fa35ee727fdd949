package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"usdshot/internal/batch"
	"usdshot/internal/browser"
	"usdshot/internal/capture"
	"usdshot/internal/corpus"
	"usdshot/internal/roots"
	"usdshot/internal/router"
)

type compareArgs struct {
	shared     sharedFlags
	dims       dimensionFlags
	usdjsRoot  string
	sample     string
	noCompose  bool
	viewerDist string
	report     string
}

// NewCompareCmd captures every README-mapped sample next to its reference image.
func NewCompareCmd() *cobra.Command {
	a := &compareArgs{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Capture ft-lab sample_usd scenes next to their reference images",
		Long: `Reads the sample_usd README, pairs each scene with its reference image
and writes <scene>__cinevva.png beside the reference. Binary formats are
skipped. A failing sample never stops the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, a)
		},
	}
	a.shared.register(cmd)
	a.dims.register(cmd)
	cmd.Flags().StringVar(&a.usdjsRoot, "usdjs-root", "", "@cinevva/usdjs repo root (or "+roots.EngineEnv+")")
	cmd.Flags().StringVar(&a.sample, "sample", "", "Only capture this sample path (relative to sample_usd-main)")
	cmd.Flags().BoolVar(&a.noCompose, "no-compose", false, "Render entry layers without composition")
	cmd.Flags().StringVar(&a.viewerDist, "viewer-dist", "", "Built usdjs-viewer dist (or "+roots.ViewerEnv+")")
	cmd.Flags().StringVar(&a.report, "report", "", "Also write the run summary as canonical JSON to this path")
	return cmd
}

func runCompare(cmd *cobra.Command, a *compareArgs) error {
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

	resolver := roots.Resolver{ConfigEngine: cfg.UsdjsRoot, ConfigViewer: cfg.ViewerDist}
	engine, err := resolver.Engine(a.usdjsRoot)
	if err != nil {
		return err
	}
	sampleRoot := roots.SampleRoot(engine)

	mappings, err := corpus.LoadMappings(sampleRoot)
	if err != nil {
		return err
	}
	mappings = corpus.Filter(mappings, a.sample)
	if a.sample != "" && len(mappings) == 0 {
		slog.Warn("no README mapping matches --sample", "sample", a.sample)
	}

	opts := a.shared.browserOptions(cfg)
	if opts.Bin, err = browser.Find(opts); err != nil {
		return err
	}

	dist, err := resolver.ViewerDist(a.viewerDist)
	if err != nil {
		return err
	}
	index, err := os.ReadFile(filepath.Join(dist, "index.html"))
	if err != nil {
		return fmt.Errorf("read viewer index: %w", err)
	}

	files, err := corpus.ReadTextFiles(sampleRoot)
	if err != nil {
		return err
	}
	slog.Debug("corpus loaded", "mappings", len(mappings), "textFiles", len(files))

	ctx := cmd.Context()
	b, err := browser.Launch(ctx, opts)
	if err != nil {
		return err
	}
	defer b.Close()

	rt := router.New(router.Config{IndexHTML: index, ViewerDist: dist, CorpusRoot: sampleRoot})
	s, err := capture.NewSession(b, rt, capture.Options{
		Width:     dims.Width,
		Height:    dims.Height,
		Compose:   !a.noCompose,
		Mode:      capture.Preload,
		TextFiles: files,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	runner := &batch.Runner{SampleRoot: sampleRoot, Capturer: s, Out: cmd.OutOrStdout()}
	report, err := runner.Run(ctx, mappings)
	batch.PrintSummary(cmd.OutOrStdout(), report)
	if a.report != "" {
		if werr := batch.WriteReport(a.report, report); werr != nil {
			return werr
		}
	}
	return err
}
