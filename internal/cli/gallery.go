package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/cobra"

	"usdshot/internal/browser"
	"usdshot/internal/corpus"
	"usdshot/internal/gallery"
	"usdshot/internal/model"
	"usdshot/internal/roots"
)

type galleryArgs struct {
	shared         sharedFlags
	usdjsRoot      string
	out            string
	includeMissing bool
	open           bool
}

// NewGalleryCmd indexes existing captures into a static HTML page.
func NewGalleryCmd() *cobra.Command {
	a := &galleryArgs{}
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Write an HTML gallery of captures beside their reference images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGallery(cmd, a)
		},
	}
	a.shared.register(cmd)
	cmd.Flags().StringVar(&a.usdjsRoot, "usdjs-root", "", "@cinevva/usdjs repo root (or "+roots.EngineEnv+")")
	cmd.Flags().StringVar(&a.out, "out", "", "Output HTML (default <sample root>/"+gallery.FileName+")")
	// Every capture is listed whether or not its scene or reference exists.
	cmd.Flags().BoolVar(&a.includeMissing, "include-missing", false, "Accepted for compatibility; missing files are always listed")
	cmd.Flags().BoolVar(&a.open, "open", false, "Open the gallery in a browser and wait until it is closed")
	return cmd
}

func runGallery(cmd *cobra.Command, a *galleryArgs) error {
	cfg, err := a.shared.setup()
	if err != nil {
		return err
	}

	engine, err := roots.Resolver{ConfigEngine: cfg.UsdjsRoot}.Engine(a.usdjsRoot)
	if err != nil {
		return err
	}
	sampleRoot := roots.SampleRoot(engine)
	if info, err := os.Stat(sampleRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("sample root not found: %s: %w", sampleRoot, model.ErrNotFound)
	}

	entries, err := corpus.DiscoverCaptures(sampleRoot)
	if err != nil {
		return err
	}

	out := a.out
	if out == "" {
		out = filepath.Join(sampleRoot, gallery.FileName)
	}
	if out, err = filepath.Abs(out); err != nil {
		return err
	}
	if err := gallery.Write(out, sampleRoot, entries); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Wrote: %s\n", out)
	fmt.Fprintf(w, "Entries: %d\n", len(entries))

	if a.open {
		opts := a.shared.browserOptions(cfg)
		opts.Headless = false
		return openFile(cmd, out, opts)
	}
	return nil
}

// openFile shows path in a headful browser and blocks until its tab is
// closed or the command is interrupted.
func openFile(cmd *cobra.Command, path string, opts browser.Options) error {
	b, err := browser.Launch(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(b); err != nil {
		return fmt.Errorf("watch targets: %w", err)
	}
	page, err := b.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(path)})
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	wait := b.EachEvent(func(e *proto.TargetTargetDestroyed) bool {
		return e.TargetID == page.TargetID
	})
	fmt.Fprintln(cmd.OutOrStdout(), "Close the gallery tab to exit.")
	wait()
	return nil
}
