package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"usdshot/internal/browser"
	"usdshot/internal/config"
	"usdshot/internal/model"
	"usdshot/internal/roots"
)

type initArgs struct {
	shared     sharedFlags
	dims       dimensionFlags
	dir        string
	usdjsRoot  string
	viewerDist string
}

// NewInitCmd resolves the roots once and saves them as usdshot.json.
func NewInitCmd() *cobra.Command {
	a := &initArgs{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Resolve the engine, viewer and browser once and save them to " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, a)
		},
	}
	a.shared.register(cmd)
	a.dims.register(cmd)
	cmd.Flags().StringVar(&a.dir, "dir", ".", "Directory to write "+config.FileName+" into")
	cmd.Flags().StringVar(&a.usdjsRoot, "usdjs-root", "", "@cinevva/usdjs repo root (or "+roots.EngineEnv+")")
	cmd.Flags().StringVar(&a.viewerDist, "viewer-dist", "", "Built usdjs-viewer dist (or "+roots.ViewerEnv+")")
	return cmd
}

func runInit(cmd *cobra.Command, a *initArgs) error {
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
	out := model.Config{Width: dims.Width, Height: dims.Height}
	if out.UsdjsRoot, err = resolver.Engine(a.usdjsRoot); err != nil {
		return err
	}
	if out.ViewerDist, err = resolver.ViewerDist(a.viewerDist); err != nil {
		return err
	}
	// A browser found on PATH is left out so the file stays portable.
	if bin := a.shared.browserOptions(cfg).Bin; bin != "" {
		if out.BrowserBin, err = browser.Find(browser.Options{Bin: bin}); err != nil {
			return err
		}
	}

	if err := config.Save(a.dir, out); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(a.dir, config.FileName))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", path)
	return nil
}
