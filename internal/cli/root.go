package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"usdshot/internal/model"
)

// NewRootCmd bundles every tool under one binary.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "usdshot",
		Short: "Headless screenshot harness for the usdjs viewer",
		Long: `usdshot drives the usdjs viewer in a headless browser to render USD
scenes to PNG, captures the ft-lab sample_usd corpus beside its reference
images and builds a side-by-side HTML gallery of the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewRenderCmd(), NewCompareCmd(), NewGalleryCmd(), NewInitCmd())
	return root
}

// Main runs cmd with an interrupt-aware context and returns the process
// exit code.
func Main(cmd *cobra.Command) int {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Debug("command failed", "kind", model.Classify(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
