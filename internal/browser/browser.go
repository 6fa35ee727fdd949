package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"usdshot/internal/model"
)

// BinEnv overrides the browser binary lookup.
const BinEnv = "USDSHOT_BROWSER_BIN"

const installHint = "No Chromium-compatible browser was found.\n" +
	"Install one and point usdshot at it:\n" +
	"  apt install chromium        (or your platform's package)\n" +
	"  --browser-bin /path/to/chrome  or  " + BinEnv + "=/path/to/chrome\n" +
	"Or let usdshot fetch a pinned Chromium build with --download-browser."

type Options struct {
	Headless bool
	// Bin is an explicit browser binary; empty means look it up.
	Bin string
	// Download allows fetching a browser when none is installed.
	Download bool
}

// Browser is a rod browser together with the process that backs it.
type Browser struct {
	*rod.Browser
	launcher *launcher.Launcher
}

// Find returns the browser binary to launch. It never starts a process,
// so callers can check for the dependency before doing any other work.
func Find(opts Options) (string, error) {
	if opts.Bin != "" {
		if _, err := os.Stat(opts.Bin); err != nil {
			return "", fmt.Errorf("browser binary %s: %v\n%s: %w", opts.Bin, err, installHint, model.ErrMissingDependency)
		}
		return opts.Bin, nil
	}
	if bin := os.Getenv(BinEnv); bin != "" {
		return Find(Options{Bin: bin})
	}
	if bin, ok := launcher.LookPath(); ok {
		return bin, nil
	}
	if opts.Download {
		slog.Info("downloading browser")
		bin, err := launcher.NewBrowser().Get()
		if err != nil {
			return "", fmt.Errorf("download browser: %v\n%s: %w", err, installHint, model.ErrMissingDependency)
		}
		return bin, nil
	}
	return "", fmt.Errorf("%s: %w", installHint, model.ErrMissingDependency)
}

// Launch starts a browser process and connects to it. The page size is
// left to the caller; rod's default device emulation is turned off.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	bin, err := Find(opts)
	if err != nil {
		return nil, err
	}

	l := launcher.New().Context(ctx).Bin(bin).Headless(opts.Headless)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", bin, err)
	}
	slog.Debug("browser launched", "bin", bin, "headless", opts.Headless)

	b := rod.New().Context(ctx).ControlURL(u).NoDefaultDevice()
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	return &Browser{Browser: b, launcher: l}, nil
}

func (b *Browser) Close() error {
	err := b.Browser.Close()
	b.launcher.Cleanup()
	return err
}
