package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"usdshot/internal/browser"
	"usdshot/internal/config"
	"usdshot/internal/model"
)

var validate = validator.New()

const defaultSize = "1024"

// Dimensions is the viewport every capture is rendered at.
type Dimensions struct {
	Width  int `validate:"gt=0"`
	Height int `validate:"gt=0"`
}

// argError carries a user-facing message that is printed verbatim.
type argError struct{ msg string }

func (e *argError) Error() string { return e.msg }
func (e *argError) Unwrap() error { return model.ErrInvalidArgument }

func invalid(flag string, value any) error {
	return &argError{msg: fmt.Sprintf("Invalid --%s %v", flag, value)}
}

// ParseDimensions validates raw --width/--height values. It does no I/O.
func ParseDimensions(width, height string) (Dimensions, error) {
	var d Dimensions
	var err error
	if d.Width, err = strconv.Atoi(strings.TrimSpace(width)); err != nil {
		return d, invalid("width", width)
	}
	if d.Height, err = strconv.Atoi(strings.TrimSpace(height)); err != nil {
		return d, invalid("height", height)
	}
	return d, d.validate()
}

func (d Dimensions) validate() error {
	if err := validate.Struct(d); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return invalid(strings.ToLower(fe.Field()), fe.Value())
		}
		return fmt.Errorf("validate dimensions: %w", err)
	}
	return nil
}

// withConfig fills in sizes the user did not pass explicitly.
func (d Dimensions) withConfig(cmd *cobra.Command, cfg model.Config) (Dimensions, error) {
	if cfg.Width != 0 && !cmd.Flags().Changed("width") {
		d.Width = cfg.Width
	}
	if cfg.Height != 0 && !cmd.Flags().Changed("height") {
		d.Height = cfg.Height
	}
	return d, d.validate()
}

type dimensionFlags struct {
	width  string
	height string
}

func (f *dimensionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.width, "width", defaultSize, "Render width in pixels (positive integer)")
	cmd.Flags().StringVar(&f.height, "height", defaultSize, "Render height in pixels (positive integer)")
}

// sharedFlags are accepted by every command.
type sharedFlags struct {
	configPath      string
	browserBin      string
	downloadBrowser bool
	verbose         bool
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Config file (default ./"+config.FileName+" if present)")
	cmd.Flags().StringVar(&f.browserBin, "browser-bin", "", "Chromium-compatible browser binary (or "+browser.BinEnv+")")
	cmd.Flags().BoolVar(&f.downloadBrowser, "download-browser", false, "Download a browser when none is installed")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

// setup installs the logger and loads the config file.
func (f *sharedFlags) setup() (model.Config, error) {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if f.configPath != "" {
		return config.LoadFile(f.configPath)
	}
	return config.Load(".")
}

func (f *sharedFlags) browserOptions(cfg model.Config) browser.Options {
	bin := f.browserBin
	if bin == "" && os.Getenv(browser.BinEnv) == "" {
		bin = cfg.BrowserBin
	}
	return browser.Options{Headless: true, Bin: bin, Download: f.downloadBrowser}
}
