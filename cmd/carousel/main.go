// carousel - Terminal Project Carousel
//
// Shows a ring of project cards orbiting a spinning centerpiece in the
// terminal. Hover a card to see its details, click it to open the project,
// click the centerpiece to cycle display modes.
//
// Usage:
//
//	carousel [--assets dir] [--config carousel.yaml]
//	carousel manifest
//	carousel config
//	carousel snapshot out.png
package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/carousel/pkg/assets"
	"github.com/taigrr/carousel/pkg/carousel"
	"github.com/taigrr/carousel/pkg/config"
	"github.com/taigrr/carousel/pkg/ui"
)

var (
	configPath string
	assetRoot  string
	partsDir   string
	targetFPS  int
	logLevel   string
	logFile    string
	seed       uint64

	snapWidth  int
	snapHeight int
	snapFrames int
	snapModes  int
)

func main() {
	cmd := &cobra.Command{
		Use:   "carousel",
		Short: "Terminal Project Carousel",
		Long: `carousel - Terminal Project Carousel

A ring of project cards orbiting a spinning centerpiece.

Controls:
  Hover card        - Show project details
  Click card        - Open project
  Click centerpiece - Cycle display mode
  Tab               - Toggle navigation menu
  Esc / q           - Close project, then quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "carousel.yaml", "Path to YAML config")
	cmd.PersistentFlags().StringVar(&assetRoot, "assets", "", "Directory holding images/ and models/")
	cmd.PersistentFlags().StringVar(&partsDir, "parts", "", "Directory of page part YAML files (default: built in)")
	cmd.PersistentFlags().IntVar(&targetFPS, "fps", 0, "Target FPS")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (the terminal is busy drawing)")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Seed for bird and rock placement")

	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Load every asset and report what resolved",
		Long:  "Load the carousel's asset manifest with the configured timeout and print, per asset, whether it decoded or fell back and why.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runManifest(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(manifestCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long:  "Print the configuration after the config file and flags are applied. The output is a valid config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runPrintConfig(cfg, cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(configCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render the scene offscreen to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSnapshot(cmd.Context(), cfg, args[0])
		},
	}
	snapshotCmd.Flags().IntVar(&snapWidth, "width", 160, "Width in cells")
	snapshotCmd.Flags().IntVar(&snapHeight, "height", 48, "Height in cells")
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 90, "Frames to advance before capturing")
	snapshotCmd.Flags().IntVar(&snapModes, "modes", 0, "Mode advances before capturing")
	cmd.AddCommand(snapshotCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, then applies flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("assets") {
		cfg.AssetRoot = assetRoot
	}
	if flags.Changed("parts") {
		cfg.PartsDir = partsDir
	}
	if flags.Changed("fps") {
		cfg.FPS = targetFPS
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger opens the configured log file. An empty path discards logs.
func newLogger(cfg config.Config) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	var w io.Writer = io.Discard
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = func() { f.Close() }
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger, closer, nil
}

// partsFS returns the page parts source and the directory to search in it.
func partsFS(cfg config.Config) (fs.FS, string) {
	if cfg.PartsDir == "" {
		return ui.DefaultParts, "parts"
	}
	return os.DirFS(cfg.PartsDir), "."
}

// newScene assembles the page, menu and controller shared by every command.
func newScene(cfg config.Config, logger *log.Logger) (*ui.Document, *ui.Menu, *carousel.Controller, *ui.PartLoader, error) {
	doc := ui.NewPage()
	fsys, dir := partsFS(cfg)
	parts, err := ui.NewPartLoader(fsys, dir, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	menu := ui.NewMenu(doc, nil, logger)
	ctrl := carousel.New(cfg, doc, carousel.Options{
		Navigator: menu,
		Logger:    logger,
		Seed:      seed,
	})
	menu.Labels = ctrl
	return doc, menu, ctrl, parts, nil
}

func runManifest(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	m := carousel.Manifest(cfg.AssetRoot)
	if err := m.Validate(); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}
	loader := assets.NewLoader(assets.Options{
		Concurrency: cfg.LoadConcurrency,
		Timeout:     cfg.LoadTimeout,
		Logger:      logger,
	})
	rep, ok := <-loader.Load(ctx, m)
	if !ok {
		return fmt.Errorf("load cancelled")
	}

	fmt.Fprintf(out, "Assets:   %d/%d resolved", rep.Resolved, rep.Total)
	if rep.TimedOut {
		fmt.Fprintf(out, " (timed out after %v)", cfg.LoadTimeout)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tPATH\tSTATUS\tDETAIL")
	for _, a := range m {
		res := rep.Resources[a.ID]
		status, detail := "ok", ""
		switch {
		case res.Fallback:
			status, detail = "fallback", fmt.Sprint(res.Err)
		case res.Texture != nil:
			detail = fmt.Sprintf("%dx%d", res.Texture.Width, res.Texture.Height)
		case res.Mesh != nil:
			detail = fmt.Sprintf("%d triangles", res.Mesh.TriangleCount())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Kind, filepath.ToSlash(a.Path), status, detail)
	}
	return tw.Flush()
}

func runPrintConfig(cfg config.Config, out io.Writer) error {
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runSnapshot(ctx context.Context, cfg config.Config, outPath string) error {
	if snapWidth <= 0 || snapHeight <= 0 {
		return fmt.Errorf("snapshot size must be positive, got %dx%d", snapWidth, snapHeight)
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	doc, _, ctrl, parts, err := newScene(cfg, logger)
	if err != nil {
		return err
	}
	ready := ui.NewSignal()
	report := ctrl.Boot(ctx, ready)
	if report == nil {
		return fmt.Errorf("page has no canvas")
	}
	parts.Load(ctx, doc, ready)
	ctrl.Resize(snapWidth, snapHeight)

	select {
	case rep := <-report:
		ctrl.Build(rep)
	case <-ctx.Done():
		return ctx.Err()
	}
	for range snapModes {
		ctrl.AdvanceMode()
	}
	for range max(snapFrames, 1) {
		ctrl.Tick()
	}

	if err := ctrl.Frame().SavePNG(outPath); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	st := ctrl.Stats()
	fmt.Printf("Wrote %s (%dx%d px, mode %s, %d nodes, %d triangles)\n",
		outPath, ctrl.Frame().Width, ctrl.Frame().Height, ctrl.Mode(), st.NodesDrawn, st.Triangles)
	return nil
}
