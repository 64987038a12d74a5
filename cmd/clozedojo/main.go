// Package main is the clozedojo binary: a terminal practice app for filling
// in the missing letters of words in short passages.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"clozedojo/internal/app"
	"clozedojo/internal/packs"
	"clozedojo/internal/passage"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

const appName = "clozedojo"

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flagValues struct {
	configPath string
	dataDir    string
	logPath    string
	packDir    string
	mode       string
	style      string
	ascii      bool
	debug      bool
	dev        bool
	devHTTP    string
	watch      bool
}

func rootCmd() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Fill in the missing letters, one cell at a time",
		Long: `clozedojo shows short passages where some words are cut off after a
prefix. Type the missing letters into the cells, press Enter, and see
which words you got right.

Passages come from YAML packs: a built-in pack plus any packs found in
the pack directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fv)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fv.configPath, "config", "c", "", "Config file path (YAML)")
	f.StringVar(&fv.dataDir, "data-dir", "", "Directory for the progress database")
	f.StringVar(&fv.logPath, "log", "", "Write JSON event log to this file")
	f.StringVar(&fv.packDir, "pack-dir", "", "Directory with additional passage packs")
	f.StringVar(&fv.mode, "mode", "", "Game mode (practice, timed)")
	f.StringVar(&fv.style, "style", "", "UI style (modern_arcade, cozy_clean, retro_terminal)")
	f.BoolVar(&fv.ascii, "ascii", false, "Use ASCII-only glyphs")
	f.BoolVar(&fv.debug, "debug", false, "Verbose UI diagnostics")
	f.BoolVar(&fv.dev, "dev", false, "Enable the dev HTTP server")
	f.StringVar(&fv.devHTTP, "dev-http", "", "Dev HTTP listen address")
	f.BoolVar(&fv.watch, "watch", false, "Reload packs when files in the pack directory change (dev only)")

	cmd.AddCommand(checkCmd(), versionCmd(), manCmd(cmd))
	return cmd
}

// loadConfig layers defaults, the config file, the environment and the flags
// that were set explicitly.
func loadConfig(cmd *cobra.Command, fv flagValues) (app.Config, error) {
	cfg := app.DefaultConfig()

	path := fv.configPath
	if path == "" {
		if def, err := app.DefaultConfigPath(); err == nil {
			if _, statErr := os.Stat(def); statErr == nil {
				path = def
			}
		}
	}
	if path != "" {
		if err := app.LoadConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := app.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("data-dir") {
		cfg.DataDir = fv.dataDir
	}
	if f.Changed("log") {
		cfg.LogPath = fv.logPath
	}
	if f.Changed("pack-dir") {
		cfg.PackDir = fv.packDir
	}
	if f.Changed("mode") {
		cfg.Mode = fv.mode
	}
	if f.Changed("style") {
		cfg.UI.StyleVariant = fv.style
	}
	if f.Changed("ascii") {
		cfg.UI.ASCII = fv.ascii
	}
	if f.Changed("debug") {
		cfg.Debug = fv.debug
	}
	if f.Changed("dev") {
		cfg.Dev = fv.dev
	}
	if f.Changed("dev-http") {
		cfg.DevHTTP = fv.devHTTP
	}
	if f.Changed("watch") {
		cfg.WatchPacks = fv.watch
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg app.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

func checkCmd() *cobra.Command {
	var packDir string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate passage packs and report data-quality issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkPacks(cmd.Context(), cmd.OutOrStdout(), packDir)
		},
	}
	cmd.Flags().StringVar(&packDir, "pack-dir", "", "Directory with passage packs (built-in pack only when empty)")
	return cmd
}

// checkPacks fails on load and markup errors. Data-quality issues are printed
// but do not fail the check, matching how they are treated during play.
func checkPacks(ctx context.Context, out io.Writer, packDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loader := packs.NewLoader()
	if packDir != "" {
		if _, err := os.Stat(packDir); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("pack dir %s does not exist", packDir)
		}
	}
	all, err := loader.LoadPacks(ctx, packDir)
	if err != nil {
		return err
	}

	var failed, issues int
	for _, pk := range all {
		fmt.Fprintf(out, "%s (%s): %d passages\n", pk.PackID, pk.Path, len(pk.Passages))
		for _, spec := range pk.Passages {
			p, err := spec.Build(pk)
			if err != nil {
				failed++
				fmt.Fprintf(out, "  ERROR %s: %v\n", spec.PassageID, err)
				continue
			}
			p = passage.Normalize(p)
			for _, issue := range passage.Check(p) {
				issues++
				fmt.Fprintf(out, "  WARN  %s: %s\n", spec.PassageID, issue)
			}
		}
	}
	fmt.Fprintf(out, "%d packs, %d errors, %d warnings\n", len(all), failed, issues)
	if failed > 0 {
		return fmt.Errorf("%d passages failed to build", failed)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func manCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate the man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := mcobra.NewManPage(1, root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), page.Build(roff.NewDocument()))
			return err
		},
	}
}
