// Copyright (c) 2026 StegX Team
// StegX - image steganography client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/stegx/buildvars"
	"github.com/toeirei/stegx/internal/config"
	"github.com/toeirei/stegx/internal/i18n"
	"github.com/toeirei/stegx/internal/logging"
	"github.com/toeirei/stegx/internal/stego"
	"github.com/toeirei/stegx/internal/tui"
)

var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

// runTUI is swapped out in tests.
var runTUI = tui.Run

// app holds what PersistentPreRunE loaded for the running command.
type app struct {
	cfg     config.Config
	logFile *os.File
}

// Execute runs the CLI entrypoint. An interrupt cancels the request in
// flight; the attempt then ends as a failure.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates a fresh root command with all subcommands. Tests call it
// once per case.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "stegx",
		Short: "StegX hides messages in images using a steganography service.",
		Long: `StegX is a client for a remote steganography service. It can hide a
secret message in an image or extract one from an image, protected by a
password. The service does the embedding; StegX collects the input, speaks
the backend contract of the selected profile and saves the result.

Running without a subcommand launches the interactive TUI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			hide, extract, r, err := newControllers(a.cfg)
			if err != nil {
				return err
			}
			// The TUI owns the terminal; keep log lines off the screen.
			if a.logFile == nil {
				logging.SetOutput(io.Discard)
				defer logging.SetOutput(os.Stderr)
			}
			return runTUI(cmd.Context(), tui.Options{
				Hide:    hide,
				Extract: extract,
				Profile: r.Profile,
				BaseURL: r.BaseURL,
			})
		},
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file")
	pf.String("profile", "upload", "deployment profile (upload, path, origin or a profile from the config file)")
	pf.String("mode", "", `override the backend contract ("upload" or "path")`)
	pf.String("base-url", "", "override the service base URL")
	pf.Duration("http.timeout", 0, "request timeout (0 means none)")
	pf.String("download.dir", ".", "directory hidden-message images are saved to")
	pf.String("language", "en", `interface language ("en", "de")`)
	pf.String("log.file", "", "write logs to this file")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newHideCmd(a),
		newExtractCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and initializes i18n and logging.
func (a *app) setup(cmd *cobra.Command) error {
	path, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	a.cfg = cfg

	i18n.Init(cfg.Language)
	logging.SetDebug(cfg.Verbose)
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		a.logFile = f
		logging.SetOutput(f)
	}
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		logging.SetOutput(os.Stderr)
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid silently running on
	// defaults.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// newControllers builds the hide and extract controllers for the resolved
// profile. Both share one builder and one executor.
func newControllers(cfg config.Config) (hide, extract *stego.Controller, r config.Resolved, err error) {
	r, err = cfg.Resolve()
	if err != nil {
		return nil, nil, r, err
	}
	mode, err := stego.ParseMode(r.Mode)
	if err != nil {
		return nil, nil, r, err
	}
	builder, err := stego.NewRequestBuilder(mode, r.BaseURL, cfg.Path.DefaultOutput)
	if err != nil {
		return nil, nil, r, err
	}
	exec := stego.NewHTTPExecutor(cfg.HTTP.Timeout)
	saver := &stego.DirSaver{Dir: cfg.Download.Dir}

	hide, err = stego.NewController(stego.Hide, builder, exec, stego.WithSaver(saver, cfg.Download.Filename))
	if err != nil {
		return nil, nil, r, err
	}
	extract, err = stego.NewController(stego.Extract, builder, exec)
	if err != nil {
		return nil, nil, r, err
	}
	logging.Debugf("profile %s: %s mode at %s", r.Profile, mode, r.BaseURL)
	return hide, extract, r, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion(v, c, d string) string {
	s := v
	if c != "" && c != "dev" {
		s += " (" + c + ")"
	}
	if d != "" {
		s += " built: " + d
	}
	return s
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault("dev")
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil && resolvedVersion == "dev" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record our module as a dependency.
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/stegx" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
	}
	if info != nil {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit passed via ldflags.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
