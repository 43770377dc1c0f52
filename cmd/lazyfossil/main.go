// Package main is the entry point for the lazyfossil command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/chmouel/lazyfossil/internal/buildinfo"
	"github.com/chmouel/lazyfossil/internal/config"
	"github.com/chmouel/lazyfossil/internal/log"
	"github.com/chmouel/lazyfossil/internal/utils"
	urfavecli "github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	urfavecli.VersionPrinter = func(*urfavecli.Context) { printVersion() }

	cliApp := &urfavecli.App{
		Name:                 "lazyfossil",
		Usage:                "A command line companion for fossil checkouts",
		Version:              version,
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			statusCommand(),
			infoCommand(),
			addCommand(),
			commitCommand(),
			updateCommand(),
			revertCommand(),
			tagCommand(),
			branchCommand(),
			switchCommand(),
			rmCommand(),
			mvCommand(),
			catCommand(),
			logCommand(),
			prevCommand(),
			nextCommand(),
			diffCommand(),
			watchCommand(),
		},

		// Default action mirrors the status subcommand so a bare
		// `lazyfossil` is useful.
		Action: func(c *urfavecli.Context) error {
			return runStatus(c)
		},

		BashComplete: completeGlobalFlags,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		_ = log.Close()
		os.Exit(1)
	}
	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
}

// setupConfig loads the configuration and wires the debug log. The flag takes
// precedence over the config file for the log destination.
func setupConfig(c *urfavecli.Context) (*config.AppConfig, error) {
	if debugLog := c.String("debug-log"); debugLog != "" {
		path := debugLog
		if expanded, err := utils.ExpandPath(debugLog); err == nil {
			path = expanded
		}
		if err := log.SetFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			path := cfg.DebugLog
			if expanded, err := utils.ExpandPath(cfg.DebugLog); err == nil {
				path = expanded
			}
			if err := log.SetFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", path, err)
			}
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	if fossilPath := c.String("fossil-path"); fossilPath != "" {
		cfg.FossilPath = fossilPath
	}
	if c.Bool("no-color") {
		cfg.Color = false
	}
	if c.Bool("no-icons") {
		cfg.ShowIcons = false
	}

	return cfg, nil
}

// printVersion prints version information.
func printVersion() {
	buildinfo.Enrich()
	fmt.Printf("lazyfossil version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n",
		buildinfo.Version(), buildinfo.Commit(), buildinfo.Date(), buildinfo.BuiltBy())
}
