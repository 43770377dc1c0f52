// Package main provides CLI flag definitions for lazyfossil.
package main

import (
	"fmt"
	"strings"

	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Checkout directory to operate in (defaults to the current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "fossil-path",
			Usage: "Path to the fossil binary",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colorized output",
		},
		&urfavecli.BoolFlag{
			Name:  "no-icons",
			Usage: "Disable file type icons in status output",
		},
	}
}

// completeGlobalFlags provides basic completion for global flags.
func completeGlobalFlags(c *urfavecli.Context) {
	// Complete subcommands if no args yet
	if c.NArg() == 0 {
		for _, cmd := range c.App.Commands {
			fmt.Println(cmd.Name)
		}
	}
}

// suggestConfigKeys returns config key suggestions matching the prefix.
//
//nolint:unused // Preserved for potential future completion enhancements
func suggestConfigKeys(prefix string) []string {
	allKeys := []string{
		"fossil_path", "commit_args", "timeout_seconds", "debug_log",
		"show_icons", "color", "auto_refresh",
	}

	var matches []string
	for _, key := range allKeys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			matches = append(matches, key+"=")
		}
	}
	return matches
}
