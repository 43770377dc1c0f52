// Package main provides CLI command definitions for lazyfossil.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/chmouel/lazyfossil/internal/config"
	"github.com/chmouel/lazyfossil/internal/fossil"
	"github.com/chmouel/lazyfossil/internal/log"
	"github.com/chmouel/lazyfossil/internal/render"
	"github.com/chmouel/lazyfossil/internal/utils"
	"github.com/chmouel/lazyfossil/internal/watch"
	urfavecli "github.com/urfave/cli/v2"
)

var newServiceFunc = newFossilService

// newFossilService builds the fossil service from the loaded configuration.
func newFossilService(cfg *config.AppConfig) *fossil.Service {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	svc := fossil.NewService(fossil.NewExecInvoker(cfg.FossilPath, timeout))
	svc.SetCommitArgs(cfg.CommitArgs)
	return svc
}

// checkoutDir resolves the checkout directory from the global --dir flag,
// falling back to the current working directory.
func checkoutDir(c *urfavecli.Context) (string, error) {
	dir := c.String("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	expanded, err := utils.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("expand --dir: %w", err)
	}
	return expanded, nil
}

// renderOptions maps the effective configuration onto render options.
func renderOptions(cfg *config.AppConfig) render.Options {
	return render.Options{ShowIcons: cfg.ShowIcons, Color: cfg.Color}
}

// resolveFile turns a possibly relative file argument into an absolute path
// under the checkout directory.
func resolveFile(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

func resolveFiles(dir string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, resolveFile(dir, f))
	}
	return out
}

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "status",
		Aliases:   []string{"st"},
		Usage:     "Show the state of tracked and untracked files",
		ArgsUsage: "[file...]",
		Action:    runStatus,
	}
}

func runStatus(c *urfavecli.Context) error {
	cfg, err := setupConfig(c)
	if err != nil {
		return err
	}
	dir, err := checkoutDir(c)
	if err != nil {
		return err
	}
	svc := newServiceFunc(cfg)

	statuses, err := svc.Scan(c.Context, dir, c.Args().Slice())
	if err != nil {
		return err
	}
	fmt.Print(render.StatusList(statuses, renderOptions(cfg)))
	return nil
}

func infoCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "info",
		Usage: "Show checkout revision, date and tags",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			svc := newServiceFunc(cfg)

			info, err := svc.Info(c.Context, dir)
			if err != nil {
				return err
			}
			fmt.Print(render.Info(info, renderOptions(cfg)))
			return nil
		},
	}
}

func addCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "add",
		Usage:     "Schedule files for addition at the next commit",
		ArgsUsage: "file...",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			if c.NArg() == 0 {
				return fmt.Errorf("add requires at least one file")
			}
			return newServiceFunc(cfg).Register(c.Context, dir, c.Args().Slice())
		},
	}
}

func commitCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "commit",
		Aliases:   []string{"ci"},
		Usage:     "Commit changed files",
		ArgsUsage: "[file...]",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "Commit message",
				Required: true,
			},
		},
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			return newServiceFunc(cfg).Checkin(c.Context, dir, c.String("message"), c.Args().Slice())
		},
	}
}

func updateCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "update",
		Aliases:   []string{"up"},
		Usage:     "Update the checkout to a revision (or the tip)",
		ArgsUsage: "[revision]",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			return newServiceFunc(cfg).Checkout(c.Context, dir, c.Args().First())
		},
	}
}

func revertCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "revert",
		Usage:     "Restore files to their checked-in content",
		ArgsUsage: "file...",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			if c.NArg() == 0 {
				return fmt.Errorf("revert requires at least one file")
			}
			svc := newServiceFunc(cfg)
			for _, file := range resolveFiles(dir, c.Args().Slice()) {
				if err := svc.Revert(c.Context, file, false); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func tagCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "tag",
		Usage:     "Tag the current checkout revision",
		ArgsUsage: "name",
		Action: func(c *urfavecli.Context) error {
			return runCreateTag(c, false)
		},
	}
}

func branchCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "branch",
		Usage:     "Open a branch at the current checkout revision",
		ArgsUsage: "name",
		Action: func(c *urfavecli.Context) error {
			return runCreateTag(c, true)
		},
	}
}

func runCreateTag(c *urfavecli.Context, branch bool) error {
	cfg, err := setupConfig(c)
	if err != nil {
		return err
	}
	dir, err := checkoutDir(c)
	if err != nil {
		return err
	}
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("a tag or branch name is required")
	}
	return newServiceFunc(cfg).CreateTag(c.Context, dir, name, branch)
}

func switchCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "switch",
		Aliases:   []string{"co"},
		Usage:     "Check out the revision named by a tag or branch",
		ArgsUsage: "name",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			name := c.Args().First()
			if name == "" {
				return fmt.Errorf("a tag or branch name is required")
			}
			return newServiceFunc(cfg).RetrieveTag(c.Context, dir, name)
		},
	}
}

func rmCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "rm",
		Usage:     "Remove files from the next commit",
		ArgsUsage: "file...",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			if c.NArg() == 0 {
				return fmt.Errorf("rm requires at least one file")
			}
			svc := newServiceFunc(cfg)
			for _, file := range resolveFiles(dir, c.Args().Slice()) {
				if err := svc.Delete(c.Context, file); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func mvCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "mv",
		Usage:     "Rename a tracked file",
		ArgsUsage: "old new",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			if c.NArg() != 2 {
				return fmt.Errorf("mv requires exactly an old and a new path")
			}
			oldPath := resolveFile(dir, c.Args().Get(0))
			newPath := resolveFile(dir, c.Args().Get(1))
			return newServiceFunc(cfg).Rename(c.Context, oldPath, newPath)
		},
	}
}

func catCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "cat",
		Usage:     "Print the content of a file at a revision",
		ArgsUsage: "file",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "revision",
				Aliases: []string{"r"},
				Usage:   "Revision to read from (defaults to the working revision)",
			},
		},
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			file := c.Args().First()
			if file == "" {
				return fmt.Errorf("cat requires a file")
			}
			return newServiceFunc(cfg).FindRevision(c.Context, resolveFile(dir, file), c.String("revision"), os.Stdout)
		},
	}
}

func logCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "log",
		Usage:     "Print the timeline of one or more files",
		ArgsUsage: "file...",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			if c.NArg() == 0 {
				return fmt.Errorf("log requires at least one file")
			}
			return newServiceFunc(cfg).PrintLog(c.Context, resolveFiles(dir, c.Args().Slice()), os.Stdout)
		},
	}
}

func prevCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "prev",
		Usage:     "Print the revision committed after the given one (the newest when omitted)",
		ArgsUsage: "file [revision]",
		Action: func(c *urfavecli.Context) error {
			return runNeighborRevision(c, true)
		},
	}
}

func nextCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "next",
		Usage:     "Print the revision committed before the given one (the oldest when omitted)",
		ArgsUsage: "file [revision]",
		Action: func(c *urfavecli.Context) error {
			return runNeighborRevision(c, false)
		},
	}
}

func runNeighborRevision(c *urfavecli.Context, previous bool) error {
	cfg, err := setupConfig(c)
	if err != nil {
		return err
	}
	dir, err := checkoutDir(c)
	if err != nil {
		return err
	}
	file := c.Args().First()
	if file == "" {
		return fmt.Errorf("a file is required")
	}
	svc := newServiceFunc(cfg)

	rev := c.Args().Get(1)
	var found string
	if previous {
		found, err = svc.PreviousRevision(c.Context, resolveFile(dir, file), rev)
	} else {
		found, err = svc.NextRevision(c.Context, resolveFile(dir, file), rev)
	}
	if err != nil {
		return err
	}
	if found != "" {
		fmt.Println(found)
	}
	return nil
}

func diffCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "diff",
		Usage:     "Show changes between revisions or against the working tree",
		ArgsUsage: "[file...]",
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:  "from",
				Usage: "Older revision of the comparison",
			},
			&urfavecli.StringFlag{
				Name:  "to",
				Usage: "Newer revision of the comparison",
			},
		},
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			return newServiceFunc(cfg).Diff(c.Context, dir, c.Args().Slice(), c.String("from"), c.String("to"), os.Stdout)
		},
	}
}

func watchCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "watch",
		Usage: "Re-scan and print statuses whenever the checkout changes",
		Action: func(c *urfavecli.Context) error {
			cfg, err := setupConfig(c)
			if err != nil {
				return err
			}
			dir, err := checkoutDir(c)
			if err != nil {
				return err
			}
			return runWatch(c.Context, cfg, dir)
		},
	}
}

// runWatch prints the scan once, then again after every coalesced filesystem
// change under the checkout root, until interrupted.
func runWatch(parent context.Context, cfg *config.AppConfig, dir string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newServiceFunc(cfg)

	root, err := svc.LocalRoot(ctx, dir)
	if err != nil {
		return err
	}

	printScan := func() {
		statuses, err := svc.Scan(ctx, dir, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
			return
		}
		fmt.Print(render.StatusList(statuses, renderOptions(cfg)))
	}
	printScan()

	if !cfg.AutoRefresh {
		<-ctx.Done()
		return nil
	}

	watcher := watch.New(root, log.Printf)
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start checkout watcher: %w", err)
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Events():
			if !watcher.ShouldRefresh(time.Now()) {
				continue
			}
			fmt.Println("---")
			printScan()
		}
	}
}
