package fossil

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chmouel/lazyfossil/internal/utils"
)

// Service is the uniform entry point translating abstract version-control
// operations into fossil subcommand invocations. It holds no state beyond the
// invoker and configuration; every operation is a blocking invocation followed
// by in-memory parsing, and the working directory is scoped per call.
type Service struct {
	inv        Invoker
	commitArgs []string
}

// NewService constructs a Service on top of the given invoker.
func NewService(inv Invoker) *Service {
	return &Service{inv: inv}
}

// SetCommitArgs sets additional arguments appended to every commit.
func (s *Service) SetCommitArgs(args []string) {
	if len(args) == 0 {
		s.commitArgs = nil
		return
	}
	s.commitArgs = append([]string{}, args...)
}

// runChecked runs a subcommand that must exit 0, folding the captured output
// into the error as the diagnostic. Failures are never retried.
func (s *Service) runChecked(ctx context.Context, args []string, cwd, errorPrefix string) error {
	res, err := s.inv.Invoke(ctx, args, cwd, 0)
	if err != nil {
		return err
	}
	if !res.ExitOK {
		detail := strings.TrimSpace(res.Output)
		if detail == "" {
			return fmt.Errorf("%s: fossil %s", errorPrefix, strings.Join(args, " "))
		}
		return fmt.Errorf("%s: %s", errorPrefix, detail)
	}
	return nil
}

// Register schedules files for addition. Fossil records no per-add comment,
// so there is no message parameter.
func (s *Service) Register(ctx context.Context, dir string, files []string) error {
	args := append([]string{"add"}, files...)
	return s.runChecked(ctx, args, dir, "add failed")
}

// Checkin commits the given files with a message plus any configured extra
// arguments. A non-zero exit reports the commit as failed with the raw output
// as diagnostic.
func (s *Service) Checkin(ctx context.Context, dir, message string, files []string) error {
	args := []string{"commit", "-m", message}
	args = append(args, s.commitArgs...)
	args = append(args, files...)
	return s.runChecked(ctx, args, dir, "commit failed")
}

// FindRevision streams the content of file at rev into w. An empty rev means
// the working revision and omits the revision flag entirely.
func (s *Service) FindRevision(ctx context.Context, file, rev string, w io.Writer) error {
	args := []string{"finfo", "-p", filepath.Base(file)}
	if rev != "" {
		args = append(args, "-r", rev)
	}
	res, err := s.inv.Invoke(ctx, args, filepath.Dir(file), 0)
	if err != nil {
		return err
	}
	if !res.ExitOK {
		return fmt.Errorf("finfo -p failed for %s: %s", file, strings.TrimSpace(res.Output))
	}
	_, err = io.WriteString(w, res.Output)
	return err
}

// Checkout updates the checkout in dir. An empty rev means the current tip
// and omits the revision argument.
func (s *Service) Checkout(ctx context.Context, dir, rev string) error {
	args := []string{"update"}
	if rev != "" {
		args = append(args, rev)
	}
	return s.runChecked(ctx, args, dir, "update failed")
}

// Revert restores file to its checked-in content. When contentsDone is true
// the caller already rewrote the file and nothing is invoked.
func (s *Service) Revert(ctx context.Context, file string, contentsDone bool) error {
	if contentsDone {
		return nil
	}
	return s.runChecked(ctx, []string{"revert", filepath.Base(file)}, filepath.Dir(file), "revert failed")
}

// CreateTag attaches a tag (or opens a branch, when branch is true) named
// name at the revision dir is currently checked out at. The checkout id is
// resolved first so the label lands on the exact working revision.
func (s *Service) CreateTag(ctx context.Context, dir, name string, branch bool) error {
	id, err := s.CheckoutID(ctx, dir)
	if err != nil {
		return err
	}
	if branch {
		return s.runChecked(ctx, []string{"branch", "new", name, id}, dir, "branch new failed")
	}
	return s.runChecked(ctx, []string{"tag", "add", name, id}, dir, "tag add failed")
}

// RetrieveTag checks out the revision identified by the given tag or branch.
func (s *Service) RetrieveTag(ctx context.Context, dir, name string) error {
	return s.runChecked(ctx, []string{"checkout", name}, dir, "checkout failed")
}

// Delete removes file from the next commit. The path is resolved symlink-free
// first so fossil sees the file it actually tracks.
func (s *Service) Delete(ctx context.Context, file string) error {
	resolved, err := utils.ResolvePath(file)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", file, err)
	}
	return s.runChecked(ctx, []string{"rm", resolved}, filepath.Dir(resolved), "rm failed")
}

// Rename moves old to new, both resolved symlink-free.
func (s *Service) Rename(ctx context.Context, oldPath, newPath string) error {
	oldResolved, err := utils.ResolvePath(oldPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", oldPath, err)
	}
	newResolved, err := utils.ResolvePathMissingOK(newPath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", newPath, err)
	}
	return s.runChecked(ctx, []string{"mv", oldResolved, newResolved}, filepath.Dir(oldResolved), "mv failed")
}

// Diff writes the internal diff for files between two revisions into w. Empty
// from/to fall back to fossil's defaults (checkout vs working tree).
func (s *Service) Diff(ctx context.Context, dir string, files []string, from, to string, w io.Writer) error {
	args := []string{"diff", "-i"}
	if from != "" {
		args = append(args, "--from", from)
	}
	if to != "" {
		args = append(args, "--to", to)
	}
	args = append(args, files...)
	res, err := s.inv.Invoke(ctx, args, dir, 0)
	if err != nil {
		return err
	}
	if !res.ExitOK {
		return fmt.Errorf("diff failed: %s", strings.TrimSpace(res.Output))
	}
	_, err = io.WriteString(w, res.Output)
	return err
}

// PrintLog writes the timeline of every file into the single sink w, one file
// after the other in the order given.
func (s *Service) PrintLog(ctx context.Context, files []string, w io.Writer) error {
	for _, file := range files {
		raw, err := RunOrEmpty(ctx, s.inv, filepath.Dir(file), "timeline", "-n", "0", "-p", filepath.Base(file))
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, raw); err != nil {
			return err
		}
		if raw != "" && !strings.HasSuffix(raw, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
