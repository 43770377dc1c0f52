// Package fossil drives the fossil command-line tool and projects its textual
// output into the structured state model the front-end consumes.
package fossil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/chmouel/lazyfossil/internal/log"
	"github.com/chmouel/lazyfossil/internal/models"
)

// ErrToolUnavailable reports that the fossil executable could not be started.
// Operations never retry after it; the condition is surfaced immediately.
var ErrToolUnavailable = errors.New("fossil executable unavailable")

// ErrParseMismatch reports that an expected pattern was missing from otherwise
// successful fossil output. There is no partial-result fallback for these.
var ErrParseMismatch = errors.New("unexpected fossil output")

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries.
var LookupPath = exec.LookPath

// Invoker runs one fossil subcommand. expectStatus is the exit code that
// counts as success; the returned Result carries the combined output either
// way. The error is non-nil only when the subprocess could not be started.
type Invoker interface {
	Invoke(ctx context.Context, args []string, cwd string, expectStatus int) (models.Result, error)
}

// ExecInvoker is the production Invoker backed by the real fossil binary.
// The working directory is always passed per call; there is no process-wide
// directory state, so concurrent logical operations cannot interfere.
type ExecInvoker struct {
	bin     string
	timeout time.Duration
}

// NewExecInvoker builds an invoker for the given binary path. An empty bin
// falls back to "fossil" from PATH. A positive timeout bounds every
// invocation so an unresponsive tool cannot hang the caller.
func NewExecInvoker(bin string, timeout time.Duration) *ExecInvoker {
	if strings.TrimSpace(bin) == "" {
		bin = "fossil"
	}
	return &ExecInvoker{bin: bin, timeout: timeout}
}

// Invoke implements Invoker.
func (e *ExecInvoker) Invoke(ctx context.Context, args []string, cwd string, expectStatus int) (models.Result, error) {
	command := strings.Join(append([]string{e.bin}, args...), " ")
	log.Printf("run: %s (cwd=%s)", command, cwd)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// #nosec G204 -- arguments come from internal logic and are not shell interpolated
	cmd := exec.CommandContext(ctx, e.bin, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			log.Printf("exit %d: %s", code, command)
			return models.Result{ExitOK: code == expectStatus, Output: string(output)}, nil
		}
		log.Printf("error: %s: %v", command, err)
		return models.Result{}, fmt.Errorf("%w: %s: %v", ErrToolUnavailable, e.bin, err)
	}

	log.Printf("ok: %s", command)
	return models.Result{ExitOK: expectStatus == 0, Output: string(output)}, nil
}

// RunOrEmpty invokes fossil expecting exit 0 and returns the captured text,
// or "" when the command ran but did not succeed. Callers that only need
// best-effort text (status and info queries) use this form; a missing tool
// still propagates as an error.
func RunOrEmpty(ctx context.Context, inv Invoker, cwd string, args ...string) (string, error) {
	res, err := inv.Invoke(ctx, args, cwd, 0)
	if err != nil {
		return "", err
	}
	if !res.ExitOK {
		return "", nil
	}
	return res.Output, nil
}
