package smt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Verdict int

const (
	NotProved Verdict = iota
	Proved
	// Undetermined is a solver run that did not finish in time.
	Undetermined
)

func (v Verdict) String() string {
	switch v {
	case Proved:
		return "proved"
	case Undetermined:
		return "undetermined"
	}
	return "not proved"
}

// ProtocolError is solver output that is none of unsat, sat or unknown.
type ProtocolError struct {
	Output string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected solver output: %q", e.Output)
}

func IsProtocolError(err error) bool {
	_, ok := errors.Cause(err).(*ProtocolError)
	return ok
}

// Runner runs an external solver binary on script files.
type Runner struct {
	Path    string
	Args    []string
	Timeout time.Duration
	TmpDir  string
}

func NewRunner(path string, args []string, timeout time.Duration, tmpDir string) *Runner {
	return &Runner{
		Path:    path,
		Args:    args,
		Timeout: timeout,
		TmpDir:  tmpDir,
	}
}

// Run writes script to its own scratch file and checks it. Each call
// uses a fresh file, so concurrent calls do not interfere.
func (r *Runner) Run(ctx context.Context, script string) (Verdict, string, error) {
	file, err := os.CreateTemp(r.TmpDir, "gverify-*.smt2")
	if err != nil {
		return NotProved, "", errors.Wrap(err, "create script file")
	}
	defer os.Remove(file.Name())
	if _, err := file.WriteString(script); err != nil {
		file.Close()
		return NotProved, "", errors.Wrap(err, "write script file")
	}
	if err := file.Close(); err != nil {
		return NotProved, "", errors.Wrap(err, "close script file")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	args := append(append([]string{}, r.Args...), file.Name())
	cmd := exec.CommandContext(ctx, r.Path, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	runErr := cmd.Run()
	output := strings.TrimSpace(stdout.String())

	if ctx.Err() == context.DeadlineExceeded {
		log.Warnf("solver timed out after %v", r.Timeout)
		return Undetermined, output, nil
	}
	if ctx.Err() != nil {
		return NotProved, output, errors.Wrap(ctx.Err(), "run solver")
	}
	if runErr != nil && output == "" {
		return NotProved, "", errors.Wrapf(runErr, "run solver %s", r.Path)
	}
	verdict, err := ParseVerdict(output)
	if err != nil {
		log.Errorf("solver %s: %v", r.Path, err)
		return NotProved, output, err
	}
	return verdict, output, nil
}

// ParseVerdict reads the answer to (check-sat) from the first line of
// solver output. Anything after it, such as a model, is ignored.
func ParseVerdict(output string) (Verdict, error) {
	first := strings.TrimSpace(output)
	if idx := strings.IndexByte(first, '\n'); idx >= 0 {
		first = strings.TrimSpace(first[:idx])
	}
	switch first {
	case "unsat":
		return Proved, nil
	case "sat", "unknown":
		return NotProved, nil
	}
	return NotProved, &ProtocolError{Output: output}
}
