// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/invowk/procline/pkg/types"
)

// Executor starts program runs. It holds defaults only; every call gets its
// own independent Run, so an Executor is safe for concurrent use.
type Executor struct {
	acceptable  types.ExitCodeSet
	logger      *log.Logger
	execCommand ExecCommandFunc
	encoding    string
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		logger:      log.New(io.Discard),
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AcceptableExitCodes returns the default acceptable set.
func (e *Executor) AcceptableExitCodes() types.ExitCodeSet {
	return e.acceptable.OrDefault().Clone()
}

// Execute starts req and returns its stdout lines. The program is launched
// before Execute returns; launch failures surface through the sequence.
// Cancelling ctx kills the program.
func (e *Executor) Execute(ctx context.Context, req Request) *Sequence {
	r := e.start(ctx, req, modeLines, nil)
	return newSequence(r.output, r)
}

// ExecuteCommandLine parses line with shell word rules and executes it
// without a shell.
func (e *Executor) ExecuteCommandLine(ctx context.Context, line string, dir types.FilesystemPath, env map[string]string) *Sequence {
	path, args, err := ParseCommandLine(line, env)
	req := Request{Path: path, Args: args, Dir: dir, Env: env}
	if err != nil {
		req.Path = line
	}
	r := e.start(ctx, req, modeLines, err)
	return newSequence(r.output, r)
}

// ExecuteDual starts req and returns its stdout and stderr as two
// sequences. Stderr text does not fail the run; an unacceptable exit code
// is reported by the stdout sequence only. Closing the stderr sequence
// never affects the program.
func (e *Executor) ExecuteDual(ctx context.Context, req Request) (run *Run, stdout, stderr *Sequence) {
	r := e.start(ctx, req, modeDual, nil)
	return r, newSequence(r.output, r), newSequence(r.errQueue, nil)
}

func (e *Executor) start(ctx context.Context, req Request, mode runMode, preErr error) *Run {
	req = req.clone()
	if req.Encoding == "" {
		req.Encoding = e.encoding
	}
	accept := req.AcceptableExitCodes
	if accept == nil {
		accept = e.acceptable
	}
	r := newRun(req, accept.OrDefault(), mode, e.logger, e.execCommand)
	r.preErr = preErr
	r.start(ctx)
	return r
}
