// SPDX-License-Identifier: MPL-2.0

package process

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"github.com/invowk/procline/internal/linequeue"
	"github.com/invowk/procline/pkg/types"
)

// runMode selects how the streams of a run are consumed.
type runMode int

const (
	// modeLines: stdout lines into a queue, stderr lines into the ErrorBuffer.
	modeLines runMode = iota
	// modeDual: stdout and stderr lines each into their own queue.
	modeDual
	// modeBinary: stdout copied raw into memory.
	modeBinary
)

// Run owns one program invocation from launch to disposal.
//
// A Run is single-use. Its exported methods are safe for concurrent use.
type Run struct {
	id      uuid.UUID
	req     Request
	accept  types.ExitCodeSet
	mode    runMode
	logger  *log.Logger
	newCmd  ExecCommandFunc
	preErr  error
	encoder encoding.Encoding

	state atomic.Int32

	cmd     *exec.Cmd
	stdoutR *os.File
	stderrR *os.File

	output   *linequeue.Queue // stdout lines (modeLines, modeDual)
	errQueue *linequeue.Queue // stderr lines (modeDual)
	errors   ErrorBuffer
	raw      bytes.Buffer // stdout bytes (modeBinary)

	// One-shot signals, each closed by the watcher that owns it.
	outputDrained chan struct{}
	errorDrained  chan struct{}
	exited        chan struct{}
	done          chan struct{}

	stopWatch func() bool

	mu      sync.Mutex
	outcome Outcome
	err     error
}

func newRun(req Request, accept types.ExitCodeSet, mode runMode, logger *log.Logger, newCmd ExecCommandFunc) *Run {
	r := &Run{
		id:            uuid.New(),
		req:           req,
		accept:        accept,
		mode:          mode,
		newCmd:        newCmd,
		outputDrained: make(chan struct{}),
		errorDrained:  make(chan struct{}),
		exited:        make(chan struct{}),
		done:          make(chan struct{}),
	}
	r.logger = logger.With("run", r.id.String(), "cmd", req.Path)
	r.state.Store(int32(StateNotStarted))
	if mode != modeBinary {
		r.output = linequeue.New()
	}
	if mode == modeDual {
		r.errQueue = linequeue.New()
	}
	return r
}

// ID returns the identifier used to correlate this run in logs.
func (r *Run) ID() uuid.UUID { return r.id }

// Command returns the display form of the command line.
func (r *Run) Command() string { return r.req.String() }

// Pid returns the operating system process id, or 0 if the program never started.
func (r *Run) Pid() int {
	if r.cmd == nil || r.cmd.Process == nil || State(r.state.Load()) == StateNotStarted {
		return 0
	}
	return r.cmd.Process.Pid
}

// State returns the current lifecycle state (atomic, lock-free read).
func (r *Run) State() State { return State(r.state.Load()) }

// Done is closed once the process has been reaped and its pipes released.
func (r *Run) Done() <-chan struct{} { return r.done }

// Outcome returns the final result. The boolean is false until Done is closed.
func (r *Run) Outcome() (Outcome, bool) {
	select {
	case <-r.done:
	default:
		return Outcome{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, true
}

// Err returns the terminal error once Done is closed: nil on success, a
// *ProcessFailure, or a cancellation error.
func (r *Run) Err() error {
	select {
	case <-r.done:
	default:
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close cancels the run if it is still running and blocks until the process
// has been reaped. It is idempotent.
func (r *Run) Close() error {
	if !r.State().IsDecided() {
		r.terminate(nil)
	}
	<-r.done
	return nil
}

// start launches the program. It never blocks on the program itself; every
// failure path ends with the run disposed and its queues closed.
func (r *Run) start(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		r.cancelBeforeStart(context.Cause(ctx))
		return
	}
	if r.preErr != nil {
		r.failLaunch(r.preErr)
		return
	}
	if err := r.req.Validate(); err != nil {
		r.failLaunch(err)
		return
	}
	enc, _ := lookupEncoding(r.req.Encoding)
	r.encoder = enc

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		r.failLaunch(fmt.Errorf("create stdout pipe: %w", err))
		return
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		r.failLaunch(fmt.Errorf("create stderr pipe: %w", err))
		return
	}

	cmd := r.newCmd(ctx, r.req.Path, r.req.Args...)
	r.req.applyTo(cmd)
	// Handing *os.File values to exec keeps it from starting copy goroutines
	// and from closing our read ends in Wait.
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	r.logger.Debug("starting process", "args", r.req.Args, "dir", r.req.Dir)
	err = cmd.Start()
	closeAll(stdoutW, stderrW)
	if err != nil {
		closeAll(stdoutR, stderrR)
		r.failLaunch(err)
		return
	}

	r.cmd = cmd
	r.stdoutR = stdoutR
	r.stderrR = stderrR
	r.state.Store(int32(StateRunning))
	r.stopWatch = context.AfterFunc(ctx, func() {
		r.terminate(context.Cause(ctx))
	})

	go r.supervise()
}

// supervise runs the two stream pumps and the exit watcher, then finalizes
// once all three have signalled.
func (r *Run) supervise() {
	var g errgroup.Group
	g.Go(r.pumpOutput)
	g.Go(r.pumpErrors)
	g.Go(r.watchExit)
	if err := g.Wait(); err != nil {
		r.logger.Warn("stream read error", "err", err)
	}
	r.finalize()
}

func (r *Run) pumpOutput() error {
	defer close(r.outputDrained)
	defer r.stdoutR.Close()

	if r.mode == modeBinary {
		_, err := io.Copy(&r.raw, r.stdoutR)
		return ignoreClosed(err)
	}
	return readLines(decodeReader(r.stdoutR, r.encoder), func(line string) {
		r.output.Write(line)
	})
}

func (r *Run) pumpErrors() error {
	defer close(r.errorDrained)
	defer r.stderrR.Close()

	return readLines(decodeReader(r.stderrR, r.encoder), func(line string) {
		r.errors.Append(line)
		if r.errQueue != nil {
			r.errQueue.Write(line)
		}
	})
}

func (r *Run) watchExit() error {
	defer close(r.exited)

	// The exit status is read from ProcessState; Wait's error only repeats it.
	_ = r.cmd.Wait()

	if r.mode == modeBinary {
		<-r.errorDrained
		if r.failed(r.exitCode(), r.errors.Len()) {
			// Nothing will be returned, so stop copying.
			_ = r.stdoutR.Close()
		}
	}
	return nil
}

func (r *Run) exitCode() types.ExitCode {
	ps := r.cmd.ProcessState
	if ps == nil {
		return types.ExitCodeLaunchFailed
	}
	// ExitCode reports -1 for a signal death, which would read as a launch
	// failure.
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return types.SignalExitCode(int(ws.Signal()))
	}
	return types.ExitCode(ps.ExitCode())
}

// failed decides the outcome. Any stderr text is a failure, except for dual
// runs where stderr is delivered to the caller as data.
func (r *Run) failed(code types.ExitCode, errorLines int) bool {
	if !r.accept.Contains(code) {
		return true
	}
	return r.mode != modeDual && errorLines > 0
}

func (r *Run) finalize() {
	<-r.exited
	<-r.outputDrained
	<-r.errorDrained

	code := r.exitCode()
	lines := r.errors.Freeze()
	failed := r.failed(code, len(lines))

	outcome := Outcome{ExitCode: code, ErrorLines: lines, Success: !failed}
	var failure *ProcessFailure
	if failed {
		failureLines := lines
		if r.mode == modeDual {
			failureLines = nil
		}
		failure = newFailure(r.req.String(), code, failureLines)
	}

	target := StateSucceeded
	if failed {
		target = StateFailed
	}
	if r.state.CompareAndSwap(int32(StateRunning), int32(target)) {
		r.setResult(outcome, errorOrNil(failure))
		r.closeQueues(errorOrNil(failure))
		r.logger.Debug("process finished",
			"exit_code", code, "error_lines", len(lines), "state", target)
	} else {
		outcome.Success = false
		outcome.Cancelled = true
		r.mu.Lock()
		r.outcome = outcome
		r.mu.Unlock()
	}
	r.release()
}

// terminate cancels a running program: the queues are closed with a
// cancellation error, the process is killed and the pipe read ends closed.
// It has no effect once an outcome has been decided.
func (r *Run) terminate(cause error) {
	if !r.state.CompareAndSwap(int32(StateRunning), int32(StateCancelled)) {
		return
	}
	err := cancellationError(cause)
	r.mu.Lock()
	r.err = err
	r.outcome.Cancelled = true
	r.mu.Unlock()
	r.closeQueues(err)

	r.logger.Debug("cancelling process", "cause", cause)
	if err := r.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		r.logger.Warn("kill process", "err", err)
	}
	closeAll(r.stdoutR, r.stderrR)
}

func (r *Run) failLaunch(cause error) {
	failure := newLaunchFailure(r.req.String(), cause)
	r.errors.Append(cause.Error())
	lines := r.errors.Freeze()

	r.state.Store(int32(StateFailed))
	r.setResult(Outcome{ExitCode: failure.ExitCode, ErrorLines: lines}, failure)
	r.closeQueues(failure)
	r.logger.Warn("process launch failed", "err", cause)

	close(r.outputDrained)
	close(r.errorDrained)
	close(r.exited)
	r.release()
}

func (r *Run) cancelBeforeStart(cause error) {
	err := cancellationError(cause)
	r.state.Store(int32(StateCancelled))
	r.setResult(Outcome{ExitCode: types.ExitCodeLaunchFailed, Cancelled: true}, err)
	r.closeQueues(err)

	close(r.outputDrained)
	close(r.errorDrained)
	close(r.exited)
	r.release()
}

func (r *Run) setResult(outcome Outcome, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcome = outcome
	r.err = err
}

// closeQueues closes stdout with err. The stderr queue of a dual run only
// carries cancellation; failures are reported through stdout.
func (r *Run) closeQueues(err error) {
	if r.output != nil {
		r.output.CloseWithError(err)
	}
	if r.errQueue != nil {
		if IsCancelled(err) {
			r.errQueue.CloseWithError(err)
		} else {
			r.errQueue.Close()
		}
	}
}

// release moves the run to Disposed exactly once.
func (r *Run) release() {
	if r.stopWatch != nil {
		r.stopWatch()
	}
	r.state.Store(int32(StateDisposed))
	close(r.done)
}

// binaryResult returns the captured bytes of a binary run.
func (r *Run) binaryResult() ([]byte, error) {
	<-r.done
	if err := r.Err(); err != nil {
		return nil, err
	}
	return bytes.Clone(r.raw.Bytes()), nil
}

// readLines splits src into lines, stripping "\n", "\r\n" and a trailing
// "\r". A final unterminated line is delivered; a trailing terminator does
// not produce an empty line.
func readLines(src io.Reader, emit func(string)) error {
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			emit(line)
		}
		if err != nil {
			return ignoreClosed(err)
		}
	}
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

func errorOrNil(f *ProcessFailure) error {
	if f == nil {
		return nil
	}
	return f
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}
