// SPDX-License-Identifier: MPL-2.0

package process

import (
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/invowk/procline/pkg/types"
)

// stdinWaitDelay bounds how long Wait keeps copying Stdin after the program
// has exited. A reader that never reaches EOF would otherwise block it.
const stdinWaitDelay = 2 * time.Second

// Request describes one program invocation.
type Request struct {
	// Path is the executable, resolved through PATH when it has no separator.
	Path string
	// Args are passed to the program verbatim; no shell is involved.
	Args []string
	// Dir is the working directory. Empty inherits the caller's.
	Dir types.FilesystemPath
	// Env holds overrides applied on top of the inherited environment.
	Env map[string]string
	// Encoding names the character encoding of both output streams
	// (for example "shift_jis"). Empty means the executor default.
	Encoding string
	// AcceptableExitCodes overrides the executor default when non-nil.
	AcceptableExitCodes types.ExitCodeSet
	// Stdin feeds the program's standard input. Nil connects it to the null
	// device.
	Stdin io.Reader
}

// Validate checks the request for values that can never launch.
func (r Request) Validate() error {
	var errs []error
	if strings.TrimSpace(r.Path) == "" {
		errs = append(errs, ErrEmptyCommand)
	}
	if err := r.Dir.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := r.AcceptableExitCodes.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := lookupEncoding(r.Encoding); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// String renders the command line for logs and error messages.
func (r Request) String() string {
	return strings.Join(append([]string{r.Path}, r.Args...), " ")
}

// clone returns a deep copy so that later mutation by the caller cannot
// affect a started run.
func (r Request) clone() Request {
	r.Args = slices.Clone(r.Args)
	r.Env = maps.Clone(r.Env)
	r.AcceptableExitCodes = r.AcceptableExitCodes.Clone()
	return r
}

// applyTo copies the working directory, standard input and environment
// overrides onto cmd.
func (r Request) applyTo(cmd *exec.Cmd) {
	if r.Dir.IsSet() {
		cmd.Dir = string(r.Dir)
	}
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
		cmd.WaitDelay = stdinWaitDelay
	}
	if len(r.Env) == 0 {
		return
	}
	// A nil Env means "inherit everything"; once set, only listed vars are
	// passed, so start from the parent environment.
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	for _, k := range slices.Sorted(maps.Keys(r.Env)) {
		cmd.Env = append(cmd.Env, k+"="+r.Env[k])
	}
}
