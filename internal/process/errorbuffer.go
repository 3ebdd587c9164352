// SPDX-License-Identifier: MPL-2.0

package process

import (
	"slices"
	"sync"
)

// ErrorBuffer accumulates stderr lines while a run is active. It is
// append-only until Freeze, after which appends are dropped.
type ErrorBuffer struct {
	mu     sync.Mutex
	lines  []string
	frozen bool
}

// Append records line. It returns false once the buffer is frozen.
func (b *ErrorBuffer) Append(line string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return false
	}
	b.lines = append(b.lines, line)
	return true
}

// Len returns the number of captured lines.
func (b *ErrorBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Lines returns a copy of the captured lines.
func (b *ErrorBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.lines)
}

// Freeze stops further appends and returns a snapshot of the lines.
func (b *ErrorBuffer) Freeze() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	return slices.Clone(b.lines)
}
