// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type (
	// ActionableError is a user-facing error: the operation that failed, the
	// program, image or path involved, what to try next and, optionally, the
	// catalog issue that explains the failure at length.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("run program").
	//		WithResource("ffmpeg -i in.mp4").
	//		WithIssue(issue.ExecutableNotFoundId).
	//		WithSuggestion("Install ffmpeg or pass its absolute path").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		Operation   string
		Resource    string
		Suggestions []string
		// Issue is 0 when no catalog entry applies.
		Issue Id
		Cause error
	}

	// ErrorContext accumulates the fields of an ActionableError. Build copies
	// them, so one context can produce several errors.
	ErrorContext struct {
		built ActionableError
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithContext attaches an operation and resource to err. It returns nil
// for a nil err.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders Error followed by one bullet per suggestion. Verbose output
// also lists every error in the cause chain, outermost first.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteByte('\n')
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if chain := causeChain(e.Cause); verbose && len(chain) > 0 {
		b.WriteString("\n\nError chain:")
		for i, msg := range chain {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
		}
	}
	return b.String()
}

// HasSuggestions reports whether there is anything to try next.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Help renders the linked catalog issue with the given glamour style, or ""
// when there is none or rendering fails.
func (e *ActionableError) Help(stylePath string) string {
	entry := Get(e.Issue)
	if entry == nil {
		return ""
	}
	out, err := entry.Render(stylePath)
	if err != nil {
		return ""
	}
	return out
}

// causeChain follows single-error Unwrap links from err.
func causeChain(err error) []string {
	var chain []string
	for ; err != nil; err = errors.Unwrap(err) {
		chain = append(chain, err.Error())
	}
	return chain
}

// WithOperation sets the failed operation, a verb phrase such as
// "run program" or "remove image".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.built.Operation = op
	return c
}

// WithResource sets the program, image or path involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.built.Resource = res
	return c
}

// WithSuggestion appends one suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.built.Suggestions = append(c.built.Suggestions, sug)
	return c
}

// WithSuggestions appends several suggestions.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.built.Suggestions = append(c.built.Suggestions, sugs...)
	return c
}

// WithIssue links the catalog issue.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.built.Issue = id
	return c
}

// Wrap sets the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.built.Cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.built.Operation == "" {
		return nil
	}
	ae := c.built
	ae.Suggestions = slices.Clone(c.built.Suggestions)
	return &ae
}

// BuildError is Build typed as error, so a missing operation yields a nil
// interface rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
