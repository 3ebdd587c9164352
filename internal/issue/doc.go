// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints; it can link to a catalog Issue whose Markdown help is
// rendered for the terminal with glamour.
package issue
