// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the procline CLI: running programs with streamed
// output, and listing or removing container images through docker/podman.
package cmd
