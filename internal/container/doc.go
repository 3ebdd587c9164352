// SPDX-License-Identifier: MPL-2.0

// Package container lists and removes container images and containers through
// the Docker or Podman command-line interface.
//
// Every engine command runs through the process pipeline: its stdout lines
// are consumed as a sequence and parsed into typed records, and any stderr
// output or unexpected exit code fails the operation. Listing commands ask
// the engine for tab-separated --format output, so rows split on tabs rather
// than on header column offsets. Rows with the wrong number of fields are
// reported as *MalformedRowError values next to the parsed records instead of
// aborting the listing.
//
// Engine selection uses NewEngine(EngineType) with automatic fallback if the
// preferred engine is unavailable, or AutoDetectEngine() for preference-less
// detection (Podman is tried first).
package container
