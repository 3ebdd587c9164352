// SPDX-License-Identifier: MPL-2.0

// Package platform holds OS name constants and detection of application
// sandboxes (Flatpak, Snap) from which host binaries such as the container
// engine CLI must be launched through a spawn helper.
package platform
