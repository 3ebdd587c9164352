// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/procline/cmd/procline"

func main() {
	cmd.Execute()
}
