// SPDX-License-Identifier: MPL-2.0

// Command buildlogic resolves a multi-module build description into
// per-module configuration plans.
package main

import cmd "github.com/mardroemmar/buildlogic/cmd/buildlogic"

func main() {
	cmd.Execute()
}
