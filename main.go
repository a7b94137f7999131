// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/g2rain/archrel/cmd/archrel"

func main() {
	cmd.Execute()
}
