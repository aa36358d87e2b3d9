// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/digitallib/kramerius-go/internal/cli"

func main() {
	cli.Execute()
}
