// Copyright 2025 The FireFinder Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/aduamah/firefinder/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
