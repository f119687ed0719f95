// Daycount - A day counter widget
//
// Daycount counts the days since a start date and renders them over a
// gradient background drawn from a photo's palette.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/daycount/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
