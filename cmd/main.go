// Package main enables flagshape to execute as a CLI tool
package main

import (
	"os"

	"github.com/pouriyajamshidi/flagshape/internal/app"
)

func main() {
	os.Exit(app.Run())
}
