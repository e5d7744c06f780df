//go:build !gl

package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/meshforge/internal/config"
)

func cmdView(cfg *config.Config, args []string) {
	fmt.Fprintln(os.Stderr, "meshtool was built without OpenGL support; rebuild with -tags gl")
	os.Exit(1)
}
