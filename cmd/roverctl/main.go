package main

import (
	"github.com/roverbotics/rover.go/pkg/cli/teleop"
)

//go-build: CGO_ENABLED=0

func main() {
	teleop.Main()
}
