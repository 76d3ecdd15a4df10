package main

import (
	"github.com/robotalks/selmc.go/pkg/axis"
	"github.com/robotalks/selmc.go/pkg/cli/sh"

	_ "github.com/robotalks/selmc.go/pkg/cli/cmds/axis"
)

//go-build: CGO_ENABLED=0

func init() {
	axis.SetupFlags()
}

func main() {
	sh.Main()
}
