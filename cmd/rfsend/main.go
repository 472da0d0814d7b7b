package main

import (
	"github.com/robotalks/rfsend/pkg/cli/sh"
	"github.com/robotalks/rfsend/pkg/radio"

	_ "github.com/robotalks/rfsend/pkg/cli/cmds/rfsend"
)

//go-build: CGO_ENABLED=0

func init() {
	radio.SetupFlags()
}

func main() {
	sh.Main()
}
