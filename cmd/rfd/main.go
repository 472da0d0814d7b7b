package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	fx "github.com/robotalks/rfsend/pkg/framework"
	"github.com/robotalks/rfsend/pkg/radio"
	"github.com/robotalks/rfsend/pkg/rfd"
)

func init() {
	radio.SetupFlags()
	rfd.SetupFlags()
}

func main() {
	flag.Parse()

	d := rfd.NewConfig().MustNewDaemon(radio.NewConfig())
	if err := fx.NewRunner().HandleSignals().Go(d).Wait(); err != nil {
		log.Fatalln(err)
	}
}
