package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/selmc.go/pkg/axis"
	"github.com/robotalks/selmc.go/pkg/remote"
	"github.com/robotalks/selmc.go/pkg/run"
)

func init() {
	axis.SetupFlags()
	remote.SetupFlags()
}

func main() {
	flag.Parse()

	dev, err := axis.NewConfig().Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer dev.Close()

	bridge, err := remote.New(remote.NewConfig(), dev)
	if err != nil {
		log.Fatalln(err)
	}
	if err := run.NewRunner().HandleSignals().Go(bridge).Wait(); err != nil {
		log.Fatalln(err)
	}
}
