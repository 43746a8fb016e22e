package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
)

// Devices lists the worker capacity the renderer can use. There is no GPU
// path in this module, so "devices" means logical CPUs and the current
// GOMAXPROCS ceiling rather than an OpenCL platform/device enumeration.
func Devices(ctx *cli.Context) error {
	fmt.Printf("logical CPUs: %d\n", runtime.NumCPU())
	fmt.Printf("GOMAXPROCS:   %d\n", runtime.GOMAXPROCS(0))
	return nil
}
