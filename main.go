package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-progressive-raytracer/cmd"
)

func main() {
	app := cli.NewApp()
	app.Name = "raytracer"
	app.Usage = "render scenes with an unbiased Monte Carlo path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "render",
			Usage:  "render the built-in demo scene",
			Action: cmd.Render,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 400,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 225,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 64,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: 25,
					Usage: "maximum path depth (path integrator only)",
				},
				cli.BoolFlag{
					Name:  "no-nee",
					Usage: "disable next-event estimation (path integrator only)",
				},
				cli.StringFlag{
					Name:  "integrator",
					Value: "path",
					Usage: "integrator to use: path, direct, normals, or bvh",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "worker goroutine count (0 means runtime.NumCPU())",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "render",
					Usage: "output filename without extension; writes <out>.exr and <out>.png",
				},
			},
		},
		{
			Name:   "devices",
			Usage:  "list available render worker capacity",
			Action: cmd.Devices,
		},
	}

	if err := app.Run(os.Args); err != nil {
		cmd.Fatal(err)
	}
}
