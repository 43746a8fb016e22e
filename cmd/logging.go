package cmd

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-progressive-raytracer/pkg/logging"
)

var logger = logging.New("cmd")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("vv") {
		logging.SetLevel(logging.Debug)
	} else if ctx.GlobalBool("v") {
		logging.SetLevel(logging.Info)
	}
}

// Fatal logs err and exits with a non-zero status, for main's top-level
// app.Run error.
func Fatal(err error) {
	logger.Error(err)
	os.Exit(1)
}
