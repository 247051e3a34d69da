package main

import (
	"os"

	"github.com/kailas-cloud/osvector/internal/app"
	"github.com/kailas-cloud/osvector/internal/cli"
	"github.com/kailas-cloud/osvector/internal/version"
)

func main() {
	cmd := cli.NewRootCommand(version.Version, version.Commit, version.Date, app.NewInvokeService)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
