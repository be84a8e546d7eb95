package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/perfgo/covfix/cli"
)

// Version information, set by goreleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := cli.New()
	c.SetVersion(version, commit, date)
	err := c.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		log.Print(err)
		os.Exit(cli.ExitCode(err))
	}
}
