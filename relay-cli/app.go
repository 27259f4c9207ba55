// Package relaycli provides common CLI utilities and boilerplate for the relay
// and watcher commands.
//
// This package includes standardized service configuration, env-backed CLI
// flags, structured logging setup, CloudWatch metrics and build information
// tracking.
package relaycli

import (
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v2"
)

func App(service Service, action cli.ActionFunc, flags ...cli.Flag) *cli.App {
	return &cli.App{
		Name:                 service.Name,
		Usage:                fmt.Sprintf("%v server", service.Name),
		Version:              service.Version,
		EnableBashCompletion: true,
		Before:               InitCommonOpts,
		Action:               action,
		Flags:                flags,
	}
}

// InitCommonOpts validates the common options after flag parsing.
func InitCommonOpts(c *cli.Context) error {
	if _, err := ParseLevel(CommonOpts.LogLevel); err != nil {
		return err
	}
	return nil
}

func CommitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
		return info.Main.Version
	}
	return "unknown"
}
