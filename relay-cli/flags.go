package relaycli

import (
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

var CommonOpts struct {
	Console  bool
	Env      string
	Port     int
	LogLevel string
	Pretty   bool
	Metrics  bool
}

// EnvName converts a flag name into its environment variable, e.g. webhook-url
// becomes WEBHOOK_URL.
func EnvName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func StringFlag(name, usage string, destination *string, value ...string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:        name,
		Usage:       usage,
		EnvVars:     []string{EnvName(name)},
		Destination: destination,
	}
	if len(value) > 0 {
		flag.Value = value[0]
	}
	return flag
}

func BoolFlag(name, usage string, destination *bool) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        name,
		Usage:       usage,
		EnvVars:     []string{EnvName(name)},
		Destination: destination,
	}
}

func DurationFlag(name, usage string, destination *time.Duration, value time.Duration) *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:        name,
		Usage:       usage,
		Value:       value,
		EnvVars:     []string{EnvName(name)},
		Destination: destination,
	}
}

// ConsoleFlag selects between a long running process (true) and a lambda
// handler (false).
var ConsoleFlag = func(value bool) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "console",
		Usage:       "whether to run in console mode or lambda mode",
		Value:       value,
		EnvVars:     []string{"CONSOLE"},
		Destination: &CommonOpts.Console,
	}
}
var EnvFlag = cli.StringFlag{
	Name:        "env",
	Usage:       "environment",
	Value:       "local",
	EnvVars:     []string{"ENV"},
	Destination: &CommonOpts.Env,
}
var LogLevelFlag = cli.StringFlag{
	Name:        "log-level",
	Usage:       "minimum log level (trace, debug, info, warn, error)",
	Value:       "info",
	EnvVars:     []string{"LOG_LEVEL"},
	Destination: &CommonOpts.LogLevel,
}
var PrettyFlag = cli.BoolFlag{
	Name:        "pretty",
	Usage:       "write human readable logs instead of json",
	EnvVars:     []string{"PRETTY"},
	Destination: &CommonOpts.Pretty,
}
var MetricsFlag = cli.BoolFlag{
	Name:        "metrics",
	Usage:       "publish CloudWatch metrics",
	EnvVars:     []string{"METRICS"},
	Destination: &CommonOpts.Metrics,
}
var PortFlag = func(p int) *cli.IntFlag {
	return &cli.IntFlag{
		Name:        "port",
		Usage:       "Port to listen to, if running locally",
		Value:       p,
		EnvVars:     []string{"PORT"},
		Destination: &CommonOpts.Port,
	}
}

var CommonFlags = []cli.Flag{
	&EnvFlag,
	&LogLevelFlag,
	&PrettyFlag,
	&MetricsFlag,
}
