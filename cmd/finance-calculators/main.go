// Command finance-calculators runs the loan, growth, rate conversion and
// cash-flow calculators from the command line or as an HTTP API.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/joho/godotenv"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configLocation   = flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag = flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel         = flag.String("log-level", "", "log level override (debug, info, warn, error)")
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&amortizeCmd{}, "calculators")
	commander.Register(&growthCmd{}, "calculators")
	commander.Register(&ratesCmd{}, "calculators")
	commander.Register(&irrCmd{}, "calculators")
	commander.Register(&serveCmd{}, "server")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
