package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/usersapi/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   listen address (e.g. ":3000")
//	-m string   run mode
//	-d string   database file
//	-l string   log level
//
// Only these flags are picked out of args, so -c and unknown flags do not
// cause a parse error.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.Mode, "m", config.Mode, "run mode (development, production, test)")
	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
