package config

import (
	"flag"
	"os"
	"time"

	"github.com/ourunion/unionhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-s string   base URL of the backend server
//	-f string   path of the local cache database
//	-p int      poll interval in seconds
//
// Args are filtered to the flags owned here so other packages' flags do
// not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-f", "-p"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.CacheDSN, "f", cfg.CacheDSN, "path of the local cache database")
	pollInterval := fs.Int("p", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
