// Command reqcache runs cached requests against a configured record store.
//
// Usage:
//
//	reqcache [--config file] get <key> <url> [--max-age d] [--bind-identity] [--token jwt]
//	reqcache [--config file] get-many <url> <key>...
//	reqcache [--config file] remove <key> [--bind-identity] [--token jwt]
//	reqcache [--config file] health
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
)

// errUsage is returned for malformed command lines.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	global := flag.NewFlagSet("reqcache", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() {}
	global.StringVarP(&opts.configPath, "config", "c", "", "config file (yaml, toml or json)")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stdout)
			return 0
		}
		usage(stderr)
		return 2
	}

	args = global.Args()
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var cmd func(context.Context, *options, []string, io.Writer) error
	switch args[0] {
	case "get":
		cmd = cmdGet
	case "get-many":
		cmd = cmdGetMany
	case "remove":
		cmd = cmdRemove
	case "health":
		cmd = cmdHealth
	case "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "reqcache: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	fs := opts.flagSet(args[0], stderr)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	err := cmd(ctx, opts, fs.Args(), stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "reqcache %s: %v\n", args[0], err)
		return 2
	default:
		fmt.Fprintf(stderr, "reqcache %s: %v\n", args[0], err)
		return 1
	}
}

// options are the flags shared by all commands.
type options struct {
	configPath   string
	token        string
	bindIdentity bool
	maxAge       time.Duration
	parallel     int
}

func (o *options) flagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	// A --config given before the command is the default here.
	fs.StringVarP(&o.configPath, "config", "c", o.configPath, "config file (yaml, toml or json)")

	switch name {
	case "get", "remove":
		fs.StringVar(&o.token, "token", "", "JWT identifying the current user")
		fs.BoolVar(&o.bindIdentity, "bind-identity", false, "scope the key to the current user")
	}
	switch name {
	case "get":
		fs.DurationVar(&o.maxAge, "max-age", 0, "maximum age of a served cached record")
	case "get-many":
		fs.IntVarP(&o.parallel, "parallel", "p", 4, "maximum concurrent requests")
	}
	return fs
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage:
  reqcache [--config file] get <key> <url> [--max-age d] [--bind-identity] [--token jwt]
  reqcache [--config file] get-many [--parallel n] <url> <key>...
  reqcache [--config file] remove <key> [--bind-identity] [--token jwt]
  reqcache [--config file] health
`)
}
