// Command storefront browses the gallery catalog, manages the cart, runs the
// checkout and exposes the back-office operations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/niksmo/galeria/config"
	"github.com/niksmo/galeria/internal/adapter/apiclient"
	"github.com/niksmo/galeria/internal/app"
	"github.com/niksmo/galeria/internal/core/domain"
	"github.com/niksmo/galeria/pkg/sigctx"
)

var errUsage = errors.New("invalid usage")

type env struct {
	app *app.App
	out io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, e env, args []string) error
}

var commands = map[string]command{
	"catalog":   {"catalog list|categories|show|layout", runCatalog},
	"digital":   {"digital list|show", runDigital},
	"cart":      {"cart show|add|add-digital|remove|clear", runCart},
	"checkout":  {"checkout --name N --email E [--wait]", runCheckout},
	"contact":   {"contact --name N --email E --message M", runContact},
	"subscribe": {"subscribe EMAIL [--name N]", runSubscribe},
	"login":     {"login --email E --password P", runLogin},
	"logout":    {"logout", runLogout},
	"whoami":    {"whoami", runWhoami},
	"admin":     {"admin artworks|digital|messages|orders|contacts|finances|notes|agenda ...", runAdmin},
	"config":    {"config", runConfig},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	config.RegisterFlag(global)
	global.Usage = func() { usage(stderr) }

	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", rest[0])
		usage(stderr)
		return 2
	}

	cfg, err := config.LoadFrom(config.FilePath(global))
	if err != nil {
		printErr(stderr, err)
		return 2
	}

	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	a := app.New(sigCtx, cfg)
	defer a.Close()

	if err := cmd.run(sigCtx, env{app: a, out: stdout}, rest[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%v\nusage: storefront %s\n", err, cmd.usage)
			return 2
		}
		printErr(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: storefront [--config FILE] COMMAND [ARGS]")
	fmt.Fprintln(w, "\ncommands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func printErr(w io.Writer, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(w, "invalid input:")
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
		}
	case errors.Is(err, apiclient.ErrNoAuthToken):
		fmt.Fprintln(w, "not logged in, run: storefront login")
	case errors.Is(err, apiclient.ErrAuthExpired):
		fmt.Fprintln(w, "session expired, log in again")
	case errors.Is(err, apiclient.ErrNetwork):
		fmt.Fprintf(w, "backend unreachable: %v\n", err)
	case apiclient.StatusOf(err) == http.StatusNotFound:
		fmt.Fprintf(w, "not found: %v\n", err)
	case apiclient.StatusOf(err) == http.StatusForbidden:
		fmt.Fprintln(w, "permission denied, an admin account is required")
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

func runConfig(_ context.Context, e env, args []string) error {
	if _, err := parse(newFlags("config"), args, 0); err != nil {
		return err
	}
	return e.app.Config().Print(e.out)
}

// sub splits "group verb args..." and picks the handler for verb.
func sub(
	ctx context.Context, e env, args []string,
	verbs map[string]func(context.Context, env, []string) error,
) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing subcommand", errUsage)
	}
	fn, ok := verbs[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown subcommand %q", errUsage, args[0])
	}
	return fn(ctx, e, args[1:])
}

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses fs and requires exactly n positional arguments.
func parse(fs *pflag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != n {
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", errUsage, n, fs.NArg())
	}
	return fs.Args(), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
