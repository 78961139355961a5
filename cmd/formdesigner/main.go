// formdesigner is the command line front end of the form designer: it lists
// field types, renders definitions, fills them in the terminal, exports
// submission schemas and manages stored forms.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formdesigner/internal/config"
	"github.com/goliatone/go-formdesigner/pkg/logger"
)

// command is one subcommand. run receives the arguments after the name.
type command struct {
	summary string
	run     func(ctx context.Context, app *app, args []string) error
}

var commands = map[string]command{
	"types":       {summary: "list the registered field types", run: runTypes},
	"render":      {summary: "render a definition file in design, properties or fill mode", run: runRender},
	"fill":        {summary: "fill a definition file in the terminal and print the payload", run: runFill},
	"schema":      {summary: "print the OpenAPI document of a definition's submissions", run: runSchema},
	"new":         {summary: "create a stored form, optionally from a definition file", run: runNew},
	"list":        {summary: "list stored forms and their stats", run: runList},
	"publish":     {summary: "publish a stored form", run: runPublish},
	"submissions": {summary: "print the submissions of a stored form as a table", run: runSubmissions},
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		verbose    bool
	)
	global := pflag.NewFlagSet("formdesigner", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.StringVarP(&configPath, "config", "c", os.Getenv("FORMDESIGNER_CONFIG"), "path to the YAML configuration file")
	global.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	global.SetInterspersed(false)
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr, global)
		return errors.New("missing command")
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		printUsage(stderr, global)
		return fmt.Errorf("unknown command %q", rest[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	a := newApp(cfg, log, stdout, stderr)
	defer a.close()
	return cmd.run(ctx, a, rest[1:])
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: formdesigner [global flags] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags:")
	fmt.Fprint(w, strings.TrimRight(global.FlagUsages(), "\n")+"\n")
}
