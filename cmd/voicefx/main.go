// Command voicefx records voice clips and applies the voice effect catalog
// to them.
//
// Usage:
//
//	voicefx [global flags] <command> [flags] [args]
//
// Commands:
//
//	record      record from the default input device until Ctrl+C or -duration
//	apply       apply one effect to a WAV file
//	render-all  apply every effect to a WAV file concurrently
//	presets     list, show, save or delete Custom presets
//	play        play a WAV file through the configured playback backend
//	devices     list audio devices
//
// Examples:
//
//	voicefx record -duration 5s -out take.wav
//	voicefx apply -in take.wav -effect "high pitch" -out take-high.wav
//	voicefx apply -in take.wav -preset chipmunk -out take-chip.wav
//	voicefx render-all -in take.wav -out-dir renders
//	voicefx presets save -speed 80 -volume 55 chipmunk
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"record", "record from the default input device", runRecord},
	{"apply", "apply one effect to a WAV file", runApply},
	{"render-all", "apply every effect to a WAV file", runRenderAll},
	{"presets", "manage Custom presets", runPresets},
	{"play", "play a WAV file", runPlay},
	{"devices", "list audio devices", runDevices},
}

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("voicefx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var g globalFlags
	fs.StringVar(&g.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (overrides config)")
	fs.StringVar(&g.logFormat, "log-format", "", "log format: text or json (overrides config)")
	fs.StringVar(&g.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (overrides config)")
	fs.StringVar(&g.presetsFile, "presets", "", "preset file (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: voicefx [global flags] <command> [flags] [args]\n\nCommands:\n")

		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-11s %s\n", c.name, c.summary)
		}

		fmt.Fprintf(stderr, "\nGlobal flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	name := fs.Arg(0)

	var cmd *command

	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}

	if cmd == nil {
		fmt.Fprintf(stderr, "voicefx: unknown command %q\n", name)
		fs.Usage()

		return exitUsage
	}

	a, err := newApp(g, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "voicefx: %v\n", err)
		return exitError
	}
	defer a.close()

	if err := cmd.run(ctx, a, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		fmt.Fprintf(stderr, "voicefx %s: %v\n", name, err)

		if errors.Is(err, errUsage) {
			return exitUsage
		}

		return exitError
	}

	return exitOK
}

func newFlagSet(a *app, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: voicefx %s %s\n\n", name, usage)
		fs.PrintDefaults()
	}

	return fs
}

// parseFlags parses args and maps parse failures to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return fmt.Errorf("%w: %v", errUsage, err)
	}

	return nil
}
