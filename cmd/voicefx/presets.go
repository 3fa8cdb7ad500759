package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/cwbudde/algo-voicefx/preset"
)

const presetsUsage = "list | show NAME | save [-speed N] [-volume N] [-reverse N] NAME | delete NAME"

func runPresets(_ context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s", errUsage, presetsUsage)
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		presets, err := a.presets.Load()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSPEED\tVOLUME\tREVERSE")

		for _, name := range preset.Names(presets) {
			p := presets[name]
			fmt.Fprintf(w, "%s\t%d\t%d\t%t\n", name, p.Speed, p.Volume, p.Reverse)
		}

		return w.Flush()

	case "show":
		name, err := oneName(rest)
		if err != nil {
			return err
		}

		p, err := preset.Get(a.presets, name)
		if err != nil {
			return err
		}

		fmt.Fprintf(a.stdout, "%s\tspeed=%d\tvolume=%d\treverse=%t\n", name, p.Speed, p.Volume, p.Reverse)

		return nil

	case "save":
		fs := newFlagSet(a, "presets save", "[flags] NAME")
		speed := fs.Int("speed", 0, "speed control, 0..100")
		volume := fs.Int("volume", 50, "volume control, 0..100")
		reverse := fs.Int("reverse", 0, "reverse control, 0..100 (above 50 reverses)")

		if err := parseFlags(fs, rest); err != nil {
			return err
		}

		name, err := oneName(fs.Args())
		if err != nil {
			return err
		}

		if err := preset.Put(a.presets, name, preset.FromSliders(*speed, *volume, *reverse)); err != nil {
			return err
		}

		fmt.Fprintf(a.stdout, "saved %s\n", name)

		return nil

	case "delete":
		name, err := oneName(rest)
		if err != nil {
			return err
		}

		if err := preset.Delete(a.presets, name); err != nil {
			return err
		}

		fmt.Fprintf(a.stdout, "deleted %s\n", name)

		return nil

	default:
		return fmt.Errorf("%w: unknown presets command %q; %s", errUsage, sub, presetsUsage)
	}
}

func oneName(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected exactly one preset name", errUsage)
	}

	return args[0], nil
}
