package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/cwbudde/algo-voicefx/capture"
)

func runDevices(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "devices", "")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	pa := capture.NewPortAudioBackend()
	if err := pa.Initialize(); err != nil {
		return err
	}
	defer func() { _ = pa.Terminate() }()

	devs, err := pa.Devices()
	if err != nil {
		return err
	}

	printDevices(a, devs)

	return nil
}

func printDevices(a *app, devs []capture.DeviceInfo) {
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHOST API\tIN\tOUT\tRATE\tDEFAULT")

	for _, d := range devs {
		def := ""

		switch {
		case d.DefaultInput && d.DefaultOutput:
			def = "in,out"
		case d.DefaultInput:
			def = "in"
		case d.DefaultOutput:
			def = "out"
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f\t%s\n",
			d.Name, d.HostAPI, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate, def)
	}

	_ = w.Flush()
}
