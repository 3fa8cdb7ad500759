package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-voicefx/dsp/effects"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/wavio"
)

func runApply(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "apply", "-in FILE [flags]")
	in := fs.String("in", "", "input WAV file")
	out := fs.String("out", "", "output WAV file (default <in>-<effect>.wav)")
	play := fs.Bool("play", false, "play the result")

	var ef effectFlags
	ef.register(fs, "")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *in == "" {
		return fmt.Errorf("%w: -in is required", errUsage)
	}

	req, err := ef.request(a)
	if err != nil {
		return err
	}

	buf, err := wavio.Decode(*in)
	if err != nil {
		return err
	}

	result, err := a.applyEffect(ctx, buf, req)
	if err != nil {
		return err
	}

	label := "none"
	if req.Kind != kindNone {
		label = req.Kind.String()
	}

	path := *out
	if path == "" {
		slug := "none"
		if req.Kind != kindNone {
			slug = req.Kind.Slug()
		}

		path = suffixPath(*in, slug)
	}

	if err := wavio.Encode(result, path); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\t%s\t%d samples @ %d Hz\n", path, label, result.Len(), result.SampleRate())

	if *play {
		return a.play(ctx, result, label)
	}

	return nil
}

type rendered struct {
	kind effects.Kind
	path string
	buf  *pcm.Buffer
}

func runRenderAll(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "render-all", "-in FILE [flags]")
	in := fs.String("in", "", "input WAV file")
	outDir := fs.String("out-dir", a.cfg.Capture.OutputDir, "directory for the rendered files")
	jobs := fs.Int("jobs", runtime.GOMAXPROCS(0), "effects rendered in parallel")

	var ef effectFlags
	ef.register(fs, "custom")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *in == "" {
		return fmt.Errorf("%w: -in is required", errUsage)
	}

	custom, err := ef.request(a)
	if err != nil {
		return err
	}

	if custom.Kind != effects.KindCustom {
		custom = effects.CustomFromSliders(ef.speed, ef.volume, ef.reverse)
	}

	buf, err := wavio.Decode(*in)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	base := filepath.Join(*outDir, filepath.Base(*in))
	kinds := effects.Kinds()
	results := make([]rendered, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))

	for i, kind := range kinds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			req := effects.For(kind)
			if kind == effects.KindCustom {
				req = custom
			}

			out, err := a.applyEffect(gctx, buf, req)
			if err != nil {
				return err
			}

			path := suffixPath(base, kind.Slug())
			if err := wavio.Encode(out, path); err != nil {
				return err
			}

			results[i] = rendered{kind: kind, path: path, buf: out}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(a.stdout, "%s\t%s\t%d samples @ %d Hz\n", r.path, r.kind, r.buf.Len(), r.buf.SampleRate())
	}

	return nil
}
