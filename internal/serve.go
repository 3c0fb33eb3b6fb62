package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"os"
	"path/filepath"
)

var ErrNoDevServer = errors.New("profile does not define a dev server port")

// Serve watches the profile's entry and serves its output folder on the dev server port
// until ctx is cancelled.
func Serve(ctx context.Context, p BuildProfile, opts BundleOptions) error {
	if p.DevServerPort == nil {
		return fmt.Errorf("cannot serve profile '%s': %w", p.Name, ErrNoDevServer)
	}
	logger := zerolog.Ctx(ctx).With().Str("profile", p.Name).Logger()

	buildOpts, err := buildOptions(p, opts)
	if err != nil {
		return err
	}
	outDir := p.OutputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(buildOpts.AbsWorkingDir, outDir)
	}
	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	buildOpts.Outfile = filepath.Join(outDir, p.OutputFilename)
	buildOpts.Write = true
	buildOpts.Sourcemap = api.SourceMapLinked

	buildCtx, ctxErr := api.Context(buildOpts)
	if ctxErr != nil {
		return fmt.Errorf("error creating build context for profile '%s': %w", p.Name, messagesToError(ctxErr.Errors))
	}
	defer buildCtx.Dispose()

	if err = buildCtx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("error watching '%s': %w", p.EntryPath, err)
	}

	serveOpts := api.ServeOptions{Servedir: outDir, Host: opts.ServeHost, Port: *p.DevServerPort}
	if _, err = buildCtx.Serve(serveOpts); err != nil {
		return fmt.Errorf("error starting dev server on port %d: %w", *p.DevServerPort, err)
	}
	logger.Info().Int("port", *p.DevServerPort).Str("dir", outDir).Msg("Dev server started")

	<-ctx.Done()
	logger.Info().Msg("Dev server stopping")
	return nil
}
