package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"os"
	"path/filepath"
)

// BundleOptions carry the settings shared by every profile of one invocation.
type BundleOptions struct {
	// WorkDir is the directory entry paths are resolved against. Defaults to the cwd.
	WorkDir string
	// Banner is a text/template rendered with TemplateVars and prepended to the bundle.
	Banner string
	// ServeHost is the interface the dev server listens on. Empty means esbuild's default.
	ServeHost string
}

type BuildResult struct {
	Profile    string
	OutputPath string
	Size       int64
	Warnings   []string
}

func buildOptions(p BuildProfile, opts BundleOptions) (api.BuildOptions, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return api.BuildOptions{}, err
		}
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return api.BuildOptions{}, err
	}

	tVars := NewTemplateVars(p)
	banner, err := tVars.ApplyBannerTemp(opts.Banner)
	if err != nil {
		return api.BuildOptions{}, fmt.Errorf("error rendering banner for profile '%s': %w", p.Name, err)
	}

	buildOpts := api.BuildOptions{
		EntryPoints:       []string{p.EntryPath},
		AbsWorkingDir:     workDir,
		Outfile:           p.OutputFilename,
		Bundle:            true,
		Write:             false,
		MinifyIdentifiers: p.Minify,
		MinifySyntax:      p.Minify,
		MinifyWhitespace:  p.Minify,
		Platform:          api.PlatformBrowser,
		Format:            formatFor(p.LibraryTarget),
		Target:            api.ES2015,
		Define: map[string]string{
			"process.env.NODE_ENV": fmt.Sprintf("%q", p.Mode),
		},
		LogLevel: api.LogLevelSilent,
	}
	if banner != "" {
		buildOpts.Banner = map[string]string{"js": banner}
	}
	if p.LibraryTarget == "this" {
		buildOpts.GlobalName = thisExportsName
		buildOpts.Footer = map[string]string{"js": "Object.assign(this, " + thisExportsName + ");"}
	}
	return buildOpts, nil
}

// thisExportsName holds the entry module's exports until the footer copies them onto this.
const thisExportsName = "incbundleExports"

func formatFor(libraryTarget string) api.Format {
	switch libraryTarget {
	case "commonjs", "commonjs2":
		return api.FormatCommonJS
	case "module":
		return api.FormatESModule
	default:
		return api.FormatIIFE
	}
}

func messagesToError(messages []api.Message) error {
	errs := make([]error, len(messages))
	for i, message := range messages {
		if message.Location != nil {
			errs[i] = fmt.Errorf("%s:%d:%d: %s", message.Location.File, message.Location.Line, message.Location.Column, message.Text)
		} else {
			errs[i] = fmt.Errorf("%s", message.Text)
		}
	}
	return errors.Join(errs...)
}

func messageTexts(messages []api.Message) []string {
	texts := make([]string, len(messages))
	for i, message := range messages {
		texts[i] = message.Text
	}
	return texts
}

// BundleBytes bundles the profile in memory and returns the contents of its output file.
func BundleBytes(p BuildProfile, opts BundleOptions) ([]byte, error) {
	buildOpts, err := buildOptions(p, opts)
	if err != nil {
		return nil, err
	}
	result := api.Build(buildOpts)
	if len(result.Errors) > 0 {
		return nil, messagesToError(result.Errors)
	}
	for _, file := range result.OutputFiles {
		if filepath.Base(file.Path) == p.OutputFilename {
			return file.Contents, nil
		}
	}
	return nil, fmt.Errorf("esbuild produced no output for profile '%s'", p.Name)
}

// Bundle builds the profile into a staging folder and copies the result into p.OutputDir.
// Non-minified builds get a linked source map next to the bundle.
func Bundle(ctx context.Context, p BuildProfile, opts BundleOptions) (BuildResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("profile", p.Name).Logger()

	buildOpts, err := buildOptions(p, opts)
	if err != nil {
		return BuildResult{}, err
	}
	outDir := p.OutputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(buildOpts.AbsWorkingDir, outDir)
	}
	stageDir, err := CreateTempFolder(p.Name)
	if err != nil {
		return BuildResult{}, err
	}
	defer os.RemoveAll(stageDir)

	// esbuild computes source map paths against the final outfile, the files are staged by hand.
	buildOpts.Outfile = filepath.Join(outDir, p.OutputFilename)
	buildOpts.Write = false
	if !p.Minify {
		buildOpts.Sourcemap = api.SourceMapLinked
	}

	logger.Debug().Str("entry", p.EntryPath).Bool("minify", p.Minify).Msg("Bundling")
	result := api.Build(buildOpts)
	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			logger.Error().Str("error", msg.Text).Msg("Build error")
		}
		return BuildResult{}, fmt.Errorf("bundling profile '%s' failed: %w", p.Name, messagesToError(result.Errors))
	}
	for _, msg := range result.Warnings {
		logger.Warn().Str("warning", msg.Text).Msg("Build warning")
	}

	for _, file := range result.OutputFiles {
		if err = os.WriteFile(StagePath(stageDir, filepath.Base(file.Path)), file.Contents, 0o644); err != nil {
			return BuildResult{}, fmt.Errorf("error staging '%s': %w", file.Path, err)
		}
	}
	if err = Publish(stageDir, outDir); err != nil {
		return BuildResult{}, fmt.Errorf("error publishing profile '%s': %w", p.Name, err)
	}

	outPath := filepath.Join(outDir, p.OutputFilename)
	info, err := os.Stat(outPath)
	if err != nil {
		return BuildResult{}, err
	}
	logger.Info().Str("file", outPath).Int64("bytes", info.Size()).Msg("Built file")
	return BuildResult{
		Profile:    p.Name,
		OutputPath: outPath,
		Size:       info.Size(),
		Warnings:   messageTexts(result.Warnings),
	}, nil
}

// BuildAll bundles the given profiles concurrently. The profiles must not share an output file.
func BuildAll(ctx context.Context, ps []BuildProfile, opts BundleOptions) ([]BuildResult, error) {
	if err := CheckOutputsUnique(opts.WorkDir, ps); err != nil {
		return nil, err
	}
	results := make([]BuildResult, len(ps))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range ps {
		i, p := i, p
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			res, err := Bundle(egCtx, p, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
