package cmd

import (
	"bytes"
	"context"
	"errors"
	"github.com/brodo/incbundle/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with a fresh viper and flags at their defaults.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	viper.Reset()
	for _, configure := range configurers {
		configure()
	}
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShow_PrintsProfileAsYaml(t *testing.T) {
	out, err := execute(t, "show", "production_min")
	require.NoError(t, err)
	require.Contains(t, out, "name: production-min")
	require.Contains(t, out, "minify: true")
	require.Contains(t, out, "outputFilename: prod.inc.js")
	require.NotContains(t, out, "devServerPort")
}

func TestShow_UnknownProfile(t *testing.T) {
	_, err := execute(t, "show", "staging")
	var notFound *internal.ConfigNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "staging", notFound.Name)
}

func TestProfiles_ListsAllProfiles(t *testing.T) {
	out, err := execute(t, "profiles")
	require.NoError(t, err)
	for _, name := range internal.Names() {
		require.Contains(t, out, name)
	}
	require.Contains(t, out, "port=8888")
}

func TestBuild_All(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "entry.js")
	require.NoError(t, os.WriteFile(entry, []byte("window.answer = 42;\n"), 0o644))
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "build", "--all", "--entry", entry, "--outdir", outDir)
	require.NoError(t, err)
	require.Contains(t, out, "development:")
	require.FileExists(t, filepath.Join(outDir, "dev", "dev.inc.js"))
	require.FileExists(t, filepath.Join(outDir, "prod", "prod.inc.js"))
	require.FileExists(t, filepath.Join(outDir, "prod", "unmin", "prod.inc.js"))
}

func TestBuild_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "entry.js")
	require.NoError(t, os.WriteFile(entry, []byte("export const answer = 42;\n"), 0o644))

	_, err := execute(t, "build", "--all", "--minify", "--entry", entry, "--outdir", filepath.Join(dir, "out"))
	require.NoError(t, err)

	out, err := execute(t, "show", "production-unmin")
	require.NoError(t, err)
	require.Contains(t, out, "entryPath: ./entry.js")
	require.Contains(t, out, "minify: false")
	require.Contains(t, out, "outputDir: prod/unmin")
}

func TestShow_MinifyOverride(t *testing.T) {
	out, err := execute(t, "show", "production-min", "--minify=false")
	require.NoError(t, err)
	require.Contains(t, out, "minify: false")

	out, err = execute(t, "show", "development", "-m")
	require.NoError(t, err)
	require.Contains(t, out, "minify: true")

	t.Setenv("INCBUNDLE_MINIFY", "true")
	out, err = execute(t, "show", "production-unmin")
	require.NoError(t, err)
	require.Contains(t, out, "minify: true")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incbundle.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProfileSelectionPrecedence(t *testing.T) {
	cfg := writeConfig(t, "profile: production-unmin\n")
	cases := []struct {
		name string
		env  string
		args []string
		want string
	}{
		{name: "default", args: []string{"show"}, want: internal.DevelopmentProfile},
		{name: "config file", args: []string{"show", "--config", cfg}, want: internal.ProductionUnminProfile},
		{name: "env over config", env: "production_min", args: []string{"show", "--config", cfg}, want: internal.ProductionMinProfile},
		{name: "flag over env", env: "production-min", args: []string{"show", "--config", cfg, "--profile", "development"}, want: internal.DevelopmentProfile},
		{name: "argument over flag", env: "production-min", args: []string{"show", "production-unmin", "--profile", "development"}, want: internal.ProductionUnminProfile},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("INCBUNDLE_PROFILE", tc.env)
			if tc.env == "" {
				require.NoError(t, os.Unsetenv("INCBUNDLE_PROFILE"))
			}
			out, err := execute(t, tc.args...)
			require.NoError(t, err)
			require.Contains(t, out, "name: "+tc.want+"\n")
		})
	}
}

func TestConfigFile_Settings(t *testing.T) {
	kubeconfig := filepath.Join(t.TempDir(), "kube.yaml")
	cfg := writeConfig(t, "entry: src/index.js\noutdir: dist\nkubeconfig: "+kubeconfig+"\nnamespace: frontend\n")
	t.Setenv("KUBECONFIG", "")

	out, err := execute(t, "show", "development", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "entryPath: src/index.js")
	require.Contains(t, out, "outputDir: dist/dev")
	require.Equal(t, kubeconfig, kubeConfigPath())
	require.Equal(t, "frontend", viper.GetString("namespace"))

	t.Setenv("KUBECONFIG", "/from/env")
	require.Equal(t, "/from/env", kubeConfigPath())
}

func TestEmbed_AllProfiles(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "entry.js")
	require.NoError(t, os.WriteFile(entry, []byte("export const answer = 42;\n"), 0o644))
	pkgDir := filepath.Join(dir, "bundle")

	_, err := execute(t, "embed", "--all", "--entry", entry, "--embed-dir", pkgDir, "--package", "jsbundle")
	require.NoError(t, err)
	for _, p := range internal.Profiles() {
		src, err := os.ReadFile(filepath.Join(pkgDir, internal.EmbedFilename(p)))
		require.NoError(t, err)
		require.Contains(t, string(src), "package jsbundle")
	}
}
