/*
Copyright © 2024 ifm julian.dax@ifm.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"github.com/brodo/incbundle/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"os/signal"
	"syscall"
)

var (
	// Used for flags.
	cfgFile string
	// set using ldflags
	version string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "incbundle",
	Short: "Build the dev.inc.js and prod.inc.js bundles of a JavaScript library",
	Long: `incbundle knows the build profiles of a JavaScript library and hands them to esbuild.
For example:

incbundle build development        # writes dev/dev.inc.js
incbundle build --all              # builds every profile in parallel
incbundle serve                    # watches the entry and serves dev/ on port 8888
incbundle show production-min      # prints the profile as yaml
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := internal.SetupLogger(cmd.ErrOrStderr(), viper.GetBool("debug"))
		cmd.SetContext(logger.WithContext(cmd.Context()))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "incbundle config file path (default is $CWD/.incbundle.yml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().String("profile", "", "Build profile to use, one of "+fmt.Sprint(internal.Names()))
	rootCmd.PersistentFlags().String("entry", "", "Entry module of the library (default "+internal.DefaultEntryPath+")")
	rootCmd.PersistentFlags().String("outdir", "", "Root folder the profile output folders are placed in")
	rootCmd.PersistentFlags().String("banner", "", "Go template prepended to every bundle, e.g. '/* {{.Name}} {{.Time.Format .FormatRFC3339}} */'")
	rootCmd.PersistentFlags().BoolP("minify", "m", false, "Override the minify setting of the selected profiles")

	if version == "" {
		version = "dev"
	}
	rootCmd.Version = version
	addConfigurer(func() {
		cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
		viper.SetDefault("profile", internal.DevelopmentProfile)
		viper.SetDefault("entry", "")
		viper.SetDefault("outdir", "")
		viper.SetDefault("banner", "")
		viper.SetDefault("debug", false)
		viper.SetEnvPrefix("INCBUNDLE")
		viper.AutomaticEnv()
	})
}

// configurers hold each command's viper bindings and defaults so they can be applied again after viper.Reset.
var configurers []func()

func addConfigurer(configure func()) {
	configurers = append(configurers, configure)
	configure()
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		cobra.CheckErr(err)
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".incbundle")
	}

	err := viper.ReadInConfig()
	if err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		return
	}
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}
	cobra.CheckErr(err)
}

func loadOverrides() internal.Overrides {
	o := internal.Overrides{
		EntryPath:  viper.GetString("entry"),
		OutputRoot: viper.GetString("outdir"),
		DevPort:    viper.GetInt("port"),
	}
	// minify has no default, IsSet is only true for a flag, env variable or config entry.
	if viper.IsSet("minify") {
		minify := viper.GetBool("minify")
		o.Minify = &minify
	}
	return o
}

func loadBundleOptions() internal.BundleOptions {
	return internal.BundleOptions{
		Banner: viper.GetString("banner"),
	}
}

// selectProfile resolves the profile named by the first argument, or by --profile / INCBUNDLE_PROFILE.
func selectProfile(args []string) (internal.BuildProfile, error) {
	name := viper.GetString("profile")
	if len(args) > 0 {
		name = args[0]
	}
	p, err := internal.Lookup(name)
	if err != nil {
		return internal.BuildProfile{}, err
	}
	return p.WithOverrides(loadOverrides()), nil
}
