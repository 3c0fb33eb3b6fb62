package cmd

import (
	"github.com/brodo/incbundle/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [profile]",
	Short: "Watch the entry module and serve the bundle on the dev server port",
	Long: `Rebuilds the bundle whenever a source file changes and serves the output folder.
Only profiles with a dev server port can be served. For example:

incbundle serve
incbundle serve development --port 9000`,
	ValidArgs: internal.Names(),
	Args:      cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := selectProfile(args)
		if err != nil {
			return err
		}
		opts := loadBundleOptions()
		opts.ServeHost = viper.GetString("host")
		return internal.Serve(cmd.Context(), p, opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Override the dev server port of the profile")
	serveCmd.Flags().String("host", "", "Interface the dev server listens on (default: all)")
	addConfigurer(func() {
		cobra.CheckErr(viper.BindPFlags(serveCmd.Flags()))
		viper.SetDefault("port", 0)
		viper.SetDefault("host", "")
	})
}
