package cmd

import (
	"fmt"
	"github.com/brodo/incbundle/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [profile]",
	Short: "Bundle the library with one build profile, or all of them",
	Long: `Bundles the entry module with esbuild using the settings of a build profile.
For example:

incbundle build production-min
INCBUNDLE_PROFILE=production-unmin incbundle build
incbundle build --all`,
	ValidArgs: internal.Names(),
	Args:      cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ps []internal.BuildProfile
		if viper.GetBool("all") {
			if len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with a profile argument")
			}
			overrides := loadOverrides()
			for _, p := range internal.Profiles() {
				ps = append(ps, p.WithOverrides(overrides))
			}
		} else {
			p, err := selectProfile(args)
			if err != nil {
				return err
			}
			ps = append(ps, p)
		}

		results, err := internal.BuildAll(cmd.Context(), ps, loadBundleOptions())
		if err != nil {
			return err
		}
		for _, res := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d bytes)\n", res.Profile, res.OutputPath, res.Size)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().Bool("all", false, "Build every profile in parallel")
	addConfigurer(func() {
		cobra.CheckErr(viper.BindPFlag("all", buildCmd.Flags().Lookup("all")))
		viper.SetDefault("all", false)
	})
}
