package cmd

import (
	"fmt"
	"github.com/brodo/incbundle/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
)

// embedCmd represents the embed command
var embedCmd = &cobra.Command{
	Use:   "embed [profile]",
	Short: "Generate a Go file that carries a bundle as a string constant",
	Long: `Bundles the library and writes incbundle_<profile>.go into a Go package. Each file has a
build constraint, so a package holding all three files compiles exactly one bundle:

  go build                        -> production-min
  go build -tags incbundle_unmin  -> production-unmin
  go build -tags incbundle_dev    -> development

For example:

incbundle embed --all --embed-dir internal/bundle --package bundle`,
	ValidArgs: internal.Names(),
	Args:      cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ps []internal.BuildProfile
		if viper.GetBool("embed-all") {
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

		dir := viper.GetString("embed-dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		embedOpts := internal.EmbedOptions{
			Package:   viper.GetString("package"),
			ConstName: viper.GetString("const"),
		}
		for _, p := range ps {
			jsBundle, err := internal.BundleBytes(p, loadBundleOptions())
			if err != nil {
				return err
			}
			src, err := internal.GenerateEmbed(p, jsBundle, embedOpts)
			if err != nil {
				return err
			}
			target := filepath.Join(dir, internal.EmbedFilename(p))
			if err = os.WriteFile(target, src, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d bytes of js)\n", p.Name, target, len(jsBundle))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().Bool("all", false, "Generate a file for every profile")
	embedCmd.Flags().String("embed-dir", ".", "Folder of the Go package the files are written to")
	embedCmd.Flags().String("package", "bundle", "Go package name of the generated files")
	embedCmd.Flags().String("const", "JS", "Name of the string constant holding the bundle")
	addConfigurer(func() {
		cobra.CheckErr(viper.BindPFlag("embed-all", embedCmd.Flags().Lookup("all")))
		cobra.CheckErr(viper.BindPFlag("embed-dir", embedCmd.Flags().Lookup("embed-dir")))
		cobra.CheckErr(viper.BindPFlag("package", embedCmd.Flags().Lookup("package")))
		cobra.CheckErr(viper.BindPFlag("const", embedCmd.Flags().Lookup("const")))
		viper.SetDefault("embed-dir", ".")
		viper.SetDefault("package", "bundle")
		viper.SetDefault("const", "JS")
	})
}
