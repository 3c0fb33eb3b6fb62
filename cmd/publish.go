package cmd

import (
	"fmt"
	"github.com/brodo/incbundle/internal"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/client-go/tools/clientcmd"
	"os"
	"path/filepath"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish [profile]",
	Short: "Bundle a profile and upload it into a config map on a k8s cluster",
	Long: `Bundles the library in memory and stores the result in a config map so that workloads
on the cluster can mount it. The config map is named <prefix>-<profile> and holds one key,
the output filename of the profile. For example:

incbundle publish production-min --prefix mylib -n frontend`,
	ValidArgs: internal.Names(),
	Args:      cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := selectProfile(args)
		if err != nil {
			return err
		}
		logger := zerolog.Ctx(cmd.Context())

		k8sConfig, err := clientcmd.BuildConfigFromFlags("", kubeConfigPath())
		if err != nil {
			return err
		}
		kc, err := internal.NewK8sClient(k8sConfig, viper.GetString("namespace"))
		if err != nil {
			return err
		}

		logger.Info().Str("profile", p.Name).Msg("Bundling script...")
		jsBundle, err := internal.BundleBytes(p, loadBundleOptions())
		if err != nil {
			return err
		}
		name, err := kc.PublishBundle(cmd.Context(), viper.GetString("prefix"), p, jsBundle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to config map '%s' in namespace '%s'\n", p.OutputFilename, name, viper.GetString("namespace"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)

	const defaultNamespace = "default"
	publishCmd.Flags().StringP("namespace", "n", defaultNamespace, "k8s namespace to publish to")
	publishCmd.Flags().String("k8scfg", "", "k8s config file path (default is $HOME/.kube/config)")
	publishCmd.Flags().String("prefix", "incbundle", "Prefix of the config map name")

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	addConfigurer(func() {
		cobra.CheckErr(viper.BindPFlag("namespace", publishCmd.Flags().Lookup("namespace")))
		cobra.CheckErr(viper.BindPFlag("kubeconfig", publishCmd.Flags().Lookup("k8scfg")))
		cobra.CheckErr(viper.BindPFlag("prefix", publishCmd.Flags().Lookup("prefix")))
		viper.SetDefault("kubeconfig", filepath.Join(home, ".kube", "config"))
		viper.SetDefault("namespace", defaultNamespace)
		viper.SetDefault("prefix", "incbundle")
	})
}

// kubeConfigPath prefers $KUBECONFIG over the --k8scfg flag and the kubeconfig config key.
func kubeConfigPath() string {
	if os.Getenv("KUBECONFIG") != "" {
		return os.Getenv("KUBECONFIG")
	}
	return viper.GetString("kubeconfig")
}
