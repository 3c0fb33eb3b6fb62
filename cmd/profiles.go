package cmd

import (
	"fmt"
	"github.com/brodo/incbundle/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the known build profiles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		overrides := loadOverrides()
		for _, p := range internal.Profiles() {
			p = p.WithOverrides(overrides)
			port := "-"
			if p.DevServerPort != nil {
				port = fmt.Sprint(*p.DevServerPort)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s minify=%-5t port=%-5s %s\n", p.Name, p.Minify, port, p.OutputPath())
		}
	},
}

var showCmd = &cobra.Command{
	Use:       "show [profile]",
	Short:     "Print the effective settings of a build profile as yaml",
	ValidArgs: internal.Names(),
	Args:      cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := selectProfile(args)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err = enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(showCmd)
}
