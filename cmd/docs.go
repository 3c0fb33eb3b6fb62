package cmd

import (
	"github.com/spf13/cobra/doc"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs [folder]",
	Short: "Generate the markdown documentation for incbundle",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Join(".", "docs")
		if len(args) > 0 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		return doc.GenMarkdownTree(rootCmd, dir)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
