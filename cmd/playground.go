package cmd

import (
	"github.com/spf13/cobra"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Interactive playground for LaTeX math editing",
	Long: `Launch an interactive playground: type LaTeX math and see the canonical
serialization, parse tree, and any syntax error update live.`,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}
