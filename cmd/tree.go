package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
)

var treeFormat string

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the parse tree for LaTeX math input",
	Long: `Parse a LaTeX math file (or stdin) and print its tree: node kinds,
identities, and UTF-16 spans. --format yaml emits a machine-readable
dump instead of the indented outline.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().StringVarP(&treeFormat, "format", "f", "text",
		`output format: "text" or "yaml"`)
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}

	src, name, err := readSource(args)
	if err != nil {
		return err
	}

	root, err := latex.ParseWith(src, opts)
	if err != nil {
		return reportParseError(name, src, err)
	}

	switch treeFormat {
	case "text":
		fmt.Fprint(cmd.OutOrStdout(), latex.Outline(root))
	case "yaml":
		out, err := yaml.Marshal(latex.DumpMap(root))
		if err != nil {
			return fmt.Errorf("encoding tree: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	default:
		return fmt.Errorf(`unknown format %q (must be "text" or "yaml")`, treeFormat)
	}
	return nil
}
