package cmd

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
	"github.com/MarcDevWorkspace/mathpad/internal/log"
)

var (
	fmtDiff  bool
	fmtCheck bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Rewrite LaTeX math in canonical form",
	Long: `Parse a LaTeX math file (or stdin) and print its canonical serialization:
whitespace and comments dropped, scripts in superscript-then-subscript
order, braces added only where needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false,
		"print a diff between the input and its canonical form")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false,
		"exit non-zero if the input is not already canonical")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
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

	out := latex.ToLatex(root)
	log.Debug(log.CatParse, "Formatted source", "file", name, "in", len(src), "out", len(out))

	if fmtDiff || cfg.Fmt.Diff {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(src, out, false)
		dmp.DiffCleanupSemantic(diffs)
		fmt.Fprint(cmd.OutOrStdout(), dmp.DiffPrettyText(diffs))
		if !diffEmpty(diffs) {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	}

	if fmtCheck {
		if src != out {
			cmd.SilenceUsage = true
			return fmt.Errorf("%s is not canonical", name)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func diffEmpty(diffs []diffmatchpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return false
		}
	}
	return true
}
