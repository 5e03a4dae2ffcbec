package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
)

var tokensAll bool

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream for LaTeX math input",
	Long: `Lex a LaTeX math file (or stdin) and print one token per line with its
kind, UTF-16 span, and text. Trivia (whitespace and comments) is hidden
unless --all is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().BoolVarP(&tokensAll, "all", "a", false,
		"include whitespace and comment tokens")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	src, _, err := readSource(args)
	if err != nil {
		return err
	}

	lex := latex.NewLexer(src)
	for {
		tok := lex.Next()
		if tok.Kind == latex.TokenEOF {
			break
		}
		if tok.IsTrivia() && !tokensAll {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s [%d,%d) %d:%d %q\n",
			tok.Kind, tok.Span.Start, tok.Span.End,
			tok.Loc.Start.Line, tok.Loc.Start.Col, tok.Text)
	}
	return nil
}
