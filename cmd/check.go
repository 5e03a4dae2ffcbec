package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MarcDevWorkspace/mathpad/internal/latex"
	"github.com/MarcDevWorkspace/mathpad/internal/log"
	"github.com/MarcDevWorkspace/mathpad/internal/watcher"
)

var checkWatch bool

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse LaTeX math and report errors",
	Long: `Parse a LaTeX math file (or stdin) and report the first syntax error
with a caret-annotated source excerpt. With --watch, stay running and
recheck the file whenever it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false,
		"recheck the file on every change")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}

	if checkWatch {
		if len(args) == 0 {
			return fmt.Errorf("--watch requires a file argument")
		}
		return watchAndCheck(cmd, args[0], opts)
	}

	src, name, err := readSource(args)
	if err != nil {
		return err
	}
	return checkOnce(cmd, name, src, opts)
}

func checkOnce(cmd *cobra.Command, name, src string, opts latex.Options) error {
	root, err := latex.ParseWith(src, opts)
	if err != nil {
		return reportParseError(name, src, err)
	}

	warnUnknownEnvironments(cmd, root)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
	return nil
}

func watchAndCheck(cmd *cobra.Command, path string, opts latex.Options) error {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	recheck := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.ErrorErr(log.CatWatcher, "Failed to read file", err, "path", path)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			return
		}
		if err := checkOnce(cmd, path, string(data), opts); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}

	recheck()
	log.Info(log.CatWatcher, "Watching for changes", "path", path)
	for range onChange {
		log.Debug(log.CatWatcher, "Change detected", "path", path)
		recheck()
	}
	return nil
}

// warnUnknownEnvironments prints a warning for each environment whose name
// is not in the configured list. Unknown names still parse; the warning is
// advisory.
func warnUnknownEnvironments(cmd *cobra.Command, root latex.Node) {
	latex.Walk(root, func(n latex.Node) {
		if env, ok := n.(*latex.MatrixEnv); ok && !cfg.KnownEnvironment(env.Name) {
			log.Warn(log.CatParse, "Unknown environment", "name", env.Name)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown environment %q\n", env.Name)
		}
	})
}

// reportParseError renders a parse error with its caret-annotated source
// excerpt when available.
func reportParseError(name, src string, err error) error {
	var perr *latex.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%s: %s\n%s", name, perr.Error(), perr.Snippet(src))
	}
	return fmt.Errorf("%s: %w", name, err)
}
