package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/diff-cover/internal/config"
	"github.com/zjy-dev/diff-cover/internal/correlate"
	"github.com/zjy-dev/diff-cover/internal/coverage"
	"github.com/zjy-dev/diff-cover/internal/diff"
	"github.com/zjy-dev/diff-cover/internal/exec"
	"github.com/zjy-dev/diff-cover/internal/git"
	"github.com/zjy-dev/diff-cover/internal/logger"
	"github.com/zjy-dev/diff-cover/internal/paths"
	"github.com/zjy-dev/diff-cover/internal/report"
)

const version = "1.0.0"

// NewDiffCoverCommand creates the root command for the diffcover tool.
func NewDiffCoverCommand() *cobra.Command {
	var (
		htmlReport      string
		jsonReport      string
		externalCSSFile string
		compareBranch   string
		failUnder       float64
		ignoreStaged    bool
		ignoreUnstaged  bool
		exclude         []string
		srcRoots        []string
		rangeNotation   string
		targetDir       string
		diffJSON        string
		logLevel        string
	)

	cmd := &cobra.Command{
		Use:     "diffcover COVERAGE_XML [COVERAGE_XML ...]",
		Short:   "Compute test coverage for the lines changed in a diff.",
		Version: version,
		Long: `diffcover intersects one or more Cobertura XML coverage reports with the
diff against a compare branch, and reports how well the changed lines are
covered by tests.

The diff defaults to the committed delta against the compare branch plus any
staged and unstaged working-tree changes. Every changed line that no report
hit, including lines the coverage data never instrumented, is a violation.

A plain-text summary always goes to stdout. One additional HTML or JSON
report may be written to a file. The exit code is 0 when the total
percentage is at or above --fail-under, 1 otherwise.

Configuration:
  Default values may be placed in a diffcover.yaml file in the working
  directory. Command line flags override the config file values.

Examples:
  # Score unit-test coverage of the current branch against origin/master
  diffcover coverage.xml

  # Merge unit and integration coverage, gate the build at 80%
  diffcover unit.xml integration.xml --fail-under 80

  # Write an HTML report next to the text summary
  diffcover coverage.xml --html-report report.html

  # Compare a source tree against a build tree instead of using git
  diffcover coverage.xml --target-dir build/out --diff-json diff.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config first to get defaults
			opts, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.CoverageReports = args

			// Use config values as defaults, command line flags override
			if cmd.Flags().Changed("html-report") {
				opts.HTMLReport = htmlReport
			}
			if cmd.Flags().Changed("json-report") {
				opts.JSONReport = jsonReport
			}
			if cmd.Flags().Changed("external-css-file") {
				opts.ExternalCSSFile = externalCSSFile
			}
			if cmd.Flags().Changed("compare-branch") {
				opts.CompareBranch = compareBranch
			}
			if cmd.Flags().Changed("fail-under") {
				opts.FailUnder = failUnder
			}
			if cmd.Flags().Changed("ignore-staged") {
				opts.IgnoreStaged = ignoreStaged
			}
			if cmd.Flags().Changed("ignore-unstaged") {
				opts.IgnoreUnstaged = ignoreUnstaged
			}
			if cmd.Flags().Changed("exclude") {
				opts.Exclude = exclude
			}
			if cmd.Flags().Changed("src-roots") {
				opts.SrcRoots = srcRoots
			}
			if cmd.Flags().Changed("diff-range-notation") {
				opts.DiffRangeNotation = rangeNotation
			}
			if cmd.Flags().Changed("target-dir") {
				opts.TargetDir = targetDir
			}
			if cmd.Flags().Changed("diff-json") {
				opts.DiffJSON = diffJSON
			}
			if cmd.Flags().Changed("log-level") {
				opts.LogLevel = logLevel
			}

			logger.Init(opts.LogLevel)

			if err := opts.Validate(); err != nil {
				return err
			}
			return run(opts, exec.NewCommandExecutor(), cmd.OutOrStdout())
		},
	}

	// Flags (these are placeholder defaults, actual defaults come from config)
	cmd.Flags().StringVar(&htmlReport, "html-report", "", "Write the diff coverage HTML report to this file")
	cmd.Flags().StringVar(&jsonReport, "json-report", "", "Write the diff coverage JSON report to this file")
	cmd.Flags().StringVar(&externalCSSFile, "external-css-file", "", "Write the HTML report CSS into an external file")
	cmd.Flags().StringVar(&compareBranch, "compare-branch", "origin/master", "Branch to compare against")
	cmd.Flags().Float64Var(&failUnder, "fail-under", 0, "Exit non-zero if the total coverage is below this value")
	cmd.Flags().BoolVar(&ignoreStaged, "ignore-staged", false, "Ignore staged changes")
	cmd.Flags().BoolVar(&ignoreUnstaged, "ignore-unstaged", false, "Ignore unstaged changes")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Exclude files matching these glob patterns")
	cmd.Flags().StringSliceVar(&srcRoots, "src-roots", []string{"src/main/java", "src/test/java"}, "Source directories used to resolve coverage report paths")
	cmd.Flags().StringVar(&rangeNotation, "diff-range-notation", "...", `Git diff range notation, "..." or ".."`)
	cmd.Flags().StringVar(&targetDir, "target-dir", "", "Compare the first source root against this directory instead of using git")
	cmd.Flags().StringVar(&diffJSON, "diff-json", "", "Write the diff's path to changed-lines mapping to this JSON file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func run(opts config.Options, executor exec.Executor, out io.Writer) error {
	resolver := paths.NewResolver(opts.SrcRoots, opts.Exclude)

	// 1. Build the diff model.
	var reporter diff.Reporter
	if opts.TargetDir != "" {
		logger.Info("comparing %s against %s", opts.SrcRoots[0], opts.TargetDir)
		r, err := diff.NewDirectoryReporter(opts.SrcRoots[0], opts.TargetDir, resolver)
		if err != nil {
			return err
		}
		reporter = r
	} else {
		// Diff paths come out relative to the repository root, so every
		// later step has to work from there no matter where the tool was
		// invoked.
		repoRoot, err := git.RepoRoot(executor, "")
		if err != nil {
			return err
		}
		logger.Debug("repository root: %s", repoRoot)
		resolver.SetBaseDir(repoRoot)
		tool := git.NewDiffTool(executor, opts.DiffRangeNotation, repoRoot)
		r, err := diff.NewGitReporter(diff.GitReporterConfig{
			Tool:           tool,
			CompareBranch:  opts.CompareBranch,
			RangeNotation:  opts.DiffRangeNotation,
			IgnoreStaged:   opts.IgnoreStaged,
			IgnoreUnstaged: opts.IgnoreUnstaged,
			Resolver:       resolver,
		})
		if err != nil {
			return err
		}
		reporter = r
	}

	if opts.DiffJSON != "" {
		if err := diff.WriteJSON(reporter, opts.DiffJSON); err != nil {
			return err
		}
		logger.Info("wrote diff mapping to %s", opts.DiffJSON)
	}

	// 2. Build the coverage model.
	cov, err := coverage.Load(opts.CoverageReports)
	if err != nil {
		return err
	}

	// 3. Correlate.
	result := correlate.Compute(reporter, cov, resolver)

	// 4. Render reports.
	if opts.HTMLReport != "" {
		if err := writeHTMLReport(opts, result); err != nil {
			return err
		}
	} else if opts.JSONReport != "" {
		if err := writeFileReport(opts.JSONReport, report.NewJSONGenerator("diff-cover"), result); err != nil {
			return err
		}
		logger.Info("wrote JSON report to %s", opts.JSONReport)
	}

	if err := report.NewTextGenerator().Generate(out, result); err != nil {
		return err
	}

	// 5. Gate.
	percent := correlate.RoundPercent(result.Percent())
	if !correlate.Pass(result.Percent(), opts.FailUnder) {
		return fmt.Errorf("coverage %.1f%% is below the failure threshold %g%%", percent, opts.FailUnder)
	}
	return nil
}

// writeHTMLReport writes the HTML report, plus the external CSS file
// when configured. The stylesheet is linked relative to the report so
// the pair stays portable when moved together.
func writeHTMLReport(opts config.Options, result correlate.Result) error {
	cssURL := ""
	if opts.ExternalCSSFile != "" {
		rel, err := filepath.Rel(filepath.Dir(opts.HTMLReport), opts.ExternalCSSFile)
		if err != nil {
			rel = opts.ExternalCSSFile
		}
		cssURL = filepath.ToSlash(rel)
	}

	gen := report.NewHTMLGenerator(cssURL)
	if err := writeFileReport(opts.HTMLReport, gen, result); err != nil {
		return err
	}
	logger.Info("wrote HTML report to %s", opts.HTMLReport)

	if opts.ExternalCSSFile != "" {
		f, err := os.Create(opts.ExternalCSSFile)
		if err != nil {
			return fmt.Errorf("failed to create CSS file: %w", err)
		}
		defer f.Close()
		if err := gen.WriteCSS(f); err != nil {
			return fmt.Errorf("failed to write CSS file: %w", err)
		}
	}
	return nil
}

func writeFileReport(path string, gen report.Generator, result correlate.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer f.Close()
	return gen.Generate(f, result)
}
