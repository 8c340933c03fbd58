package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/zjy-dev/diff-cover/internal/git"
)

// Options is the resolved configuration for one run. Precedence is
// command-line flag > config file > built-in default; the flag layer is
// applied by the CLI after Load.
type Options struct {
	// CoverageReports are the Cobertura XML report paths (positional args).
	CoverageReports []string `mapstructure:"coverage_reports"`

	HTMLReport      string `mapstructure:"html_report"`
	JSONReport      string `mapstructure:"json_report"`
	ExternalCSSFile string `mapstructure:"external_css_file"`

	CompareBranch     string   `mapstructure:"compare_branch"`
	FailUnder         float64  `mapstructure:"fail_under"`
	IgnoreStaged      bool     `mapstructure:"ignore_staged"`
	IgnoreUnstaged    bool     `mapstructure:"ignore_unstaged"`
	Exclude           []string `mapstructure:"exclude"`
	SrcRoots          []string `mapstructure:"src_roots"`
	DiffRangeNotation string   `mapstructure:"diff_range_notation"`

	// TargetDir switches the diff source to a directory comparison of
	// SrcRoots[0] against TargetDir. DiffJSON dumps the resulting
	// path-to-lines mapping for inspection in either mode.
	TargetDir string `mapstructure:"target_dir"`
	DiffJSON  string `mapstructure:"diff_json"`

	LogLevel string `mapstructure:"log_level"`
}

// Default returns the built-in defaults, matching a JVM-style project
// layout for the source roots.
func Default() Options {
	return Options{
		CompareBranch:     "origin/master",
		SrcRoots:          []string{"src/main/java", "src/test/java"},
		DiffRangeNotation: git.RangeNotationThreeDot,
		LogLevel:          "info",
	}
}

// Load reads the optional diffcover.yaml from the working directory or
// a configs/ subdirectory and overlays it on the defaults. A missing
// config file is not an error; a malformed one is.
func Load() (Options, error) {
	opts := Default()

	v := viper.New()
	v.SetConfigName("diffcover")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return opts, nil
		}
		return opts, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	return opts, nil
}

// Validate rejects inconsistent option combinations before any work
// happens. Picking one of two requested report formats silently is
// worse than refusing.
func (o *Options) Validate() error {
	if len(o.CoverageReports) == 0 {
		return errors.New("at least one coverage report path is required")
	}
	if o.HTMLReport != "" && o.JSONReport != "" {
		return errors.New("--html-report and --json-report are mutually exclusive")
	}
	if o.ExternalCSSFile != "" && o.HTMLReport == "" {
		return errors.New("--external-css-file requires --html-report")
	}
	if o.DiffRangeNotation != git.RangeNotationThreeDot && o.DiffRangeNotation != git.RangeNotationTwoDot {
		return fmt.Errorf("invalid --diff-range-notation %q: must be %q or %q",
			o.DiffRangeNotation, git.RangeNotationThreeDot, git.RangeNotationTwoDot)
	}
	if o.FailUnder < 0 || o.FailUnder > 100 {
		return fmt.Errorf("--fail-under must be in [0,100], got %v", o.FailUnder)
	}
	if o.TargetDir != "" && len(o.SrcRoots) == 0 {
		return errors.New("--target-dir requires at least one source root")
	}
	return nil
}
