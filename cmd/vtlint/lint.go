package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vtlint/internal/config"
	"vtlint/internal/ctxlog"
	"vtlint/internal/patterns"
	"vtlint/internal/plugins"
	"vtlint/internal/registry"
	"vtlint/internal/report"
	"vtlint/internal/runner"
	"vtlint/internal/source"
	"vtlint/internal/trace"
)

// errSilent ends the command with exit status 1 after everything worth
// saying was already printed.
var errSilent = errors.New("")

func init() {
	f := rootCmd.Flags()
	f.StringSlice("include", nil, "run only these plugins")
	f.StringSlice("exclude", nil, "run every plugin except these")
	f.Bool("fix", false, "let plugins rewrite the files they complain about")
	f.Bool("update-date", false, "only stamp last_modification and script_version (implies --fix)")
	f.IntP("jobs", "j", 0, "max parallel workers (0=auto)")
	f.String("root", "", "VT root directory (default: working directory)")
	f.String("log-file", "", "append the report to this file")
	f.String("dump", "", "write every finding to this file ('-' for stdout)")
	f.String("dump-format", "json", "dump encoding (json|msgpack)")
	f.CountP("verbose", "v", "more output, repeat for even more")
	f.Bool("no-statistic", false, "do not print the statistics table")
	f.String("ui", "off", "progress view (auto|on|off)")
}

// lintSettings is the merged view of flags and the project file.
type lintSettings struct {
	root       string
	jobs       int
	include    []string
	exclude    []string
	fix        bool
	updateDate bool
	logFile    string
	dumpPath   string
	dumpFormat string
	verbose    int
	statistic  bool
	ui         uiMode
	logLevel   string
	logFormat  string
}

// resolveSettings reads the flags and fills everything the user did not
// set explicitly from cfg. cfg may be nil.
func resolveSettings(cmd *cobra.Command, cfg *config.Config) (lintSettings, error) {
	var s lintSettings
	var err error
	f := cmd.Flags()
	pf := cmd.Root().PersistentFlags()

	if s.root, err = f.GetString("root"); err != nil {
		return s, fmt.Errorf("failed to get root flag: %w", err)
	}
	if s.jobs, err = f.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if s.include, err = f.GetStringSlice("include"); err != nil {
		return s, fmt.Errorf("failed to get include flag: %w", err)
	}
	if s.exclude, err = f.GetStringSlice("exclude"); err != nil {
		return s, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	if s.fix, err = f.GetBool("fix"); err != nil {
		return s, fmt.Errorf("failed to get fix flag: %w", err)
	}
	if s.updateDate, err = f.GetBool("update-date"); err != nil {
		return s, fmt.Errorf("failed to get update-date flag: %w", err)
	}
	if s.logFile, err = f.GetString("log-file"); err != nil {
		return s, fmt.Errorf("failed to get log-file flag: %w", err)
	}
	if s.dumpPath, err = f.GetString("dump"); err != nil {
		return s, fmt.Errorf("failed to get dump flag: %w", err)
	}
	if s.dumpFormat, err = f.GetString("dump-format"); err != nil {
		return s, fmt.Errorf("failed to get dump-format flag: %w", err)
	}
	if s.verbose, err = f.GetCount("verbose"); err != nil {
		return s, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	noStat, err := f.GetBool("no-statistic")
	if err != nil {
		return s, fmt.Errorf("failed to get no-statistic flag: %w", err)
	}
	s.statistic = !noStat
	uiValue, err := f.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	if s.logLevel, err = pf.GetString("log-level"); err != nil {
		return s, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	if s.logFormat, err = pf.GetString("log-format"); err != nil {
		return s, fmt.Errorf("failed to get log-format flag: %w", err)
	}

	if cfg == nil {
		return s, nil
	}
	// a filter given on the command line replaces both lists from the file
	filtered := f.Changed("include") || f.Changed("exclude")
	if !f.Changed("root") && cfg.Root != "" {
		s.root = cfg.Root
	}
	if !f.Changed("jobs") && cfg.Jobs > 0 {
		s.jobs = cfg.Jobs
	}
	if !filtered && !s.updateDate {
		s.include, s.exclude = cfg.Include, cfg.Exclude
	}
	if !f.Changed("log-file") && cfg.LogFile != "" {
		s.logFile = cfg.LogFile
	}
	if !f.Changed("dump") && cfg.Dump.Path != "" {
		s.dumpPath = cfg.Dump.Path
	}
	if !f.Changed("dump-format") && cfg.Dump.Format != "" {
		s.dumpFormat = cfg.Dump.Format
	}
	if !f.Changed("verbose") && cfg.Verbose > 0 {
		s.verbose = cfg.Verbose
	}
	if !f.Changed("no-statistic") && cfg.Statistic != nil {
		s.statistic = *cfg.Statistic
	}
	if !pf.Changed("log-level") && cfg.Log.Level != "" {
		s.logLevel = cfg.Log.Level
	}
	if !pf.Changed("log-format") && cfg.Log.Format != "" {
		s.logFormat = cfg.Log.Format
	}
	return s, nil
}

// loadConfig honours --config, otherwise searches from the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.Discover(".")
	return cfg, err
}

// runLint executes the root command: it merges configuration, resolves the
// plugin selection, expands the inputs and runs the checks. It returns
// errSilent when the run found errors or was interrupted, and a real error
// for configuration problems.
func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	level, err := ctxlog.ParseLevel(s.logLevel)
	if err != nil {
		return err
	}
	logger, err := ctxlog.New(level, s.logFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := ctxlog.WithLogger(cmd.Context(), logger)
	if cfg != nil {
		logger.Debug("config loaded", slog.String("path", cfg.Path))
	}

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProf()

	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanupTrace()
	ctx = trace.WithTracer(ctx, trace.FromContext(cmd.Context()))

	mode := registry.ModeStandard
	if s.updateDate {
		mode = registry.ModeUpdate
	}
	root := s.root
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	catalogues := plugins.Catalogues(func() time.Time { return time.Now().UTC() })
	selection := registry.Selection{Include: s.include, Exclude: s.exclude}
	// selection problems are reported before any file is created
	if err := checkSelection(cmd.ErrOrStderr(), catalogues, mode, selection); err != nil {
		return err
	}

	dumpFormat, err := report.ParseDumpFormat(s.dumpFormat)
	if err != nil {
		return err
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}
	withUI := shouldUseTUI(s.ui, s.dumpPath)

	// with the progress view on, the report is printed once it is gone
	var out io.Writer = cmd.OutOrStdout()
	var buffered *bytes.Buffer
	if withUI {
		buffered = &bytes.Buffer{}
		out = buffered
	}

	textOpts := report.Options{Verbose: s.verbose, Root: root}
	reporters := []runner.Reporter{
		report.NewTerminal(out, report.TerminalOptions{Options: textOpts, Color: color, Statistic: s.statistic}),
	}
	var logFile *report.LogFile
	if s.logFile != "" {
		if logFile, err = report.OpenLogFile(s.logFile, textOpts); err != nil {
			return err
		}
		reporters = append(reporters, logFile)
	}
	var dump *report.Dump
	if s.dumpPath != "" {
		dump = report.NewDump(s.dumpPath, dumpFormat)
		reporters = append(reporters, dump)
	}

	r, err := runner.New(runner.Options{
		Root:       root,
		Jobs:       s.jobs,
		Fix:        s.fix,
		Mode:       mode,
		Selection:  selection,
		Catalogues: catalogues,
		Reporter:   report.Multi(reporters...),
		Patterns:   patterns.NewCache(),
	})
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{root}
	}
	files, err := expandInputs(inputs)
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return err
	}
	logger.Info("checking files",
		slog.Int("files", len(files)),
		slog.Int("jobs", r.Jobs(len(files))),
		slog.String("catalogue", r.Active().Catalogue))

	var summary *runner.Summary
	if withUI {
		summary, err = runWithUI(ctx, "vtlint", files, r)
		fmt.Fprint(cmd.OutOrStdout(), buffered.String())
	} else {
		summary, err = r.Run(ctx, files)
	}

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	if logFile != nil {
		if cerr := logFile.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("log file: %w", cerr))
		}
	}
	if dump != nil && dump.Err() != nil {
		errs = append(errs, dump.Err())
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if !summary.Success() {
		return errSilent
	}
	return nil
}

// msgNoPlugins is printed when the selection leaves nothing to run.
const msgNoPlugins = "No Plugin found."

// checkSelection resolves the selection once so configuration problems
// surface before any output file is opened. An empty selection is printed
// as is and ends the command through errSilent.
func checkSelection(w io.Writer, cats registry.Catalogues, mode registry.Mode, sel registry.Selection) error {
	_, err := registry.SelectMode(cats, mode, sel)
	if errors.Is(err, registry.ErrNoPlugins) {
		fmt.Fprintln(w, msgNoPlugins)
		return errSilent
	}
	return err
}

// expandInputs turns directories into their sorted script lists. Files are
// passed through as given so missing or foreign files get reported.
func expandInputs(inputs []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		info, err := os.Stat(in)
		if err != nil || !info.IsDir() {
			add(in)
			continue
		}
		list, err := source.ListScripts(in)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", in, err)
		}
		for _, f := range list {
			add(f)
		}
	}
	return files, nil
}
