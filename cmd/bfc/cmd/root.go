// Package cmd implements the bfc command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/you-not-fish/bfc/internal/codegen"
	"github.com/you-not-fish/bfc/internal/config"
	"github.com/you-not-fish/bfc/internal/driver"
	"github.com/you-not-fish/bfc/internal/syntax"
)

// options holds the flags shared by the root command and its subcommands.
type options struct {
	cfgFile string
	verbose bool

	output     string
	optimize   bool
	assembly   bool
	c          bool
	keepFiles  bool
	dumpAST    bool
	astFormat  string
	emitTokens bool
	labels     string
	target     string
}

// NewRootCmd builds the complete command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "bfc [flags] <file>",
		Short: "Compile tape programs to x86-64 assembly or C",
		Long: `bfc compiles programs for the eight-command tape machine
(> < + - . , [ ]) to x86-64 GNU assembly or C, and by default
assembles and links them into an executable with as and gcc.

Every character other than the eight commands is a comment.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: ./bfc.toml, ./bfc.yaml or ~/.config/bfc/config.toml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	f := rootCmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output path (default a.out, a.S or a.c)")
	f.BoolVarP(&opts.optimize, "optimize", "O", false, "enable optimizations")
	f.BoolVarP(&opts.assembly, "assembly", "S", false, "output generated assembly")
	f.BoolVarP(&opts.c, "c", "C", false, "output generated C code")
	f.BoolVar(&opts.keepFiles, "keep-files", false, "keep intermediate files")
	f.BoolVar(&opts.dumpAST, "ast", false, "print the syntax tree and stop")
	f.StringVar(&opts.astFormat, "ast-format", "text", "syntax tree format (text, json or yaml)")
	f.BoolVar(&opts.emitTokens, "emit-tokens", false, "print the token stream and stop")
	f.StringVar(&opts.labels, "labels", "", "loop label scheme (counter or random)")
	f.StringVarP(&opts.target, "target", "t", "", "backend for executables (asm or c)")

	rootCmd.AddCommand(newVersionCmd(), newDoctorCmd(opts), newReplCmd(opts))
	return rootCmd
}

// Execute runs the command line and reports any error on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError writes err, and the diagnostics of a failed tool, to w.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("error:"), err)

	var te *driver.ToolError
	if errors.As(err, &te) {
		for _, line := range te.Lines() {
			fmt.Fprintln(w, dimStyle.Render(line))
		}
	}
}

// loadConfig resolves the config file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Discover(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Lookup("optimize") != nil && flags.Changed("optimize") {
		cfg.Optimize = opts.optimize
	}
	if flags.Lookup("keep-files") != nil && flags.Changed("keep-files") {
		cfg.KeepFiles = opts.keepFiles
	}
	if opts.labels != "" {
		cfg.Labels = opts.labels
	}
	if opts.target != "" {
		cfg.Target = opts.target
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func labelSource(scheme string) codegen.LabelSource {
	if scheme == "random" {
		return codegen.RandomLabels()
	}
	return nil
}

func runCompile(cmd *cobra.Command, opts *options, filename string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if opts.emitTokens {
		return runEmitTokens(stdout, filename)
	}
	if opts.dumpAST {
		return runEmitAST(stdout, filename, opts.astFormat)
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := newLogger(stderr, opts.verbose)
	if cfg.Source != "" {
		log.Debug("config", "file", cfg.Source)
	}

	format, err := driver.InferFormat(opts.output, opts.assembly, opts.c)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = driver.DefaultOutput(format)
	}
	target, err := codegen.LookupTarget(cfg.Target)
	if err != nil {
		return err
	}

	d := &driver.Driver{
		Toolchain: driver.Toolchain{
			Assembler: cfg.Toolchain.Assembler,
			CC:        cfg.Toolchain.CC,
			ASFlags:   cfg.Toolchain.ASFlags,
			CFlags:    cfg.Toolchain.CFlags,
		},
		Progress: stdout,
		Logger:   log,
	}
	return d.Run(cmd.Context(), driver.Job{
		Paths:    driver.NewPaths(filename, output, cfg.KeepFiles),
		Format:   format,
		Target:   target,
		Optimize: cfg.Optimize,
		Labels:   labelSource(cfg.Labels),
	})
}

// ----------------------------------------------------------------------------
// Dumps

// runEmitTokens scans filename and prints all tokens with positions.
func runEmitTokens(w io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	s := syntax.NewScanner(filename, f)
	if err := s.Err(); err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	fmt.Fprintf(w, "%-20s %s\n", "POSITION", "TOKEN")
	fmt.Fprintf(w, "%-20s %s\n", "--------------------", "-----")
	for s.Next() {
		fmt.Fprintf(w, "%-20s %s\n", s.Pos(), s.Token())
	}
	return nil
}

// runEmitAST parses filename and prints the tree in the given format.
func runEmitAST(w io.Writer, filename, format string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	root, err := syntax.Parse(filename, f)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return syntax.FprintJSON(w, root)
	case "yaml":
		return syntax.FprintYAML(w, root)
	case "text", "":
		syntax.Fprint(w, root)
		return nil
	}
	return fmt.Errorf("unknown AST format %q (want text, json or yaml)", format)
}
