package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/panyam/svlog/config"
	"github.com/panyam/svlog/loader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// cli is the state shared by every subcommand of one root command.
type cli struct {
	v          *viper.Viper
	cfg        *config.Config
	verbose    bool
	configFile string
}

// NewRootCommand builds the svelab command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{v: config.New()}
	rootCmd := &cobra.Command{
		Use:   "svelab",
		Short: "svelab parses and elaborates SystemVerilog module hierarchies",
		Long: `svelab reads SystemVerilog sources, checks module headers and port lists,
and elaborates a top module into a design graph with one entity per
distinct parameterization.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")
	flags.StringVar(&c.configFile, "config", "", "Config file (default: svelab.{yaml,json,toml} in the current directory)")
	flags.StringSliceP("include", "I", nil, "Directory searched for `include files (repeatable)")
	flags.Int("max-include-depth", 0, "Deepest `include nesting allowed")
	flags.Bool("color", true, "Colour diagnostics and log output")
	c.v.BindPFlag(config.KeyIncludeDirs, flags.Lookup("include"))
	c.v.BindPFlag(config.KeyMaxIncludeDepth, flags.Lookup("max-include-depth"))
	c.v.BindPFlag(config.KeyColor, flags.Lookup("color"))

	rootCmd.AddCommand(
		c.parseCommand(),
		c.validateCommand(),
		c.elaborateCommand(),
		c.exprCommand(),
		versionCommand(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.v, config.Options{ConfigFile: c.configFile, SearchPaths: []string{"."}})
	if err != nil {
		return err
	}
	c.cfg = cfg
	level, _ := cfg.Level()
	if c.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(NewPrettyHandler(cmd.ErrOrStderr(), PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
		NoColor:  !cfg.Color,
	})))
	return nil
}

func (c *cli) load(cmd *cobra.Command, paths []string) (*loader.LoadResult, error) {
	l := loader.NewLoader(loader.SVParser{}, loader.NewDefaultFileResolver(c.cfg.IncludeDirs...), c.cfg.MaxIncludeDepth)
	result, err := l.LoadFiles(paths...)
	if err != nil {
		c.printErrors(cmd.ErrOrStderr(), result.Errors)
		return nil, fmt.Errorf("%d file error(s)", len(result.Errors))
	}
	return result, nil
}

func (c *cli) printErrors(w io.Writer, errs []error) {
	label := color.New(color.FgRed, color.Bold)
	if !c.cfg.Color {
		label.DisableColor()
	}
	for _, err := range errs {
		fmt.Fprintf(w, "%s %v\n", label.Sprint("error:"), err)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print svelab version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "svelab %s\n", Version)
			if GitCommit != "none" {
				fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			}
			if BuildDate != "unknown" {
				fmt.Fprintf(out, "Build date: %s\n", BuildDate)
			}
		},
	}
}
