package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/panyam/svlog/config"
	"github.com/panyam/svlog/elab"
	"github.com/panyam/svlog/loader"
	"github.com/panyam/svlog/viz"
	"github.com/spf13/cobra"
)

func (c *cli) elaborateCommand() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "elaborate <file...>",
		Short: "Elaborate a top module into a design graph",
		Long: `The elaborate command loads and validates the given files, then
specializes the top module and everything below it. Each distinct
parameterization of a module becomes one entity. The design graph is
printed with callees ahead of their callers.

When no top module is given, the single module that nothing else
instantiates is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "dot", "mermaid":
			default:
				return fmt.Errorf("unknown format %q: expected text, dot or mermaid", format)
			}
			result, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			if errs := result.Library.Validate(); len(errs) > 0 {
				c.printErrors(cmd.ErrOrStderr(), errs)
				return fmt.Errorf("%d validation error(s)", len(errs))
			}
			top, err := pickTop(c.cfg.Top, result.Library)
			if err != nil {
				return err
			}

			design, err := elab.NewElaborator(result.Library, elab.WithLogger(slog.Default())).Elaborate(top)
			if err != nil {
				c.printErrors(cmd.ErrOrStderr(), []error{err})
				return fmt.Errorf("elaboration of %s failed", top)
			}
			slog.Debug("elaborated", "top", top, "entities", len(design.Entities))

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if format == "text" {
				_, err = design.WriteTo(out)
				return err
			}
			diagram, _, err := viz.Generate(format, design)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, diagram)
			return err
		},
	}
	cmd.Flags().StringP("top", "t", "", "Top module to elaborate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the design graph to a file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, dot or mermaid")
	c.v.BindPFlag(config.KeyTop, cmd.Flags().Lookup("top"))
	return cmd
}

func pickTop(top string, lib *loader.Library) (string, error) {
	if top != "" {
		return top, nil
	}
	roots := lib.Roots()
	switch len(roots) {
	case 0:
		return "", fmt.Errorf("no top module: every module is instantiated by another")
	case 1:
		return roots[0].Name(), nil
	}
	names := make([]string, len(roots))
	for i, r := range roots {
		names[i] = r.Name()
	}
	return "", fmt.Errorf("more than one candidate top module (%s): pass --top", strings.Join(names, ", "))
}
