package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (c *cli) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file...>",
		Short: "Parse source files and check module headers and port lists",
		Long: `The validate command parses one or more files and runs the legality
checks the grammar cannot express: port list style, body port
declarations, duplicate names and end labels.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			if errs := result.Library.Validate(); len(errs) > 0 {
				c.printErrors(cmd.ErrOrStderr(), errs)
				return fmt.Errorf("%d validation error(s)", len(errs))
			}
			ok := color.New(color.FgGreen)
			if !c.cfg.Color {
				ok.DisableColor()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d module(s) in %d file(s)\n",
				ok.Sprint("ok:"), len(result.Library.Modules()), len(result.Library.Files))
			return nil
		},
	}
}
