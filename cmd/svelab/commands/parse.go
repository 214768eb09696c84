package commands

import (
	"fmt"

	"github.com/panyam/svlog/decl"
	"github.com/spf13/cobra"
)

func (c *cli) parseCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "parse <file...>",
		Short: "Parse source files and print them back in canonical form",
		Long: `The parse command parses one or more files, follows their ` + "`include" + `
directives and prints each file in canonical form. It does not run the
legality checks; use validate for that.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.load(cmd, args)
			if err != nil {
				return err
			}
			files := result.RootFiles
			if all {
				files = result.Library.Files
			}
			out := cmd.OutOrStdout()
			for i, f := range files {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if len(files) > 1 {
					fmt.Fprintf(out, "// %s\n", f.FullPath)
				}
				fmt.Fprint(out, decl.PPrint(f))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also print included files")
	return cmd
}
