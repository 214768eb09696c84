package commands

import (
	"fmt"
	"strings"

	"github.com/panyam/svlog/elab"
	"github.com/panyam/svlog/parser"
	"github.com/spf13/cobra"
)

func (c *cli) exprCommand() *cobra.Command {
	var defines []string
	var parseOnly bool
	cmd := &cobra.Command{
		Use:   "expr <expression>",
		Short: "Parse an expression and fold it to a constant",
		Long: `The expr command parses a single expression, prints it in canonical
form and then folds it as a constant expression. Parameters may be
defined with -D name=value, where value is a constant expression or a
data type. Later definitions can refer to earlier ones.`,
		Example: `  svelab expr "8'hF0 | 4'b1010"
  svelab expr -D W=16 -D T=logic "\$bits(T) + \$clog2(W)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parser.ParseExpressionString(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, e.String())
			if parseOnly {
				return nil
			}

			scope := elab.NewScope("")
			for _, d := range defines {
				if err := define(scope, d); err != nil {
					return err
				}
			}
			v, err := scope.Eval(e)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "= %s\n", v)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "Define a parameter as name=value")
	cmd.Flags().BoolVarP(&parseOnly, "parse-only", "p", false, "Only parse and print the expression")
	return cmd
}

// define binds one name=value definition in scope.
func define(scope *elab.Scope, def string) error {
	name, src, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("invalid definition %q: expected name=value", def)
	}
	e, err := parser.ParseParamValueString(src)
	if err != nil {
		return fmt.Errorf("definition of %s: %w", name, err)
	}
	t, isType, err := scope.TypeOf(e)
	if err != nil {
		return fmt.Errorf("definition of %s: %w", name, err)
	}
	if isType {
		scope.DefineType(name, t)
		return nil
	}
	v, err := scope.Eval(e)
	if err != nil {
		return fmt.Errorf("definition of %s: %w", name, err)
	}
	scope.Define(name, v)
	return nil
}
