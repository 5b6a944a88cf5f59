package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cpcf/skein/schema"
	"github.com/cpcf/skein/templates"
)

func newVarsCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "vars [template]",
		Short: "Show the variables of a template and the values they resolve to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := templates.Load(templateArg(args))
			if err != nil {
				return err
			}
			overrides, err := a.overrides(sets)
			if err != nil {
				return err
			}
			cfg, err := tree.Resolve(overrides)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tVALUE\tCHOICES")
			for _, v := range tree.Schema().Variables {
				fmt.Fprintf(tw, "%s\t%s\t%q\t%s\n", v.Name, kindOf(v), cfg.Get(v.Name), strings.Join(v.Choices, " | "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "set a variable, key=value (repeatable)")
	return cmd
}

func kindOf(v schema.Variable) string {
	switch {
	case v.Kind == "":
		if v.Derived() {
			return "derived"
		}
		return string(schema.KindString)
	default:
		return string(v.Kind)
	}
}
