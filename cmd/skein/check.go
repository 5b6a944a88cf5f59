package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpcf/skein/harness"
	"github.com/cpcf/skein/templates"
)

type checkOptions struct {
	scenarios  []string
	keepFailed string
	parallel   int
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [template]",
		Short: "Render every scenario of a template and verify the results",
		Long: `Run the scenario suite kept next to the template manifest. Each
scenario is rendered into its own temporary directory, checked and removed.
Command checks whose tools are not installed are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(cmd, templateArg(args), opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.scenarios, "scenario", "s", nil, "run only the named scenario (repeatable)")
	cmd.Flags().StringVar(&opts.keepFailed, "keep-failed", "", "copy the projects of failing scenarios into this directory")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 1, "number of scenarios run at once")
	return cmd
}

func (a *app) check(cmd *cobra.Command, ref string, opts checkOptions) error {
	tree, err := templates.Load(ref)
	if err != nil {
		return err
	}
	suite, err := templates.Scenarios(ref)
	if err != nil {
		return err
	}

	if len(opts.scenarios) > 0 {
		selected := &harness.Suite{Template: suite.Template}
		for _, name := range opts.scenarios {
			sc, ok := suite.Find(name)
			if !ok {
				return fmt.Errorf("no scenario named %q", name)
			}
			selected.Scenarios = append(selected.Scenarios, sc)
		}
		suite = selected
	}

	keep := opts.keepFailed
	if keep == "" {
		keep = a.user.KeepFailedDir
	}

	h, err := harness.New(tree,
		harness.WithLogger(a.logger),
		harness.WithKeepFailed(keep),
		harness.WithParallelism(opts.parallel),
	)
	if err != nil {
		return err
	}

	report := h.RunAll(cmd.Context(), suite)
	if err := report.Write(cmd.OutOrStdout()); err != nil {
		return err
	}
	if !report.OK() {
		return &exitError{code: 1}
	}
	return nil
}
