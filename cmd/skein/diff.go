package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cpcf/skein/state"
)

func newDiffCmd(_ *app) *cobra.Command {
	var ignore []string

	cmd := &cobra.Command{
		Use:   "diff <manifest> <manifest|dir>",
		Short: "Compare a saved project manifest with another manifest or a project directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := state.Load(args[0])
			if err != nil {
				return err
			}
			b, err := loadOrScan(args[1])
			if err != nil {
				return err
			}

			changes := state.Diff(a, b, ignore...)
			for _, c := range changes {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			if len(changes) > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&ignore, "ignore", nil, "glob of paths to leave out (repeatable)")
	return cmd
}

func loadOrScan(path string) (*state.Manifest, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return state.Scan(path)
	}
	return state.Load(path)
}
