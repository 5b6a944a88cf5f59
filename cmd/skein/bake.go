package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"github.com/spf13/cobra"

	"github.com/cpcf/skein/config"
	"github.com/cpcf/skein/engine"
	"github.com/cpcf/skein/harness"
	"github.com/cpcf/skein/state"
	"github.com/cpcf/skein/templates"
	"github.com/cpcf/skein/write"
)

type bakeOptions struct {
	sets      []string
	output    string
	dryRun    bool
	overwrite bool
	manifest  string
}

func newBakeCmd(a *app) *cobra.Command {
	var opts bakeOptions

	cmd := &cobra.Command{
		Use:   "bake [template]",
		Short: "Render a template into a new project directory",
		Long: `Render a bundled template, or a template directory, into the output
directory. Variables are taken from the template defaults, then the user
configuration, then --set assignments.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.bake(cmd, templateArg(args), opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "set a variable, key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "directory the project is created in")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list what would be written without writing it")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "replace an existing project directory")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "write a content manifest of the project to this file")
	return cmd
}

func (a *app) overrides(sets []string) (map[string]string, error) {
	assigned, err := config.ParseAssignments(sets)
	if err != nil {
		return nil, err
	}
	return config.Layer(a.user.DefaultContext, assigned), nil
}

func (a *app) bake(cmd *cobra.Command, ref string, opts bakeOptions) error {
	tree, err := templates.Load(ref)
	if err != nil {
		return err
	}
	overrides, err := a.overrides(opts.sets)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return a.dryRun(cmd, tree, overrides)
	}

	h, err := harness.New(tree, harness.WithLogger(a.logger))
	if err != nil {
		return err
	}
	r := h.Bake(cmd.Context(), overrides)
	if r.Err != nil {
		return r.Err
	}
	defer func() {
		if err := r.Project.Remove(); err != nil {
			a.logger.Warn("failed to remove staging directory", "path", r.Project.Base, "error", err)
		}
	}()

	dest := filepath.Join(opts.output, filepath.Base(r.Project.Root))
	if _, err := os.Stat(dest); err == nil {
		if !opts.overwrite {
			return fmt.Errorf("%s already exists, use --overwrite to replace it", dest)
		}
		if err := os.RemoveAll(dest); err != nil {
			return err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := copy.Copy(r.Project.Root, dest); err != nil {
		return fmt.Errorf("copy project to %s: %w", dest, err)
	}
	a.logger.Info("created project", "path", dest, "run", r.RunID)

	if opts.manifest != "" {
		m, err := state.Scan(dest)
		if err != nil {
			return err
		}
		m.Metadata = map[string]string{"template": tree.Manifest().Name, "run": r.RunID.String()}
		if err := m.Save(opts.manifest); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), dest)
	return err
}

// dryRun renders without finalizing and lists the paths that would be
// written, relative to the output directory.
func (a *app) dryRun(cmd *cobra.Command, tree *engine.Tree, overrides map[string]string) error {
	dry := write.NewDryRunWriter()
	e := engine.New(
		engine.WithLogger(a.logger),
		engine.WithWriter(write.NewLoggingWriter(dry, a.logger)),
	)
	project, err := e.RenderOverrides(cmd.Context(), tree, overrides)
	if err != nil {
		return err
	}
	defer project.Remove()

	out := cmd.OutOrStdout()
	for _, c := range dry.Changes() {
		rel, err := filepath.Rel(project.Base, c.Path)
		if err != nil {
			return err
		}
		if c.Action == write.ActionMkdir {
			rel += "/"
		}
		if _, err := fmt.Fprintf(out, "%-6s %s\n", c.Action, filepath.ToSlash(rel)); err != nil {
			return err
		}
	}
	return nil
}
