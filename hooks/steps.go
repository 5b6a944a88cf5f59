package hooks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cpcf/skein/postprocess"
	"github.com/cpcf/skein/processors"
	"github.com/cpcf/skein/schema"
)

// SelectLicense keeps the body of the chosen license as the project's
// license file and drops the directory holding every candidate.
type SelectLicense struct {
	cfg SelectLicenseConfig
}

func NewSelectLicense(cfg SelectLicenseConfig) *SelectLicense {
	return &SelectLicense{cfg: cfg.withDefaults()}
}

func (s *SelectLicense) Name() string { return "select_license" }

func (s *SelectLicense) Run(_ context.Context, root string, cfg schema.Configuration) error {
	license, err := schema.ParseLicense(cfg.Get(s.cfg.Variable))
	if err != nil {
		return err
	}

	dir := filepath.Join(root, filepath.FromSlash(s.cfg.Dir))
	if license.OpenSource() {
		body, err := os.ReadFile(filepath.Join(dir, license.Identifier()))
		if err != nil {
			return fmt.Errorf("license text for %s: %w", license.Identifier(), err)
		}
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(s.cfg.Target)), body, 0o644); err != nil {
			return err
		}
	}

	return os.RemoveAll(dir)
}

type removal struct {
	paths []string
	when  *schema.Predicate
}

// RemovePaths deletes files and directories that a rule marks as
// inapplicable to the configuration.
type RemovePaths struct {
	rules []removal
}

func NewRemovePaths(rules []RemoveRule, s *schema.Schema) (*RemovePaths, error) {
	step := &RemovePaths{}
	for i, rule := range rules {
		pred, err := s.CompilePredicate(rule.When)
		if err != nil {
			return nil, fmt.Errorf("hooks.remove[%d]: %w", i, err)
		}
		step.rules = append(step.rules, removal{paths: rule.Paths, when: pred})
	}
	return step, nil
}

func (s *RemovePaths) Name() string { return "remove_paths" }

func (s *RemovePaths) Run(_ context.Context, root string, cfg schema.Configuration) error {
	fsys := os.DirFS(root)
	for _, rule := range s.rules {
		apply, err := rule.when.Eval(cfg)
		if err != nil {
			return err
		}
		if !apply {
			continue
		}

		for _, pattern := range rule.paths {
			matches, err := doublestar.Glob(fsys, pattern)
			if err != nil {
				return err
			}
			// Deepest first so a matched directory is removed after its content.
			sort.Sort(sort.Reverse(sort.StringSlice(matches)))
			for _, m := range matches {
				if err := os.RemoveAll(filepath.Join(root, filepath.FromSlash(m))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

var markerPattern = regexp.MustCompile(`\[%\s*(year|date|now)\s*%\]`)

// DerivedValues replaces wall-clock markers with values read from the
// clock when the hook runs.
type DerivedValues struct {
	paths []string
	clock Clock
}

func NewDerivedValues(cfg DerivedValuesConfig, clock Clock) *DerivedValues {
	return &DerivedValues{paths: cfg.Paths, clock: clock}
}

func (s *DerivedValues) Name() string { return "derived_values" }

func (s *DerivedValues) Run(_ context.Context, root string, _ schema.Configuration) error {
	now := s.clock.Now()
	replace := postprocess.ProcessorFunc(func(_ string, content []byte) ([]byte, error) {
		return ExpandMarkers(content, now), nil
	})

	chain := postprocess.NewChain()
	if len(s.paths) == 0 {
		chain.Add(replace)
	} else {
		chain.Add(postprocess.Only(replace, s.paths...))
	}
	return chain.ApplyDir(root)
}

// ExpandMarkers substitutes [% year %], [% date %] and [% now %].
func ExpandMarkers(content []byte, now time.Time) []byte {
	return markerPattern.ReplaceAllFunc(content, func(m []byte) []byte {
		switch string(markerPattern.FindSubmatch(m)[1]) {
		case "year":
			return []byte(now.Format("2006"))
		case "date":
			return []byte(now.Format("2006-01-02"))
		default:
			return []byte(now.Format(time.RFC3339))
		}
	})
}

// Normalize trims whitespace and checks that structured metadata files
// still parse after substitution.
type Normalize struct {
	chain *postprocess.Chain
}

func NewNormalize(cfg NormalizeConfig) *Normalize {
	chain := postprocess.NewChain()
	if len(cfg.TrimWhitespace) > 0 {
		chain.Add(postprocess.Only(processors.NewTrimWhitespace(), cfg.TrimWhitespace...))
	}
	if len(cfg.Lint) > 0 {
		for _, lint := range []*processors.Lint{processors.NewTOMLLint(), processors.NewYAMLLint(), processors.NewINILint()} {
			chain.Add(postprocess.Only(lint, cfg.Lint...))
		}
	}
	return &Normalize{chain: chain}
}

func (s *Normalize) Name() string { return "normalize" }

func (s *Normalize) Run(_ context.Context, root string, _ schema.Configuration) error {
	return s.chain.ApplyDir(root)
}
