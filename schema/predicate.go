package schema

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate is a boolean expression over configuration values, such as
// `create_author_file == "y"`. Identifiers are variable names; every value
// is a string.
type Predicate struct {
	source  string
	program *vm.Program
}

// CompilePredicate type-checks source against the schema's variables. An
// empty source is always true.
func (s *Schema) CompilePredicate(source string) (*Predicate, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &Predicate{}, nil
	}

	program, err := expr.Compile(source, expr.Env(s.predicateEnv()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid predicate %q: %w", source, err)
	}
	return &Predicate{source: source, program: program}, nil
}

func (s *Schema) predicateEnv() map[string]any {
	env := make(map[string]any, len(s.Variables))
	for _, v := range s.Variables {
		env[v.Name] = ""
	}
	return env
}

// Eval runs the predicate against a resolved configuration.
func (p *Predicate) Eval(c Configuration) (bool, error) {
	if p == nil || p.program == nil {
		return true, nil
	}

	env := make(map[string]any, len(c.values))
	for k, v := range c.values {
		env[k] = v
	}

	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", p.source, err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: result is %T, not bool", p.source, out)
	}
	return result, nil
}

func (p *Predicate) String() string {
	if p == nil {
		return ""
	}
	return p.source
}
