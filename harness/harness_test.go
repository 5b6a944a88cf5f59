package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cpcf/skein/engine"
	"github.com/cpcf/skein/hooks"
	"github.com/cpcf/skein/schema"
	skeintest "github.com/cpcf/skein/testing"
)

const demoTree = `-- skein.yaml --
name: demo
root: "{{.project_slug}}"
variables:
  - name: project_name
    default: Demo Project
  - name: project_slug
    default: '{{ .project_name | lower | replace " " "_" }}'
  - name: create_author_file
    kind: yesno
    default: "y"
  - name: open_source_license
    kind: choice
    choices: [MIT license, Not open source]
hooks:
  select_license: {}
  remove:
    - paths: [AUTHORS.rst]
      when: create_author_file == "n"
  derived_values:
    paths: [LICENSE]
-- {{.project_slug}}/README.rst --
{{.project_name}}
-- {{.project_slug}}/AUTHORS.rst --
authors
-- {{.project_slug}}/licenses/MIT --
MIT License [% year %]
-- {{.project_slug}}/.travis.yml --
language: python
{{- if eq .create_author_file "y" }}
deploy:
  provider: pypi
{{- end }}
-- {{.project_slug}}/setup.cfg --
[metadata]
name = {{.project_slug}}

[bumpversion:file:{{.project_slug}}/__init__.py]
search = x
`

var fixedNow = time.Date(2031, 3, 4, 5, 6, 7, 0, time.UTC)

type stubCall struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string
}

type stubRunner struct {
	mu      sync.Mutex
	missing map[string]bool
	results map[string]CmdResult
	calls   []stubCall
}

func newStubRunner() *stubRunner {
	return &stubRunner{missing: map[string]bool{}, results: map[string]CmdResult{}}
}

func (s *stubRunner) Run(_ context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubCall{Name: name, Args: args, Dir: opts.Dir, Env: opts.Env})
	if s.missing[name] {
		return CmdResult{}, exec.ErrNotFound
	}
	return s.results[strings.Join(append([]string{name}, args...), " ")], nil
}

func (s *stubRunner) LookPath(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing[name] {
		return "", exec.ErrNotFound
	}
	return "/stub/" + name, nil
}

func (s *stubRunner) Calls() []stubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stubCall(nil), s.calls...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func loadDemo(t *testing.T) *engine.Tree {
	t.Helper()
	tree, err := engine.LoadTree(skeintest.FromTxtar([]byte(demoTree)))
	require.NoError(t, err)
	schema.RegisterVariants(tree.Schema())
	return tree
}

func newHarness(t *testing.T, opts ...Option) (*Harness, string) {
	t.Helper()
	out := t.TempDir()
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithClock(hooks.FixedClock(fixedNow)),
		WithRunner(newStubRunner()),
		WithEngineOptions(engine.WithOutputRoot(out)),
	}, opts...)
	h, err := New(loadDemo(t), opts...)
	require.NoError(t, err)
	return h, out
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary projects must be removed")
}

func TestBake(t *testing.T) {
	h, out := newHarness(t)

	r := h.Bake(context.Background(), nil)
	require.True(t, r.OK(), "bake failed: %v", r.Err)
	assert.Equal(t, 0, r.ExitCode)
	assert.NotEqual(t, "", r.RunID.String())
	assert.Equal(t, "demo_project", filepath.Base(r.Project.Root))

	license, err := r.Project.ReadFile("LICENSE")
	require.NoError(t, err)
	assert.Equal(t, "MIT License 2031\n", string(license))
	assert.NoDirExists(t, r.Project.Path("licenses"))

	require.NoError(t, r.Project.Remove())
	assertEmptyDir(t, out)
}

func TestBake_ConfigurationError(t *testing.T) {
	h, out := newHarness(t)

	r := h.Bake(context.Background(), map[string]string{"open_source_license": "GPL"})
	assert.False(t, r.OK())
	assert.Equal(t, 1, r.ExitCode)
	assert.Nil(t, r.Project)

	var cfgErr *schema.ConfigurationError
	require.ErrorAs(t, r.Err, &cfgErr)
	assert.Equal(t, "open_source_license", cfgErr.Key)
	assertEmptyDir(t, out)
}

func TestWithBaked_RemovesProjectOnEveryPath(t *testing.T) {
	h, out := newHarness(t)
	boom := errors.New("boom")

	var root string
	err := h.WithBaked(context.Background(), nil, func(r *Result) error {
		require.NoError(t, r.Err)
		root = r.Project.Root
		assert.DirExists(t, root)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoDirExists(t, root)

	err = h.WithBaked(context.Background(), nil, func(r *Result) error { return nil })
	assert.NoError(t, err)
	assertEmptyDir(t, out)
}

func TestMatchPattern_UnmarshalYAML(t *testing.T) {
	var patterns []MatchPattern
	doc := `
- plain
- !not absent
- !re '^MIT'
- !ci gnu general
- !not-re 'license = '
- 2031
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &patterns))
	assert.Equal(t, []MatchPattern{
		{Pattern: "plain"},
		{Pattern: "absent", Negate: true},
		{Pattern: "^MIT", Regexp: true},
		{Pattern: "gnu general", IgnoreCase: true},
		{Pattern: "license = ", Negate: true, Regexp: true},
		{Pattern: "2031"},
	}, patterns)

	assert.Error(t, yaml.Unmarshal([]byte("- !glob x"), &patterns))
	assert.Error(t, yaml.Unmarshal([]byte("- [a, b]"), &patterns))
}

func TestMatchPattern_Check(t *testing.T) {
	const text = "GNU GENERAL PUBLIC LICENSE\nVersion 3\n"

	tests := []struct {
		name    string
		pattern MatchPattern
		ok      bool
	}{
		{"substring", MatchPattern{Pattern: "Version 3"}, true},
		{"missing substring", MatchPattern{Pattern: "Version 2"}, false},
		{"negated absent", MatchPattern{Pattern: "MIT", Negate: true}, true},
		{"negated present", MatchPattern{Pattern: "GNU", Negate: true}, false},
		{"regexp", MatchPattern{Pattern: `(?m)^Version \d$`, Regexp: true}, true},
		{"invalid regexp", MatchPattern{Pattern: `(`, Regexp: true}, false},
		{"case insensitive", MatchPattern{Pattern: "gnu general public license", IgnoreCase: true}, true},
		{"case sensitive by default", MatchPattern{Pattern: "gnu general public license"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.check(Content, "LICENSE", text)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var failure *AssertionFailure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, Content, failure.Category)
			assert.Equal(t, "LICENSE", failure.Subject)
		})
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{
		"tool": map[string]any{
			"poetry": map[string]any{"name": "demo"},
		},
		"bumpversion:file:demo/__init__.py": map[string]any{"search": "x"},
	}

	v, ok := lookup(data, "tool.poetry.name")
	assert.True(t, ok)
	assert.Equal(t, "demo", v)

	v, ok = lookup(data, "bumpversion:file:demo/__init__.py.search")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = lookup(data, "tool.poetry.license")
	assert.False(t, ok)
	_, ok = lookup(data, "tool.poetry.name.deeper")
	assert.False(t, ok)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, normalizeValue([]any{int64(3), "3.8"}), normalizeValue([]any{3, "3.8"}))
	assert.Equal(t, "true", normalizeValue(true))
	assert.Nil(t, normalizeValue(nil))
}

func passingExpectation() Expectation {
	return Expectation{
		Toplevel: Listing{
			Contains: []string{"README.rst", "AUTHORS.rst", "LICENSE", ".travis.yml"},
			Omits:    []string{"licenses"},
		},
		Exists:    []string{"setup.cfg"},
		NotExists: []string{"licenses/MIT"},
		FileContains: map[string][]MatchPattern{
			"LICENSE":    {{Pattern: "MIT License"}, {Pattern: "2031"}},
			"README.rst": {{Pattern: "Demo Project"}, {Pattern: "License", Negate: true}},
		},
		Parsed: []ParsedCheck{
			{File: ".travis.yml", Has: []string{"deploy"}, Equals: map[string]any{"language": "python", "deploy.provider": "pypi"}},
			{File: "setup.cfg", Equals: map[string]any{"metadata.name": "demo_project"}},
		},
		Commands: []CommandCheck{{Run: "poetry check"}},
	}
}

func TestRunScenario(t *testing.T) {
	type want struct {
		status   Status
		category Category
		external bool
	}

	tests := []struct {
		name     string
		scenario func(sc *Scenario)
		want     want
	}{
		{
			name:     "passes",
			scenario: func(sc *Scenario) {},
			want:     want{status: Passed},
		},
		{
			name: "structural failure",
			scenario: func(sc *Scenario) {
				sc.Context = map[string]string{"create_author_file": "n"}
			},
			want: want{status: Failed, category: Structural},
		},
		{
			name: "nested structure",
			scenario: func(sc *Scenario) {
				sc.Expect.Dirs = map[string]Listing{"missing": {Contains: []string{"x"}}}
			},
			want: want{status: Failed, category: Structural},
		},
		{
			name: "content failure",
			scenario: func(sc *Scenario) {
				sc.Expect.FileContains["LICENSE"] = []MatchPattern{{Pattern: "Apache"}}
			},
			want: want{status: Failed, category: Content},
		},
		{
			name: "parsed failure",
			scenario: func(sc *Scenario) {
				sc.Expect.Parsed = []ParsedCheck{{File: ".travis.yml", Lacks: []string{"deploy"}}}
			},
			want: want{status: Failed, category: Parsed},
		},
		{
			name: "parsed value mismatch",
			scenario: func(sc *Scenario) {
				sc.Expect.Parsed = []ParsedCheck{{File: ".travis.yml", Equals: map[string]any{"language": "go"}}}
			},
			want: want{status: Failed, category: Parsed},
		},
		{
			name: "external tool failure",
			scenario: func(sc *Scenario) {
				sc.Expect.Commands = []CommandCheck{{Run: "make lint"}}
			},
			want: want{status: Failed, external: true},
		},
		{
			name: "unexpected stdout",
			scenario: func(sc *Scenario) {
				sc.Expect.Commands = []CommandCheck{{Run: "make help", Stdout: []MatchPattern{{Pattern: "coverage"}}}}
			},
			want: want{status: Failed, external: true},
		},
		{
			name: "expected exit code",
			scenario: func(sc *Scenario) {
				sc.Expect.Commands = []CommandCheck{{Run: "make lint", ExitCode: 2}}
			},
			want: want{status: Passed},
		},
		{
			name: "missing tool is skipped",
			scenario: func(sc *Scenario) {
				sc.Expect.Commands = []CommandCheck{{Run: "tox -e py"}, {Run: "make lint", Requires: []string{"make", "tox"}}}
			},
			want: want{status: Passed},
		},
		{
			name: "command skipped on this os",
			scenario: func(sc *Scenario) {
				sc.Expect.Commands = []CommandCheck{{Run: "make lint", SkipOS: runtime.GOOS}}
			},
			want: want{status: Passed},
		},
		{
			name: "expected failure",
			scenario: func(sc *Scenario) {
				sc.Context = map[string]string{"open_source_license": "mit"}
				sc.XFail = "choices are case sensitive"
			},
			want: want{status: XFailed},
		},
		{
			name: "unexpected pass",
			scenario: func(sc *Scenario) {
				sc.XFail = "should fail but does not"
			},
			want: want{status: XPassed},
		},
		{
			name: "configuration error",
			scenario: func(sc *Scenario) {
				sc.Context = map[string]string{"unknown": "x"}
			},
			want: want{status: Failed},
		},
		{
			name: "skipped on this os",
			scenario: func(sc *Scenario) {
				sc.Skip.OS = "^" + runtime.GOOS + "$"
			},
			want: want{status: Skipped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newStubRunner()
			runner.missing["tox"] = true
			runner.results["make lint"] = CmdResult{ExitCode: 2, Stderr: "lint failed"}
			runner.results["make help"] = CmdResult{Stdout: "help"}
			h, out := newHarness(t, WithRunner(runner))

			sc := Scenario{Name: tt.name, Expect: passingExpectation()}
			tt.scenario(&sc)

			outcome := h.RunScenario(context.Background(), sc)
			assert.Equal(t, tt.want.status, outcome.Status, "error: %v", outcome.Err)
			assertEmptyDir(t, out)

			if tt.want.category != "" {
				var failure *AssertionFailure
				require.ErrorAs(t, outcome.Err, &failure)
				assert.Equal(t, tt.want.category, failure.Category)
			}
			if tt.want.external {
				var toolErr *ExternalToolFailure
				require.ErrorAs(t, outcome.Err, &toolErr)
				assert.NotEmpty(t, toolErr.Command)
			}
		})
	}
}

func TestRunScenario_SkippedCommands(t *testing.T) {
	runner := newStubRunner()
	runner.missing["poetry"] = true
	h, _ := newHarness(t, WithRunner(runner))

	outcome := h.RunScenario(context.Background(), Scenario{Name: "defaults", Expect: passingExpectation()})
	assert.Equal(t, Passed, outcome.Status)
	assert.Equal(t, []string{"poetry check (poetry not found)"}, outcome.Skipped)
	assert.Empty(t, runner.Calls())
}

func TestRunScenario_FirstFailureAborts(t *testing.T) {
	runner := newStubRunner()
	h, _ := newHarness(t, WithRunner(runner))

	exp := passingExpectation()
	exp.Toplevel.Contains = append(exp.Toplevel.Contains, "pyproject.toml")

	outcome := h.RunScenario(context.Background(), Scenario{Name: "missing", Expect: exp})
	assert.Equal(t, Failed, outcome.Status)
	assert.Empty(t, runner.Calls(), "commands must not run after a structural failure")
}

func TestRunScenario_CommandsRunInProject(t *testing.T) {
	runner := newStubRunner()
	h, _ := newHarness(t, WithRunner(runner))

	exp := Expectation{Commands: []CommandCheck{{
		Run: `poetry run python -c 'print("a b")' $MODE`,
		Env: map[string]string{"MODE": "fast"},
	}}}
	outcome := h.RunScenario(context.Background(), Scenario{Name: "cmd", Expect: exp})
	require.Equal(t, Passed, outcome.Status, "error: %v", outcome.Err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "poetry", calls[0].Name)
	assert.Equal(t, []string{"run", "python", "-c", `print("a b")`, "fast"}, calls[0].Args)
	assert.Equal(t, "demo_project", filepath.Base(calls[0].Dir))
	assert.Equal(t, "fast", calls[0].Env["MODE"])
}

func TestRunAll(t *testing.T) {
	h, out := newHarness(t, WithParallelism(3))

	failing := passingExpectation()
	failing.FileContains = map[string][]MatchPattern{"README.rst": {{Pattern: "nope"}}}

	suite := &Suite{Scenarios: []Scenario{
		{Name: "one", Expect: passingExpectation()},
		{Name: "two", Expect: failing},
		{Name: "three", Expect: failing, XFail: "known"},
		{Name: "four", Context: map[string]string{"open_source_license": "Not open source"}},
		{Name: "five", Skip: struct {
			OS string `yaml:"os"`
		}{OS: ".*"}},
	}}

	report := h.RunAll(context.Background(), suite)
	require.Len(t, report.Outcomes, 5)

	var names []string
	for _, o := range report.Outcomes {
		names = append(names, o.Scenario)
	}
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, names)

	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Count(Failed))
	require.Len(t, report.Failures(), 1)
	assert.Equal(t, "two", report.Failures()[0].Scenario)
	assert.Equal(t, "2 passed, 1 failed, 1 xfailed, 1 skipped", report.Summary())

	var buf strings.Builder
	require.NoError(t, report.Write(&buf))
	assert.Contains(t, buf.String(), "FAILED   two: content assertion on README.rst")
	assertEmptyDir(t, out)
}

func TestReport_OK(t *testing.T) {
	r := &Report{Outcomes: []Outcome{{Status: Passed}, {Status: XFailed}, {Status: XPassed}, {Status: Skipped}}}
	assert.True(t, r.OK())
	assert.Equal(t, "no scenarios", (&Report{}).Summary())
}

func TestKeepFailed(t *testing.T) {
	keep := t.TempDir()
	h, out := newHarness(t, WithKeepFailed(keep))

	exp := Expectation{FileContains: map[string][]MatchPattern{"README.rst": {{Pattern: "nope"}}}}
	outcome := h.RunScenario(context.Background(), Scenario{Name: "keep me/please", Expect: exp})
	require.Equal(t, Failed, outcome.Status)

	want := filepath.Join(keep, fmt.Sprintf("keep-me-please-%s", outcome.RunID))
	assert.Equal(t, want, outcome.KeptAt)
	assert.FileExists(t, filepath.Join(want, "README.rst"))
	assertEmptyDir(t, out)
}

func TestCheckIdempotent(t *testing.T) {
	h, _ := newHarness(t)
	assert.NoError(t, h.CheckIdempotent(context.Background(), nil))

	year := 2030
	ticking := hooks.ClockFunc(func() time.Time {
		year++
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	h, _ = newHarness(t, WithClock(ticking))

	err := h.CheckIdempotent(context.Background(), nil)
	var failure *AssertionFailure
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, failure.Message, "modified LICENSE")

	assert.NoError(t, h.CheckIdempotent(context.Background(), nil, "LICENSE"))

	err = h.CheckIdempotent(context.Background(), map[string]string{"bogus": "x"})
	var cfgErr *schema.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestWorkdir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs", "api"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "index.rst"), []byte("index"), 0o644))

	runner := newStubRunner()
	w := NewWorkdir(root, runner)

	err := w.Within("docs", func(docs Workdir) error {
		data, err := docs.ReadFile("index.rst")
		require.NoError(t, err)
		assert.Equal(t, "index", string(data))

		err = docs.Within("api", func(api Workdir) error {
			assert.Equal(t, filepath.Join(root, "docs", "api"), api.Dir())
			return errors.New("inner failure")
		})
		assert.EqualError(t, err, "inner failure")
		assert.Equal(t, filepath.Join(root, "docs"), docs.Dir())

		_, err = docs.Run(context.Background(), "make html")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, root, w.Dir())

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, filepath.Join(root, "docs"), calls[0].Dir)

	assert.Error(t, w.Within("docs/index.rst", func(Workdir) error { return nil }))
	assert.Error(t, w.Within("absent", func(Workdir) error { return nil }))

	_, err = w.Run(context.Background(), "   ")
	assert.Error(t, err)
	_, err = w.Run(context.Background(), "echo 'unterminated")
	assert.Error(t, err)
}

func TestWorkdir_Check(t *testing.T) {
	runner := newStubRunner()
	runner.results["pytest"] = CmdResult{ExitCode: 1, Stdout: "1 failed"}
	runner.missing["poetry"] = true
	w := NewWorkdir(t.TempDir(), runner)

	_, err := w.Check(context.Background(), "pytest")
	var toolErr *ExternalToolFailure
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, 1, toolErr.ExitCode)
	assert.Equal(t, "1 failed", toolErr.Output)

	_, err = w.Check(context.Background(), "poetry check")
	require.ErrorAs(t, err, &toolErr)
	assert.ErrorIs(t, err, exec.ErrNotFound)

	assert.False(t, w.Has("poetry"))
	assert.True(t, w.Has("pytest"))
}

func TestRealRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}

	r := NewRealRunner()
	dir := t.TempDir()

	res, err := r.Run(context.Background(), "sh", []string{"-c", `printf '%s' "$SKEIN_VALUE"; pwd >&2; exit 3`},
		RunOpts{Dir: dir, Env: map[string]string{"SKEIN_VALUE": "out"}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out", res.Stdout)
	assert.Contains(t, res.Stderr, filepath.Base(dir))

	_, err = r.Run(context.Background(), "skein-no-such-tool", nil, RunOpts{})
	assert.Error(t, err)
	_, err = r.LookPath("skein-no-such-tool")
	assert.Error(t, err)
}

func TestLoadSuiteFS(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.yaml": {Data: []byte(`
template: demo
scenarios:
  - name: defaults
    expect:
      toplevel:
        contains: [README.rst]
      file_contains:
        LICENSE:
          - MIT License
          - !not Apache
      commands:
        - run: make help
          skip_os: windows
          stdout: [coverage]
  - name: closed
    context:
      open_source_license: Not open source
    xfail: not yet
    skip:
      os: plan9
`)},
		"dup.yaml": {Data: []byte(`
scenarios:
  - name: a
  - name: a
`)},
		"badre.yaml": {Data: []byte(`
scenarios:
  - name: a
    skip:
      os: "("
`)},
		"norun.yaml": {Data: []byte(`
scenarios:
  - name: a
    expect:
      commands:
        - exit_code: 1
`)},
	}

	suite, err := LoadSuiteFS(fsys, "ok.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo", suite.Template)
	require.Len(t, suite.Scenarios, 2)

	sc, ok := suite.Find("defaults")
	require.True(t, ok)
	assert.Equal(t, []MatchPattern{{Pattern: "MIT License"}, {Pattern: "Apache", Negate: true}}, sc.Expect.FileContains["LICENSE"])
	assert.Equal(t, "windows", sc.Expect.Commands[0].SkipOS)

	sc, ok = suite.Find("closed")
	require.True(t, ok)
	assert.Equal(t, "Not open source", sc.Context["open_source_license"])
	assert.Equal(t, "not yet", sc.XFail)
	assert.Equal(t, "plan9", sc.Skip.OS)

	_, ok = suite.Find("absent")
	assert.False(t, ok)

	for _, name := range []string{"dup.yaml", "badre.yaml", "norun.yaml", "missing.yaml"} {
		_, err := LoadSuiteFS(fsys, name)
		assert.Error(t, err, name)
	}
}

func TestLoadSuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - name: defaults\n"), 0o644))

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	assert.Len(t, suite.Scenarios, 1)
}
