package postprocess

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mockProcessor for testing
type mockProcessor struct {
	name      string
	transform func(string, []byte) ([]byte, error)
}

func (m *mockProcessor) ProcessContent(filePath string, content []byte) ([]byte, error) {
	if m.transform != nil {
		return m.transform(filePath, content)
	}
	// Default: add processor name as prefix
	return []byte(m.name + ":" + string(content)), nil
}

func TestChain_Add(t *testing.T) {
	chain := NewChain()
	if chain.Len() != 0 {
		t.Errorf("New chain should be empty, got length %d", chain.Len())
	}

	processor := &mockProcessor{name: "test"}
	chain.Add(processor)
	if chain.Len() != 1 {
		t.Errorf("Chain should have 1 processor after Add, got %d", chain.Len())
	}

	if !chain.HasProcessors() {
		t.Errorf("Chain should have processors after Add")
	}
}

func TestChain_AddFunc(t *testing.T) {
	chain := NewChain()

	chain.AddFunc(func(filePath string, content []byte) ([]byte, error) {
		return []byte("func:" + string(content)), nil
	})

	if chain.Len() != 1 {
		t.Errorf("Chain should have 1 processor after AddFunc, got %d", chain.Len())
	}

	result, err := chain.Process("test.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	expected := "func:hello"
	if string(result) != expected {
		t.Errorf("Expected %q, got %q", expected, string(result))
	}
}

func TestChain_Process(t *testing.T) {
	tests := []struct {
		name        string
		processors  []Processor
		input       string
		expected    string
		shouldError bool
	}{
		{
			name:       "empty chain",
			processors: []Processor{},
			input:      "hello",
			expected:   "hello",
		},
		{
			name: "single processor",
			processors: []Processor{
				&mockProcessor{name: "A"},
			},
			input:    "hello",
			expected: "A:hello",
		},
		{
			name: "multiple processors",
			processors: []Processor{
				&mockProcessor{name: "A"},
				&mockProcessor{name: "B"},
			},
			input:    "hello",
			expected: "B:A:hello",
		},
		{
			name: "processor error",
			processors: []Processor{
				&mockProcessor{
					name: "error",
					transform: func(string, []byte) ([]byte, error) {
						return nil, errors.New("processor error")
					},
				},
			},
			input:       "hello",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewChain()
			for _, processor := range tt.processors {
				chain.Add(processor)
			}

			result, err := chain.Process("test.txt", []byte(tt.input))

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error, got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if string(result) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, string(result))
			}
		})
	}
}

func TestChain_Clear(t *testing.T) {
	chain := NewChain()
	chain.Add(&mockProcessor{name: "test1"})
	chain.Add(&mockProcessor{name: "test2"})

	if chain.Len() != 2 {
		t.Errorf("Expected 2 processors before clear, got %d", chain.Len())
	}

	chain.Clear()

	if chain.Len() != 0 {
		t.Errorf("Expected 0 processors after clear, got %d", chain.Len())
	}

	if chain.HasProcessors() {
		t.Errorf("Chain should not have processors after clear")
	}
}

func TestProcessorFunc(t *testing.T) {
	fn := ProcessorFunc(func(filePath string, content []byte) ([]byte, error) {
		return []byte(strings.ToUpper(string(content))), nil
	})

	result, err := fn.ProcessContent("test.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("ProcessorFunc failed: %v", err)
	}

	expected := "HELLO"
	if string(result) != expected {
		t.Errorf("Expected %q, got %q", expected, string(result))
	}
}

func TestOnly(t *testing.T) {
	upper := ProcessorFunc(func(_ string, content []byte) ([]byte, error) {
		return []byte(strings.ToUpper(string(content))), nil
	})
	scoped := Only(upper, "**/*.toml", ".bumpversion.cfg")

	tests := []struct {
		path     string
		expected string
	}{
		{"pyproject.toml", "ABC"},
		{"docs/conf.toml", "ABC"},
		{".bumpversion.cfg", "ABC"},
		{"README.rst", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := scoped.ProcessContent(tt.path, []byte("abc"))
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, string(got))
			}
		})
	}
}

func TestChain_ApplyDir(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"setup.cfg":       "name = x  \n",
		"docs/index.rst":  "index\n",
		"pkg/__init__.py": "",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var seen []string
	chain := NewChain()
	chain.AddFunc(func(filePath string, content []byte) ([]byte, error) {
		seen = append(seen, filePath)
		return []byte(strings.ReplaceAll(string(content), "  \n", "\n")), nil
	})

	if err := chain.ApplyDir(root); err != nil {
		t.Fatalf("ApplyDir failed: %v", err)
	}

	if len(seen) != len(files) {
		t.Errorf("expected %d files processed, got %v", len(files), seen)
	}
	for _, p := range seen {
		if filepath.IsAbs(p) || strings.Contains(p, "\\") {
			t.Errorf("processor got non-relative path %q", p)
		}
	}

	content, err := os.ReadFile(filepath.Join(root, "setup.cfg"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "name = x\n" {
		t.Errorf("setup.cfg not rewritten: %q", content)
	}

	failing := NewChain()
	failing.AddFunc(func(string, []byte) ([]byte, error) { return nil, errors.New("lint") })
	if err := failing.ApplyDir(root); err == nil {
		t.Error("expected error from failing processor")
	}
}
