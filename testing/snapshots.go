package testing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SnapshotManager compares rendered output with files under a snapshot
// directory. In update mode mismatching or missing snapshots are rewritten.
type SnapshotManager struct {
	snapshotDir string
	updateMode  bool
	mu          sync.Mutex
	results     map[string]SnapshotResult
}

type SnapshotResult struct {
	TestName string `json:"test_name"`
	FilePath string `json:"file_path"`
	Passed   bool   `json:"passed"`
	Updated  bool   `json:"updated"`
}

type SnapshotSummary struct {
	Total   int
	Passed  int
	Failed  int
	Updated int
}

func (s SnapshotSummary) String() string {
	return fmt.Sprintf("snapshots: %d total, %d passed, %d failed, %d updated", s.Total, s.Passed, s.Failed, s.Updated)
}

func NewSnapshotManager(snapshotDir string, updateMode bool) *SnapshotManager {
	return &SnapshotManager{
		snapshotDir: snapshotDir,
		updateMode:  updateMode,
		results:     make(map[string]SnapshotResult),
	}
}

// UpdateFromEnv enables update mode when SKEIN_UPDATE_SNAPSHOTS is set.
func (sm *SnapshotManager) UpdateFromEnv() *SnapshotManager {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if os.Getenv("SKEIN_UPDATE_SNAPSHOTS") != "" {
		sm.updateMode = true
	}
	return sm
}

func (sm *SnapshotManager) AssertSnapshot(testName, actual string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	snapshotPath := filepath.Join(sm.snapshotDir, testName+".snapshot")
	result := SnapshotResult{TestName: testName, FilePath: snapshotPath}
	defer func() { sm.results[testName] = result }()

	data, err := os.ReadFile(snapshotPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !sm.updateMode {
			return fmt.Errorf("snapshot does not exist: %s (run with update mode to create)", snapshotPath)
		}
	case err != nil:
		return fmt.Errorf("failed to load snapshot: %w", err)
	case string(data) == actual:
		result.Passed = true
		return nil
	case !sm.updateMode:
		return fmt.Errorf("snapshot mismatch for %s:\n%s", testName, Diff(string(data), actual))
	}

	if err := os.MkdirAll(sm.snapshotDir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(snapshotPath, []byte(actual), 0o644); err != nil {
		return err
	}
	result.Passed, result.Updated = true, true
	return nil
}

func (sm *SnapshotManager) Summary() SnapshotSummary {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	var summary SnapshotSummary
	for _, r := range sm.results {
		summary.Total++
		if r.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		if r.Updated {
			summary.Updated++
		}
	}
	return summary
}

// CleanOrphanSnapshots removes snapshot files not named in activeTests.
func (sm *SnapshotManager) CleanOrphanSnapshots(activeTests []string) error {
	active := make(map[string]bool, len(activeTests))
	for _, name := range activeTests {
		active[name+".snapshot"] = true
	}

	entries, err := os.ReadDir(sm.snapshotDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".snapshot") || active[e.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(sm.snapshotDir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Diff renders a line-oriented diff with "-" for expected and "+" for
// actual lines.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffEqual:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(strings.TrimSuffix(line, "\n"))
			out.WriteString("\n")
		}
	}
	return out.String()
}

// ReadTree loads every regular file under root keyed by slash-separated
// relative path.
func ReadTree(root string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	return files, err
}

// SortedKeys returns the keys of a tree map in lexical order.
func SortedKeys(files map[string][]byte) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
