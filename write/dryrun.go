package write

import (
	"sync"
)

type Action string

const (
	ActionMkdir  Action = "mkdir"
	ActionCreate Action = "create"
)

type Change struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
	Size   int    `json:"size"`
}

// DryRunWriter records what would be written and touches nothing.
type DryRunWriter struct {
	mu      sync.Mutex
	changes []Change
}

func NewDryRunWriter() *DryRunWriter {
	return &DryRunWriter{}
}

func (drw *DryRunWriter) MkdirAll(path string) error {
	drw.record(Change{Path: path, Action: ActionMkdir})
	return nil
}

func (drw *DryRunWriter) Write(path string, content []byte, options WriteOptions) error {
	drw.record(Change{Path: path, Action: ActionCreate, Size: len(content)})
	return nil
}

func (drw *DryRunWriter) record(c Change) {
	drw.mu.Lock()
	defer drw.mu.Unlock()
	drw.changes = append(drw.changes, c)
}

// Changes returns the recorded changes in write order.
func (drw *DryRunWriter) Changes() []Change {
	drw.mu.Lock()
	defer drw.mu.Unlock()
	return append([]Change(nil), drw.changes...)
}

func (drw *DryRunWriter) Reset() {
	drw.mu.Lock()
	defer drw.mu.Unlock()
	drw.changes = nil
}
