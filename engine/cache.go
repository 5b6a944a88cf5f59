package engine

import (
	"io/fs"
	"sync"
	"text/template"

	"github.com/cpcf/skein/render"
)

type cacheKind uint8

const (
	contentTemplate cacheKind = iota
	pathTemplate
)

type cacheKey struct {
	tree *Tree
	kind cacheKind
	path string
}

// TemplateCache holds parsed templates per tree. Parsed templates are safe
// to execute concurrently.
type TemplateCache struct {
	mu        sync.RWMutex
	templates map[cacheKey]*template.Template
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		templates: make(map[cacheKey]*template.Template),
	}
}

// Get returns the content template of a file in the tree.
func (c *TemplateCache) Get(t *Tree, path string) (*template.Template, error) {
	return c.get(cacheKey{tree: t, kind: contentTemplate, path: path}, func() (string, error) {
		content, err := fs.ReadFile(t.fsys, path)
		return string(content), err
	})
}

// Path returns the template for the name of a node.
func (c *TemplateCache) Path(t *Tree, path string) (*template.Template, error) {
	return c.get(cacheKey{tree: t, kind: pathTemplate, path: path}, func() (string, error) {
		return path, nil
	})
}

func (c *TemplateCache) get(key cacheKey, load func() (string, error)) (*template.Template, error) {
	c.mu.RLock()
	if tmpl, exists := c.templates[key]; exists {
		c.mu.RUnlock()
		return tmpl, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if tmpl, exists := c.templates[key]; exists {
		return tmpl, nil
	}

	text, err := load()
	if err != nil {
		return nil, err
	}

	tmpl, err := newTemplate(key.path).Parse(text)
	if err != nil {
		return nil, err
	}

	c.templates[key] = tmpl
	return tmpl, nil
}

func (c *TemplateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

func (c *TemplateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates = make(map[cacheKey]*template.Template)
}

func newTemplate(name string) *template.Template {
	return template.New(name).Option("missingkey=error").Funcs(render.FuncMap())
}
