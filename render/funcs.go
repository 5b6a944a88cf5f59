// Package render provides the function map available to template paths,
// template contents and derived variable defaults.
package render

import (
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"
	"github.com/samber/lo"
)

// FuncMap returns the sprig text functions extended with the helpers used
// by project templates. Local helpers win over sprig names.
func FuncMap() template.FuncMap {
	local := template.FuncMap{
		"kebab":  toKebabCase,
		"pascal": toPascalCase,
		"slug":   pySlug,

		"underline": underline,
		"toml":      tomlString,
		"yamlq":     yamlString,
		"rstEscape": rstEscape,
	}

	return lo.Assign(template.FuncMap(sprig.TxtFuncMap()), local)
}

// pySlug turns a human project name into an importable Python identifier:
// lower case, spaces and dashes become underscores.
func pySlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "_", "-", "_").Replace(slug)
	return slug
}

// underline repeats char once per rune of title, for reStructuredText
// section headings.
func underline(char, title string) string {
	if char == "" {
		char = "="
	}
	return strings.Repeat(char, utf8.RuneCountInString(title))
}

// tomlString renders s as a TOML basic string, quotes included.
func tomlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// yamlString renders s as a single-quoted YAML scalar.
func yamlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// rstEscape backslash-escapes reStructuredText inline markup characters in
// free text.
func rstEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "`", "\\`", "_", `\_`, "|", `\|`)
	return r.Replace(s)
}
