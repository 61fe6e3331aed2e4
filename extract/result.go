package extract

import (
	"strings"
)

// NoContext is returned by Extract when nothing could be recovered.
const NoContext = "No code context extracted."

// Kind is the declaration kind of a type.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindStruct    Kind = "struct"
	KindRecord    Kind = "record"
	KindEnum      Kind = "enum"
)

// Title returns the kind as a section label, e.g. "Class".
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Result is the ordered set of declarations recovered from one file.
type Result struct {
	Imports   []string   `json:"imports,omitempty"`
	Namespace string     `json:"namespace,omitempty"`
	Types     []TypeDecl `json:"types,omitempty"`
	Functions []FuncDecl `json:"functions,omitempty"`
}

// TypeDecl is a class, interface, struct, record or enum.
type TypeDecl struct {
	Kind       Kind           `json:"kind"`
	Name       string         `json:"name"`
	Bases      string         `json:"bases,omitempty"`
	Doc        string         `json:"doc,omitempty"`
	Properties []PropertyDecl `json:"properties,omitempty"`
	Methods    []MethodDecl   `json:"methods,omitempty"`
	Values     []EnumValue    `json:"values,omitempty"`
}

// PropertyDecl is a property or field with its raw declared type.
type PropertyDecl struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MethodDecl is a method with its raw declared return type, if any.
type MethodDecl struct {
	Name       string `json:"name"`
	ReturnType string `json:"return_type,omitempty"`
}

// EnumValue is one enum member and its optional literal.
type EnumValue struct {
	Name    string `json:"name"`
	Literal string `json:"literal,omitempty"`
}

// FuncDecl is a free function.
type FuncDecl struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty"`
}

// Summarize runs the strategy registered for path's extension.
// It returns nil when the extension is not supported.
func Summarize(path, text string) *Result {
	lang := ForPath(path)
	if lang == nil {
		return nil
	}
	return lang.Extract(strings.ReplaceAll(text, "\r\n", "\n"))
}

// Extract returns the rendered summary for a file, or NoContext when the
// extension is unsupported or no declarations were found.
func Extract(path, text string) string {
	r := Summarize(path, text)
	if r.Empty() {
		return NoContext
	}
	return r.Render()
}

// Empty reports whether no declaration of any kind was recovered.
func (r *Result) Empty() bool {
	return r == nil ||
		len(r.Imports) == 0 && r.Namespace == "" && len(r.Types) == 0 && len(r.Functions) == 0
}

// Render formats the result as labeled sections separated by blank lines.
// Empty sections are omitted.
func (r *Result) Render() string {
	if r.Empty() {
		return ""
	}

	var sections []string
	if len(r.Imports) > 0 {
		sections = append(sections, section("Imports:", r.Imports))
	}
	if r.Namespace != "" {
		sections = append(sections, "Namespace: "+r.Namespace)
	}
	for _, t := range r.Types {
		sections = append(sections, t.render())
	}
	if len(r.Functions) > 0 {
		funcs := make([]string, 0, len(r.Functions))
		for _, f := range r.Functions {
			if f.Doc != "" {
				funcs = append(funcs, f.Name+": "+f.Doc)
			} else {
				funcs = append(funcs, f.Name)
			}
		}
		sections = append(sections, section("Functions:", funcs))
	}

	return strings.Join(sections, "\n\n")
}

func (t TypeDecl) render() string {
	lines := []string{t.Kind.Title() + ": " + t.Name}
	if t.Bases != "" {
		lines = append(lines, "Inherits/Implements: "+t.Bases)
	}
	if t.Doc != "" {
		lines = append(lines, "Documentation: "+t.Doc)
	}

	if t.Kind == KindEnum {
		if len(t.Values) > 0 {
			values := make([]string, 0, len(t.Values))
			for _, v := range t.Values {
				if v.Literal != "" {
					values = append(values, v.Name+" = "+v.Literal)
				} else {
					values = append(values, v.Name)
				}
			}
			lines = append(lines, section("Values:", values))
		}
		return strings.Join(lines, "\n")
	}

	if len(t.Properties) > 0 {
		props := make([]string, 0, len(t.Properties))
		for _, p := range t.Properties {
			props = append(props, p.Name+": "+p.Type)
		}
		lines = append(lines, section("Properties:", props))
	}
	if len(t.Methods) > 0 {
		methods := make([]string, 0, len(t.Methods))
		for _, m := range t.Methods {
			if m.ReturnType != "" {
				methods = append(methods, m.Name+"(): "+m.ReturnType)
			} else {
				methods = append(methods, m.Name)
			}
		}
		lines = append(lines, section("Methods:", methods))
	}
	return strings.Join(lines, "\n")
}

// addMethod appends m unless it is a property accessor (get_/set_ prefix).
func (t *TypeDecl) addMethod(m MethodDecl) {
	if isAccessor(m.Name) {
		return
	}
	t.Methods = append(t.Methods, m)
}

func isAccessor(name string) bool {
	return strings.HasPrefix(name, "get_") || strings.HasPrefix(name, "set_")
}

func section(label string, items []string) string {
	var sb strings.Builder
	sb.WriteString(label)
	for _, item := range items {
		sb.WriteString("\n  ")
		sb.WriteString(item)
	}
	return sb.String()
}
