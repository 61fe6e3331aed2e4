package extract

import (
	"regexp"
	"strings"
)

var (
	pyImportRe = regexp.MustCompile(`(?m)^(?:import[ \t]+[^\n]+|from[ \t]+[^\n]+?[ \t]+import\b[^\n]*)`)
	pyClassRe  = regexp.MustCompile(`(?m)^class[ \t]+(\w+)[ \t]*(?:\(([^)]*)\))?[ \t]*:`)
	pyFuncRe   = regexp.MustCompile(`(?m)^(?:async[ \t]+)?def[ \t]+(\w+)[ \t]*\(`)
	pyMethodRe = regexp.MustCompile(`(?m)^([ \t]*)(?:async[ \t]+)?def[ \t]+(\w+)[ \t]*\(`)
	pyDocRe    = regexp.MustCompile(`^\s*(?:"""((?s).*?)"""|'''((?s).*?)''')`)
)

// Python implements the scripting-language strategy.
type Python struct{}

func init() {
	Register(&Python{})
}

func (p *Python) Name() string {
	return "python"
}

func (p *Python) Extensions() []string {
	return []string{".py"}
}

func (p *Python) Family() Family {
	return FamilyScripting
}

func (p *Python) Extract(text string) *Result {
	r := &Result{}

	for _, imp := range pyImportRe.FindAllString(text, -1) {
		r.Imports = append(r.Imports, strings.TrimRight(imp, " \t"))
	}

	for _, loc := range pyClassRe.FindAllStringSubmatchIndex(text, -1) {
		decl := TypeDecl{
			Kind: KindClass,
			Name: text[loc[2]:loc[3]],
		}
		if loc[4] >= 0 {
			decl.Bases = collapse(text[loc[4]:loc[5]])
		}

		bodyStart, bodyEnd := pySuite(text, loc[1], 0)
		body := text[bodyStart:bodyEnd]
		decl.Doc = pyDocstring(body)

		base := -1
		if body != "" {
			line, _ := lineAt(body, 0)
			base = indentWidth(line)
		}
		for _, m := range pyMethodRe.FindAllStringSubmatch(body, -1) {
			if len(m[1]) != base {
				continue
			}
			decl.addMethod(MethodDecl{Name: m[2]})
		}

		r.Types = append(r.Types, decl)
	}

	for _, loc := range pyFuncRe.FindAllStringSubmatchIndex(text, -1) {
		fn := FuncDecl{Name: text[loc[2]:loc[3]]}

		colon := pyHeaderColon(text, loc[1]-1)
		if colon >= 0 {
			bodyStart, bodyEnd := pySuite(text, colon+1, 0)
			fn.Doc = pyDocstring(text[bodyStart:bodyEnd])
		}
		r.Functions = append(r.Functions, fn)
	}

	return r
}

// pySuite returns the body that follows a header whose ':' ends just before
// afterColon. A body on the same line as the header is treated as empty.
func pySuite(text string, afterColon, outer int) (int, int) {
	rest, next := lineAt(text, afterColon)
	rest = strings.TrimSpace(rest)
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return afterColon, afterColon
	}
	return IndentedBlock(text, next, outer)
}

// pyHeaderColon finds the ':' that ends a def header whose parameter list
// opens at open. It returns -1 when the header is incomplete.
func pyHeaderColon(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func pyDocstring(body string) string {
	m := pyDocRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return collapse(m[1])
	}
	return collapse(m[2])
}
