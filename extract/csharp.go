package extract

import (
	"regexp"
	"strings"
)

const (
	csVisibility = `(?:public|private|protected|internal)(?:\s+(?:protected|internal|private))?\s+`
	csModifiers  = `(?:(?:static|virtual|override|abstract|sealed|readonly|new|extern|unsafe|const|volatile|required|async|partial|event)\s+)*`
	csTypeText   = `([\w.]+(?:\s*<[^;{}()=]*>)?[\[\],?]*)`
	csMemberTail = `\s+(\w+)`
)

var (
	csUsingRe     = regexp.MustCompile(`(?m)^(?:global[ \t]+)?using[ \t]+[^;(\n]+;`)
	csNamespaceRe = regexp.MustCompile(`(?m)^[ \t]*namespace\s+([\w.]+)`)

	csTypeRe = regexp.MustCompile(
		`(?:\b(?:public|private|protected|internal|static|abstract|sealed|partial|readonly|unsafe|new|file)\s+)*` +
			`\b(class|interface|struct|record|enum)\s+(\w+)(?:\s*<[^>{]*>)?(?:\s*\([^)]*\))?` +
			`(?:\s*:\s*([^{]+?))?\s*(?:where\s[^{]*)?\{`)

	csDocRe     = regexp.MustCompile(`(?m)(?:^[ \t]*///[^\n]*(?:\n|$))+`)
	csSummaryRe = regexp.MustCompile(`(?s)<summary>(.*?)</summary>`)
	csSeeRe     = regexp.MustCompile(`<see(?:also)?\s+(?:cref|langword|href)="([^"]*)"\s*/>`)
	csTagRe     = regexp.MustCompile(`<[^>]+>`)
	csDeclRe    = regexp.MustCompile(`\b(?:public|private|protected|internal|static|abstract|sealed|partial|readonly|unsafe|file|class|interface|struct|record|enum)\b`)

	csPropertyRe = regexp.MustCompile(`\b` + csVisibility + csModifiers + csTypeText + csMemberTail + `\s*(?:\{|=>|=|;)`)
	csMethodRe   = regexp.MustCompile(`\b` + csVisibility + csModifiers + csTypeText + csMemberTail +
		`\s*(?:<[^>(]*>)?\s*\([^)]*\)\s*(?:where\s[^{;]*)?(?:\{|=>|;)`)

	// Interface members usually omit visibility.
	csIfacePropertyRe = regexp.MustCompile(`(?m)^[ \t]*(?:` + csVisibility + `)?` + csModifiers + csTypeText + csMemberTail + `\s*(?:\{|=>|;)`)
	csIfaceMethodRe   = regexp.MustCompile(`(?m)^[ \t]*(?:` + csVisibility + `)?` + csModifiers + csTypeText + csMemberTail +
		`\s*(?:<[^>(]*>)?\s*\([^)]*\)\s*(?:where\s[^{;]*)?(?:\{|=>|;)`)

	csEnumCommentRe   = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`)
	csEnumAttributeRe = regexp.MustCompile(`\[[^\]]*\]`)
	csEnumValueRe     = regexp.MustCompile(`(?s)^(\w+)(?:\s*=\s*(.+))?$`)
)

// typeKeywords are never reported as the declared type of a property.
var typeKeywords = map[string]bool{
	"class": true, "interface": true, "struct": true, "record": true, "enum": true,
	"delegate": true, "return": true, "using": true, "namespace": true,
}

// CSharp implements the managed-language strategy.
type CSharp struct{}

func init() {
	Register(&CSharp{})
}

func (c *CSharp) Name() string {
	return "csharp"
}

func (c *CSharp) Extensions() []string {
	return []string{".cs"}
}

func (c *CSharp) Family() Family {
	return FamilyManaged
}

func (c *CSharp) Extract(text string) *Result {
	r := &Result{
		Imports: csUsingRe.FindAllString(text, -1),
	}

	if m := csNamespaceRe.FindStringSubmatch(text); m != nil {
		r.Namespace = m[1]
	}

	docs := csDocs(text)

	pos := 0
	for pos < len(text) {
		loc := csTypeRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		open := pos + loc[1] - 1
		body, _ := braceBody(text, open)

		decl := TypeDecl{
			Kind: Kind(text[pos+loc[2] : pos+loc[3]]),
			Name: text[pos+loc[4] : pos+loc[5]],
			Doc:  docs[start],
		}
		if loc[6] >= 0 {
			decl.Bases = collapse(text[pos+loc[6] : pos+loc[7]])
		}

		if decl.Kind == KindEnum {
			decl.Values = csEnumValues(body)
		} else {
			csMembers(&decl, body)
		}
		r.Types = append(r.Types, decl)

		// Continue inside the body so nested types get their own section.
		pos = open + 1
	}

	return r
}

// csDocs maps the offset of a declaration to the summary text of the ///
// block preceding it. The declaration is located by searching the rest of
// the file for the next declaration keyword after the block.
func csDocs(text string) map[int]string {
	docs := make(map[int]string)
	for _, loc := range csDocRe.FindAllStringIndex(text, -1) {
		doc := csSummary(text[loc[0]:loc[1]])
		if doc == "" {
			continue
		}
		next := csDeclRe.FindStringIndex(text[loc[1]:])
		if next == nil {
			continue
		}
		docs[loc[1]+next[0]] = doc
	}
	return docs
}

func csSummary(block string) string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "///")
		lines = append(lines, line)
	}
	m := csSummaryRe.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return ""
	}
	s := csSeeRe.ReplaceAllString(m[1], "$1")
	s = csTagRe.ReplaceAllString(s, "")
	return collapse(s)
}

func csMembers(decl *TypeDecl, body string) {
	propRe, methodRe := csPropertyRe, csMethodRe
	if decl.Kind == KindInterface {
		propRe, methodRe = csIfacePropertyRe, csIfaceMethodRe
	}

	depths := braceDepths(body)
	topLevel := func(offset int) bool {
		return offset < len(depths) && depths[offset] == 0
	}

	for _, loc := range propRe.FindAllStringSubmatchIndex(body, -1) {
		if !topLevel(loc[0]) {
			continue
		}
		typ := collapse(body[loc[2]:loc[3]])
		if typeKeywords[typ] {
			continue
		}
		decl.Properties = append(decl.Properties, PropertyDecl{
			Name: body[loc[4]:loc[5]],
			Type: typ,
		})
	}

	for _, loc := range methodRe.FindAllStringSubmatchIndex(body, -1) {
		if !topLevel(loc[0]) {
			continue
		}
		typ := collapse(body[loc[2]:loc[3]])
		if typeKeywords[typ] {
			continue
		}
		decl.addMethod(MethodDecl{
			Name:       body[loc[4]:loc[5]],
			ReturnType: typ,
		})
	}
}

func csEnumValues(body string) []EnumValue {
	body = csEnumCommentRe.ReplaceAllString(body, "")
	body = csEnumAttributeRe.ReplaceAllString(body, "")

	var values []EnumValue
	for _, part := range strings.Split(body, ",") {
		m := csEnumValueRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		values = append(values, EnumValue{Name: m[1], Literal: collapse(m[2])})
	}
	return values
}

// braceBody returns the text between the '{' at open and its matching '}',
// and the offset just past the block.
func braceBody(text string, open int) (string, int) {
	end := BraceBlockEnd(text, open)
	if end > open+1 && text[end-1] == '}' {
		return text[open+1 : end-1], end
	}
	return text[open+1 : end], end
}
