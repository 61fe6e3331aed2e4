package extract

import (
	"regexp"
	"sort"
	"strings"
)

var (
	jsImportRe = regexp.MustCompile(`(?m)^(?:import\b[^\n]*|(?:(?:const|let|var)[ \t]+[^=\n]+=[ \t]*)?require\([^\n]*)`)
	jsClassRe  = regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?(?:default[ \t]+)?(?:abstract[ \t]+)?class[ \t]+([\w$]+)` +
		`(?:[ \t]*<[^>{]*>)?(?:\s+extends\s+([\w$.]+(?:<[^>{]*>)?))?(?:\s+implements\s+([\w$.,\s<>]+?))?\s*\{`)

	jsMethodRe = regexp.MustCompile(`(#?[\w$]+)\s*(?:<[^>(]*>)?\s*\([^)]*\)\s*(?::\s*[^{;]+?)?\s*\{`)
	jsFieldFnRe = regexp.MustCompile(`(#?[\w$]+)\s*(?::[^=\n]+)?=\s*(?:async\s*)?(?:\([^)]*\)|[\w$]+)\s*(?::[^=\n]+)?=>`)

	jsFuncRe  = regexp.MustCompile(`(?:export[ \t]+)?(?:default[ \t]+)?(?:async[ \t]+)?function\b[ \t]*\*?[ \t]*([\w$]+)(?:[ \t]*<[^>(]*>)?[ \t]*\(`)
	jsArrowRe = regexp.MustCompile(`(?m)^[ \t]*(?:export[ \t]+)?(?:const|let|var)[ \t]+([\w$]+)(?:[ \t]*:[^=\n]+)?[ \t]*=[ \t]*` +
		`(?:async[ \t]*)?(?:\([^)]*\)|[\w$]+)(?:[ \t]*:[^=\n]+)?[ \t]*=>`)
)

// jsKeywords look like calls followed by a block but are not methods.
var jsKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "with": true, "do": true, "else": true,
}

// JavaScript implements the web-scripting strategy for JavaScript and TypeScript.
type JavaScript struct{}

func init() {
	Register(&JavaScript{})
}

func (j *JavaScript) Name() string {
	return "javascript"
}

func (j *JavaScript) Extensions() []string {
	return []string{".js", ".ts", ".tsx"}
}

func (j *JavaScript) Family() Family {
	return FamilyWeb
}

func (j *JavaScript) Extract(text string) *Result {
	r := &Result{}

	for _, imp := range jsImportRe.FindAllString(text, -1) {
		r.Imports = append(r.Imports, strings.TrimRight(imp, " \t"))
	}

	depths := braceDepths(text)
	topLevel := func(offset int) bool {
		return offset < len(depths) && depths[offset] == 0
	}

	for _, loc := range jsClassRe.FindAllStringSubmatchIndex(text, -1) {
		if !topLevel(loc[0]) {
			continue
		}
		decl := TypeDecl{
			Kind: KindClass,
			Name: text[loc[2]:loc[3]],
		}

		var bases []string
		if loc[4] >= 0 {
			bases = append(bases, text[loc[4]:loc[5]])
		}
		if loc[6] >= 0 {
			bases = append(bases, collapse(text[loc[6]:loc[7]]))
		}
		decl.Bases = strings.Join(bases, ", ")

		body, _ := braceBody(text, loc[1]-1)
		for _, name := range jsMethods(body) {
			decl.addMethod(MethodDecl{Name: name})
		}
		r.Types = append(r.Types, decl)
	}

	for _, m := range jsNamed(text, depths, jsFuncRe, jsArrowRe) {
		r.Functions = append(r.Functions, FuncDecl{Name: m})
	}

	return r
}

func jsMethods(body string) []string {
	depths := braceDepths(body)
	var names []string
	for _, name := range jsNamed(body, depths, jsMethodRe, jsFieldFnRe) {
		if jsKeywords[name] {
			continue
		}
		names = append(names, name)
	}
	return names
}

// jsNamed returns the first capture of every depth-0 match of the given
// patterns, ordered by position.
func jsNamed(text string, depths []int, patterns ...*regexp.Regexp) []string {
	type hit struct {
		offset int
		name   string
	}
	var hits []hit
	for _, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if loc[0] >= len(depths) || depths[loc[0]] != 0 {
				continue
			}
			hits = append(hits, hit{offset: loc[0], name: text[loc[2]:loc[3]]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].offset < hits[j].offset
	})

	names := make([]string, 0, len(hits))
	for _, h := range hits {
		names = append(names, h.name)
	}
	return names
}
