package extract

import "strings"

// BraceBlockEnd returns the offset just past the '}' that closes the '{' at
// open. Nested pairs are counted; braces inside strings and comments are not
// distinguished. An unbalanced block extends to the end of text.
func BraceBlockEnd(text string, open int) int {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return open
	}
	depth := 1
	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}

// IndentedBlock returns the extent of an indentation-delimited body whose
// first line starts at or after start. The first non-blank line sets the
// body's indentation level; it must be deeper than outer or the body is empty.
// The body ends at the first later non-blank line indented less than that level.
func IndentedBlock(text string, start, outer int) (bodyStart, bodyEnd int) {
	if start >= len(text) {
		return len(text), len(text)
	}

	base := -1
	pos := start
	for pos < len(text) {
		line, next := lineAt(text, pos)
		if strings.TrimSpace(line) != "" {
			base = indentWidth(line)
			bodyStart = pos
			break
		}
		pos = next
	}
	if base <= outer {
		return start, start
	}

	pos = bodyStart
	for pos < len(text) {
		line, next := lineAt(text, pos)
		if strings.TrimSpace(line) != "" && indentWidth(line) < base {
			return bodyStart, pos
		}
		pos = next
	}
	return bodyStart, len(text)
}

// braceDepths returns the brace nesting depth in effect at every byte of text.
func braceDepths(text string) []int {
	depths := make([]int, len(text))
	depth := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '}' && depth > 0 {
			depth--
		}
		depths[i] = depth
		if text[i] == '{' {
			depth++
		}
	}
	return depths
}

// lineAt returns the line beginning at pos (without its newline) and the
// offset of the following line.
func lineAt(text string, pos int) (string, int) {
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return text[pos:], len(text)
	}
	return text[pos : pos+end], pos + end + 1
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(text string, pos int) int {
	return strings.LastIndexByte(text[:pos], '\n') + 1
}

func indentWidth(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
