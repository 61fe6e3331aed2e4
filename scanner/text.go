package scanner

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/arjunmahishi/repoctx/types"
)

// sniffLen is how much of a file IsLikelyText inspects.
const sniffLen = 1024

// IsLikelyText reports whether the file at path looks like text: its first
// 1024 bytes contain no NUL byte and decode as UTF-8.
func IsLikelyText(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return looksLikeText(buf[:n], n == sniffLen), nil
}

func looksLikeText(b []byte, truncated bool) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	if truncated {
		// The sample may end inside a multi-byte rune.
		for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
			if utf8.Valid(b) {
				return true
			}
			if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
				break
			}
			b = b[:len(b)-1]
		}
	}
	return utf8.Valid(b)
}

var (
	sourceExts        = extSet(".py", ".cs", ".js", ".ts", ".tsx", ".jsx", ".java", ".cpp", ".h", ".hpp")
	documentationExts = extSet(".md", ".txt", ".rst", ".doc", ".docx", ".pdf")
	configurationExts = extSet(".json", ".yaml", ".yml", ".xml", ".ini", ".config", ".env")
	projectExts       = extSet(".csproj", ".sln", ".pyproj", ".npmrc", ".gitignore")
)

// Classify returns the file type for a path: by extension first, then by a
// "test" or "spec" substring anywhere in the path.
func Classify(path string) types.FileType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case sourceExts[ext]:
		return types.SourceCode
	case documentationExts[ext]:
		return types.Documentation
	case configurationExts[ext]:
		return types.Configuration
	case projectExts[ext]:
		return types.Project
	case ext == ".log":
		return types.Log
	}

	lower := strings.ToLower(path)
	if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
		return types.Test
	}
	return types.Other
}

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}
