package document

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/arjunmahishi/repoctx/types"
)

// FormatSize renders n bytes with two decimals in steps of 1024.
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f TB", size)
}

// DefaultOutputName returns the file name a document generated at t is
// written to, e.g. context_20240131_235959.txt. The stamp is in UTC.
func DefaultOutputName(t time.Time) string {
	return "context_" + t.UTC().Format("20060102_150405") + ".txt"
}

// WriteText renders doc in the plain-text layout: overview, file type
// counts, file tree, then one section per file.
func WriteText(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("Repository Overview\n")
	bw.WriteString("==================\n\n")
	fmt.Fprintf(bw, "Total Files: %d\n", doc.Stats.TotalFiles)
	fmt.Fprintf(bw, "Total Size: %s\n\n", FormatSize(doc.Stats.TotalSize))

	bw.WriteString("File Types\n")
	bw.WriteString("---------\n")
	fileTypes := make([]types.FileType, 0, len(doc.Stats.FileTypes))
	for ft := range doc.Stats.FileTypes {
		fileTypes = append(fileTypes, ft)
	}
	sort.Slice(fileTypes, func(i, j int) bool { return fileTypes[i] < fileTypes[j] })
	for _, ft := range fileTypes {
		fmt.Fprintf(bw, "%s: %d files\n", ft, doc.Stats.FileTypes[ft])
	}
	bw.WriteString("\n")

	bw.WriteString("File Structure\n")
	bw.WriteString("-------------\n")
	if doc.Tree != nil {
		writeNodes(bw, doc.Tree.Children, "")
	}
	bw.WriteString("\n")

	bw.WriteString("File Summaries\n")
	bw.WriteString("--------------\n")
	for _, f := range doc.Files {
		writeSummary(bw, f)
	}

	return bw.Flush()
}

func writeSummary(w *bufio.Writer, f types.FileSummary) {
	fmt.Fprintf(w, "\n%s\n", f.Path)
	w.WriteString(strings.Repeat("=", len(f.Path)) + "\n")
	fmt.Fprintf(w, "Type: %s\n", f.Type)
	fmt.Fprintf(w, "Size: %s\n", FormatSize(f.Size))
	if f.Lines > 0 {
		fmt.Fprintf(w, "Lines: %d\n", f.Lines)
	}
	if f.Words > 0 {
		fmt.Fprintf(w, "Words: %d\n", f.Words)
	}
	switch {
	case f.Skipped:
		w.WriteString("Note: not read, exceeds size limit\n")
	case f.Binary:
		w.WriteString("Note: binary content\n")
	}
	if f.Context != "" {
		w.WriteString("\nCode Context:\n")
		w.WriteString(f.Context)
	}
	w.WriteString("\n\n")
}
