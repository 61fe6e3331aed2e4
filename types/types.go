// Package types defines shared data types for repoctx.
package types

// FileType is the coarse category a file is counted under.
type FileType string

const (
	SourceCode    FileType = "source_code"
	Documentation FileType = "documentation"
	Configuration FileType = "configuration"
	Project       FileType = "project"
	Log           FileType = "log"
	Test          FileType = "test"
	Other         FileType = "other"
)

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string // slash-separated, relative to the scan root
	Size        int64

	// Skipped files exceed the size limit. They are inventoried but never read.
	Skipped bool
}

// FileSummary is the per-file entry of a context document.
type FileSummary struct {
	Path    string   `json:"path"`
	Type    FileType `json:"type"`
	Size    int64    `json:"size"`
	Lines   int      `json:"lines,omitempty"`
	Words   int      `json:"words,omitempty"` // documentation only
	Binary  bool     `json:"binary,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
	Context string   `json:"context,omitempty"`
}

// Stats aggregates counts over every summarized file.
type Stats struct {
	TotalFiles int              `json:"total_files"`
	TotalSize  int64            `json:"total_size"`
	FileTypes  map[FileType]int `json:"file_types"`
}
