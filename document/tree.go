package document

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/arjunmahishi/repoctx/types"
)

// Node is a directory or file in the document's file tree.
type Node struct {
	Name     string  `json:"name"`
	Dir      bool    `json:"dir,omitempty"`
	Size     int64   `json:"size,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// NewTree arranges summaries by their slash-separated paths. Children are
// sorted by name, directories and files interleaved.
func NewTree(files []types.FileSummary) *Node {
	root := &Node{Name: ".", Dir: true}
	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		cur := root
		for _, dir := range parts[:len(parts)-1] {
			cur = cur.child(dir)
		}
		cur.Children = append(cur.Children, &Node{Name: parts[len(parts)-1], Size: f.Size})
	}
	root.sort()
	return root
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Dir && c.Name == name {
			return c
		}
	}
	c := &Node{Name: name, Dir: true}
	n.Children = append(n.Children, c)
	return c
}

func (n *Node) sort() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Name < n.Children[j].Name
	})
	for _, c := range n.Children {
		c.sort()
	}
}

// WriteTree renders the children of n with box-drawing connectors. Files
// are annotated with their formatted size.
func WriteTree(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	writeNodes(bw, n.Children, "")
	return bw.Flush()
}

func writeNodes(w *bufio.Writer, nodes []*Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1

		branch := "├── "
		if last {
			branch = "└── "
		}
		w.WriteString(prefix + branch + n.Name)
		if !n.Dir {
			w.WriteString(" (" + FormatSize(n.Size) + ")")
		}
		w.WriteByte('\n')

		if n.Dir {
			next := prefix + "│   "
			if last {
				next = prefix + "    "
			}
			writeNodes(w, n.Children, next)
		}
	}
}
