package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// Node is one entry in the explorer tree
type Node struct {
	Path  string
	Name  string
	Depth int
	IsDir bool
}

// Icon returns the explorer icon for the node
func (n Node) Icon(expanded bool) string {
	if n.IsDir {
		if expanded {
			return "📂"
		}
		return "📁"
	}
	return FileIcon(n.Name)
}

// BuildTree lists root's contents in walk order: each directory is followed
// by its descendants, siblings sorted by name.
func BuildTree(root string, opts WalkOptions) ([]Node, error) {
	var nodes []Node
	err := Walk(root, opts, func(path string, info os.FileInfo, depth int) error {
		nodes = append(nodes, Node{
			Path:  path,
			Name:  info.Name(),
			Depth: depth,
			IsDir: info.IsDir(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// Visible filters nodes to those whose ancestors are all expanded
func Visible(nodes []Node, expanded map[string]bool) []Node {
	visible := make([]Node, 0, len(nodes))
	collapsedAt := 0 // depth of the collapsed directory being skipped, 0 for none

	for _, n := range nodes {
		if collapsedAt > 0 {
			if n.Depth > collapsedAt {
				continue
			}
			collapsedAt = 0
		}
		visible = append(visible, n)
		if n.IsDir && !expanded[n.Path] {
			collapsedAt = n.Depth
		}
	}
	return visible
}

// FileIcon returns an icon for a file name based on its extension
func FileIcon(name string) string {
	switch strings.TrimPrefix(filepath.Ext(name), ".") {
	case "rs":
		return "🦀"
	case "py":
		return "🐍"
	case "js":
		return "📜"
	case "go":
		return "🐹"
	case "html":
		return "🌐"
	case "css":
		return "🎨"
	case "json":
		return "📦"
	case "md":
		return "📝"
	case "txt":
		return "📄"
	default:
		return "📋"
	}
}
