package tableview

import (
	"fmt"
	"strings"

	"github.com/bisegni/sds/pkg/container"
)

type treeNode struct {
	text     string
	children []treeNode
}

// FormatTree renders the sections and objects of c as a text tree. format
// renders one object; nil uses fmt.Sprint.
func FormatTree(c container.ContainerInfo, format func(any) string) string {
	if format == nil {
		format = func(o any) string { return fmt.Sprint(o) }
	}
	root := treeNode{text: fmt.Sprintf("sections: %d", c.NumberOfSections())}
	for i, s := range c.Sections() {
		label := fmt.Sprintf("[%d] %q", i, s.Name())
		if title, ok := s.IndexTitle(); ok {
			label += fmt.Sprintf(" (%s)", title)
		}
		label += fmt.Sprintf(" rows: %d", s.NumberOfObjects())
		node := treeNode{text: label}
		for _, o := range s.Objects() {
			node.children = append(node.children, treeNode{text: format(o)})
		}
		root.children = append(root.children, node)
	}

	var sb strings.Builder
	formatRecursive(root, "", true, &sb)
	return sb.String()
}

func formatRecursive(n treeNode, prefix string, last bool, sb *strings.Builder) {
	sb.WriteString(prefix)
	if last {
		sb.WriteString("└─ ")
		prefix += "   "
	} else {
		sb.WriteString("├─ ")
		prefix += "│  "
	}
	sb.WriteString(n.text)
	sb.WriteString("\n")

	for i, child := range n.children {
		formatRecursive(child, prefix, i == len(n.children)-1, sb)
	}
}
