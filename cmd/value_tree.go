package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// valueNode is one row of the flattened JSON value tree shown in the
// entry detail view
type valueNode struct {
	Name        string // object field name or array index
	Kind        string // object, array, string, number, bool, null
	Preview     string // scalar rendering or collection summary
	Path        string // unique path for tracking expansion state
	Level       int    // nesting level for indentation
	HasChildren bool
}

// decodeValue parses raw JSON preserving number formatting
func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// buildValueNodes flattens a decoded JSON value into display rows,
// descending only into nodes marked expanded
func buildValueNodes(value any, expanded map[string]bool) []valueNode {
	var nodes []valueNode
	appendValueNodes(&nodes, "value", value, "", 0, expanded)
	return nodes
}

func appendValueNodes(nodes *[]valueNode, name string, value any, parentPath string, level int, expanded map[string]bool) {
	path := name
	if parentPath != "" {
		path = parentPath + "." + name
	}

	node := valueNode{
		Name:  name,
		Path:  path,
		Level: level,
	}

	switch v := value.(type) {
	case map[string]any:
		node.Kind = "object"
		node.Preview = fmt.Sprintf("{%d fields}", len(v))
		node.HasChildren = len(v) > 0
		*nodes = append(*nodes, node)

		if node.HasChildren && expanded[path] {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				appendValueNodes(nodes, k, v[k], path, level+1, expanded)
			}
		}

	case []any:
		node.Kind = "array"
		node.Preview = fmt.Sprintf("[%d items]", len(v))
		node.HasChildren = len(v) > 0
		*nodes = append(*nodes, node)

		if node.HasChildren && expanded[path] {
			for i, item := range v {
				appendValueNodes(nodes, fmt.Sprintf("[%d]", i), item, path, level+1, expanded)
			}
		}

	case string:
		node.Kind = "string"
		node.Preview = fmt.Sprintf("%q", v)
		*nodes = append(*nodes, node)

	case json.Number:
		node.Kind = "number"
		node.Preview = v.String()
		*nodes = append(*nodes, node)

	case bool:
		node.Kind = "bool"
		node.Preview = fmt.Sprintf("%t", v)
		*nodes = append(*nodes, node)

	default:
		node.Kind = "null"
		node.Preview = "null"
		*nodes = append(*nodes, node)
	}
}

// renderValueTree renders the value tree with expand/collapse markers
// and a highlighted selection row
func renderValueTree(nodes []valueNode, selected int, expanded map[string]bool) string {
	var content strings.Builder

	for i, node := range nodes {
		var style lipgloss.Style
		if i == selected {
			style = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230")).
				Padding(0, 1)
		} else {
			style = lipgloss.NewStyle().Padding(0, 1)
		}

		indent := strings.Repeat("  ", node.Level)

		expandIcon := "  "
		if node.HasChildren {
			if expanded[node.Path] {
				expandIcon = "▼ "
			} else {
				expandIcon = "▶ "
			}
		}

		kindStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(node.Kind)
		previewStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(node.Preview)

		line := fmt.Sprintf("%s├─%s%s %s %s", indent, expandIcon, node.Name, kindStyle, previewStyle)
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}

	return content.String()
}
