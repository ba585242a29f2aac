package graphviz

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/melih/graphbot/internal/core/domain"
)

// Marshal returns the DOT source of a graph.
func Marshal(g *domain.Graph) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, g)
	return buf.Bytes()
}

// Encode writes the DOT source of a graph to w.
func Encode(w io.Writer, g *domain.Graph) error {
	var b strings.Builder

	if g.Comment != "" {
		b.WriteString("// " + strings.ReplaceAll(g.Comment, "\n", " ") + "\n")
	}
	b.WriteString("digraph " + quote(g.Name) + " {\n")
	if len(g.Attrs) > 0 {
		b.WriteString("\tgraph " + attrList(g.Attrs) + "\n")
	}
	if len(g.NodeAttrs) > 0 {
		b.WriteString("\tnode " + attrList(g.NodeAttrs) + "\n")
	}
	writeBody(&b, &g.Body, 1)
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBody(b *strings.Builder, body *domain.Body, depth int) {
	indent := strings.Repeat("\t", depth)

	for _, c := range body.Clusters {
		b.WriteString(indent + "subgraph " + quote(c.ID) + " {\n")
		attrs := c.Attrs.Merge(domain.Attributes{"label": c.Label})
		for _, k := range sortedKeys(attrs) {
			b.WriteString(indent + "\t" + k + "=" + quote(attrs[k]) + "\n")
		}
		writeBody(b, &c.Body, depth+1)
		b.WriteString(indent + "}\n")
	}

	for _, n := range body.Nodes {
		b.WriteString(indent + quote(n.ID) + " ")
		if n.HTML {
			attrs := n.Attrs.Merge(nil)
			b.WriteString("[label=<" + n.Label + ">")
			for _, k := range sortedKeys(attrs) {
				b.WriteString(" " + k + "=" + quote(attrs[k]))
			}
			b.WriteString("]\n")
			continue
		}
		b.WriteString(attrList(n.Attrs.Merge(domain.Attributes{"label": n.Label})) + "\n")
	}

	for _, e := range body.Edges {
		b.WriteString(indent + endpoint(e.From) + " -> " + endpoint(e.To))
		if len(e.Attrs) > 0 {
			b.WriteString(" " + attrList(e.Attrs))
		}
		b.WriteString("\n")
	}
}

func endpoint(r domain.Ref) string {
	if r.Slot == "" {
		return quote(r.Node)
	}
	return quote(r.Node) + ":" + quote(r.Slot)
}

func attrList(attrs domain.Attributes) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range sortedKeys(attrs) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func sortedKeys(attrs domain.Attributes) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// quote writes s as a DOT string. Backslashes keep their meaning (record
// and label escapes) except before a quote or at the end, where the DOT
// lexer would read them as escaping the quote; those are doubled.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	pending := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			pending++
			continue
		case '"':
			b.WriteString(strings.Repeat(`\`, 2*pending))
			b.WriteString(`\"`)
		default:
			b.WriteString(strings.Repeat(`\`, pending))
			b.WriteByte(c)
		}
		pending = 0
	}
	b.WriteString(strings.Repeat(`\`, 2*pending))
	b.WriteByte('"')
	return b.String()
}
