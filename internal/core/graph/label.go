package graph

import (
	"strings"

	"github.com/melih/graphbot/internal/core/domain"
)

// RecordLabel is the layout of a container node: the container on the left,
// one slot per exposed port on the right, top to bottom.
//
//	{ <name> name } | { <port> port | <port> port ... }
//
// Each slot is addressed by its own text, so an edge can target
// node:80/tcp.
type RecordLabel struct {
	Name  string
	Ports []string
}

// NewRecordLabel builds the label of a container.
func NewRecordLabel(c domain.ContainerDescriptor) RecordLabel {
	return RecordLabel{Name: c.Name, Ports: c.PortKeys()}
}

// Slots returns the addressable port slots.
func (l RecordLabel) Slots() []string {
	return l.Ports
}

func (l RecordLabel) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	writeField(&b, l.Name)
	b.WriteString(" }")
	if len(l.Ports) == 0 {
		return b.String()
	}
	b.WriteString(" | { ")
	for i, p := range l.Ports {
		if i > 0 {
			b.WriteString(" | ")
		}
		writeField(&b, p)
	}
	b.WriteString(" }")
	return b.String()
}

func writeField(b *strings.Builder, text string) {
	b.WriteString("<")
	b.WriteString(recordEscaper.Replace(text))
	b.WriteString("> ")
	b.WriteString(recordEscaper.Replace(text))
}

var recordEscaper = strings.NewReplacer(
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)
