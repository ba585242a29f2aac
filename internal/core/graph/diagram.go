package graph

import (
	"fmt"
	"strings"

	"github.com/melih/graphbot/internal/core/domain"
)

// NewDiagram returns the empty top-level diagram of an organization. Host
// graphs are merged into it, or rendered with its header.
func NewDiagram(organization string, scheme domain.ColorScheme) (*domain.Graph, error) {
	text, err := scheme.Color(domain.ColorDarkText)
	if err != nil {
		return nil, err
	}

	name := organization + " architecture"
	return &domain.Graph{
		Name:    name,
		Comment: name,
		Attrs: domain.Attributes{
			"splines":     "false",
			"concentrate": "true",
			"ranksep":     "0.8 equally",
			"compound":    "true",
			"fontcolor":   text,
		},
		NodeAttrs: domain.Attributes{
			"style": "filled,rounded",
			"shape": "record",
		},
	}, nil
}

type legendRow struct {
	text  string
	color string
}

var legendRows = []legendRow{
	{`Traefik "Host" label`, domain.ColorProxy},
	{"Host port", domain.ColorPort},
	{"Docker link", domain.ColorLink},
	{"Image", domain.ColorImage},
	{"Container, exposed ports", domain.ColorContainer},
	{"Docker network", domain.ColorNetwork},
	{"Virtual machine", domain.ColorVM},
}

// Legend returns the key mapping each color to its meaning.
func Legend(organization string, scheme domain.ColorScheme) (*domain.Graph, error) {
	var b strings.Builder
	b.WriteString(`<TABLE BORDER="1" CELLBORDER="0" CELLSPACING="10" CELLPADDING="4">`)
	fmt.Fprintf(&b, `<TR><TD COLSPAN="2"><B>Legend of %s architecture</B></TD></TR>`, htmlEscaper.Replace(organization))
	for _, row := range legendRows {
		c, err := scheme.Color(row.color)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, `<TR><TD ALIGN="LEFT">%s</TD><TD BORDER="1" WIDTH="100" BGCOLOR="%s"></TD></TR>`,
			htmlEscaper.Replace(row.text), htmlEscaper.Replace(c))
	}
	b.WriteString(`</TABLE>`)

	g := &domain.Graph{
		Name: "legend",
		NodeAttrs: domain.Attributes{
			"style": "rounded",
			"shape": "plain",
		},
	}
	g.AddNode(&domain.Node{ID: "legend", Label: b.String(), HTML: true})
	return g, nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)
