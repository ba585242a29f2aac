package graph

import (
	"fmt"

	"github.com/melih/graphbot/internal/core/domain"
)

type styleEntry struct {
	key   string
	value string
	// color marks value as a color scheme name rather than a literal.
	color bool
}

func lit(key, value string) styleEntry    { return styleEntry{key: key, value: value} }
func schemed(key, name string) styleEntry { return styleEntry{key: key, value: name, color: true} }

var styles = map[domain.ElementKind][]styleEntry{
	domain.ProxyRoute: {
		lit("arrowhead", "none"),
		schemed("color", domain.ColorProxy),
		schemed("fillcolor", domain.ColorProxy),
		schemed("fontcolor", domain.ColorBrightText),
	},
	domain.HostPort: {
		lit("shape", "diamond"),
		schemed("fillcolor", domain.ColorPort),
		schemed("fontcolor", domain.ColorBrightText),
	},
	domain.Image: {
		lit("style", "filled,rounded"),
		schemed("color", domain.ColorImage),
		schemed("fillcolor", domain.ColorImage),
	},
	domain.Link: {
		schemed("color", domain.ColorLink),
	},
	domain.Container: {
		schemed("color", domain.ColorDarkText),
		schemed("fillcolor", domain.ColorContainer),
		schemed("fontcolor", domain.ColorDarkText),
	},
	domain.Network: {
		lit("style", "filled,rounded"),
		schemed("color", domain.ColorNetwork),
		schemed("fillcolor", domain.ColorNetwork),
	},
	domain.VirtualMachine: {
		lit("style", "filled,rounded"),
		schemed("fillcolor", domain.ColorVM),
	},
}

// Style returns the attributes of an element kind under a color scheme.
func Style(kind domain.ElementKind, scheme domain.ColorScheme) (domain.Attributes, error) {
	entries, ok := styles[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownElement, kind)
	}

	attrs := make(domain.Attributes, len(entries))
	for _, e := range entries {
		if !e.color {
			attrs[e.key] = e.value
			continue
		}
		v, err := scheme.Color(e.value)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", kind, err)
		}
		attrs[e.key] = v
	}
	return attrs, nil
}
