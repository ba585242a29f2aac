package domain

import "fmt"

// ElementKind is the role of a graph element. It drives styling.
type ElementKind int

const (
	ProxyRoute ElementKind = iota
	HostPort
	Image
	Link
	Container
	Network
	VirtualMachine
)

// ElementKinds lists every kind; style tables are checked against it.
var ElementKinds = []ElementKind{
	ProxyRoute,
	HostPort,
	Image,
	Link,
	Container,
	Network,
	VirtualMachine,
}

func (k ElementKind) String() string {
	switch k {
	case ProxyRoute:
		return "proxy-route"
	case HostPort:
		return "host-port"
	case Image:
		return "image"
	case Link:
		return "link"
	case Container:
		return "container"
	case Network:
		return "network"
	case VirtualMachine:
		return "virtual-machine"
	}
	return fmt.Sprintf("element(%d)", int(k))
}

// Color scheme entries.
const (
	ColorProxy      = "traefik"
	ColorPort       = "port"
	ColorImage      = "image"
	ColorLink       = "link"
	ColorContainer  = "container"
	ColorNetwork    = "network"
	ColorVM         = "vm"
	ColorDarkText   = "dark_text"
	ColorBrightText = "bright_text"
)

// ColorNames lists the entries every color scheme must define.
var ColorNames = []string{
	ColorProxy,
	ColorPort,
	ColorImage,
	ColorLink,
	ColorContainer,
	ColorNetwork,
	ColorVM,
	ColorDarkText,
	ColorBrightText,
}

// ColorScheme maps semantic color names to renderer colors.
type ColorScheme map[string]string

// Color returns the value of a named color.
func (s ColorScheme) Color(name string) (string, error) {
	v, ok := s[name]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingColor, name)
	}
	return v, nil
}

// Validate checks that every required color is present.
func (s ColorScheme) Validate() error {
	for _, name := range ColorNames {
		if _, err := s.Color(name); err != nil {
			return err
		}
	}
	return nil
}

// Attributes are renderer attributes of a node, edge, cluster or graph.
type Attributes map[string]string

// Merge returns a copy of a with the entries of b applied on top.
func (a Attributes) Merge(b Attributes) Attributes {
	out := make(Attributes, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
