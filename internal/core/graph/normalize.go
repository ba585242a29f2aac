package graph

import (
	"strings"

	"github.com/distribution/reference"
	"github.com/melih/graphbot/internal/core/domain"
)

const (
	// DefaultProxyPort is the exposed port the proxy listens on, and the
	// backend port of a routed container that does not name one.
	DefaultProxyPort = "80/tcp"

	statusRunning = "running"
	hostPrefix    = "Host:"
)

// ProxyRule identifies the reverse proxy and the labels that route to
// containers behind it.
type ProxyRule struct {
	// Image is matched as a substring of the image name (tag excluded).
	Image       string
	RuleLabel   string
	PortLabel   string
	DefaultPort string
}

// DefaultProxyRule returns the Traefik v1 rule.
func DefaultProxyRule() ProxyRule {
	return ProxyRule{
		Image:       "traefik",
		RuleLabel:   "traefik.frontend.rule",
		PortLabel:   "traefik.port",
		DefaultPort: DefaultProxyPort,
	}
}

func (r ProxyRule) withDefaults() ProxyRule {
	def := DefaultProxyRule()
	if r.Image == "" {
		r.Image = def.Image
	}
	if r.RuleLabel == "" {
		r.RuleLabel = def.RuleLabel
	}
	if r.PortLabel == "" {
		r.PortLabel = def.PortLabel
	}
	if r.DefaultPort == "" {
		r.DefaultPort = def.DefaultPort
	}
	return r
}

// Matches reports whether an image reference designates the proxy.
func (r ProxyRule) Matches(tag string) bool {
	return strings.Contains(imageName(tag), r.withDefaults().Image)
}

// imageName strips the tag (and digest) from an image reference.
func imageName(tag string) string {
	if named, err := reference.ParseNormalizedNamed(tag); err == nil {
		return reference.FamiliarName(named)
	}
	name, _, _ := strings.Cut(tag, ":")
	return name
}

// Inventory is the normalized content of one host.
type Inventory struct {
	Descriptors    []domain.ContainerDescriptor
	HasProxy       bool
	ProxyContainer string
}

// Normalize filters observations down to running, non-excluded containers
// with an image, and converts them to descriptors. The proxy is detected
// over every observation, excluded or not; the last match wins.
func Normalize(observations []domain.ContainerObservation, rule ProxyRule, exclude []string) Inventory {
	rule = rule.withDefaults()
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	var inv Inventory
	for _, o := range observations {
		if _, skip := excluded[o.Name]; !skip && o.Status == statusRunning && len(o.Tags) > 0 {
			inv.Descriptors = append(inv.Descriptors, describe(o, rule))
		}

		for _, tag := range o.Tags {
			if rule.Matches(tag) {
				inv.HasProxy = true
				inv.ProxyContainer = o.Name
			}
		}
	}
	return inv
}

func describe(o domain.ContainerObservation, rule ProxyRule) domain.ContainerDescriptor {
	d := domain.NewContainerDescriptor(o.Name)
	d.Image = o.Tags[0]

	for _, p := range o.Ports {
		known, _ := d.Ports.Get(p.Expose)
		d.Ports.Set(p.Expose, appendUnique(known, p.HostPorts...))
	}

	d.URL = NormalizeURL(label(o.Labels, rule.RuleLabel))
	d.BackendPort = NormalizeBackendPort(label(o.Labels, rule.PortLabel), rule.DefaultPort)

	for _, n := range o.Networks {
		d.Networks = appendUnique(d.Networks, n.Name)
		for _, l := range n.Links {
			target, _, _ := strings.Cut(l, ":")
			d.Links = appendUnique(d.Links, target)
		}
	}
	return d
}

func label(labels map[string]string, key string) *string {
	v, ok := labels[key]
	if !ok {
		return nil
	}
	return &v
}

// NormalizeURL strips the Host: matcher from a routing rule. A nil rule
// stays nil.
func NormalizeURL(rule *string) *string {
	if rule == nil {
		return nil
	}
	url := strings.ReplaceAll(*rule, hostPrefix, "")
	return &url
}

// NormalizeBackendPort appends /tcp to a port without a transport, or
// returns def when no port is given.
func NormalizeBackendPort(port *string, def string) string {
	if port == nil {
		if def == "" {
			return DefaultProxyPort
		}
		return def
	}
	if !strings.Contains(*port, "/") {
		return *port + "/tcp"
	}
	return *port
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, e := range list {
			if e == v {
				found = true
				break
			}
		}
		if !found {
			list = append(list, v)
		}
	}
	return list
}
