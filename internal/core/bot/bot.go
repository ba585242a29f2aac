package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/melih/graphbot/internal/core/domain"
	"github.com/melih/graphbot/internal/core/graph"
	"github.com/melih/graphbot/internal/core/ports"
	"github.com/melih/graphbot/internal/logger"
	"golang.org/x/sync/errgroup"
)

const legendName = "legend"

// Host is one inventory source and how to present it.
type Host struct {
	// Name scopes the identifiers of the host graph and names its artifact.
	Name string
	// URL is the daemon address or inventory file the host is read from.
	URL   string
	Label string
	// Labeler, when set, composes the label each time the host is built
	// and takes precedence over Label.
	Labeler   func(ctx context.Context) string
	Exclude   []string
	Inventory ports.InventoryService
}

// Options configure a Bot.
type Options struct {
	Organization string
	// Merge draws every host in one diagram instead of one per host.
	Merge      bool
	OutputPath string
	// Parallel bounds how many hosts are queried at once.
	Parallel int
	Scheme   domain.ColorScheme
	Proxy    graph.ProxyRule
	Hosts    []Host
}

// Bot builds the graph of every host, then renders them merged or apart,
// plus the legend, and hands the artifacts to its publishers.
type Bot struct {
	opts       Options
	renderer   ports.Renderer
	publishers []ports.Publisher

	// renderMu serializes renders, which share output paths.
	renderMu sync.Mutex

	mu        sync.Mutex
	generated []string
}

// New validates the options. No host is queried.
func New(opts Options, renderer ports.Renderer, publishers ...ports.Publisher) (*Bot, error) {
	if err := opts.Scheme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	seen := make(map[string]bool, len(opts.Hosts))
	for _, h := range opts.Hosts {
		if seen[h.Name] {
			return nil, fmt.Errorf("invalid configuration: %w (%s)", domain.ErrDuplicateHost, h.Name)
		}
		seen[h.Name] = true
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}

	return &Bot{
		opts:       opts,
		renderer:   renderer,
		publishers: publishers,
	}, nil
}

// Hosts returns the configured hosts in order.
func (b *Bot) Hosts() []Host {
	return b.opts.Hosts
}

// Organization returns the name the diagrams are titled after.
func (b *Bot) Organization() string {
	return b.opts.Organization
}

func (b *Bot) hostGraph(ctx context.Context, h Host) *graph.HostGraph {
	label := h.Label
	if h.Labeler != nil {
		label = h.Labeler(ctx)
	}
	return graph.NewHostGraph(h.Inventory, graph.HostOptions{
		Label:   label,
		Name:    h.Name,
		Exclude: h.Exclude,
		Scheme:  b.opts.Scheme,
		Proxy:   b.opts.Proxy,
	})
}

// Build queries every host and assembles its graph. Hosts run on a bounded
// pool but results keep the configured order. The first failing host aborts
// the whole build.
func (b *Bot) Build(ctx context.Context) ([]*graph.HostGraph, error) {
	graphs := make([]*graph.HostGraph, len(b.opts.Hosts))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.opts.Parallel)
	for i, h := range b.opts.Hosts {
		eg.Go(func() error {
			hg := b.hostGraph(gCtx, h)
			g, err := hg.Graph(gCtx)
			if err != nil {
				return &domain.HostError{VM: h.Name, Err: err}
			}
			logger.Info("Host graph built", "vm", h.Name, "containers", len(hg.Descriptors()), "nodes", len(g.NodeIDs()))
			graphs[i] = hg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return graphs, nil
}

// BuildHost assembles the graph of a single host.
func (b *Bot) BuildHost(ctx context.Context, name string) (*graph.HostGraph, error) {
	for _, h := range b.opts.Hosts {
		if h.Name != name {
			continue
		}
		hg := b.hostGraph(ctx, h)
		if _, err := hg.Graph(ctx); err != nil {
			return nil, &domain.HostError{VM: h.Name, Err: err}
		}
		return hg, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrHostNotFound, name)
}

// Diagram merges built host graphs as sub-graphs of one diagram.
func (b *Bot) Diagram(ctx context.Context, hosts []*graph.HostGraph) (*domain.Graph, error) {
	diagram, err := graph.NewDiagram(b.opts.Organization, b.opts.Scheme)
	if err != nil {
		return nil, err
	}
	for _, hg := range hosts {
		g, err := hg.Graph(ctx)
		if err != nil {
			return nil, err
		}
		diagram.Merge(g)
	}
	return diagram, nil
}

// HostDiagram returns the diagram of a single host, carrying the root
// attributes of the merged diagram.
func (b *Bot) HostDiagram(ctx context.Context, name string) (*domain.Graph, error) {
	hg, err := b.BuildHost(ctx, name)
	if err != nil {
		return nil, err
	}
	header, err := graph.NewDiagram(b.opts.Organization, b.opts.Scheme)
	if err != nil {
		return nil, err
	}
	g, err := hg.Graph(ctx)
	if err != nil {
		return nil, err
	}
	return header.WithBody(g), nil
}

// MergedDiagram builds every host and merges them into one diagram.
func (b *Bot) MergedDiagram(ctx context.Context) (*domain.Graph, error) {
	hosts, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	return b.Diagram(ctx, hosts)
}

// Legend returns the color key of the diagrams.
func (b *Bot) Legend() (*domain.Graph, error) {
	return graph.Legend(b.opts.Organization, b.opts.Scheme)
}

// Render builds every host graph, then renders the merged diagram or one
// diagram per host, and the legend. Nothing is rendered if a host fails.
// Concurrent renders run one after the other.
func (b *Bot) Render(ctx context.Context) ([]string, error) {
	b.renderMu.Lock()
	defer b.renderMu.Unlock()
	return b.renderAll(ctx)
}

func (b *Bot) renderAll(ctx context.Context) ([]string, error) {
	hosts, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}

	var files []string
	if b.opts.Merge {
		diagram, err := b.Diagram(ctx, hosts)
		if err != nil {
			return nil, err
		}
		path, err := b.render(ctx, diagram, b.opts.Organization)
		if err != nil {
			return files, err
		}
		files = append(files, path)
		logger.Info("Global rendering is successful", "path", path)
	} else {
		header, err := graph.NewDiagram(b.opts.Organization, b.opts.Scheme)
		if err != nil {
			return nil, err
		}
		for _, hg := range hosts {
			g, err := hg.Graph(ctx)
			if err != nil {
				return files, err
			}
			path, err := b.render(ctx, header.WithBody(g), hg.VMName())
			if err != nil {
				return files, err
			}
			files = append(files, path)
			logger.Info("Host rendering is successful", "vm", hg.VMName(), "path", path)
		}
	}

	legend, err := b.Legend()
	if err != nil {
		return files, err
	}
	path, err := b.render(ctx, legend, legendName)
	if err != nil {
		return files, err
	}
	files = append(files, path)
	logger.Info("Legend rendering is successful", "path", path)

	return files, nil
}

func (b *Bot) render(ctx context.Context, g *domain.Graph, name string) (string, error) {
	path, err := b.renderer.Render(ctx, g, filepath.Join(b.opts.OutputPath, name))
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	b.mu.Lock()
	if !slices.Contains(b.generated, path) {
		b.generated = append(b.generated, path)
	}
	b.mu.Unlock()
	return path, nil
}

// Run renders every diagram and publishes the artifacts. Runs do not
// overlap with each other or with Render.
func (b *Bot) Run(ctx context.Context) ([]string, error) {
	b.renderMu.Lock()
	defer b.renderMu.Unlock()

	files, err := b.renderAll(ctx)
	if err != nil {
		return files, err
	}
	for _, p := range b.publishers {
		if err := p.Publish(ctx, files); err != nil {
			return files, fmt.Errorf("%s publisher: %w", p.Name(), err)
		}
		logger.Info("Artifacts published", "publisher", p.Name(), "files", len(files))
	}
	return files, nil
}

// Generated returns every artifact rendered by this bot so far, each path
// once.
func (b *Bot) Generated() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.generated...)
}
