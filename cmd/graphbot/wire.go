package main

import (
	"context"
	"fmt"
	"os"

	"github.com/melih/graphbot/internal/adapters/discovery"
	"github.com/melih/graphbot/internal/adapters/docker"
	"github.com/melih/graphbot/internal/adapters/graphviz"
	"github.com/melih/graphbot/internal/adapters/publisher"
	"github.com/melih/graphbot/internal/adapters/static"
	"github.com/melih/graphbot/internal/config"
	"github.com/melih/graphbot/internal/core/bot"
	"github.com/melih/graphbot/internal/core/domain"
	"github.com/melih/graphbot/internal/core/graph"
	"github.com/melih/graphbot/internal/core/ports"
	"github.com/melih/graphbot/internal/logger"
)

// loadConfig reads the file given with --config, or the first
// configuration file of DATA_PATH.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Find(config.DataPath())
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded", "path", path, "hosts", len(cfg.Hosts))
	return cfg, nil
}

// newBot wires the adapters selected by cfg around the bot. The returned
// func releases the Docker clients.
func newBot(ctx context.Context, cfg *config.Config) (*bot.Bot, func(), error) {
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Failed to close docker client", "err", err)
			}
		}
	}

	labels := discovery.New(cfg.PublicIPURL)
	hosts := make([]bot.Host, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		inventory, url, closer, err := newInventory(cfg, h)
		if err != nil {
			cleanup()
			return nil, nil, &domain.HostError{VM: h.VM, Err: err}
		}
		if closer != nil {
			closers = append(closers, closer)
		}

		hosts = append(hosts, bot.Host{
			Name:      h.VM,
			URL:       url,
			Label:     h.VM,
			Labeler:   hostLabeler(labels, h),
			Exclude:   h.Exclude,
			Inventory: inventory,
		})
	}

	publishers, err := newPublishers(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	b, err := bot.New(bot.Options{
		Organization: cfg.Organization,
		Merge:        cfg.Merge,
		OutputPath:   cfg.OutputPath,
		Parallel:     cfg.ParallelHosts,
		Scheme:       domain.ColorScheme(cfg.ColorScheme),
		Proxy: graph.ProxyRule{
			Image:       cfg.Proxy.Image,
			RuleLabel:   cfg.Proxy.RuleLabel,
			PortLabel:   cfg.Proxy.PortLabel,
			DefaultPort: cfg.Proxy.DefaultPort,
		},
		Hosts: hosts,
	}, graphviz.NewRenderer(cfg.Format), publishers...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return b, cleanup, nil
}

// hostLabeler composes the label of h on every build, so that addresses and
// the generation date stay current in long running servers. A failed
// discovery falls back to the vm name.
func hostLabeler(labels *discovery.Discovery, h config.Host) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		label, err := labels.Label(ctx, h.VM, h.HostURL, h.IsLocal())
		if err != nil {
			logger.Warn("Failed to discover host addresses", "vm", h.VM, "err", err)
			return h.VM
		}
		return label
	}
}

// newInventory picks the inventory source of a host: a snapshot file, the
// local daemon or a remote one.
func newInventory(cfg *config.Config, h config.Host) (ports.InventoryService, string, func() error, error) {
	switch {
	case h.InventoryFile != "":
		path := cfg.Path(h.InventoryFile)
		return static.NewAdapter(path), path, nil, nil
	case h.IsLocal():
		a, err := docker.NewAdapter()
		if err != nil {
			return nil, "", nil, err
		}
		return a, h.HostURL, a.Close, nil
	default:
		var files *docker.TLSFiles
		if h.TLS != nil {
			files = &docker.TLSFiles{
				CACert: cfg.Path(h.TLS.CACert),
				Cert:   cfg.Path(h.TLS.Cert),
				Key:    cfg.Path(h.TLS.Key),
			}
		}
		a, err := docker.NewRemoteAdapter(h.HostURL, h.Port, files)
		if err != nil {
			return nil, "", nil, err
		}
		return a, docker.DaemonURL(h.HostURL, h.Port), a.Close, nil
	}
}

func newPublishers(ctx context.Context, cfg *config.Config) ([]ports.Publisher, error) {
	var publishers []ports.Publisher
	for _, a := range cfg.Actions {
		switch a.Type {
		case config.ActionGit:
			password := ""
			if a.PasswordEnv != "" {
				password = os.Getenv(a.PasswordEnv)
				if password == "" {
					logger.Warn("Git password variable is empty", "env", a.PasswordEnv)
				}
			}
			publishers = append(publishers, publisher.NewGit(publisher.GitOptions{
				URL:      a.URL,
				Branch:   a.Branch,
				Dir:      a.Prefix,
				Username: a.Username,
				Password: password,
				Message:  a.Message,
			}))
		case config.ActionS3:
			p, err := publisher.NewS3(ctx, publisher.S3Options{
				Bucket:   a.Bucket,
				Prefix:   a.Prefix,
				Region:   a.Region,
				Endpoint: a.Endpoint,
			})
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, p)
		default:
			return nil, fmt.Errorf("unknown action type %q", a.Type)
		}
	}
	return publishers, nil
}
