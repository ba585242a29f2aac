package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/melih/graphbot/internal/core/domain"
)

// dockerAPI is the part of the Docker client the adapter uses.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error)
	Close() error
}

// TLSFiles locate the client certificate material of a remote daemon.
type TLSFiles struct {
	CACert string
	Cert   string
	Key    string
}

// Adapter implements ports.InventoryService using Docker SDK
type Adapter struct {
	cli dockerAPI
}

// NewAdapter creates an adapter for the daemon described by the environment
// (DOCKER_HOST and friends).
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// NewRemoteAdapter creates an adapter for a daemon reachable at host:port,
// secured with TLS when files are given.
func NewRemoteAdapter(host string, port int, files *TLSFiles) (*Adapter, error) {
	opts := []client.Opt{
		client.WithHost(DaemonURL(host, port)),
		client.WithAPIVersionNegotiation(),
	}
	if files != nil {
		opts = append(opts, client.WithTLSClientConfig(files.CACert, files.Cert, files.Key))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client for %s: %w", host, err)
	}
	return &Adapter{cli: cli}, nil
}

// DaemonURL builds the daemon address of a host. A bare host name is
// reached over tcp.
func DaemonURL(host string, port int) string {
	if !strings.Contains(host, "://") {
		host = "tcp://" + host
	}
	if port > 0 && !strings.HasPrefix(host, "unix://") {
		host = fmt.Sprintf("%s:%d", host, port)
	}
	return host
}

// Close releases the client.
func (a *Adapter) Close() error {
	return a.cli.Close()
}

// ListContainers returns the running containers of the daemon with their
// port, network and label details.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.ContainerObservation, error) {
	containers, err := a.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	tags := make(map[string][]string)
	result := make([]domain.ContainerObservation, 0, len(containers))
	for _, c := range containers {
		info, err := a.cli.ContainerInspect(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect container %s: %w", c.ID, err)
		}
		if info.ContainerJSONBase == nil {
			continue
		}

		imageTags, ok := tags[info.Image]
		if !ok {
			img, _, err := a.cli.ImageInspectWithRaw(ctx, info.Image)
			if err != nil && !client.IsErrNotFound(err) {
				return nil, fmt.Errorf("failed to inspect image %s: %w", info.Image, err)
			}
			imageTags = img.RepoTags
			tags[info.Image] = imageTags
		}

		result = append(result, toObservation(info, imageTags))
	}
	return result, nil
}

func toObservation(info types.ContainerJSON, tags []string) domain.ContainerObservation {
	o := domain.ContainerObservation{
		Name: strings.TrimPrefix(info.Name, "/"),
		Tags: tags,
	}
	if info.State != nil {
		o.Status = info.State.Status
	}
	if info.Config != nil {
		o.Labels = info.Config.Labels
	}
	if info.NetworkSettings == nil {
		return o
	}

	o.Ports = portPublications(info.NetworkSettings.Ports)

	names := make([]string, 0, len(info.NetworkSettings.Networks))
	for name := range info.NetworkSettings.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := domain.NetworkMembership{Name: name}
		if ep := info.NetworkSettings.Networks[name]; ep != nil {
			m.Links = ep.Links
		}
		o.Networks = append(o.Networks, m)
	}
	return o
}

// portPublications flattens a port map, ordered by port number then
// protocol.
func portPublications(ports nat.PortMap) []domain.PortPublication {
	keys := make([]nat.Port, 0, len(ports))
	for p := range ports {
		keys = append(keys, p)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Int() != keys[j].Int() {
			return keys[i].Int() < keys[j].Int()
		}
		return keys[i].Proto() < keys[j].Proto()
	})

	out := make([]domain.PortPublication, 0, len(keys))
	for _, p := range keys {
		pub := domain.PortPublication{Expose: string(p)}
		for _, binding := range ports[p] {
			pub.HostPorts = append(pub.HostPorts, binding.HostPort)
		}
		out = append(out, pub)
	}
	return out
}
