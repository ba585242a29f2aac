package static

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/melih/graphbot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryYAML = `
containers:
  - name: web
    tags: ["acme/web:1.0"]
    status: running
    ports:
      - expose: 80/tcp
        host_ports: ["8080"]
      - expose: 443/tcp
    networks:
      - name: front
        links: ["db:database"]
    labels:
      traefik.frontend.rule: Host:shop.test
  - name: db
    tags: ["postgres:16"]
    status: exited
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListContainersYAML(t *testing.T) {
	observations, err := NewAdapter(write(t, "vm1.yaml", inventoryYAML)).ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 2)

	web := observations[0]
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, []string{"acme/web:1.0"}, web.Tags)
	assert.Equal(t, []domain.PortPublication{
		{Expose: "80/tcp", HostPorts: []string{"8080"}},
		{Expose: "443/tcp"},
	}, web.Ports)
	assert.Equal(t, []domain.NetworkMembership{{Name: "front", Links: []string{"db:database"}}}, web.Networks)
	assert.Equal(t, "Host:shop.test", web.Labels["traefik.frontend.rule"])

	assert.Equal(t, "exited", observations[1].Status)
}

func TestListContainersJSON(t *testing.T) {
	path := write(t, "vm1.json", `{"containers": [{"name": "web", "tags": ["nginx"], "status": "running"}]}`)

	observations, err := NewAdapter(path).ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, observations, 1)
	assert.Equal(t, "nginx", observations[0].Tags[0])
}

func TestListContainersRereads(t *testing.T) {
	path := write(t, "vm1.yaml", "containers: []\n")
	a := NewAdapter(path)

	observations, err := a.ListContainers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, observations)

	require.NoError(t, os.WriteFile(path, []byte(inventoryYAML), 0o644))
	observations, err = a.ListContainers(context.Background())
	require.NoError(t, err)
	assert.Len(t, observations, 2)
}

func TestListContainersErrors(t *testing.T) {
	_, err := NewAdapter(filepath.Join(t.TempDir(), "missing.yaml")).ListContainers(context.Background())
	assert.ErrorContains(t, err, "failed to read inventory")

	_, err = NewAdapter(write(t, "bad.yaml", "containers: {")).ListContainers(context.Background())
	assert.ErrorContains(t, err, "invalid inventory")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewAdapter(write(t, "vm1.yaml", inventoryYAML)).ListContainers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
