package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/melih/graphbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
organization: Acme
merge: false
format: dot
output_path: out
color_scheme:
  traefik: "#063956"
  port: "#3891A6"
  image: "#E1E4E8"
  link: "#FF9F1C"
  container: "#FFFFFF"
  network: "#C7E8F3"
  vm: "#F6F8FA"
  dark_text: "#24292E"
  bright_text: "#FFFFFF"
hosts:
  - vm: front
    inventory_file: front.yaml
    exclude: [watchtower]
`

const frontInventory = `
containers:
  - name: proxy
    tags: ["traefik:1.7"]
    status: running
    ports:
      - expose: 80/tcp
        host_ports: ["80"]
    networks:
      - name: web
  - name: shop
    tags: ["acme/shop:2.1"]
    status: running
    ports:
      - expose: 8000/tcp
    networks:
      - name: web
    labels:
      traefik.frontend.rule: Host:shop.acme.test
      traefik.port: "8000"
  - name: watchtower
    tags: [containrrr/watchtower]
    status: running
`

func writeData(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvOutputPath, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "front.yaml"), []byte(frontInventory), 0o644))
	return dir
}

func TestRenderFromSnapshot(t *testing.T) {
	dir := writeData(t)

	cfg, err := loadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	b, cleanup, err := newBot(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	files, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "out", "front.gv"),
		filepath.Join(dir, "out", "legend.gv"),
	}, files)

	dot, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"proxy_front":"80/tcp" -> "shop.acme.test_front"`)
	assert.Contains(t, string(dot), `"shop.acme.test_front" -> "shop_front":"8000/tcp"`)
	assert.NotContains(t, string(dot), "watchtower")

	hosts := b.Hosts()
	require.Len(t, hosts, 1)
	assert.Equal(t, filepath.Join(dir, "front.yaml"), hosts[0].URL)
	require.NotNil(t, hosts[0].Labeler)
	assert.Contains(t, hosts[0].Labeler(context.Background()), "front | Generated date : ")
	assert.Contains(t, string(dot), `label="Virtual machine : front | Generated date : `)
}

func TestLoadConfigFromDataPath(t *testing.T) {
	dir := writeData(t)
	t.Setenv(config.EnvDataPath, dir)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Acme", cfg.Organization)

	t.Setenv(config.EnvDataPath, t.TempDir())
	_, err = loadConfig("")
	assert.Error(t, err)
}
