package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/melih/graphbot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
organization: Acme
merge: true
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
    host_url: localhost
    exclude: [watchtower]
  - vm: back
    host_url: tcp://10.0.0.2
    port: 2376
    tls_config:
      ca_cert: certs/ca.pem
      cert: certs/cert.pem
      key: certs/key.pem
actions:
  - type: git
    url: https://git.example.com/infra/diagrams.git
  - type: s3
    bucket: diagrams
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.Organization)
	assert.True(t, cfg.Merge)
	assert.Equal(t, filepath.Dir(path), cfg.DataPath)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "output"), cfg.OutputPath)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 4, cfg.ParallelHosts)
	require.Len(t, cfg.Hosts, 2)
	assert.True(t, cfg.Hosts[0].IsLocal())
	assert.Equal(t, []string{"watchtower"}, cfg.Hosts[0].Exclude)
	require.NotNil(t, cfg.Hosts[1].TLS)
	assert.Equal(t, filepath.Join(cfg.DataPath, "certs/ca.pem"), cfg.Path(cfg.Hosts[1].TLS.CACert))
	assert.Len(t, cfg.Actions, 2)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "organization": "Acme",
  "merge": false,
  "color_scheme": {"traefik": "a", "port": "b", "image": "c", "link": "d", "container": "e",
    "network": "f", "vm": "g", "dark_text": "h", "bright_text": "i"},
  "hosts": [{"vm": "only", "inventory_file": "snap.yaml"}]
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Merge)
	assert.Equal(t, "snap.yaml", cfg.Hosts[0].InventoryFile)
}

func TestLoadOutputPathFromEnv(t *testing.T) {
	t.Setenv(EnvOutputPath, "/srv/graphs")
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, "/srv/graphs", cfg.OutputPath)
}

func TestValidateDuplicateHosts(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	cfg.Hosts[1].VM = "front"

	err = cfg.Validate()
	assert.ErrorIs(t, err, domain.ErrDuplicateHost)
	assert.Contains(t, err.Error(), "front")
}

func TestValidateMissingColor(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	delete(cfg.ColorScheme, "bright_text")

	assert.ErrorIs(t, cfg.Validate(), domain.ErrMissingColor)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"NoOrganization", func(c *Config) { c.Organization = "" }},
		{"NoHosts", func(c *Config) { c.Hosts = nil }},
		{"NoVM", func(c *Config) { c.Hosts[0].VM = "" }},
		{"NoInventory", func(c *Config) { c.Hosts[0].HostURL = "" }},
		{"BadPort", func(c *Config) { c.Hosts[1].Port = 70000 }},
		{"IncompleteTLS", func(c *Config) { c.Hosts[1].TLS.Key = "" }},
		{"BadFormat", func(c *Config) { c.Format = "bmp" }},
		{"UnknownAction", func(c *Config) { c.Actions[0].Type = "webdav" }},
		{"GitWithoutURL", func(c *Config) { c.Actions[0].URL = "" }},
		{"S3WithoutBucket", func(c *Config) { c.Actions[1].Bucket = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Parse([]byte(validYAML))
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("organization: Acme\nmerged: true\n"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	path := writeConfig(t, "config.json", "{}")
	found, err := Find(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = Find(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnv(dir))

	t.Setenv("GRAPHBOT_TEST_VALUE", "")
	os.Unsetenv("GRAPHBOT_TEST_VALUE")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GRAPHBOT_TEST_VALUE=42\n"), 0o600))
	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "42", GetEnvString("GRAPHBOT_TEST_VALUE", ""))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv(EnvDebug, "true")
	assert.True(t, GetEnvBool(EnvDebug, false))
	t.Setenv(EnvDebug, "nope")
	assert.False(t, GetEnvBool(EnvDebug, false))
}
