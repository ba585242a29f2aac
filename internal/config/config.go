package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator"
	"github.com/melih/graphbot/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// FileNames are looked up, in order, in the data directory.
var FileNames = []string{"config.yaml", "config.yml", "config.json"}

const (
	ActionGit = "git"
	ActionS3  = "s3"

	LocalHost = "localhost"

	defaultFormat   = "png"
	defaultParallel = 4
)

// Config is the graphbot configuration file.
type Config struct {
	Organization  string            `yaml:"organization" validate:"required"`
	Merge         bool              `yaml:"merge"`
	OutputPath    string            `yaml:"output_path"`
	Format        string            `yaml:"format" validate:"omitempty,oneof=png svg pdf dot"`
	ParallelHosts int               `yaml:"parallel_hosts" validate:"gte=0"`
	PublicIPURL   string            `yaml:"public_ip_url" validate:"omitempty,url"`
	Proxy         Proxy             `yaml:"proxy"`
	ColorScheme   map[string]string `yaml:"color_scheme" validate:"required"`
	Hosts         []Host            `yaml:"hosts" validate:"required,min=1,dive"`
	Actions       []Action          `yaml:"actions" validate:"dive"`

	// DataPath is the directory the file was read from. Relative paths of
	// the file resolve against it.
	DataPath string `yaml:"-"`
}

// Proxy configures reverse proxy identification.
type Proxy struct {
	Image       string `yaml:"image"`
	RuleLabel   string `yaml:"rule_label"`
	PortLabel   string `yaml:"port_label"`
	DefaultPort string `yaml:"default_port"`
}

// Host is one Docker host to graph.
type Host struct {
	VM            string   `yaml:"vm" validate:"required"`
	HostURL       string   `yaml:"host_url"`
	Port          int      `yaml:"port" validate:"gte=0,lte=65535"`
	TLS           *TLS     `yaml:"tls_config"`
	InventoryFile string   `yaml:"inventory_file"`
	Exclude       []string `yaml:"exclude"`
}

// TLS holds the client certificate material of a remote Docker host.
type TLS struct {
	CACert string `yaml:"ca_cert" validate:"required"`
	Cert   string `yaml:"cert" validate:"required"`
	Key    string `yaml:"key" validate:"required"`
}

// Action publishes rendered artifacts once rendering succeeded.
type Action struct {
	Type string `yaml:"type" validate:"required,oneof=git s3"`
	// Prefix is the repository directory (git) or key prefix (s3).
	Prefix string `yaml:"prefix"`

	// git
	URL         string `yaml:"url"`
	Branch      string `yaml:"branch"`
	Username    string `yaml:"username"`
	PasswordEnv string `yaml:"password_env"`
	Message     string `yaml:"message"`

	// s3
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// Find returns the first configuration file present in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no configuration file in %s: %w", dir, fs.ErrNotExist)
}

// Load reads, defaults and validates a configuration file. YAML and JSON
// are both accepted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.DataPath = filepath.Dir(path)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration without defaults or validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputPath == "" {
		c.OutputPath = "output"
	}
	c.OutputPath = c.Path(GetEnvString(EnvOutputPath, c.OutputPath))
	if c.Format == "" {
		c.Format = defaultFormat
	}
	if c.ParallelHosts == 0 {
		c.ParallelHosts = defaultParallel
	}
}

// Validate performs syntactic and logic checks. Any error is fatal: nothing
// may be queried or rendered with an invalid configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := domain.ColorScheme(c.ColorScheme).Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := CheckHosts(c.Hosts); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for i, a := range c.Actions {
		if err := a.check(); err != nil {
			return fmt.Errorf("invalid configuration: action %d: %w", i, err)
		}
	}
	return nil
}

// CheckHosts rejects hosts sharing a vm name and hosts with no inventory.
func CheckHosts(hosts []Host) error {
	seen := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if seen[h.VM] {
			return fmt.Errorf("%w (%s)", domain.ErrDuplicateHost, h.VM)
		}
		seen[h.VM] = true

		if h.HostURL == "" && h.InventoryFile == "" {
			return fmt.Errorf("host %s: host_url or inventory_file is required", h.VM)
		}
	}
	return nil
}

func (a Action) check() error {
	switch a.Type {
	case ActionGit:
		if a.URL == "" {
			return errors.New("git action requires url")
		}
	case ActionS3:
		if a.Bucket == "" {
			return errors.New("s3 action requires bucket")
		}
	}
	return nil
}

// Path resolves p against the data directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataPath, p)
}

// IsLocal reports whether the host is the local Docker daemon.
func (h Host) IsLocal() bool {
	return h.HostURL == LocalHost
}
