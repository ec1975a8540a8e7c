package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rekindle-dev/rekindle/internal/errors"
	"github.com/rekindle-dev/rekindle/pkg/component"
	"github.com/rekindle-dev/rekindle/pkg/vdom"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "rekindle.json"

	// DefaultPort is the default page server port.
	DefaultPort = 3000

	// DefaultHost is the default page server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default prerender output directory.
	DefaultOutput = "dist"
)

// Config represents the complete rekindle.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Components declares the project's host tags and their
	// encapsulation modes.
	Components []ComponentConfig `json:"components,omitempty"`

	// Hydration contains reconciliation settings.
	Hydration HydrationConfig `json:"hydration,omitempty"`

	// Serializer contains markup output settings.
	Serializer SerializerConfig `json:"serializer,omitempty"`

	// Server contains page server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Prerender contains static prerender settings.
	Prerender PrerenderConfig `json:"prerender,omitempty"`

	// Dev contains development-mode settings.
	Dev DevConfig `json:"dev,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ComponentConfig declares one host tag.
type ComponentConfig struct {
	// Tag is the custom element tag name (e.g. "cmp-card").
	Tag string `json:"tag"`

	// Encapsulation is "none", "scoped", or "shadow" (default: "none").
	Encapsulation string `json:"encapsulation,omitempty"`
}

// HydrationConfig contains reconciliation settings.
type HydrationConfig struct {
	// RootMarkers controls root marker retention:
	// "retain-shadow" (default), "retain-all", or "strip-all".
	RootMarkers string `json:"rootMarkers,omitempty"`
}

// SerializerConfig contains markup output settings.
type SerializerConfig struct {
	// Pretty indents served markup for inspection. Development use;
	// prerendered output should stay compact.
	Pretty bool `json:"pretty,omitempty"`

	// Indent is the string written per indentation level (default:
	// two spaces). Must be whitespace.
	Indent string `json:"indent,omitempty"`
}

// ServerConfig contains page server settings.
type ServerConfig struct {
	// Port is the port to serve pages on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Static is the directory of static assets served under /assets/.
	Static string `json:"static,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics when true.
	Metrics bool `json:"metrics,omitempty"`
}

// PrerenderConfig contains static prerender settings.
type PrerenderConfig struct {
	// Output is the output directory for prerendered pages.
	Output string `json:"output,omitempty"`

	// Workers is the number of concurrent page renders (default: 4).
	Workers int `json:"workers,omitempty"`

	// Verify re-parses and reconciles each rendered page before it is
	// stored.
	Verify bool `json:"verify,omitempty"`

	// Store selects the output store: "disk" (default) or "s3".
	Store string `json:"store,omitempty"`

	// S3 configures the S3 store when Store is "s3".
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 store settings.
type S3Config struct {
	// Bucket is the destination bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the ambient AWS region.
	Region string `json:"region,omitempty"`
}

// DevConfig contains development-mode settings.
type DevConfig struct {
	// LiveReload serves the reload websocket and injects the client
	// snippet into pages.
	LiveReload bool `json:"liveReload,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Hydration: HydrationConfig{
			RootMarkers: "retain-shadow",
		},
		Serializer: SerializerConfig{
			Indent: "  ",
		},
		Server: ServerConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Prerender: PrerenderConfig{
			Output:  DefaultOutput,
			Workers: 4,
			Store:   "disk",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for rekindle.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E301").
				WithDetail("No rekindle.json found in " + filepath.Dir(path)).
				WithSuggestion("Create rekindle.json or pass --config with an explicit path")
		}
		return nil, errors.New("E302").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E302").
			WithDetail("Failed to parse rekindle.json: " + err.Error()).
			WithSuggestion("Check that rekindle.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E302").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E302").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Hydration.RootMarkers == "" {
		c.Hydration.RootMarkers = "retain-shadow"
	}
	if c.Serializer.Indent == "" {
		c.Serializer.Indent = "  "
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Prerender.Output == "" {
		c.Prerender.Output = DefaultOutput
	}
	if c.Prerender.Workers == 0 {
		c.Prerender.Workers = 4
	}
	if c.Prerender.Store == "" {
		c.Prerender.Store = "disk"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Hydration.RootMarkers {
	case "retain-shadow", "retain-all", "strip-all":
	default:
		return errors.New("E302").
			WithDetail("hydration.rootMarkers must be retain-shadow, retain-all, or strip-all, got " + strconv.Quote(c.Hydration.RootMarkers))
	}

	if strings.TrimSpace(c.Serializer.Indent) != "" {
		return errors.New("E302").
			WithDetail("serializer.indent must be whitespace, got " + strconv.Quote(c.Serializer.Indent))
	}

	for _, cc := range c.Components {
		if cc.Tag == "" {
			return errors.New("E302").WithDetail("components entries need a tag")
		}
		if cc.Encapsulation != "" {
			if _, ok := vdom.ParseEncapsulation(cc.Encapsulation); !ok {
				return errors.New("E302").
					WithDetail("component " + cc.Tag + " has unknown encapsulation " + strconv.Quote(cc.Encapsulation))
			}
		}
	}

	switch c.Prerender.Store {
	case "disk":
	case "s3":
		if c.Prerender.S3.Bucket == "" {
			return errors.New("E302").
				WithDetail("prerender.store is s3 but prerender.s3.bucket is empty")
		}
	default:
		return errors.New("E302").
			WithDetail("prerender.store must be disk or s3, got " + strconv.Quote(c.Prerender.Store))
	}

	if c.Prerender.Workers < 1 {
		return errors.New("E302").WithDetail("prerender.workers must be at least 1")
	}
	return nil
}

// Definitions builds the component definition registry from the
// configured component list.
func (c *Config) Definitions() *component.Registry {
	reg := component.NewRegistry()
	for _, cc := range c.Components {
		enc, _ := vdom.ParseEncapsulation(cc.Encapsulation)
		reg.Add(component.Definition{Tag: cc.Tag, Encapsulation: enc})
	}
	return reg
}

// Address returns the host:port the page server binds to.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Exists reports whether a rekindle.json exists in the directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir looking for rekindle.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E301").
				WithDetail("No rekindle.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
