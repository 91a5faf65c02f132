/*
Package config configures roto shapes: edit policies and tracing.

Configuration is read through schuko.Configuration, so any adapter of
package schuko will do. Config wraps schuko's koanf adapter and loads
YAML or NestedText documents:

	roto:
	  autokeying: true
	  featherlink: false
	  rippleedit: false
	tracelevel:
	  roto: Info
	  roto_bezier: Debug

Nested maps are flattened into dotted keys, e.g. "roto.autokeying". Trace
levels live below "tracelevel", with the dots of tracer names replaced by
underscores, see TraceLevelKey.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'roto'
func tracer() tracing.Trace {
	return tracing.Select("roto")
}

// Configuration keys for edit policies.
const (
	KeyAutoKeying  = "roto.autokeying"
	KeyFeatherLink = "roto.featherlink"
	KeyRippleEdit  = "roto.rippleedit"
)

// TracingPrefix prefixes the keys of trace levels.
const TracingPrefix = "tracelevel."

// TraceLevelKey returns the configuration key for the level of the tracer
// called name, e.g. "tracelevel.roto_bezier" for "roto.bezier".
func TraceLevelKey(name string) string {
	return TracingPrefix + strings.ReplaceAll(name, ".", "_")
}

// Config is a configuration on top of koanf. It is safe for concurrent
// use; values may be changed at runtime with Set.
type Config struct {
	mx   sync.RWMutex
	conf *koanfadapter.KConf
}

var _ schuko.Configuration = &Config{}

// New creates a configuration holding the defaults only.
func New() *Config {
	c := &Config{conf: koanfadapter.New(koanf.New("."), "", nil)}
	c.InitDefaults()
	return c
}

// Parser selects a koanf parser by the extension of a file name. YAML
// is the default, ".nt" selects NestedText.
func Parser(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".nt") {
		return koanfadapter.Parser()
	}
	return yaml.Parser()
}

// Load reads a document from r, parsed by p, or as YAML if p is nil. Its
// values override the defaults. An empty document yields the defaults.
func Load(r io.Reader, p koanf.Parser) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	if p == nil {
		p = yaml.Parser()
	}
	c := New()
	if len(bytes.TrimSpace(b)) == 0 {
		return c, nil
	}
	c.mx.Lock()
	defer c.mx.Unlock()
	if err := c.conf.Koanf().Load(rawbytes.Provider(b), p); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	tracer().Debugf("configuration loaded, %d keys", len(c.conf.Koanf().Keys()))
	return c, nil
}

// LoadFile reads the document at path, see Parser.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f, Parser(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// InitDefaults sets auto-keying on, feather link and ripple edit off, and
// every trace level to Error.
func (c *Config) InitDefaults() {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.conf.InitDefaults()
	defaults := map[string]interface{}{
		KeyAutoKeying:  true,
		KeyFeatherLink: false,
		KeyRippleEdit:  false,
	}
	for _, key := range TraceKeys {
		defaults[TraceLevelKey(key)] = "Error"
	}
	c.conf.Koanf().Load(confmap.Provider(defaults, "."), nil)
}

// Set overrides the value for key.
func (c *Config) Set(key string, value interface{}) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.conf.Set(key, value)
}

// Keys returns all keys, sorted.
func (c *Config) Keys() []string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.conf.Koanf().Keys()
}

// IsSet is part of interface schuko.Configuration.
func (c *Config) IsSet(key string) bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.conf.IsSet(key)
}

// GetString is part of interface schuko.Configuration.
func (c *Config) GetString(key string) string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.conf.GetString(key)
}

// GetInt is part of interface schuko.Configuration.
func (c *Config) GetInt(key string) int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.conf.GetInt(key)
}

// GetBool is part of interface schuko.Configuration.
func (c *Config) GetBool(key string) bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.conf.GetBool(key)
}

// IsInteractive is part of interface schuko.Configuration. Roto
// configurations are never interactive.
func (c *Config) IsInteractive() bool {
	return false
}
