package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/freshedit/fresh/internal/ferrors"
)

// Layer names a precedence tier. Values are listed low to high precedence.
type Layer int

const (
	LayerSystem Layer = iota
	LayerUser
	LayerProject
	LayerSession
)

func (l Layer) String() string {
	switch l {
	case LayerSystem:
		return "system"
	case LayerUser:
		return "user"
	case LayerProject:
		return "project"
	case LayerSession:
		return "session"
	default:
		return "unknown"
	}
}

// tree is a dotted-path-addressable nested map, as decoded from TOML.
type tree map[string]any

// Config is the merged, layered configuration store (§6). Each layer is an
// independent tree; Get walks layers from highest to lowest precedence and
// returns the first hit, so a session override shadows a project setting
// which shadows a user setting which shadows a system default.
type Config struct {
	layers     [4]tree
	layerPaths [4]string // on-disk origin for layers that persist (system unused)
}

// New returns an empty Config with system defaults pre-populated.
func New() *Config {
	c := &Config{}
	for i := range c.layers {
		c.layers[i] = tree{}
	}
	c.layers[LayerSystem] = systemDefaults()
	return c
}

// Load builds a Config from the standard locations: system defaults, the
// user config file under Paths.ConfigHome, and a project file discovered
// by walking up from projectDir. The session layer starts empty.
func Load(paths Paths, projectDir string) (*Config, error) {
	c := New()

	if data, err := os.ReadFile(paths.UserConfigFile()); err == nil {
		var t tree
		if _, err := toml.Decode(string(data), &t); err != nil {
			return nil, ferrors.Config("user", err)
		}
		c.layers[LayerUser] = t
		c.layerPaths[LayerUser] = paths.UserConfigFile()
	} else if !os.IsNotExist(err) {
		return nil, ferrors.IO("config.load_user", err)
	}

	if path, ok := FindProjectConfig(projectDir); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ferrors.IO("config.load_project", err)
		}
		var t tree
		if _, err := toml.Decode(string(data), &t); err != nil {
			return nil, ferrors.Config("project", err)
		}
		c.layers[LayerProject] = t
		c.layerPaths[LayerProject] = path
	}

	return c, nil
}

// Get returns the value at dotted path, and which layer it came from,
// searching session → project → user → system.
func (c *Config) Get(path string) (any, Layer, bool) {
	for l := LayerSession; l >= LayerSystem; l-- {
		if v, ok := lookup(c.layers[l], path); ok {
			return v, l, true
		}
	}
	return nil, 0, false
}

// GetString is a typed convenience wrapper over Get.
func (c *Config) GetString(path, def string) string {
	if v, _, ok := c.Get(path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetInt is a typed convenience wrapper over Get.
func (c *Config) GetInt(path string, def int64) int64 {
	if v, _, ok := c.Get(path); ok {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		}
	}
	return def
}

// GetBool is a typed convenience wrapper over Get.
func (c *Config) GetBool(path string, def bool) bool {
	if v, _, ok := c.Get(path); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Set writes value at path in the given layer. System is read-only.
func (c *Config) Set(layer Layer, path string, value any) error {
	if layer == LayerSystem {
		return fmt.Errorf("config: system layer is read-only")
	}
	insert(c.layers[layer], path, value)
	return nil
}

// Persist writes the given layer's tree back to disk via an atomic rename,
// the same durability contract as the rest of §6's persisted state. Only
// User and Project layers have a meaningful on-disk home; Session is
// in-memory only and Persist is a no-op for it.
func (c *Config) Persist(layer Layer) error {
	path := c.layerPaths[layer]
	if path == "" {
		return nil
	}
	return writeAtomicTOML(path, c.layers[layer])
}

// SetLayerPath overrides where a layer persists to. Only tests call it:
// cmd/fresh defines no --config flag, so there is no command-line way to
// designate an explicit user-layer file.
func (c *Config) SetLayerPath(layer Layer, path string) {
	c.layerPaths[layer] = path
}

func lookup(t tree, path string) (any, bool) {
	segs := strings.Split(path, ".")
	var cur any = map[string]any(t)
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			if mt, ok2 := cur.(tree); ok2 {
				m = map[string]any(mt)
			} else {
				return nil, false
			}
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func insert(t tree, path string, value any) {
	segs := strings.Split(path, ".")
	m := map[string]any(t)
	for i, seg := range segs {
		if i == len(segs)-1 {
			m[seg] = value
			return
		}
		next, ok := m[seg]
		if !ok {
			nm := map[string]any{}
			m[seg] = nm
			m = nm
			continue
		}
		switch n := next.(type) {
		case map[string]any:
			m = n
		case tree:
			m = map[string]any(n)
		default:
			nm := map[string]any{}
			m[seg] = nm
			m = nm
		}
	}
}

// writeAtomicTOML encodes v as TOML and writes it to path via a temp file
// plus rename, so a crash mid-write never corrupts the previous config.
func writeAtomicTOML(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return ferrors.IO("config.persist", err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return ferrors.Config(path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return ferrors.IO("config.persist", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return ferrors.IO("config.persist", err)
	}
	return nil
}

// Dump returns every resolved (path, value, layer) triple sorted by path,
// for the settings UI's search view.
func (c *Config) Dump() []ResolvedSetting {
	seen := map[string]bool{}
	var out []ResolvedSetting
	for l := LayerSession; l >= LayerSystem; l-- {
		flatten("", map[string]any(c.layers[l]), func(path string, v any) {
			if seen[path] {
				return
			}
			seen[path] = true
			out = append(out, ResolvedSetting{Path: path, Value: v, Layer: l})
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ResolvedSetting is one entry in a Dump.
type ResolvedSetting struct {
	Path  string
	Value any
	Layer Layer
}

func flatten(prefix string, m map[string]any, fn func(path string, v any)) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch n := v.(type) {
		case map[string]any:
			flatten(path, n, fn)
		case tree:
			flatten(path, map[string]any(n), fn)
		default:
			fn(path, v)
		}
	}
}
