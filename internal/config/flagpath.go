package config

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// SetFlag writes value at a CLI flag name (kebab-case, dot-separated for
// nested settings, e.g. "editor.tab-width" from --editor.tab-width) into
// layer, converting each path segment to the snake_case systemDefaults
// already uses (strcase.ToSnake("tab-width") == "tab_width"). This is the
// dotted-path addressing SPEC_FULL's config section promises: cmd/fresh's
// flags are kebab-case by cobra convention, the config tree is snake_case
// by systemDefaults' convention, and strcase is the seam between them.
func (c *Config) SetFlag(layer Layer, flagPath string, value any) error {
	segs := strings.Split(flagPath, ".")
	for i, s := range segs {
		segs[i] = strcase.ToSnake(s)
	}
	return c.Set(layer, strings.Join(segs, "."), value)
}

// FlagPath is the inverse convenience: the kebab-case flag name for a
// dotted config path, used to generate --flag names from systemDefaults
// when building the settings dialog's flag-equivalent listing.
func FlagPath(configPath string) string {
	segs := strings.Split(configPath, ".")
	for i, s := range segs {
		segs[i] = strcase.ToKebab(s)
	}
	return strings.Join(segs, ".")
}
