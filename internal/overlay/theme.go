package overlay

import (
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the resolved named-color palette ThemedStyle looks keys up in.
// Building one from config is the renderer's job (§1 "theme resolution
// itself is an external collaborator"); this package only consumes it.
type Theme struct {
	Colors map[string]lipgloss.Color
}

func (t Theme) lookup(key string) (lipgloss.Color, bool) {
	if key == "" || t.Colors == nil {
		return "", false
	}
	c, ok := t.Colors[key]
	return c, ok
}

// Resolve converts a Face into a concrete lipgloss.Style under theme.
func Resolve(face Face, theme Theme) lipgloss.Style {
	sty := lipgloss.NewStyle()
	switch f := face.(type) {
	case Underline:
		sty = sty.Underline(true).UnderlineColor(f.Color)
	case Background:
		sty = sty.Background(f.Color)
	case Foreground:
		sty = sty.Foreground(f.Color)
	case Style:
		sty = styleFromStruct(f)
	case ThemedStyle:
		sty = resolveThemed(f, theme)
	}
	return sty
}

func styleFromStruct(f Style) lipgloss.Style {
	sty := lipgloss.NewStyle()
	if f.Foreground != "" {
		sty = sty.Foreground(f.Foreground)
	}
	if f.Background != "" {
		sty = sty.Background(f.Background)
	}
	return sty.Bold(f.Bold).Italic(f.Italic).Underline(f.Underline)
}

// resolveThemed looks FgKey/BgKey up in theme, falling back to Fallback's
// colors — softened toward the theme's own "foreground" token via
// blendFallback so an overlay whose theme key the active theme doesn't
// define still reads as part of the same palette instead of a literal,
// possibly clashing RGB value baked in at call time.
func resolveThemed(f ThemedStyle, theme Theme) lipgloss.Style {
	sty := styleFromStruct(f.Fallback)
	if fg, ok := theme.lookup(f.FgKey); ok {
		sty = sty.Foreground(fg)
	} else if f.Fallback.Foreground != "" {
		sty = sty.Foreground(blendFallback(f.Fallback.Foreground, theme))
	}
	if bg, ok := theme.lookup(f.BgKey); ok {
		sty = sty.Background(bg)
	} else if f.Fallback.Background != "" {
		sty = sty.Background(blendFallback(f.Fallback.Background, theme))
	}
	return sty
}

// blendFallback interpolates c 35% of the way toward the theme's base
// foreground color in perceptual Lab space (go-colorful's BlendLab),
// grounded on the teacher's transitive use of colorful through lipgloss
// for style interpolation — an undefined theme token still shifts toward
// the active palette rather than standing out as a hardcoded color.
func blendFallback(c lipgloss.Color, theme Theme) lipgloss.Color {
	base, ok := theme.lookup("foreground")
	if !ok {
		return c
	}
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return c
	}
	bc, err := colorful.Hex(string(base))
	if err != nil {
		return c
	}
	return lipgloss.Color(cc.BlendLab(bc, 0.35).Hex())
}
