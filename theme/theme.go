package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-smfplay/smf"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Progress bar
	BarFull  rune // █ played
	BarEmpty rune // ░ remaining

	// Track activity
	NoteActive rune // ● note sounding
	NoteIdle   rune // · silent
	TrackDone  rune // ■ cursor at the end
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			BarFull:  '█',
			BarEmpty: '░',

			NoteActive: '●',
			NoteIdle:   '·',
			TrackDone:  '■',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// RGB returns raw RGB for any normalized value (for image rendering)
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

// ChannelNorm spreads the 16 MIDI channels across the palette
func ChannelNorm(channel uint8) float64 {
	return 0.3 + 0.7*float64(channel&0x0F)/15
}

// KindColor picks a color for an event kind
func (t *Theme) KindColor(k smf.Kind) lipgloss.Color {
	switch {
	case k == smf.KindNoteOn || k == smf.KindNoteOff:
		return t.Active()
	case k.IsChannel():
		return t.FG()
	case k == smf.KindMeta:
		return t.Success()
	}
	return t.Warning()
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
