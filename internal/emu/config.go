package emu

// RegisterPreset selects the post-boot register values a Machine resets to
// when no boot ROM is supplied. DMG is the only preset implemented; the
// field exists so DMG0/MGB presets can be added later without an API break.
type RegisterPreset int

const (
	PresetDMG RegisterPreset = iota
)

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace          bool // log every CPU step via Logger
	LimitFPS       bool // stored only: Machine never reads it, and StepFrame runs as fast as called either way
	RegisterPreset RegisterPreset
}
