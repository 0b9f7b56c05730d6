package control

import "strings"

type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionReset
	ActionMeasure
	ActionPalette
	ActionNextParam
	ActionPrevParam
	ActionIncrease
	ActionDecrease
	ActionRecord
	ActionScreenshot
	ActionHelp
)

var bindings = map[string]Action{
	"q":      ActionQuit,
	"escape": ActionQuit,
	"space":  ActionPause,
	"r":      ActionReset,
	"m":      ActionMeasure,
	"p":      ActionPalette,
	"tab":    ActionNextParam,
	"down":   ActionNextParam,
	"up":     ActionPrevParam,
	"right":  ActionIncrease,
	"left":   ActionDecrease,
	"g":      ActionRecord,
	"s":      ActionScreenshot,
	"h":      ActionHelp,
	"?":      ActionHelp,
}

// Lookup returns the action bound to a key name, case-insensitively.
func Lookup(key string) Action {
	return bindings[strings.ToLower(key)]
}

const HelpText = "SPACE pause  R reset  M measure  P palette  TAB/↑↓ select  ←→ tune (SHIFT fine)  G gif  S png  Q quit"
