// Package controls maps key presses to scene state changes.
package controls

import (
	"fmt"
	"sort"
	"unicode"

	"go.uber.org/zap"

	"github.com/Faultbox/carousel/internal/engine/lighting"
	"github.com/Faultbox/carousel/internal/game/carousel"
	"github.com/Faultbox/carousel/internal/logger"
)

// Action is the kind of state change a key triggers.
type Action int

const (
	ActionNone Action = iota
	ActionSelectMaterial
	ActionToggleBasic
	ActionToggleLights
	ActionToggleRing
)

// Command is a fully bound action.
type Command struct {
	Action   Action
	Material carousel.Material
	Category lighting.Category
	Ring     int
}

func (c Command) String() string {
	switch c.Action {
	case ActionSelectMaterial:
		return "select " + c.Material.String() + " material"
	case ActionToggleBasic:
		return "swap basic and shaded material"
	case ActionToggleLights:
		return "toggle " + c.Category.String() + " lights"
	case ActionToggleRing:
		return fmt.Sprintf("toggle ring %d motion", c.Ring+1)
	default:
		return "none"
	}
}

var bindings = map[rune]Command{
	'q': {Action: ActionSelectMaterial, Material: carousel.MaterialLambert},
	'w': {Action: ActionSelectMaterial, Material: carousel.MaterialPhong},
	'e': {Action: ActionSelectMaterial, Material: carousel.MaterialToon},
	'r': {Action: ActionSelectMaterial, Material: carousel.MaterialNormal},
	't': {Action: ActionToggleBasic},
	'd': {Action: ActionToggleLights, Category: lighting.Directional},
	'p': {Action: ActionToggleLights, Category: lighting.Point},
	's': {Action: ActionToggleLights, Category: lighting.Spot},
	'1': {Action: ActionToggleRing, Ring: 0},
	'2': {Action: ActionToggleRing, Ring: 1},
	'3': {Action: ActionToggleRing, Ring: 2},
}

// Lookup returns the command bound to key, case-insensitively.
func Lookup(key rune) (Command, bool) {
	cmd, ok := bindings[unicode.ToLower(key)]
	return cmd, ok
}

// Binding pairs a key with its command.
type Binding struct {
	Key     rune
	Command Command
}

// Bindings returns every key binding in key order.
func Bindings() []Binding {
	out := make([]Binding, 0, len(bindings))
	for k, c := range bindings {
		out = append(out, Binding{Key: k, Command: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Dispatcher applies key presses to a scene state. Every press fires,
// including key repeats; each action is a set or a toggle.
type Dispatcher struct {
	state *carousel.State
	log   *zap.Logger
}

// New creates a dispatcher for state.
func New(state *carousel.State) *Dispatcher {
	return &Dispatcher{state: state, log: logger.Named("controls")}
}

// Dispatch handles one key press. It returns false for unbound keys,
// which leave the state untouched.
func (d *Dispatcher) Dispatch(key rune) bool {
	cmd, ok := Lookup(key)
	if !ok {
		return false
	}
	d.Apply(cmd)
	return true
}

// Apply executes a command against the state.
func (d *Dispatcher) Apply(cmd Command) {
	s := d.state
	switch cmd.Action {
	case ActionSelectMaterial:
		s.SelectMaterial(cmd.Material)
	case ActionToggleBasic:
		s.ToggleBasic()
	case ActionToggleLights:
		s.ToggleLights(cmd.Category)
	case ActionToggleRing:
		if !s.ToggleRingMotion(cmd.Ring) {
			d.log.Debug("no such ring", zap.Int("ring", cmd.Ring+1))
			return
		}
	default:
		return
	}
	d.log.Debug("command applied",
		zap.Stringer("command", cmd),
		zap.Stringer("material", s.Material))
}
