// Package battle implements the turn order and combat resolution of a
// two-player duel: characters, their variants, and the shared turn queue.
package battle

// Action identifies what a character does on its turn.
// The zero value (ActionInvalid) is the "no valid move" sentinel.
type Action int

const (
	ActionInvalid Action = iota // zero value; no valid move
	ActionAttack                // basic attack
	ActionSpecial               // special attack
)

// Token returns the single-key token for the action: "A", "S" or "X".
func (a Action) Token() string {
	switch a {
	case ActionAttack:
		return "A"
	case ActionSpecial:
		return "S"
	default:
		return "X"
	}
}

// String returns the human-readable name of the action.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionSpecial:
		return "special"
	default:
		return "invalid"
	}
}

// ParseAction maps a key token to an Action.
//
// Postcondition: exactly "A" and "S" map to ActionAttack and ActionSpecial;
// every other input, including "a" or " A", maps to ActionInvalid.
func ParseAction(token string) Action {
	switch token {
	case "A":
		return ActionAttack
	case "S":
		return ActionSpecial
	default:
		return ActionInvalid
	}
}

// Playstyle selects the action for the character at the front of a queue.
type Playstyle interface {
	// SelectAttack returns the chosen action, or ActionInvalid when no valid
	// move can be found. input is the key pressed by a player; automatic
	// playstyles ignore it.
	SelectAttack(input string) Action
	// IsManual reports whether the playstyle needs player input.
	IsManual() bool
}
