package battle

// ID identifies a character within its Match.
type ID int

// NoID is the ID of an absent character, e.g. an unset enemy.
const NoID ID = -1

// MaxHP and MaxSP are the starting and maximum resource values.
const (
	MaxHP = 100
	MaxSP = 100
)

// Match owns every character of one duel and the turn queue they share.
// Characters refer to each other and are queued by ID; the Match resolves IDs.
type Match struct {
	roster []*Character
	queue  *Queue
}

// NewMatch returns an empty Match with an empty Queue.
func NewMatch() *Match {
	m := &Match{}
	m.queue = &Queue{match: m}
	return m
}

// Queue returns the match's shared turn queue.
func (m *Match) Queue() *Queue { return m.queue }

// Character resolves id, or returns nil if id is not part of this match.
func (m *Match) Character(id ID) *Character {
	if id < 0 || int(id) >= len(m.roster) {
		return nil
	}
	return m.roster[id]
}

// Characters returns a snapshot of the roster in spawn order.
func (m *Match) Characters() []*Character {
	cp := make([]*Character, len(m.roster))
	copy(cp, m.roster)
	return cp
}

// SpawnOption customizes a character at creation.
type SpawnOption func(*Character)

// WithHP sets the starting hit points, clamped to [0, MaxHP].
func WithHP(hp int) SpawnOption {
	return func(c *Character) {
		c.hp = clamp(hp, 0, MaxHP)
	}
}

// Spawn creates a character of variant v bound to this match's queue.
// The character is not added to the queue and has no enemy.
//
// Precondition: v must be non-nil and valid.
// Postcondition: HP() in [0, MaxHP], SP() == MaxSP, Enemy() == nil.
func (m *Match) Spawn(name string, v *Variant, ps Playstyle, opts ...SpawnOption) *Character {
	c := &Character{
		id:        ID(len(m.roster)),
		name:      name,
		variant:   v,
		playstyle: ps,
		match:     m,
		hp:        MaxHP,
		sp:        MaxSP,
		enemy:     NoID,
	}
	for _, opt := range opts {
		opt(c)
	}
	m.roster = append(m.roster, c)
	return c
}

// Pair makes a and b each other's enemy.
//
// Precondition: a and b belong to this match.
func (m *Match) Pair(a, b *Character) {
	a.SetEnemy(b)
	b.SetEnemy(a)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
