package battle

import (
	"fmt"
	"sort"
)

// Reenqueue appends queue entries after a successful special attack.
type Reenqueue func(q *Queue, self, enemy *Character)

// ReenqueueSelfTwice gives the attacker two more upcoming turns.
func ReenqueueSelfTwice(q *Queue, self, _ *Character) {
	q.Add(self)
	q.Add(self)
}

// ReenqueueEnemyThenSelf lets the enemy act once before the attacker acts again.
func ReenqueueEnemyThenSelf(q *Queue, self, enemy *Character) {
	q.Add(enemy)
	q.Add(self)
}

// Variant is the fixed stat table of a character archetype.
//
// Invariant: all stats are >= 0, SpecialCost >= AttackCost, and Reenqueue is
// non-nil once registered.
type Variant struct {
	Code          string
	Label         string
	Sprite        string // sprite asset prefix, e.g. "rogue"
	Defense       int
	AttackCost    int
	SpecialCost   int
	AttackDamage  int
	SpecialDamage int
	Reenqueue     Reenqueue
}

// Rogue is the fast, low-damage archetype.
var Rogue = Variant{
	Code:          "r",
	Label:         "Rogue",
	Sprite:        "rogue",
	Defense:       10,
	AttackCost:    3,
	SpecialCost:   10,
	AttackDamage:  15,
	SpecialDamage: 20,
	Reenqueue:     ReenqueueSelfTwice,
}

// Mage is the slow, high-damage archetype.
var Mage = Variant{
	Code:          "m",
	Label:         "Mage",
	Sprite:        "mage",
	Defense:       8,
	AttackCost:    5,
	SpecialCost:   30,
	AttackDamage:  20,
	SpecialDamage: 40,
	Reenqueue:     ReenqueueEnemyThenSelf,
}

// Validate checks the variant invariants.
//
// Postcondition: Returns nil if the variant may be registered.
func (v *Variant) Validate() error {
	switch {
	case v.Code == "":
		return fmt.Errorf("variant code must not be empty")
	case v.Label == "":
		return fmt.Errorf("variant %q: label must not be empty", v.Code)
	case v.Defense < 0, v.AttackCost < 0, v.SpecialCost < 0, v.AttackDamage < 0, v.SpecialDamage < 0:
		return fmt.Errorf("variant %q: stats must not be negative", v.Code)
	case v.SpecialCost < v.AttackCost:
		return fmt.Errorf("variant %q: special_cost %d must not be below attack_cost %d", v.Code, v.SpecialCost, v.AttackCost)
	case v.Reenqueue == nil:
		return fmt.Errorf("variant %q: reenqueue must not be nil", v.Code)
	}
	return nil
}

// Registry indexes variants by short code.
//
// Invariant: each code is registered at most once.
type Registry struct {
	variants map[string]*Variant
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]*Variant)}
}

// DefaultRegistry returns a Registry holding Rogue ("r") and Mage ("m").
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, v := range []Variant{Rogue, Mage} {
		r.mustRegister(&v)
	}
	return r
}

// mustRegister is Register for built-in variants; it panics on error.
func (r *Registry) mustRegister(v *Variant) {
	if err := r.Register(v); err != nil {
		panic(fmt.Sprintf("battle: registering built-in variant: %v", err))
	}
}

// Register validates and stores v under its code.
//
// Precondition: v must not be nil.
// Postcondition: returns error on an invalid variant or code collision.
func (r *Registry) Register(v *Variant) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, exists := r.variants[v.Code]; exists {
		return fmt.Errorf("battle.Registry: variant %q already registered", v.Code)
	}
	r.variants[v.Code] = v
	return nil
}

// Lookup returns the variant for code, or false if not registered.
func (r *Registry) Lookup(code string) (*Variant, bool) {
	v, ok := r.variants[code]
	return v, ok
}

// Codes returns the registered codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.variants))
	for c := range r.variants {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
