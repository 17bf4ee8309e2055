package battle

import "fmt"

// Character is one combatant of a Match.
//
// Invariant: 0 <= HP() <= MaxHP and 0 <= SP() <= MaxSP.
type Character struct {
	id        ID
	name      string
	variant   *Variant
	playstyle Playstyle
	match     *Match
	hp        int
	sp        int
	enemy     ID
	anim      Animation
}

// ID returns the character's identifier within its match.
func (c *Character) ID() ID { return c.id }

// Name returns the character's name.
func (c *Character) Name() string { return c.name }

// HP returns the current hit points.
func (c *Character) HP() int { return c.hp }

// SP returns the current skill points.
func (c *Character) SP() int { return c.sp }

// Variant returns the character's fixed stat table.
func (c *Character) Variant() *Variant { return c.variant }

// Playstyle returns the playstyle that selects this character's actions.
func (c *Character) Playstyle() Playstyle { return c.playstyle }

// SetPlaystyle replaces the character's playstyle.
func (c *Character) SetPlaystyle(ps Playstyle) { c.playstyle = ps }

// Enemy returns the opposing character, or nil if none has been set.
func (c *Character) Enemy() *Character { return c.match.Character(c.enemy) }

// SetEnemy sets the opposing character. A nil or foreign enemy clears it.
func (c *Character) SetEnemy(e *Character) {
	if e == nil || e.match != c.match {
		c.enemy = NoID
		return
	}
	c.enemy = e.id
}

// Attack re-enqueues the character, spends AttackCost SP and damages the enemy.
// Insufficient SP or a missing enemy makes the call a no-op.
func (c *Character) Attack() {
	enemy := c.Enemy()
	if enemy == nil || c.sp < c.variant.AttackCost {
		return
	}
	c.match.queue.Add(c)
	c.anim.Trigger(PoseAttack)
	c.sp -= c.variant.AttackCost
	enemy.takeHit(c.variant.AttackDamage)
}

// SpecialAttack spends SpecialCost SP, damages the enemy, then applies the
// variant's re-enqueue pattern. Insufficient SP or a missing enemy makes the
// call a no-op, including the re-enqueue.
func (c *Character) SpecialAttack() {
	enemy := c.Enemy()
	if enemy == nil || c.sp < c.variant.SpecialCost {
		return
	}
	c.anim.Trigger(PoseSpecial)
	c.sp -= c.variant.SpecialCost
	enemy.takeHit(c.variant.SpecialDamage)
	c.variant.Reenqueue(c.match.queue, c, enemy)
}

// Perform dispatches a to Attack or SpecialAttack.
//
// Postcondition: returns true iff a was a legal action when called.
func (c *Character) Perform(a Action) bool {
	if !c.IsValidAction(a) {
		return false
	}
	switch a {
	case ActionAttack:
		c.Attack()
	case ActionSpecial:
		c.SpecialAttack()
	}
	return true
}

// takeHit reduces HP by damage less defense, never below zero.
func (c *Character) takeHit(damage int) {
	net := damage - c.variant.Defense
	if net < 0 {
		net = 0
	}
	c.hp -= net
	if c.hp < 0 {
		c.hp = 0
	}
}

// IsValidAction reports whether a is currently available.
func (c *Character) IsValidAction(a Action) bool {
	for _, avail := range c.AvailableActions() {
		if avail == a {
			return true
		}
	}
	return false
}

// AvailableActions returns the actions the current SP can pay for.
//
// Postcondition: [Attack, Special] if SP >= SpecialCost, [Attack] if
// SP >= AttackCost, otherwise empty.
func (c *Character) AvailableActions() []Action {
	switch {
	case c.sp >= c.variant.SpecialCost:
		return []Action{ActionAttack, ActionSpecial}
	case c.sp >= c.variant.AttackCost:
		return []Action{ActionAttack}
	default:
		return nil
	}
}

// CanAct reports whether at least one action is available.
func (c *Character) CanAct() bool { return len(c.AvailableActions()) > 0 }

// String returns "<name> (<Label>): <hp>/<sp>".
func (c *Character) String() string {
	return fmt.Sprintf("%s (%s): %d/%d", c.name, c.variant.Label, c.hp, c.sp)
}

// NextSprite advances the animation and returns the sprite identifier to draw.
func (c *Character) NextSprite() string {
	return c.anim.Next(c.variant.Sprite)
}
