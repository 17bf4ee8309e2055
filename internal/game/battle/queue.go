package battle

// Queue is the ordered attack order of a Match. The same character may appear
// several times; each entry is one upcoming turn.
//
// Invariant: the front is the earliest entry whose character can act. Entries
// whose character cannot act are skipped by Peek but never dropped by it.
type Queue struct {
	match   *Match
	entries []ID
}

// Add appends c to the back of the queue. A nil or foreign character is ignored.
func (q *Queue) Add(c *Character) {
	if c == nil || c.match != q.match {
		return
	}
	q.entries = append(q.entries, c.id)
}

// Peek returns the front character without removing it, or nil if no entry
// can act.
func (q *Queue) Peek() *Character {
	_, c := q.front()
	return c
}

// Remove removes and returns the front character. When no entry can act it
// returns nil and the queue is unchanged.
//
// Postcondition: the removed entry is the first occurrence of the peeked
// character, which may sit behind skipped entries.
func (q *Queue) Remove() *Character {
	i, c := q.front()
	if c == nil {
		return nil
	}
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	return c
}

func (q *Queue) front() (int, *Character) {
	for i, id := range q.entries {
		if c := q.match.Character(id); c != nil && c.CanAct() {
			return i, c
		}
	}
	return -1, nil
}

// IsEmpty reports whether no entry can act, regardless of Len.
func (q *Queue) IsEmpty() bool { return q.Peek() == nil }

// IsOver reports whether the duel has ended: the queue is empty, a queued
// character has 0 HP, or no queued character can act.
func (q *Queue) IsOver() bool {
	if q.IsEmpty() {
		return true
	}
	for _, c := range q.characters() {
		if c.HP() == 0 {
			return true
		}
	}
	for _, c := range q.characters() {
		if c.CanAct() {
			return false
		}
	}
	return true
}

// Winner returns the queued character with positive HP when the duel is over
// and the queue holds both a character with positive HP and one with 0 HP.
// Otherwise, including ties and exhaustion stalemates, it returns nil.
func (q *Queue) Winner() *Character {
	if !q.IsOver() {
		return nil
	}
	var winner, loser *Character
	for _, c := range q.characters() {
		if c.HP() > 0 {
			winner = c
		} else {
			loser = c
		}
	}
	if winner != nil && loser != nil {
		return winner
	}
	return nil
}

// Len returns the raw number of entries, including ones that cannot act.
func (q *Queue) Len() int { return len(q.entries) }

// Entries returns a copy of the queued IDs in order.
func (q *Queue) Entries() []ID {
	cp := make([]ID, len(q.entries))
	copy(cp, q.entries)
	return cp
}

func (q *Queue) characters() []*Character {
	out := make([]*Character, 0, len(q.entries))
	for _, id := range q.entries {
		if c := q.match.Character(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}
