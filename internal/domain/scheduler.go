package domain

// TurnRotation selects the single responder for circular-turn games. The
// index always points into the full roster, never into the alive-only
// subset, so eliminations do not shift it.
type TurnRotation struct {
	index int
}

// Reset rewinds the rotation to the first roster slot.
func (t *TurnRotation) Reset() {
	t.index = 0
}

// Responder returns the first alive participant at or after the current
// index, scanning circularly through the full roster, and snaps the index
// onto that participant's slot. Returns nil when nobody is alive.
func (t *TurnRotation) Responder(r *Roster) *Participant {
	n := r.Len()
	for i := 0; i < n; i++ {
		idx := (t.index + i) % n
		if p := r.At(idx); p.Alive {
			t.index = idx
			return p
		}
	}
	return nil
}

// Advance moves the rotation to the first alive participant strictly after
// the current slot, wrapping past eliminated participants. Because Responder
// snaps the index onto whoever acted, the advance is relative to the actual
// responder even when that participant was eliminated during resolution.
// With nobody alive the index is left unchanged and Responder reports nil.
func (t *TurnRotation) Advance(r *Roster) {
	n := r.Len()
	if n == 0 {
		return
	}
	for i := 1; i <= n; i++ {
		idx := (t.index + i) % n
		if r.At(idx).Alive {
			t.index = idx
			return
		}
	}
}

// PassCursor walks the roster exactly once in fixed order. It is used by
// phases where every participant acts once per round (explanations, votes);
// its termination condition is roster exhaustion, not survivor count, which
// is why it is a separate strategy from TurnRotation.
type PassCursor struct {
	next int
}

// Reset rewinds the cursor to the first participant.
func (c *PassCursor) Reset() {
	c.next = 0
}

// Current returns the participant whose turn it is, or nil once the pass is
// exhausted.
func (c *PassCursor) Current(r *Roster) *Participant {
	if c.next >= r.Len() {
		return nil
	}
	return r.At(c.next)
}

// Advance moves the cursor to the next participant.
func (c *PassCursor) Advance() {
	c.next++
}

// Done reports whether every participant has acted.
func (c *PassCursor) Done(r *Roster) bool {
	return c.next >= r.Len()
}
