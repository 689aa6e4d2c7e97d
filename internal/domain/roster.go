package domain

import (
	"errors"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyName is returned when a participant is added with a blank name.
var ErrEmptyName = errors.New("participant name is empty")

// Participant is one member of a room's roster.
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Alive  bool   `json:"alive"`
	IsHost bool   `json:"is_host"`
	Score  int    `json:"score"`
}

// Roster owns the mutable participant list for a single room. Phase rules
// (for example lobby-only removal) are enforced by the services operating on
// the room; the roster itself is phase-agnostic.
type Roster struct {
	participants []*Participant
}

// Add appends a participant with the trimmed name. The first participant
// added to an empty roster becomes host. Identifiers are random UUIDs and
// are never reused within the room's lifetime.
func (r *Roster) Add(name string) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	p := &Participant{
		ID:     uuid.New().String(),
		Name:   name,
		Alive:  true,
		IsHost: len(r.participants) == 0,
	}
	r.participants = append(r.participants, p)
	return p, nil
}

// Remove deletes the participant with the given id and reports whether it
// was present. Host status moves to the first remaining participant so at
// most one host exists at any time.
func (r *Roster) Remove(id string) bool {
	for i, p := range r.participants {
		if p.ID != id {
			continue
		}
		r.participants = append(r.participants[:i], r.participants[i+1:]...)
		if p.IsHost && len(r.participants) > 0 {
			r.participants[0].IsHost = true
		}
		return true
	}
	return false
}

// ByID returns the participant with the given id, or nil.
func (r *Roster) ByID(id string) *Participant {
	for _, p := range r.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// At returns the participant at the given roster position.
func (r *Roster) At(i int) *Participant {
	return r.participants[i]
}

// IndexOf returns the roster position of the given id, or -1.
func (r *Roster) IndexOf(id string) int {
	for i, p := range r.participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Participants returns the roster in order.
func (r *Roster) Participants() []*Participant {
	return r.participants
}

// Len returns the roster size.
func (r *Roster) Len() int {
	return len(r.participants)
}

// Host returns the current host, or nil when the roster is empty.
func (r *Roster) Host() *Participant {
	for _, p := range r.participants {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// Alive returns the participants still in the game, in roster order.
func (r *Roster) Alive() []*Participant {
	out := make([]*Participant, 0, len(r.participants))
	for _, p := range r.participants {
		if p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// AliveCount returns the number of participants still in the game.
func (r *Roster) AliveCount() int {
	n := 0
	for _, p := range r.participants {
		if p.Alive {
			n++
		}
	}
	return n
}

// Eliminate marks the participant as out of the game. Eliminating an
// already-eliminated or unknown participant is a no-op and returns false.
func (r *Roster) Eliminate(id string) bool {
	p := r.ByID(id)
	if p == nil || !p.Alive {
		return false
	}
	p.Alive = false
	return true
}

// ResetForStart marks every participant alive and zeroes scores.
func (r *Roster) ResetForStart() {
	for _, p := range r.participants {
		p.Alive = true
		p.Score = 0
	}
}

// Shuffle randomizes the roster order in place.
func (r *Roster) Shuffle(rng *rand.Rand) {
	Shuffle(rng, r.participants)
}
