// Package collection holds the caught-Pokémon collection: pure reducers over
// State and a Store container that persists every transition.
package collection

import (
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// EvolveCost is the number of copies consumed by one evolution.
const EvolveCost = 3

// State is the caught collection.
//
// Entries are kept in insertion/evolution order; that order drives cyclic
// navigation in the viewer. LastMutatedID and EvolutionTargetID are transient
// and never persisted.
type State struct {
	Entries []models.CaughtEntry `json:"caught"`

	// LastMutatedID is the id the viewer should focus next, if any.
	LastMutatedID *int `json:"-"`

	// EvolutionTargetID is set while an evolution is being applied.
	// AddOne never moves focus while it is set.
	EvolutionTargetID *int `json:"-"`
}

// Empty returns an empty collection.
func Empty() State {
	return State{Entries: []models.CaughtEntry{}}
}

// Len returns the number of distinct entries.
func (s State) Len() int {
	return len(s.Entries)
}

// Index returns the position of id in the entry sequence or -1.
func (s State) Index(id int) int {
	for i, e := range s.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the entry for id.
func (s State) Get(id int) (models.CaughtEntry, bool) {
	i := s.Index(id)
	if i < 0 {
		return models.CaughtEntry{}, false
	}
	return s.Entries[i], true
}

// Count returns the stacked count for id, 0 when absent.
func (s State) Count(id int) int {
	if e, ok := s.Get(id); ok {
		return e.Count
	}
	return 0
}

// Total returns the sum of all counts.
func (s State) Total() int {
	total := 0
	for _, e := range s.Entries {
		total += e.Count
	}
	return total
}

// CanEvolve reports whether id holds enough copies to evolve.
func (s State) CanEvolve(id int) bool {
	return s.Count(id) >= EvolveCost
}

// clone copies the entry slice so reducers never alias the input.
func (s State) clone() State {
	entries := make([]models.CaughtEntry, len(s.Entries))
	copy(entries, s.Entries)
	return State{
		Entries:           entries,
		LastMutatedID:     s.LastMutatedID,
		EvolutionTargetID: s.EvolutionTargetID,
	}
}

func intPtr(v int) *int {
	return &v
}

// AddOne stacks one catch of ref. An existing entry is incremented; otherwise a
// new entry with count 1 and the given stage is appended.
func AddOne(s State, ref models.PokemonRef, stage int) State {
	next := s.clone()
	if stage < 0 {
		stage = 0
	}

	if i := next.Index(ref.ID); i >= 0 {
		next.Entries[i].Count++
	} else {
		next.Entries = append(next.Entries, models.CaughtEntry{
			PokemonRef: ref,
			Count:      1,
			Stage:      stage,
		})
	}

	if next.EvolutionTargetID == nil {
		next.LastMutatedID = intPtr(ref.ID)
	}
	return next
}

// RemoveOne releases one copy of id. Unknown ids are a no-op.
func RemoveOne(s State, id int) State {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	return removeN(s, i, 1)
}

// removeN deducts n copies from the entry at index i, dropping it at zero.
func removeN(s State, i, n int) State {
	next := s.clone()
	id := next.Entries[i].ID

	if next.Entries[i].Count > n {
		next.Entries[i].Count -= n
		return next
	}

	next.Entries = append(next.Entries[:i], next.Entries[i+1:]...)
	if next.LastMutatedID != nil && *next.LastMutatedID == id {
		next.LastMutatedID = nil
	}
	return next
}

// Evolve trades EvolveCost copies of fromID for one copy of to at toStage.
// It is a no-op when fromID holds fewer than EvolveCost copies or when to is
// the same form.
func Evolve(s State, fromID int, to models.PokemonRef, toStage int) State {
	i := s.Index(fromID)
	if i < 0 || s.Entries[i].Count < EvolveCost || to.ID == fromID {
		return s
	}

	next := s.clone()
	next.EvolutionTargetID = intPtr(to.ID)
	next = removeN(next, i, EvolveCost)
	next = AddOne(next, to, toStage)
	next.EvolutionTargetID = nil
	next.LastMutatedID = intPtr(to.ID)
	return next
}

// Clear drops every entry.
func Clear(State) State {
	return Empty()
}

// ConsumeFocus returns the pending focus id and a state with it cleared.
func ConsumeFocus(s State) (State, *int) {
	if s.LastMutatedID == nil {
		return s, nil
	}
	id := *s.LastMutatedID
	next := s.clone()
	next.LastMutatedID = nil
	return next, &id
}

// Sanitize restores the collection invariants on externally loaded entries:
// non-positive counts are dropped, duplicate ids keep the first occurrence and
// negative stages are clamped to 0.
func Sanitize(entries []models.CaughtEntry) State {
	seen := make(map[int]bool, len(entries))
	clean := make([]models.CaughtEntry, 0, len(entries))
	for _, e := range entries {
		if e.Count <= 0 || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if e.Stage < 0 {
			e.Stage = 0
		}
		clean = append(clean, e)
	}
	return State{Entries: clean}
}
