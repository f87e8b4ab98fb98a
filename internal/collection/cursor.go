package collection

import (
	"github.com/ramonehamilton/pokemon-catcher/internal/storage/models"
)

// Cursor is the viewer position over the entry sequence.
//
// Focus policy after a transition: a pending focus id that is present wins;
// otherwise the cursor keeps its index, clamped to the new length.
type Cursor struct {
	index int
}

// Index returns the current position.
func (c *Cursor) Index() int {
	return c.index
}

// Current returns the focused entry, if any.
func (c *Cursor) Current(s State) (models.CaughtEntry, bool) {
	if s.Len() == 0 || c.index < 0 || c.index >= s.Len() {
		return models.CaughtEntry{}, false
	}
	return s.Entries[c.index], true
}

// Sync repositions the cursor for the given state. focus is the pending focus
// id, usually obtained from Store.View.
func (c *Cursor) Sync(s State, focus *int) {
	if s.Len() == 0 {
		c.index = 0
		return
	}
	if focus != nil {
		if i := s.Index(*focus); i >= 0 {
			c.index = i
			return
		}
	}
	c.index = clamp(c.index, s.Len())
}

// Next moves forward, wrapping to the first entry.
func (c *Cursor) Next(s State) {
	if s.Len() == 0 {
		c.index = 0
		return
	}
	c.index = (clamp(c.index, s.Len()) + 1) % s.Len()
}

// Prev moves backward, wrapping to the last entry.
func (c *Cursor) Prev(s State) {
	if s.Len() == 0 {
		c.index = 0
		return
	}
	i := clamp(c.index, s.Len())
	if i == 0 {
		c.index = s.Len() - 1
		return
	}
	c.index = i - 1
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
