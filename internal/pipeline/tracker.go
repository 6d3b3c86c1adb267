package pipeline

import "github.com/christopher-nash/DMBA-claims-history-parser/internal/entity"

// Tracker holds the claim header that rows are stamped with. A page that
// prints a claim number replaces it outright; other pages leave it alone.
type Tracker struct {
	active *entity.ClaimHeader
}

func NewTracker() *Tracker { return &Tracker{} }

// Observe feeds the header found on a page and returns the header now in
// effect, nil if no claim has been seen yet. replaced is true when h started
// a new context.
func (t *Tracker) Observe(h entity.ClaimHeader) (active *entity.ClaimHeader, replaced bool) {
	if h.HasClaim() {
		c := h
		t.active = &c
		replaced = true
	}
	return t.Active(), replaced
}

// Active returns a copy of the current header.
func (t *Tracker) Active() *entity.ClaimHeader {
	if t.active == nil {
		return nil
	}
	c := *t.active
	return &c
}
