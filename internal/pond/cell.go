// Package pond implements the toroidal grid of cells: cell state, the
// access-control predicate that gates Share/Kill/reproduction, and
// neighbor/aggregate queries over the grid.
package pond

import (
	"math/bits"

	"github.com/evopond/pond/internal/genome"
)

// CellID uniquely identifies a cell instance ever created during a run.
type CellID uint64

// NoParent marks a cell that has never been born from another: the
// initial population, inflow-spawned cells, and just-killed cells.
const NoParent CellID = 0

// IDGenerator hands out monotonically increasing CellIDs. Zero is reserved
// for NoParent, so the first generated id is 1.
type IDGenerator struct {
	current CellID
}

// Next returns the next unused id.
func (g *IDGenerator) Next() CellID {
	g.current++
	return g.current
}

// Cell is one position's full state: identity/lineage bookkeeping, energy,
// and its genome.
type Cell struct {
	ID         CellID
	HasParent  bool
	ParentID   CellID
	Lineage    CellID
	Generation uint64
	Energy     uint64
	Genome     genome.Genome
}

// Active reports whether the cell holds energy to spend.
func (c *Cell) Active() bool {
	return c.Energy > 0
}

// ViableReplicator reports whether c is an active cell descended far enough
// to count as an established lineage (generation > 2).
func (c *Cell) ViableReplicator() bool {
	return c.Active() && c.Generation > 2
}

// Interaction selects which direction of the access-control predicate
// applies: Positive for Share (succeeds on similarity), Negative for Kill
// and reproduction (succeeds on dissimilarity).
type Interaction int

const (
	Positive Interaction = iota
	Negative
)

// CanBeAccessed implements the popcount/threshold access-control predicate
// of spec §4.3. guess is the attacking cell's register; threshold is a
// freshly drawn random nibble per attempt.
func (c *Cell) CanBeAccessed(guess byte, interaction Interaction, threshold byte) bool {
	if !c.HasParent {
		return true
	}
	g4 := guess & 0x0F
	t4 := threshold & 0x0F
	h := byte(bits.OnesCount8((c.Genome[0] & 0x0F) ^ g4))
	switch interaction {
	case Positive:
		return t4 >= h
	case Negative:
		return t4 <= h
	default:
		return false
	}
}

// wipe resets a cell to the parentless "just killed" state described in
// spec §4.5 (Kill) and §4.4 (replace): fresh id, no parent, lineage equal
// to its own new id, generation zero. The genome and energy are left
// untouched; Replace, its caller, sets both itself. Kill in internal/vm does
// not call this helper and resets the neighbor's fields directly.
func (c *Cell) wipe(id CellID) {
	c.ID = id
	c.HasParent = false
	c.ParentID = NoParent
	c.Lineage = id
	c.Generation = 0
}
