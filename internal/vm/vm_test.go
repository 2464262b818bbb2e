package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evopond/pond/internal/genome"
	"github.com/evopond/pond/internal/pond"
	"github.com/evopond/pond/internal/prng"
	"github.com/evopond/pond/internal/stats"
	"github.com/evopond/pond/internal/vm"
	"github.com/evopond/pond/internal/vm/opcode"
)

func newTestPond(t *testing.T) *pond.Pond {
	t.Helper()
	return pond.New(pond.Config{Width: 4, Height: 4, KillPenalty: pond.DefaultKillPenalty})
}

// S1 — an inert cell (all-Stop genome) executes Stop once and halts, with
// no mutation and no neighbor interaction.
func TestInertCellExecutesStopOnce(t *testing.T) {
	p := newTestPond(t)
	var ids pond.IDGenerator
	rng := prng.New(1, 2)
	var st stats.Statistics

	cell := p.Cell(0, 0)
	cell.Genome = genome.Inert()
	cell.Energy = 100

	v := vm.New(p, &ids, rng, &st, 0, 0)
	v.Execute()

	assert.Equal(t, uint64(99), cell.Energy)
	assert.Equal(t, uint64(1), st.CellExecutions)
	assert.Equal(t, uint64(1), st.InstructionExecutions[opcode.Stop])
}

// S2 — a parentless cell's access-control check always succeeds.
func TestParentlessCellAlwaysAccessible(t *testing.T) {
	var c pond.Cell
	c.HasParent = false
	for g := 0; g < 16; g++ {
		for th := 0; th < 16; th++ {
			assert.True(t, c.CanBeAccessed(byte(g), pond.Positive, byte(th)))
			assert.True(t, c.CanBeAccessed(byte(g), pond.Negative, byte(th)))
		}
	}
}

// S3 — Share between two live, parentless cells splits their combined
// energy as evenly as integer division allows. Every fetched instruction
// costs A one energy first: Inc and Turn leave A at 98, Share's own fetch
// leaves 97, so the split is of 97+50=147 (B gets 73, A keeps 74), and the
// final Stop takes A to 73.
func TestShareSplitsEnergy(t *testing.T) {
	p := newTestPond(t)
	var ids pond.IDGenerator
	var st stats.Statistics

	a := p.Cell(0, 0)
	a.Energy = 100
	b := p.Cell(1, 0) // Right neighbor of (0,0)
	b.Energy = 50

	// Build a genome for A: Turn (facing=Right needs register=1), then
	// Share, then Stop. register starts 0 so first Inc it to 1, Turn,
	// Share, Stop.
	g := genome.Inert()
	c := genome.NewCursor()
	write := func(op opcode.Code) {
		g.Set(c, byte(op))
		c.Advance()
	}
	write(opcode.Inc)   // register = 1
	write(opcode.Turn)  // facing = Right
	write(opcode.Share) // share with neighbor
	write(opcode.Stop)
	a.Genome = g

	rng := prng.New(9, 13) // arbitrary; Share doesn't need an rng draw to find a parentless neighbor... it does (threshold draw) but parentless always succeeds regardless of threshold.
	v := vm.New(p, &ids, rng, &st, 0, 0)
	v.Execute()

	assert.Equal(t, uint64(73), a.Energy)
	assert.Equal(t, uint64(73), b.Energy)
}

// S4 — a failed Kill costs the attacker the configured penalty fraction.
func TestFailedKillAppliesPenalty(t *testing.T) {
	p := newTestPond(t)
	var ids pond.IDGenerator
	var st stats.Statistics

	a := p.Cell(0, 0)
	a.Energy = 300
	defender := p.Cell(1, 0)
	defender.HasParent = true
	defender.Genome[0] = 0x00 // low nibble 0

	g := genome.Inert()
	c := genome.NewCursor()
	write := func(op opcode.Code) {
		g.Set(c, byte(op))
		c.Advance()
	}
	write(opcode.Inc)  // register = 1, facing right after Turn
	write(opcode.Turn) // facing = Right
	write(opcode.Kill) // attempt to kill the Right neighbor
	write(opcode.Stop)
	a.Genome = g

	// The Kill threshold is drawn from the PRNG per attempt (spec §4.3),
	// so whether this particular attempt succeeds or fails depends on the
	// seed. Assert the only two outcomes the formula allows rather than
	// pin a specific seed's draw.
	rng := prng.New(3, 4)
	v := vm.New(p, &ids, rng, &st, 0, 0)
	v.Execute()

	// Whatever the draw, the only two outcomes are: kill succeeds (A pays
	// only the four fetches, 300-4=296) or kill fails (A holds 297 when
	// Kill runs, loses floor(297/3)=99, then Stop's fetch leaves 197).
	require.True(t, a.Energy == 296 || a.Energy == 197,
		"energy should carry only the fetch costs on success or the 1/3 penalty on failure, got %d", a.Energy)
}

// S5 — Loop/Rep, once the loop stack empties, falls through rather than
// looping forever: execRep is a no-op on an empty stack (vm.go, matching
// the original source's unconditional loop_stack.pop() in cell_vm.rs), so
// the second Rep here does nothing and execution reaches Stop.
//
// Genome: Inc, Loop, Inc, Rep, Stop. Trace with register starting at 0:
//
//	1. Inc:  register = 1
//	2. Loop: register != 0, push the cursor just past Loop (pointing at the
//	   second Inc)
//	3. Inc:  register = 2
//	4. Rep:  pop the pushed cursor, register > 0, jump back to it
//	5. Inc:  register = 3
//	6. Rep:  stack is now empty, no-op, cursor continues forward
//	7. Stop: halts
//
// Seven fetches, so energy drops by 7 and Stop is counted once.
func TestLoopRepFallsThroughOnceStackEmpties(t *testing.T) {
	p := newTestPond(t)
	var ids pond.IDGenerator
	rng := prng.New(1, 1)
	var st stats.Statistics

	cell := p.Cell(0, 0)
	g := genome.Inert()
	c := genome.NewCursor()
	write := func(op opcode.Code) {
		g.Set(c, byte(op))
		c.Advance()
	}
	write(opcode.Inc)
	write(opcode.Loop)
	write(opcode.Inc)
	write(opcode.Rep)
	write(opcode.Stop)
	cell.Genome = g
	cell.Energy = 50

	v := vm.New(p, &ids, rng, &st, 0, 0)
	v.Execute()

	assert.Equal(t, uint64(50-7), cell.Energy)
	assert.Equal(t, uint64(1), st.InstructionExecutions[opcode.Stop])
}

// S6 — reproduction into a neighbor copies the output genome and updates
// lineage bookkeeping, inheriting rather than resetting the victim's
// energy.
func TestReproductionIntoNeighbor(t *testing.T) {
	p := newTestPond(t)
	var ids pond.IDGenerator
	var st stats.Statistics

	attacker := p.Cell(0, 0)
	attacker.ID = 7
	attacker.Lineage = 7
	attacker.Generation = 4
	attacker.Energy = 1000

	// Parentless, so CanBeAccessed is unconditional (spec §4.3) regardless
	// of what threshold this seed's PRNG draw produces.
	victim := p.Cell(1, 0)
	victim.Energy = 42
	victim.Generation = 5 // viable: generation > 2

	// Genome: Inc(register=1) Turn(face Right) Inc(register=2) and one
	// WriteBuffer so output byte 0 becomes 0xF2 rather than 0xFF, then Stop so
	// reproduction runs against the faced neighbor.
	g := genome.Inert()
	c := genome.NewCursor()
	write := func(op opcode.Code) {
		g.Set(c, byte(op))
		c.Advance()
	}
	write(opcode.Inc)         // register = 1
	write(opcode.Turn)        // facing = Right
	write(opcode.Inc)         // register = 2
	write(opcode.WriteBuffer) // output[0] low nibble = 2
	write(opcode.Stop)
	attacker.Genome = g

	rng := prng.New(2, 2)
	v := vm.New(p, &ids, rng, &st, 0, 0)
	v.Execute()

	assert.NotEqual(t, pond.CellID(0), victim.ID)
	assert.True(t, victim.HasParent)
	assert.Equal(t, pond.CellID(7), victim.ParentID)
	assert.Equal(t, pond.CellID(7), victim.Lineage)
	assert.Equal(t, uint64(5), victim.Generation)
	assert.Equal(t, uint64(42), victim.Energy) // energy inherited, not reset
	assert.Equal(t, uint64(1), st.ViableCellReplaced)
}

// Xchg reads and overwrites the nibble at input_pointer *after* its own
// advance (vm.go execXchg), not the nibble it was fetched from — so against
// an otherwise-inert genome it swaps with byte0's high nibble (0xF), not
// byte1's. That leaves input_pointer at byte1's low nibble, which is Stop,
// so a second instruction (Stop) executes before the cell halts.
func TestXchgSwapsAndAdvances(t *testing.T) {
	p := newTestPond(t)
	var ids pond.IDGenerator
	rng := prng.New(1, 1)
	var st stats.Statistics

	cell := p.Cell(0, 0)
	g := genome.Inert()
	c := genome.NewCursor()
	g.Set(c, byte(opcode.Xchg))
	cell.Genome = g
	cell.Energy = 10

	v := vm.New(p, &ids, rng, &st, 0, 0)
	v.Execute()

	assert.Equal(t, uint64(10-2), cell.Energy)
	assert.Equal(t, byte(0xF), v.Register())
	assert.Equal(t, byte(0x0C), cell.Genome[0]) // high nibble zeroed, low nibble (Xchg) untouched
}
