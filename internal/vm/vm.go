// Package vm implements the per-tick genome interpreter: instruction
// dispatch, the loop/skip stack machinery, mutation, neighbor interactions,
// and reproduction. This is the core of the simulation (spec §4.5-§4.8).
package vm

import (
	"github.com/evopond/pond/internal/genome"
	"github.com/evopond/pond/internal/pond"
	"github.com/evopond/pond/internal/prng"
	"github.com/evopond/pond/internal/stats"
	"github.com/evopond/pond/internal/vm/opcode"
)

// MutationRate is the threshold a freshly drawn PRNG word is compared
// against at every instruction fetch (MUTATION_RATE).
const MutationRate = 5000

// VM is a single cell execution's transient state. It is scoped to one
// call to Execute and shares the pond, id generator, PRNG, and statistics
// with whichever other VM executes next — never with one executing
// concurrently; spec §5 requires a VM only ever touch its own cell and one
// neighbor, and only one VM runs at a time.
type VM struct {
	pond  *pond.Pond
	ids   *pond.IDGenerator
	rng   *prng.Generator
	stats *stats.Statistics

	x, y int
	self *pond.Cell

	inputPointer  genome.Cursor
	outputPointer genome.Cursor
	register      byte
	output        genome.Genome
	facing        pond.Facing
	running       bool
	loopStack     []genome.Cursor
	skipDepth     int
}

// New binds a VM to a single cell position. The cell must already exist in
// p (it need not be active; an inactive cell's Execute returns
// immediately, since the control loop's first check is energy > 0).
func New(p *pond.Pond, ids *pond.IDGenerator, rng *prng.Generator, st *stats.Statistics, x, y int) *VM {
	return &VM{
		pond:          p,
		ids:           ids,
		rng:           rng,
		stats:         st,
		x:             x,
		y:             y,
		self:          p.Cell(x, y),
		inputPointer:  genome.NewCursor(),
		outputPointer: genome.NewCursor(),
		output:        genome.Inert(),
		facing:        pond.Left,
		running:       true,
		loopStack:     make([]genome.Cursor, 0, genome.Depth),
	}
}

// Register reports the VM's current register value, for callers (tests,
// diagnostics) that need to observe state Execute doesn't otherwise expose.
func (v *VM) Register() byte { return v.register }

// Execute runs the bound cell's genome to completion: until its energy is
// exhausted or it executes Stop, then attempts reproduction into its
// currently faced neighbor.
func (v *VM) Execute() {
	v.stats.CellExecutions++
	for v.self.Energy > 0 && v.running {
		v.maybeMutate()
		v.self.Energy--

		op := opcode.From(v.self.Genome.Get(v.inputPointer))
		v.inputPointer.Advance()
		v.stats.InstructionExecutions[op]++

		if v.skipDepth == 0 {
			v.dispatch(op)
		} else if op == opcode.Loop {
			v.skipDepth++
		} else if op == opcode.Rep {
			v.skipDepth--
		}
	}
	v.maybeReproduce()
}

func (v *VM) maybeMutate() {
	if v.rng.GenerateInteger() >= MutationRate {
		return
	}
	m := byte(v.rng.GenerateInteger()) & 0x0F
	if v.rng.GenerateBoolean() {
		v.self.Genome.Set(v.inputPointer, m)
	} else {
		v.register = m
	}
}

func (v *VM) dispatch(op opcode.Code) {
	switch op {
	case opcode.Zero:
		v.outputPointer = genome.NewCursor()
		v.facing = pond.Left
		v.register = 0
	case opcode.Fwd:
		v.outputPointer.Advance()
	case opcode.Back:
		v.outputPointer.Retreat()
	case opcode.Inc:
		v.register = (v.register + 1) & 0x0F
	case opcode.Dec:
		v.register = (v.register - 1) & 0x0F
	case opcode.ReadGenome:
		v.register = v.self.Genome.Get(v.inputPointer)
	case opcode.WriteGenome:
		v.self.Genome.Set(v.inputPointer, v.register)
	case opcode.ReadBuffer:
		v.register = v.output.Get(v.outputPointer)
	case opcode.WriteBuffer:
		v.output.Set(v.outputPointer, v.register)
	case opcode.Loop:
		v.execLoop()
	case opcode.Rep:
		v.execRep()
	case opcode.Turn:
		v.facing = pond.FacingFrom(v.register)
	case opcode.Xchg:
		v.execXchg()
	case opcode.Kill:
		v.execKill()
	case opcode.Share:
		v.execShare()
	case opcode.Stop:
		v.running = false
	}
}

func (v *VM) execLoop() {
	if v.register == 0 {
		v.skipDepth = 1
		return
	}
	v.loopStack = append(v.loopStack, v.inputPointer)
}

func (v *VM) execRep() {
	if len(v.loopStack) == 0 {
		return
	}
	n := len(v.loopStack) - 1
	cursor := v.loopStack[n]
	v.loopStack = v.loopStack[:n]
	if v.register > 0 {
		v.inputPointer = cursor
	}
}

func (v *VM) execXchg() {
	prev := v.register
	v.register = v.self.Genome.Get(v.inputPointer)
	v.self.Genome.Set(v.inputPointer, prev)
	v.inputPointer.Advance()
}

func (v *VM) execKill() {
	if v.canAccessNeighbor(pond.Negative) {
		neighbor := v.pond.Neighbor(v.x, v.y, v.facing)
		if neighbor.ViableReplicator() {
			v.stats.ViableCellsKilled++
		}
		newID := v.ids.Next()
		neighbor.Genome[0] = 0xFF
		neighbor.Genome[1] = 0xFF
		neighbor.ID = newID
		neighbor.HasParent = false
		neighbor.ParentID = pond.NoParent
		neighbor.Lineage = newID
		neighbor.Generation = 0
		return
	}
	v.self.Energy = v.pond.KillPenalty().Apply(v.self.Energy)
}

func (v *VM) execShare() {
	if !v.canAccessNeighbor(pond.Positive) {
		return
	}
	neighbor := v.pond.Neighbor(v.x, v.y, v.facing)
	if neighbor.ViableReplicator() {
		v.stats.ViableCellShares++
	}
	total := v.self.Energy + neighbor.Energy
	neighborShare := total / 2
	neighbor.Energy = neighborShare
	v.self.Energy = total - neighborShare
}

func (v *VM) maybeReproduce() {
	neighbor := v.pond.Neighbor(v.x, v.y, v.facing)
	if neighbor.Energy == 0 {
		return
	}
	if v.output[0] == 0xFF {
		return
	}
	if !v.canAccessNeighbor(pond.Negative) {
		return
	}
	if neighbor.ViableReplicator() {
		v.stats.ViableCellReplaced++
	}
	neighbor.ID = v.ids.Next()
	neighbor.HasParent = true
	neighbor.ParentID = v.self.ID
	neighbor.Lineage = v.self.Lineage
	neighbor.Generation = v.self.Generation + 1
	neighbor.Genome = v.output
}

func (v *VM) canAccessNeighbor(interaction pond.Interaction) bool {
	threshold := byte(v.rng.GenerateInteger())
	neighbor := v.pond.Neighbor(v.x, v.y, v.facing)
	return neighbor.CanBeAccessed(v.register, interaction, threshold)
}
