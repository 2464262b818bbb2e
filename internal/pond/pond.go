package pond

import "github.com/evopond/pond/internal/genome"

// DefaultWidth and DefaultHeight are POND_WIDTH and POND_HEIGHT.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// InflowRateBase is the energy a freshly replaced cell is given
// (INFLOW_RATE_BASE).
const InflowRateBase = 1000

// KillPenalty is the rational fraction of a failed-Kill attacker's energy
// that is forfeited. The source this system is derived from wrote this as
// an integer division "1/3" that evaluates to zero, making failed kills
// costless; that is flagged as unintentional in spec §9 Open Question 1.
// The default here is the stated intent: a genuine 1/3 penalty.
type KillPenalty struct {
	Numerator, Denominator uint64
}

// Apply returns energy reduced by the penalty fraction, saturating at
// zero.
func (p KillPenalty) Apply(energy uint64) uint64 {
	if p.Denominator == 0 {
		return energy
	}
	penalty := (energy * p.Numerator) / p.Denominator
	if penalty >= energy {
		return 0
	}
	return energy - penalty
}

// DefaultKillPenalty is the documented intended fraction, 1/3.
var DefaultKillPenalty = KillPenalty{Numerator: 1, Denominator: 3}

// Config bundles the run parameters a Pond needs beyond its raw dimensions,
// shaped after the independent Go reimplementation in the research
// pack's petri-dish simulator (a Config struct with a package-level
// default rather than hardcoded constants).
type Config struct {
	Width, Height int
	KillPenalty   KillPenalty
}

// DefaultConfig is the specification's own constants.
var DefaultConfig = Config{
	Width:       DefaultWidth,
	Height:      DefaultHeight,
	KillPenalty: DefaultKillPenalty,
}

// Pond is the toroidal grid of cells. It exclusively owns all cells for the
// lifetime of a run; cells are mutated in place, never relocated.
type Pond struct {
	width, height int
	killPenalty   KillPenalty
	cells         []Cell
}

// New constructs an empty pond (every cell inactive, inert genome, no
// parent) per cfg.
func New(cfg Config) *Pond {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		panic("pond: width and height must be positive")
	}
	p := &Pond{
		width:       cfg.Width,
		height:      cfg.Height,
		killPenalty: cfg.KillPenalty,
		cells:       make([]Cell, cfg.Width*cfg.Height),
	}
	inert := genome.Inert()
	for i := range p.cells {
		p.cells[i].Genome = inert
	}
	return p
}

// Width and Height report the grid dimensions.
func (p *Pond) Width() int  { return p.width }
func (p *Pond) Height() int { return p.height }

// KillPenalty reports the configured failed-Kill penalty fraction.
func (p *Pond) KillPenalty() KillPenalty { return p.killPenalty }

func (p *Pond) index(x, y int) int {
	return y*p.width + x
}

// Cell returns unchecked access to the cell at position (x, y). Callers
// must supply coordinates already known to be in range; an out-of-range
// index is a programmer error and panics rather than being reported, per
// spec §7.
func (p *Pond) Cell(x, y int) *Cell {
	return &p.cells[p.index(x, y)]
}

// Neighbor returns the cell adjacent to (x, y) in the given facing, with
// toroidal wraparound. Unlike the lineage this system is derived from, the
// Left case is symmetric with Right/Up/Down (decrements and wraps) rather
// than returning the cell itself; spec §9 Open Question 2 flags the
// asymmetric original as almost certainly a bug and permits this fix,
// documented in DESIGN.md.
func (p *Pond) Neighbor(x, y int, facing Facing) *Cell {
	switch facing {
	case Left:
		if x == 0 {
			x = p.width - 1
		} else {
			x--
		}
	case Right:
		x = (x + 1) % p.width
	case Up:
		y = (y + 1) % p.height
	case Down:
		if y == 0 {
			y = p.height - 1
		} else {
			y--
		}
	}
	return p.Cell(x, y)
}

// Replace overwrites the cell at (x, y) with a fresh state: the given id,
// no parent, lineage equal to its own id, generation zero, full inflow
// energy, and the given genome. Used both for initial population and
// periodic inflow events.
func (p *Pond) Replace(x, y int, id CellID, g genome.Genome) {
	c := p.Cell(x, y)
	c.wipe(id)
	c.Energy = InflowRateBase
	c.Genome = g
}

// TotalEnergy sums energy over every cell, active or not (inactive cells
// contribute zero).
func (p *Pond) TotalEnergy() uint64 {
	var total uint64
	for i := range p.cells {
		total += p.cells[i].Energy
	}
	return total
}

// TotalActiveCells counts cells with Energy > 0.
func (p *Pond) TotalActiveCells() uint64 {
	var total uint64
	for i := range p.cells {
		if p.cells[i].Active() {
			total++
		}
	}
	return total
}

// TotalViableReplicators counts active cells with Generation > 2.
func (p *Pond) TotalViableReplicators() uint64 {
	var total uint64
	for i := range p.cells {
		if p.cells[i].ViableReplicator() {
			total++
		}
	}
	return total
}

// MaxGeneration returns the highest Generation among active cells, or zero
// if none are active.
func (p *Pond) MaxGeneration() uint64 {
	var max uint64
	for i := range p.cells {
		if p.cells[i].Active() && p.cells[i].Generation > max {
			max = p.cells[i].Generation
		}
	}
	return max
}
