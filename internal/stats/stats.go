// Package stats accumulates execution counters for a run and formats the
// periodic CSV report line described in spec §6.
package stats

import "github.com/evopond/pond/internal/vm/opcode"

// InstructionCounter tallies executions of each of the 16 instructions,
// indexed by opcode.Code. A fixed-size array mirrors the source's
// one-field-per-variant layout without the boilerplate accessor methods
// spec §9 calls purely stylistic.
type InstructionCounter [opcode.Count]uint64

// Statistics holds the run's monotone counters for one report window.
// clock is never reset by Zero; everything else is.
type Statistics struct {
	InstructionExecutions InstructionCounter
	CellExecutions        uint64
	Clock                 uint64
	ViableCellsKilled     uint64
	ViableCellShares      uint64
	ViableCellReplaced    uint64
}

// Zero resets every counter except Clock, matching spec §3: statistics are
// monotone within a report window, and the window boundary zeroes
// everything but the run's overall clock.
func (s *Statistics) Zero() {
	clock := s.Clock
	*s = Statistics{Clock: clock}
}

// Metabolism is the mean number of instructions executed per cell
// execution across all 16 opcodes, zero if no cell has executed yet.
func (s *Statistics) Metabolism() float64 {
	if s.CellExecutions == 0 {
		return 0
	}
	var total uint64
	for _, n := range s.InstructionExecutions {
		total += n
	}
	return float64(total) / float64(s.CellExecutions)
}

// InstructionRate returns executions[op] / CellExecutions, zero if no cell
// has executed yet.
func (s *Statistics) InstructionRate(op opcode.Code) float64 {
	if s.CellExecutions == 0 {
		return 0
	}
	return float64(s.InstructionExecutions[op]) / float64(s.CellExecutions)
}
