package stats

import (
	"fmt"
	"strings"

	"github.com/evopond/pond/internal/vm/opcode"
)

// PondSnapshot is the subset of aggregate pond queries a report line needs,
// kept separate from internal/pond's concrete Pond type so this package
// does not need to import it.
type PondSnapshot struct {
	TotalEnergy            uint64
	TotalActiveCells       uint64
	TotalViableReplicators uint64
	MaxGeneration          uint64
}

// ReportLine formats the CSV report line of spec §6:
//
//	clock, total_energy, total_active_cells, total_viable_replicators,
//	max_generation, viable_cell_replaced, viable_cells_killed,
//	viable_cell_shares, <16 per-instruction rates>, metabolism
func (s *Statistics) ReportLine(snap PondSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d,%d,%d,%d,%d,%d,%d,%d",
		s.Clock,
		snap.TotalEnergy,
		snap.TotalActiveCells,
		snap.TotalViableReplicators,
		snap.MaxGeneration,
		s.ViableCellReplaced,
		s.ViableCellsKilled,
		s.ViableCellShares,
	)
	for op := opcode.Code(0); int(op) < opcode.Count; op++ {
		fmt.Fprintf(&b, ",%.4f", s.InstructionRate(op))
	}
	fmt.Fprintf(&b, ",%.4f", s.Metabolism())
	return b.String()
}
